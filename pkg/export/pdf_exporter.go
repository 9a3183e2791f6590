package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/jung-kurt/gofpdf"
)

// jpegQuality is the fixed high-but-lossy compression applied to the raster
// embedded in PDF output.
const jpegQuality = 90

// PDFExporter renders a card raster onto a single card-sized PDF page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render embeds the image on a page matching the card aspect ratio. The
// page is sized in points from the layout dimensions so the card prints at
// its intended proportions.
func (e *PDFExporter) Render(img image.Image, widthPt, heightPt float64) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("pdf requires a rendered image")
	}
	if widthPt <= 0 || heightPt <= 0 {
		return nil, fmt.Errorf("invalid page size %gx%g", widthPt, heightPt)
	}

	raster := &bytes.Buffer{}
	if err := jpeg.Encode(raster, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode card raster: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: widthPt, Ht: heightPt},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("card", opts, raster)
	pdf.ImageOptions("card", 0, 0, widthPt, heightPt, false, opts, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
