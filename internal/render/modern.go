package render

import (
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"

	"github.com/unity-school/idcard-api/internal/models"
	appErrors "github.com/unity-school/idcard-api/pkg/errors"
)

// Shared card palette.
const (
	hexPrimary    = "#4F46E5"
	hexInk        = "#1F2937"
	hexMuted      = "#6B7280"
	hexFaint      = "#9CA3AF"
	hexRule       = "#E5E7EB"
	hexTagBg      = "#FEF2F2"
	hexTagText    = "#B91C1C"
	hexAlertRed   = "#EF4444"
	hexLightBand  = "#EEF2FF"
	hexFooterGrey = "#F3F4F6"
)

// ModernTemplate draws the gradient-header variant: rounded-rectangle photo
// frame and inline label/value rows.
type ModernTemplate struct {
	Institution Institution
	Validity    time.Duration
}

// Render implements Renderer.
func (m *ModernTemplate) Render(record models.StudentRecord) (*VisualCard, error) {
	payload := EncodePayload(record)
	validUntil := ValidUntil(record.CreatedAt, m.Validity)
	tags := allergyTags(record)

	dc := newCanvas()

	// Header band with horizontal gradient.
	grad := gg.NewLinearGradient(0, 0, px(CardWidth), 0)
	grad.AddColorStop(0, color.RGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF})
	grad.AddColorStop(1, color.RGBA{R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, px(CardWidth), px(96))
	dc.Fill()

	dc.SetHexColor("#FFFFFF")
	dc.SetFontFace(inconsolata.Bold8x16)
	dc.DrawString(m.Institution.Name, px(16), px(28))
	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawString(m.Institution.Tagline, px(16), px(44))
	dc.DrawString("Student Identity Card", px(16), px(58))

	shortID := record.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	dc.DrawStringAnchored("ID: "+shortID, px(CardWidth-16), px(28), 1, 0)
	dc.DrawStringAnchored("Valid Till: "+validUntil, px(CardWidth-16), px(44), 1, 0)

	// Photo in a rounded frame, identity rows beside it.
	m.drawPhoto(dc, record, px(16), px(112), px(96))

	dc.SetHexColor(hexInk)
	dc.SetFontFace(inconsolata.Bold8x16)
	dc.DrawString(record.Name, px(128), px(126))

	dc.SetFontFace(basicfont.Face7x13)
	rows := []struct{ label, value string }{
		{"Roll No:", record.RollNumber},
		{"Class:", string(record.ClassDivision)},
		{"Rack No:", record.RackNumber},
		{"Bus Route:", string(record.BusRouteNo)},
	}
	y := 146.0
	for _, row := range rows {
		dc.SetHexColor(hexMuted)
		dc.DrawString(row.label, px(128), px(y))
		dc.SetHexColor(hexInk)
		dc.DrawStringAnchored(row.value, px(CardWidth-16), px(y), 1, 0)
		y += 16
	}

	if len(tags) > 0 {
		dc.SetHexColor(hexAlertRed)
		dc.SetFontFace(basicfont.Face7x13)
		dc.DrawString("ALLERGIES", px(16), px(232))
		drawTagRow(dc, tags, px(16), px(242), false)
	}

	if err := drawQRBox(dc, payload, px(CardWidth/2), px(268)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "failed to encode scannable code")
	}

	// Footer band.
	dc.SetHexColor(hexLightBand)
	dc.DrawRectangle(0, px(424), px(CardWidth), px(56))
	dc.Fill()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(hexInk)
	dc.DrawStringAnchored(m.Institution.Name+" - Excellence in Education", px(CardWidth/2), px(444), 0.5, 0.5)
	dc.SetHexColor(hexMuted)
	dc.DrawStringAnchored(m.Institution.Address, px(CardWidth/2), px(460), 0.5, 0.5)

	return &VisualCard{
		Template:    models.TemplateModern,
		Image:       dc.Image(),
		ValidUntil:  validUntil,
		Payload:     payload,
		AllergyTags: tags,
	}, nil
}

func (m *ModernTemplate) drawPhoto(dc *gg.Context, record models.StudentRecord, x, y, side float64) {
	dc.Push()
	dc.DrawRoundedRectangle(x, y, side, side, px(8))
	dc.Clip()
	if photo := decodePhoto(record.Photo); photo != nil {
		dc.DrawImage(scaleImage(photo, int(side), int(side)), int(x), int(y))
	} else {
		drawPhotoPlaceholder(dc, x, y, side)
	}
	dc.ResetClip()
	dc.Pop()

	dc.SetHexColor(hexRule)
	dc.SetLineWidth(px(1))
	dc.DrawRoundedRectangle(x, y, side, side, px(8))
	dc.Stroke()
}

// drawPhotoPlaceholder fills the clipped photo region with the "No Photo"
// fallback. Display-time only; creation already required a photo.
func drawPhotoPlaceholder(dc *gg.Context, x, y, side float64) {
	dc.SetHexColor(hexRule)
	dc.DrawRectangle(x, y, side, side)
	dc.Fill()
	dc.SetHexColor(hexFaint)
	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawStringAnchored("No Photo", x+side/2, y+side/2, 0.5, 0.5)
}

// drawTagRow lays the allergy pills in a single row, wrapping is not needed
// at this vocabulary size.
func drawTagRow(dc *gg.Context, tags []string, x, y float64, centered bool) {
	dc.SetFontFace(basicfont.Face7x13)
	const padX, gap, h = 8.0, 6.0, 16.0

	widths := make([]float64, len(tags))
	total := 0.0
	for i, tag := range tags {
		w, _ := dc.MeasureString(tag)
		widths[i] = w + px(padX)
		total += widths[i]
		if i > 0 {
			total += px(gap)
		}
	}
	if centered {
		x -= total / 2
	}

	for i, tag := range tags {
		dc.SetHexColor(hexTagBg)
		dc.DrawRoundedRectangle(x, y, widths[i], px(h), px(h)/2)
		dc.Fill()
		dc.SetHexColor(hexTagText)
		dc.DrawStringAnchored(tag, x+widths[i]/2, y+px(h)/2, 0.5, 0.5)
		x += widths[i] + px(gap)
	}
}

// drawQRBox renders the scannable code inside a bordered white box centred
// on cx.
func drawQRBox(dc *gg.Context, payload string, cx, top float64) error {
	qr, err := qrImage(payload, int(px(qrSize)))
	if err != nil {
		return err
	}
	boxSide := px(qrSize + 16)
	x := cx - boxSide/2

	dc.SetHexColor("#FFFFFF")
	dc.DrawRoundedRectangle(x, top, boxSide, boxSide, px(6))
	dc.Fill()
	dc.SetHexColor(hexRule)
	dc.SetLineWidth(px(1))
	dc.DrawRoundedRectangle(x, top, boxSide, boxSide, px(6))
	dc.Stroke()

	dc.DrawImage(qr, int(x+px(8)), int(top+px(8)))
	return nil
}
