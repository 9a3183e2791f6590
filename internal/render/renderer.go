package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"

	"github.com/unity-school/idcard-api/internal/models"
	appErrors "github.com/unity-school/idcard-api/pkg/errors"
)

// Card geometry in layout units; the raster is drawn at Scale device pixels
// per unit (320x480 at 2x).
const (
	CardWidth  = 320
	CardHeight = 480
	Scale      = 2

	qrSize = 120
)

// Institution carries the static header/footer text printed on every card.
type Institution struct {
	Name    string
	Tagline string
	Address string
	Phone   string
}

// VisualCard is a realized card visual: the raster plus the derived display
// values, exposed so the composition can be inspected without decoding the
// image.
type VisualCard struct {
	Template    models.CardTemplate
	Image       image.Image
	ValidUntil  string
	Payload     string
	AllergyTags []string
}

// Renderer turns a student record into a realized card visual.
type Renderer interface {
	Render(record models.StudentRecord) (*VisualCard, error)
}

// ForTemplate dispatches over the closed template enumeration. Unknown
// values are a data-integrity failure, never a silent fallback to a default
// variant.
func ForTemplate(t models.CardTemplate, inst Institution, validity time.Duration) (Renderer, error) {
	switch t {
	case models.TemplateModern:
		return &ModernTemplate{Institution: inst, Validity: validity}, nil
	case models.TemplateClassic:
		return &ClassicTemplate{Institution: inst, Validity: validity}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrDataIntegrity, "unknown card template "+string(t))
	}
}

// Render renders record with the variant stored on the record itself, so a
// saved card always reproduces the visual chosen at creation time.
func Render(record models.StudentRecord, inst Institution, validity time.Duration) (*VisualCard, error) {
	r, err := ForTemplate(record.Template, inst, validity)
	if err != nil {
		return nil, err
	}
	return r.Render(record)
}

// allergyTags returns the allergy names for display; nil when the record
// carries none so both variants omit the section entirely.
func allergyTags(record models.StudentRecord) []string {
	if len(record.Allergies) == 0 {
		return nil
	}
	tags := make([]string, len(record.Allergies))
	for i, a := range record.Allergies {
		tags[i] = string(a)
	}
	return tags
}

// decodePhoto decodes the binary-as-text photo field, tolerating a data URI
// prefix. A nil return means the placeholder should be drawn; presence was
// already enforced at the form boundary.
func decodePhoto(encoded string) image.Image {
	if encoded == "" {
		return nil
	}
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	return img
}

// qrImage encodes the payload at fixed Low error correction and fixed pixel
// size.
func qrImage(payload string, sidePx int) (image.Image, error) {
	qr, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, err
	}
	return qr.Image(sidePx), nil
}

// scaleImage resizes src to cover the w x h box, cropping the overflow so
// the subject stays centred.
func scaleImage(src image.Image, w, h int) image.Image {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	srcRatio := float64(sb.Dx()) / float64(sb.Dy())
	dstRatio := float64(w) / float64(h)

	crop := sb
	if srcRatio > dstRatio {
		cw := int(float64(sb.Dy()) * dstRatio)
		x0 := sb.Min.X + (sb.Dx()-cw)/2
		crop = image.Rect(x0, sb.Min.Y, x0+cw, sb.Max.Y)
	} else if srcRatio < dstRatio {
		ch := int(float64(sb.Dx()) / dstRatio)
		y0 := sb.Min.Y + (sb.Dy()-ch)/2
		crop = image.Rect(sb.Min.X, y0, sb.Max.X, y0+ch)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, crop, xdraw.Over, nil)
	return dst
}

// newCanvas prepares a white card canvas at device scale.
func newCanvas() *gg.Context {
	dc := gg.NewContext(CardWidth*Scale, CardHeight*Scale)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	return dc
}

// px converts layout units to device pixels.
func px(units float64) float64 {
	return units * Scale
}
