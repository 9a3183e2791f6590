package render

import (
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"

	"github.com/unity-school/idcard-api/internal/models"
	appErrors "github.com/unity-school/idcard-api/pkg/errors"
)

// ClassicTemplate draws the flat-header variant: circular photo frame and
// stacked, centred fields separated by rule lines.
type ClassicTemplate struct {
	Institution Institution
	Validity    time.Duration
}

// Render implements Renderer.
func (t *ClassicTemplate) Render(record models.StudentRecord) (*VisualCard, error) {
	payload := EncodePayload(record)
	validUntil := ValidUntil(record.CreatedAt, t.Validity)
	tags := allergyTags(record)

	dc := newCanvas()

	// Flat header block, centred text.
	dc.SetHexColor(hexPrimary)
	dc.DrawRectangle(0, 0, px(CardWidth), px(88))
	dc.Fill()

	dc.SetHexColor("#FFFFFF")
	dc.SetFontFace(inconsolata.Bold8x16)
	dc.DrawStringAnchored(t.Institution.Name, px(CardWidth/2), px(30), 0.5, 0.5)
	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawStringAnchored(t.Institution.Tagline, px(CardWidth/2), px(50), 0.5, 0.5)
	dc.DrawStringAnchored("STUDENT IDENTITY CARD", px(CardWidth/2), px(66), 0.5, 0.5)

	t.drawPhoto(dc, record, px(CardWidth/2), px(120), px(52))

	dc.SetHexColor(hexInk)
	dc.SetFontFace(inconsolata.Bold8x16)
	dc.DrawStringAnchored(record.Name, px(CardWidth/2), px(192), 0.5, 0.5)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(hexMuted)
	dc.DrawStringAnchored("Roll No: "+record.RollNumber, px(CardWidth/2), px(208), 0.5, 0.5)
	dc.DrawStringAnchored("Class: "+string(record.ClassDivision), px(CardWidth/2), px(222), 0.5, 0.5)

	rows := []struct{ label, value string }{
		{"Rack Number:", record.RackNumber},
		{"Bus Route:", string(record.BusRouteNo)},
		{"Valid Till:", validUntil},
	}
	y := 244.0
	for _, row := range rows {
		dc.SetHexColor(hexRule)
		dc.SetLineWidth(px(1))
		dc.DrawLine(px(24), px(y), px(CardWidth-24), px(y))
		dc.Stroke()
		dc.SetHexColor(hexMuted)
		dc.DrawString(row.label, px(24), px(y+15))
		dc.SetHexColor(hexInk)
		dc.DrawStringAnchored(row.value, px(CardWidth-24), px(y+15), 1, 0)
		y += 22
	}

	if len(tags) > 0 {
		dc.SetHexColor(hexRule)
		dc.SetLineWidth(px(1))
		dc.DrawLine(px(24), px(310), px(CardWidth-24), px(310))
		dc.Stroke()
		dc.SetHexColor(hexAlertRed)
		dc.SetFontFace(basicfont.Face7x13)
		dc.DrawString("ALLERGIES", px(24), px(324))
		drawTagRow(dc, tags, px(24), px(330), false)
	}

	if err := drawQRBox(dc, payload, px(CardWidth/2), px(352)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "failed to encode scannable code")
	}

	// Footer with return instructions.
	dc.SetHexColor(hexFooterGrey)
	dc.DrawRectangle(0, px(420), px(CardWidth), px(60))
	dc.Fill()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(hexMuted)
	dc.DrawStringAnchored("If found, please return to:", px(CardWidth/2), px(436), 0.5, 0.5)
	dc.SetHexColor(hexInk)
	dc.DrawStringAnchored(t.Institution.Name+", "+t.Institution.Address, px(CardWidth/2), px(452), 0.5, 0.5)
	dc.SetHexColor(hexFaint)
	dc.DrawStringAnchored("Phone: "+t.Institution.Phone, px(CardWidth/2), px(468), 0.5, 0.5)

	return &VisualCard{
		Template:    models.TemplateClassic,
		Image:       dc.Image(),
		ValidUntil:  validUntil,
		Payload:     payload,
		AllergyTags: tags,
	}, nil
}

// drawPhoto renders the circular photo frame centred on cx with radius r.
func (t *ClassicTemplate) drawPhoto(dc *gg.Context, record models.StudentRecord, cx, cy, r float64) {
	// White ring behind the photo.
	dc.SetHexColor("#FFFFFF")
	dc.DrawCircle(cx, cy, r+px(4))
	dc.Fill()

	dc.Push()
	dc.DrawCircle(cx, cy, r)
	dc.Clip()
	side := int(2 * r)
	if photo := decodePhoto(record.Photo); photo != nil {
		dc.DrawImage(scaleImage(photo, side, side), int(cx-r), int(cy-r))
	} else {
		drawPhotoPlaceholder(dc, cx-r, cy-r, 2*r)
	}
	dc.ResetClip()
	dc.Pop()

	dc.SetHexColor(hexRule)
	dc.SetLineWidth(px(1))
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
}
