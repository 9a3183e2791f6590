package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unity-school/idcard-api/internal/dto"
	"github.com/unity-school/idcard-api/internal/models"
	"github.com/unity-school/idcard-api/internal/render"
	appErrors "github.com/unity-school/idcard-api/pkg/errors"
	"github.com/unity-school/idcard-api/pkg/export"
)

// Export formats accepted by the card export endpoint.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

type cardFinder interface {
	Get(ctx context.Context, id string) (*models.StudentRecord, error)
	List(ctx context.Context) []models.StudentRecord
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(img image.Image, widthPt, heightPt float64) ([]byte, error)
}

// ExportResult is a serialised card ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService rasterises rendered cards into downloadable files.
type ExportService struct {
	cards       cardFinder
	storage     fileStorage
	institution render.Institution
	validity    time.Duration
	filePrefix  string
	csv         csvRenderer
	pdf         pdfRenderer
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(cards cardFinder, storage fileStorage, inst render.Institution, validity time.Duration, filePrefix string, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filePrefix == "" {
		filePrefix = "id-card"
	}
	return &ExportService{
		cards:       cards,
		storage:     storage,
		institution: inst,
		validity:    validity,
		filePrefix:  filePrefix,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		metrics:     metrics,
		logger:      logger,
	}
}

// ExportCard renders the saved card and serialises it in the requested
// format. On any failure no file is produced and the error is surfaced; the
// surrounding flow stays usable.
func (s *ExportService) ExportCard(ctx context.Context, id, format string) (*ExportResult, error) {
	if format == "" {
		format = FormatPNG
	}

	record, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	visual, err := render.Render(*record, s.institution, s.validity)
	if err != nil {
		s.metrics.RecordExport(format, false)
		return nil, err
	}

	var result *ExportResult
	switch format {
	case FormatPNG:
		buf := &bytes.Buffer{}
		if err := png.Encode(buf, visual.Image); err != nil {
			s.metrics.RecordExport(format, false)
			return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "failed to encode card image")
		}
		result = &ExportResult{
			Filename:    s.cardFilename(record.Name, "png"),
			ContentType: "image/png",
			Data:        buf.Bytes(),
		}
	case FormatPDF:
		data, err := s.pdf.Render(visual.Image, render.CardWidth, render.CardHeight)
		if err != nil {
			s.metrics.RecordExport(format, false)
			return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "failed to render card pdf")
		}
		result = &ExportResult{
			Filename:    s.cardFilename(record.Name, "pdf"),
			ContentType: "application/pdf",
			Data:        data,
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format "+format)
	}

	s.archive(result)
	s.metrics.RecordExport(format, true)
	return result, nil
}

// RenderInfo returns the derived display values for a saved card without
// rasterising it: the preview data a client needs to show the composition.
func (s *ExportService) RenderInfo(ctx context.Context, id string) (*dto.RenderResponse, error) {
	record, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.Template.Valid() {
		return nil, appErrors.Clone(appErrors.ErrDataIntegrity, "unknown card template "+string(record.Template))
	}

	tags := make([]string, 0, len(record.Allergies))
	for _, a := range record.Allergies {
		tags = append(tags, string(a))
	}

	return &dto.RenderResponse{
		ID:            record.ID,
		Template:      record.Template,
		Name:          record.Name,
		RollNumber:    record.RollNumber,
		ClassDivision: record.ClassDivision,
		RackNumber:    record.RackNumber,
		BusRouteNo:    record.BusRouteNo,
		ValidUntil:    render.ValidUntil(record.CreatedAt, s.validity),
		AllergyTags:   tags,
		Payload:       render.EncodePayload(*record),
		HasPhoto:      record.Photo != "",
	}, nil
}

// ExportRoster serialises all saved cards as CSV.
func (s *ExportService) ExportRoster(ctx context.Context) (*ExportResult, error) {
	records := s.cards.List(ctx)

	headers := []string{"id", "name", "rollNumber", "classDivision", "rackNumber", "busRouteNumber", "allergies", "template", "createdAt"}
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		tags := make([]string, len(r.Allergies))
		for i, a := range r.Allergies {
			tags[i] = string(a)
		}
		rows = append(rows, map[string]string{
			"id":             r.ID,
			"name":           r.Name,
			"rollNumber":     r.RollNumber,
			"classDivision":  string(r.ClassDivision),
			"rackNumber":     r.RackNumber,
			"busRouteNumber": string(r.BusRouteNo),
			"allergies":      strings.Join(tags, "; "),
			"template":       string(r.Template),
			"createdAt":      strconv.FormatInt(r.CreatedAt, 10),
		})
	}

	data, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "failed to render roster csv")
	}

	result := &ExportResult{
		Filename:    s.filePrefix + "-roster.csv",
		ContentType: "text/csv",
		Data:        data,
	}
	s.archive(result)
	return result, nil
}

// archive keeps a copy of the export on disk. Archival failure is logged
// but never fails the download.
func (s *ExportService) archive(result *ExportResult) {
	if s.storage == nil {
		return
	}
	if _, err := s.storage.Save(result.Filename, result.Data); err != nil {
		s.logger.Warn("failed to archive export", zap.String("filename", result.Filename), zap.Error(err))
	}
}

func (s *ExportService) cardFilename(name, ext string) string {
	return s.filePrefix + "-" + Slugify(name) + "." + ext
}

// Slugify lower-cases the name and collapses whitespace runs into single
// hyphens for use in download filenames.
func Slugify(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "-")
}
