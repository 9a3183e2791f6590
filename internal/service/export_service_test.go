package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unity-school/idcard-api/internal/models"
	"github.com/unity-school/idcard-api/internal/render"
	appErrors "github.com/unity-school/idcard-api/pkg/errors"
)

type stubFinder struct {
	records []models.StudentRecord
}

func (s *stubFinder) Get(ctx context.Context, id string) (*models.StudentRecord, error) {
	for _, r := range s.records {
		if r.ID == id {
			record := r
			return &record, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "card not found")
}

func (s *stubFinder) List(ctx context.Context) []models.StudentRecord {
	return s.records
}

type stubStorage struct {
	saved map[string][]byte
	err   error
}

func (s *stubStorage) Save(filename string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[filename] = data
	return filename, nil
}

var exportInstitution = render.Institution{
	Name:    "UNITY SCHOOL",
	Tagline: "ST. XAVIER'S COLLEGE",
	Address: "2/4 Park Street, Kolkata",
	Phone:   "+91 33 2222 0000",
}

func exportRecord() models.StudentRecord {
	return models.StudentRecord{
		ID:            "card-1",
		Name:          "Asha Rao",
		RollNumber:    "42",
		ClassDivision: "5B",
		Allergies:     []models.Allergy{models.AllergyPeanuts},
		RackNumber:    "12",
		BusRouteNo:    "R3",
		CreatedAt:     1700000000000,
		Template:      models.TemplateModern,
	}
}

func newTestExportService(finder cardFinder, storage fileStorage) *ExportService {
	return NewExportService(finder, storage, exportInstitution, 365*24*time.Hour, "unity-school", nil, zap.NewNop())
}

func TestExportCardPNG(t *testing.T) {
	storage := &stubStorage{}
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{exportRecord()}}, storage)

	result, err := svc.ExportCard(context.Background(), "card-1", FormatPNG)
	require.NoError(t, err)

	assert.Equal(t, "unity-school-asha-rao.png", result.Filename)
	assert.Equal(t, "image/png", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("\x89PNG")))

	// Archived under the same filename.
	assert.Contains(t, storage.saved, "unity-school-asha-rao.png")
}

func TestExportCardDefaultsToPNG(t *testing.T) {
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{exportRecord()}}, nil)

	result, err := svc.ExportCard(context.Background(), "card-1", "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.ContentType)
}

func TestExportCardPDF(t *testing.T) {
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{exportRecord()}}, nil)

	result, err := svc.ExportCard(context.Background(), "card-1", FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "unity-school-asha-rao.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
}

func TestExportCardUnsupportedFormat(t *testing.T) {
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{exportRecord()}}, nil)

	_, err := svc.ExportCard(context.Background(), "card-1", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestExportCardNotFound(t *testing.T) {
	svc := newTestExportService(&stubFinder{}, nil)

	_, err := svc.ExportCard(context.Background(), "missing", FormatPNG)
	require.Error(t, err)
}

func TestExportCardArchiveFailureNonFatal(t *testing.T) {
	storage := &stubStorage{err: errors.New("disk full")}
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{exportRecord()}}, storage)

	result, err := svc.ExportCard(context.Background(), "card-1", FormatPNG)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Data)
}

func TestRenderInfo(t *testing.T) {
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{exportRecord()}}, nil)

	info, err := svc.RenderInfo(context.Background(), "card-1")
	require.NoError(t, err)

	assert.Equal(t, "card-1", info.ID)
	assert.Equal(t, models.TemplateModern, info.Template)
	assert.Equal(t, "13 Nov 2024", info.ValidUntil)
	assert.Equal(t, []string{"Peanuts"}, info.AllergyTags)
	assert.False(t, info.HasPhoto)

	assert.Contains(t, info.Payload, `"rollNumber":"42"`)
	assert.LessOrEqual(t, len(info.Payload), render.MaxPayloadLen)
}

func TestRenderInfoUnknownTemplate(t *testing.T) {
	record := exportRecord()
	record.Template = "vintage"
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{record}}, nil)

	_, err := svc.RenderInfo(context.Background(), "card-1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErr.Code)
}

func TestExportRoster(t *testing.T) {
	svc := newTestExportService(&stubFinder{records: []models.StudentRecord{exportRecord()}}, nil)

	result, err := svc.ExportRoster(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "unity-school-roster.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	csv := string(result.Data)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "rollNumber")
	assert.Contains(t, lines[1], "Asha Rao")
	assert.Contains(t, lines[1], "Peanuts")
	assert.Contains(t, lines[1], "1700000000000")
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Asha Rao":       "asha-rao",
		"  Asha   Rao  ": "asha-rao",
		"ASHA":           "asha",
		"A B C":          "a-b-c",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
