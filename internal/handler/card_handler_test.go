package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unity-school/idcard-api/internal/models"
	"github.com/unity-school/idcard-api/internal/render"
	"github.com/unity-school/idcard-api/internal/repository"
	"github.com/unity-school/idcard-api/internal/service"
)

type memoryStore struct {
	records []models.StudentRecord
}

func (m *memoryStore) Append(ctx context.Context, record models.StudentRecord) error {
	m.records = append([]models.StudentRecord{record}, m.records...)
	return nil
}

func (m *memoryStore) ListAll(ctx context.Context) []models.StudentRecord {
	return m.records
}

func (m *memoryStore) DeleteByID(ctx context.Context, id string) error {
	if len(m.records) == 0 {
		return repository.ErrEmptyStore
	}
	kept := m.records[:0]
	for _, r := range m.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

func buildCardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := &memoryStore{}
	logger := zap.NewNop()
	cards := service.NewCardService(store, validator.New(), nil, logger)
	inst := render.Institution{
		Name:    "UNITY SCHOOL",
		Tagline: "ST. XAVIER'S COLLEGE",
		Address: "2/4 Park Street, Kolkata",
		Phone:   "+91 33 2222 0000",
	}
	exports := service.NewExportService(cards, nil, inst, 365*24*time.Hour, "unity-school", nil, logger)
	h := NewCardHandler(cards, exports)

	router := gin.New()
	group := router.Group("/api/v1/cards")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/preview", h.ActivePreview)
	group.GET("/export/roster", h.ExportRoster)
	group.POST("/delete/confirm", h.ConfirmDelete)
	group.POST("/delete/cancel", h.CancelDelete)
	group.GET("/:id", h.Get)
	group.GET("/:id/render", h.RenderInfo)
	group.POST("/:id/preview", h.SetPreview)
	group.GET("/:id/export", h.Export)
	group.DELETE("/:id", h.RequestDelete)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

var cardPayload = `{
	"name": "Asha Rao",
	"rollNumber": "42",
	"classDivision": "5B",
	"allergies": ["Peanuts"],
	"photo": "` + base64.StdEncoding.EncodeToString([]byte("fake image bytes")) + `",
	"rackNumber": "12",
	"busRouteNumber": "R3",
	"template": "modern"
}`

func createCard(t *testing.T, router *gin.Engine) string {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/cards", bytes.NewBufferString(cardPayload))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusCreated, resp.Code)

	var envelope struct {
		Data models.StudentRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ID)
	return envelope.Data.ID
}

func TestCardRoutes(t *testing.T) {
	t.Run("create success", func(t *testing.T) {
		router := buildCardRouter()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/cards", bytes.NewBufferString(cardPayload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"name":"Asha Rao"`)
		require.Contains(t, resp.Body.String(), `"classDivision":"5B"`)
	})

	t.Run("create rejects unknown division", func(t *testing.T) {
		router := buildCardRouter()
		payload := `{"name":"A","rollNumber":"1","classDivision":"13A","photo":"eA==","busRouteNumber":"R1","template":"modern"}`
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/cards", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Contains(t, resp.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("create rejects malformed json", func(t *testing.T) {
		router := buildCardRouter()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/cards", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("list newest first", func(t *testing.T) {
		router := buildCardRouter()
		createCard(t, router)
		second := createCard(t, router)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cards", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)

		var envelope struct {
			Data []models.StudentRecord `json:"data"`
			Meta map[string]int         `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		require.Len(t, envelope.Data, 2)
		require.Equal(t, second, envelope.Data[0].ID)
		require.Equal(t, 2, envelope.Meta["count"])
	})

	t.Run("get by id", func(t *testing.T) {
		router := buildCardRouter()
		id := createCard(t, router)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cards/"+id, nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)

		req, _ = http.NewRequest(http.MethodGet, "/api/v1/cards/missing", nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
		require.Contains(t, resp.Body.String(), "NOT_FOUND")
	})

	t.Run("render info", func(t *testing.T) {
		router := buildCardRouter()
		id := createCard(t, router)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cards/"+id+"/render", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"validUntil"`)
		require.Contains(t, resp.Body.String(), `"payload"`)
		require.Contains(t, resp.Body.String(), `"allergyTags":["Peanuts"]`)
	})

	t.Run("active preview follows creation", func(t *testing.T) {
		router := buildCardRouter()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cards/preview", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
		require.Contains(t, resp.Body.String(), "no active preview")

		id := createCard(t, router)
		req, _ = http.NewRequest(http.MethodGet, "/api/v1/cards/preview", nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), id)
	})

	t.Run("set preview", func(t *testing.T) {
		router := buildCardRouter()
		first := createCard(t, router)
		createCard(t, router)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/cards/"+first+"/preview", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)

		req, _ = http.NewRequest(http.MethodGet, "/api/v1/cards/preview", nil)
		resp = performRequest(router, req)
		require.Contains(t, resp.Body.String(), first)
	})

	t.Run("export png attachment", func(t *testing.T) {
		router := buildCardRouter()
		id := createCard(t, router)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cards/"+id+"/export", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, "image/png", resp.Header().Get("Content-Type"))
		require.Equal(t, `attachment; filename="unity-school-asha-rao.png"`, resp.Header().Get("Content-Disposition"))
		require.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		router := buildCardRouter()
		id := createCard(t, router)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cards/"+id+"/export?format=svg", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("export roster", func(t *testing.T) {
		router := buildCardRouter()
		createCard(t, router)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cards/export/roster", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
		require.Contains(t, resp.Body.String(), "Asha Rao")
	})

	t.Run("delete flow", func(t *testing.T) {
		router := buildCardRouter()
		id := createCard(t, router)

		req, _ := http.NewRequest(http.MethodDelete, "/api/v1/cards/"+id, nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusAccepted, resp.Code)
		require.Contains(t, resp.Body.String(), `"pendingDeleteId":"`+id+`"`)

		req, _ = http.NewRequest(http.MethodPost, "/api/v1/cards/delete/confirm", nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusNoContent, resp.Code)

		req, _ = http.NewRequest(http.MethodGet, "/api/v1/cards/"+id, nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("delete cancel keeps card", func(t *testing.T) {
		router := buildCardRouter()
		id := createCard(t, router)

		req, _ := http.NewRequest(http.MethodDelete, "/api/v1/cards/"+id, nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusAccepted, resp.Code)

		req, _ = http.NewRequest(http.MethodPost, "/api/v1/cards/delete/cancel", nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusNoContent, resp.Code)

		req, _ = http.NewRequest(http.MethodGet, "/api/v1/cards/"+id, nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("confirm without pending", func(t *testing.T) {
		router := buildCardRouter()

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/cards/delete/confirm", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
		require.Contains(t, resp.Body.String(), "CONFLICT")
	})

	t.Run("delete unknown card", func(t *testing.T) {
		router := buildCardRouter()

		req, _ := http.NewRequest(http.MethodDelete, "/api/v1/cards/missing", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})
}
