package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unity-school/idcard-api/internal/dto"
	"github.com/unity-school/idcard-api/internal/service"
	appErrors "github.com/unity-school/idcard-api/pkg/errors"
	"github.com/unity-school/idcard-api/pkg/response"
)

// CardHandler exposes the card lifecycle endpoints.
type CardHandler struct {
	cards   *service.CardService
	exports *service.ExportService
}

// NewCardHandler constructs CardHandler.
func NewCardHandler(cards *service.CardService, exports *service.ExportService) *CardHandler {
	return &CardHandler{cards: cards, exports: exports}
}

// Create godoc
// @Summary Create a student ID card
// @Tags Cards
// @Accept json
// @Produce json
// @Param payload body dto.CreateCardRequest true "Card payload"
// @Success 201 {object} response.Envelope
// @Router /cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.cards.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// List godoc
// @Summary List saved cards
// @Tags Cards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cards [get]
func (h *CardHandler) List(c *gin.Context) {
	records := h.cards.List(c.Request.Context())
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Get godoc
// @Summary Get a saved card
// @Tags Cards
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} response.Envelope
// @Router /cards/{id} [get]
func (h *CardHandler) Get(c *gin.Context) {
	record, err := h.cards.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// RenderInfo godoc
// @Summary Derived display values for a card
// @Tags Cards
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} response.Envelope
// @Router /cards/{id}/render [get]
func (h *CardHandler) RenderInfo(c *gin.Context) {
	info, err := h.exports.RenderInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}

// SetPreview godoc
// @Summary Select a saved card as the active preview
// @Tags Preview
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} response.Envelope
// @Router /cards/{id}/preview [post]
func (h *CardHandler) SetPreview(c *gin.Context) {
	record, err := h.cards.SetPreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// ActivePreview godoc
// @Summary Current active preview
// @Tags Preview
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cards/preview [get]
func (h *CardHandler) ActivePreview(c *gin.Context) {
	record, ok := h.cards.ActivePreview()
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no active preview"))
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Export godoc
// @Summary Export a card as a downloadable file
// @Tags Export
// @Produce png
// @Param id path string true "Card ID"
// @Param format query string false "png or pdf" default(png)
// @Success 200 {file} binary
// @Router /cards/{id}/export [get]
func (h *CardHandler) Export(c *gin.Context) {
	result, err := h.exports.ExportCard(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "png"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// ExportRoster godoc
// @Summary Export all saved cards as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {file} binary
// @Router /cards/export/roster [get]
func (h *CardHandler) ExportRoster(c *gin.Context) {
	result, err := h.exports.ExportRoster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// RequestDelete godoc
// @Summary Request deletion of a card (requires confirmation)
// @Tags Cards
// @Produce json
// @Param id path string true "Card ID"
// @Success 202 {object} response.Envelope
// @Router /cards/{id} [delete]
func (h *CardHandler) RequestDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.cards.RequestDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.PendingDeleteResponse{PendingDeleteID: id})
}

// ConfirmDelete godoc
// @Summary Confirm the pending deletion
// @Tags Cards
// @Produce json
// @Success 204
// @Router /cards/delete/confirm [post]
func (h *CardHandler) ConfirmDelete(c *gin.Context) {
	if err := h.cards.ConfirmDelete(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CancelDelete godoc
// @Summary Cancel the pending deletion
// @Tags Cards
// @Produce json
// @Success 204
// @Router /cards/delete/cancel [post]
func (h *CardHandler) CancelDelete(c *gin.Context) {
	h.cards.CancelDelete()
	response.NoContent(c)
}
