package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightsteps/records-api/internal/service"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
	"github.com/brightsteps/records-api/pkg/response"
)

// CardHandler exposes custom card endpoints.
type CardHandler struct {
	cards *service.CardService
}

// NewCardHandler constructs CardHandler.
func NewCardHandler(cards *service.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

// List godoc
// @Summary List custom cards
// @Tags Cards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cards [get]
func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.cards.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cards, nil)
}

// Create godoc
// @Summary Create a custom card from a base64 image
// @Tags Cards
// @Accept json
// @Produce json
// @Param payload body service.CreateCardRequest true "Card payload"
// @Success 201 {object} response.Envelope
// @Router /cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	var req service.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	card, err := h.cards.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, card)
}

// Delete godoc
// @Summary Delete a custom card
// @Tags Cards
// @Param id path string true "Card ID"
// @Success 204
// @Router /cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	if err := h.cards.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
