package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/attendance-admin-api/internal/service"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
	"github.com/classtrack/attendance-admin-api/pkg/response"
)

// FieldHandler exposes field catalog endpoints.
type FieldHandler struct {
	service *service.FieldService
}

// NewFieldHandler constructs a field handler.
func NewFieldHandler(svc *service.FieldService) *FieldHandler {
	return &FieldHandler{service: svc}
}

// List godoc
// @Summary List fields
// @Tags Fields
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fields [get]
func (h *FieldHandler) List(c *gin.Context) {
	fields, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fields, nil)
}

// Get godoc
// @Summary Get field detail
// @Tags Fields
// @Produce json
// @Param id path string true "Field ID"
// @Success 200 {object} response.Envelope
// @Router /fields/{id} [get]
func (h *FieldHandler) Get(c *gin.Context) {
	field, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, field, nil)
}

// Create godoc
// @Summary Create field
// @Tags Fields
// @Accept json
// @Produce json
// @Param payload body service.CreateFieldRequest true "Field payload"
// @Success 201 {object} response.Envelope
// @Router /fields [post]
func (h *FieldHandler) Create(c *gin.Context) {
	var req service.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	field, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, field)
}

// Update godoc
// @Summary Update field and replace its weekly schedule
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path string true "Field ID"
// @Param payload body service.UpdateFieldRequest true "Field payload"
// @Success 200 {object} response.Envelope
// @Router /fields/{id} [put]
func (h *FieldHandler) Update(c *gin.Context) {
	var req service.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	field, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, field, nil)
}

// Delete godoc
// @Summary Delete field
// @Tags Fields
// @Produce json
// @Param id path string true "Field ID"
// @Success 204
// @Router /fields/{id} [delete]
func (h *FieldHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
