package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/attendance-admin-api/internal/service"
	"github.com/classtrack/attendance-admin-api/pkg/export"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
	"github.com/classtrack/attendance-admin-api/pkg/response"
)

// ExportHandler exposes roster export endpoints.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ExportRequest is the export creation payload.
type ExportRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Format string `json:"format" binding:"required"`
}

// Create godoc
// @Summary Request a roster export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body ExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.service.Request(c.Request.Context(), service.ExportKind(req.Kind), export.Format(req.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export via its signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Download token"
// @Success 200
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, relPath, err := h.service.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(relPath))
	c.Header("Content-Type", "application/octet-stream")
	c.File(file.Name())
}
