package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eduadmin/internal/config"
)

type UploadsHandler struct {
	cfg config.Config
}

func NewUploadsHandler(cfg config.Config) *UploadsHandler {
	return &UploadsHandler{cfg: cfg}
}

// GET /api/uploads/widget
// Hands the UI the fixed upload-widget configuration. The widget's
// success callback yields the secure media URL the lesson and course
// forms submit back as video_url / image_url.
func (h *UploadsHandler) Widget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cloud_name":    h.cfg.UploadCloudName,
		"upload_preset": h.cfg.UploadPreset,
		"sources":       []string{"local", "url"},
		"multiple":      false,
		"resource_type": "video",
		"max_file_size": h.cfg.UploadMaxFileBytes,
	})
}
