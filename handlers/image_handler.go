package handlers

import (
	"net/http"
	"strings"

	"pubquiz/services"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	imageService *services.ImageService
}

func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Serve streams a stored image with a content type derived from the
// extension and a one-day cache header.
func (h *ImageHandler) Serve(c *gin.Context) {
	filename := strings.TrimPrefix(c.Param("filepath"), "/")

	path, err := h.imageService.Resolve(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	c.Header("Content-Type", contentTypeFor(filename))
	c.Header("Cache-Control", "max-age=86400")
	c.File(path)
}

func contentTypeFor(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
