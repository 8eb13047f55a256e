package api

import (
	"errors"
	"net/http"
	"strings"

	"alcyxob/health-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

// ArtifactSource resolves links handed out by an in-process artifact store.
type ArtifactSource interface {
	Open(objectKey, expires string) ([]byte, string, error)
}

// ArtifactHandler serves diet plan artifacts when no object store is configured.
type ArtifactHandler struct {
	source ArtifactSource
}

func NewArtifactHandler(source ArtifactSource) *ArtifactHandler {
	return &ArtifactHandler{source: source}
}

// GetArtifact handles GET /artifacts/*key?expires=<unix>
// The link itself is the credential, as with a presigned S3 URL.
func (h *ArtifactHandler) GetArtifact(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	body, contentType, err := h.source.Open(key, c.Query("expires"))
	switch {
	case errors.Is(err, storage.ErrLinkExpired):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrObjectNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case err != nil:
		respondError(c, err)
	default:
		c.Data(http.StatusOK, contentType, body)
	}
}
