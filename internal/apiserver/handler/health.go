package handler

import (
	"net/http"

	"github.com/dharashakti/backoffice/pkg/version"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
}
