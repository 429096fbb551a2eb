package i18n

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithSuccess writes {success: true, message: <localized>} merged with
// payload
func RespondWithSuccess(c *gin.Context, statusCode int, msgID string, payload gin.H) {
	response := gin.H{
		"success": true,
		"message": TranslateMessage(c, msgID, nil),
	}
	for k, v := range payload {
		response[k] = v
	}
	c.JSON(statusCode, response)
}

// RespondOK is RespondWithSuccess with status 200
func RespondOK(c *gin.Context, msgID string, payload gin.H) {
	RespondWithSuccess(c, http.StatusOK, msgID, payload)
}

// RespondCreated is RespondWithSuccess with status 201
func RespondCreated(c *gin.Context, msgID string, payload gin.H) {
	RespondWithSuccess(c, http.StatusCreated, msgID, payload)
}
