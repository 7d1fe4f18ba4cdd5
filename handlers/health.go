package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftmotors/utils"
)

// HealthHandler returns the latest health snapshot of external services.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
