package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftmotors/models"
	"swiftmotors/utils"
)

// GetCarFeatures returns the showroom feature pitch for a car model. The
// conversational layer reads this out; the scheduling core never consults it.
func GetCarFeatures(c *gin.Context) {
	model := c.Param("model")

	features, ok := models.CarFeatures(model)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "unknown car model", model)
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model, "features": features})
}

// ListCarModels returns the known model identifiers.
func ListCarModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": models.CarModels()})
}
