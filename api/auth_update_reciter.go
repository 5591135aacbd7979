package api

import (
	"net/http"

	"iqra/quran-api/model"
	"iqra/quran-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updateReciterBody struct {
	Reciter *model.Reciter `json:"reciter"`
}

func (a *API) AuthUpdateReciter(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data updateReciterBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Reciter == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "reciter field can't be empty",
			"requestID": requestID,
		})
		return
	}

	user, err := a.Auth.UpdateReciter(c.Request.Context(), userID, *data.Reciter)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update reciter", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reciter updated successfully",
		"user":    profileJSON(user),
	})
}
