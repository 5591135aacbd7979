package api

import (
	"net/http"

	"iqra/quran-api/auth"
	"iqra/quran-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resendVerificationBody struct {
	UserID string `json:"userId"`
}

func (a *API) AuthResendVerification(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resendVerificationBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "userId field can't be empty",
			"requestID": requestID,
		})
		return
	}

	err := a.Auth.ResendCode(c.Request.Context(), data.UserID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
		case auth.ErrAlreadyVerified:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "User is already verified",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resend verification code", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "New verification code sent successfully",
	})
}
