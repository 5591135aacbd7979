package api

import (
	"net/http"

	"iqra/quran-api/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyEmailBody struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

func (a *API) AuthVerifyEmail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verifyEmailBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.UserID == "" || data.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "userId and code fields are required",
			"requestID": requestID,
		})
		return
	}

	token, user, err := a.Auth.VerifyEmail(c.Request.Context(), data.UserID, data.Code)
	if err != nil {
		switch err {
		case auth.ErrTooManyAttempts:
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case auth.ErrNoPendingCode:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid verification request",
				"requestID": requestID,
			})
		case auth.ErrCodeExpired:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Verification code has expired",
				"requestID": requestID,
			})
		case auth.ErrInvalidCode:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid verification code",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify email", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"token":   token,
		"user":    profileJSON(user),
	})
}
