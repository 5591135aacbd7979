package api

import (
	"net/http"

	"iqra/quran-api/auth"
	"iqra/quran-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resetPasswordBody struct {
	UserID      string `json:"userId"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

func (a *API) AuthResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetPasswordBody
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

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	err := a.Auth.ResetPassword(c.Request.Context(), data.UserID, data.Code, data.NewPassword)
	if err != nil {
		switch err {
		case auth.ErrTooManyAttempts:
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case auth.ErrResetInvalid:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid or expired reset code",
				"requestID": requestID,
			})
		case auth.ErrInvalidCode:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid reset code",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to reset password", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successful",
	})
}
