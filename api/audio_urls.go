package api

import (
	"net/http"

	"iqra/quran-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type audioURLsBody struct {
	Surah      int    `json:"surah"`
	StartAyah  int    `json:"startAyah"`
	EndAyah    int    `json:"endAyah"`
	ReciterURL string `json:"reciterUrl"`
}

func (a *API) AudioURLs(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data audioURLsBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Surah <= 0 || data.StartAyah <= 0 || data.EndAyah <= 0 || data.ReciterURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing required parameters",
			"received":  data,
			"requestID": requestID,
		})
		return
	}

	urls := service.AudioURLs(data.Surah, data.StartAyah, data.EndAyah, data.ReciterURL)
	if urls == nil {
		urls = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"urls": urls,
	})
}
