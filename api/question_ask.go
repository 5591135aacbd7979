package api

import (
	"net/http"

	"iqra/quran-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type askBody struct {
	Question string `json:"question"`
	Language string `json:"language"`
}

func (a *API) QuestionAsk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data askBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "question field can't be empty",
			"requestID": requestID,
		})
		return
	}

	answer, err := a.Questions.Ask(c.Request.Context(), data.Question)
	if err != nil {
		if err == service.ErrNotIslamic {
			msg := "Sorry, I am unable to understand. Can you please rephrase it?"
			if data.Language == "ar" {
				msg = "عذراً، لا يمكنني فهم السؤال. هل يمكنك إعادة صياغته؟"
			}

			c.JSON(http.StatusBadRequest, gin.H{
				"error":     msg,
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "An error occurred while processing your question.",
			"requestID": requestID,
		})

		zap.L().Error("Failed to answer question", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"explanation": answer.Explanation,
		"verses":      answer.Verses,
		"surahNumber": answer.SurahNumber,
		"startAyah":   answer.StartAyah,
		"endAyah":     answer.EndAyah,
	})
}
