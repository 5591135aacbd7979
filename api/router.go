// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"iqra/quran-api/auth"
	"iqra/quran-api/db"
	"iqra/quran-api/middleware"
	"iqra/quran-api/model"
	"iqra/quran-api/pkg/security"
	"iqra/quran-api/service"
	"iqra/quran-api/store"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// sessionTTL is how long a login token stays valid.
const sessionTTL = 24 * time.Hour

type API struct {
	Router    *gin.Engine
	Auth      *auth.Service
	Tokens    *security.TokenIssuer
	Questions *service.Questions

	// RateLimit guards the public auth endpoints. Left nil in tests.
	RateLimit gin.HandlerFunc
}

func NewRouter() (*API, error) {
	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	argon := security.NewArgon()
	tokens := security.NewTokenIssuer(viper.GetString("security.jwt_secret"), sessionTTL)

	mailer := service.NewSMTPMailer(service.MailConfig{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Username: viper.GetString("mail.username"),
		Password: viper.GetString("mail.password"),
		From:     viper.GetString("mail.from"),
	})

	a := &API{
		Tokens: tokens,
		Auth: auth.NewService(
			store.NewUsers(database),
			argon,
			security.NewCodeIssuer(argon),
			tokens,
			mailer,
			viper.GetInt("security.max_code_attempts"),
		),
		Questions: service.NewQuestions(viper.GetString("openai.api_key")),
		RateLimit: middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		}),
	}

	a.Router = newEngine(a)
	return a, nil
}

func newEngine(a *API) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	jwt := middleware.NewJWTMiddleware(a.Tokens)

	limited := a.RateLimit
	if limited == nil {
		limited = func(c *gin.Context) { c.Next() }
	}

	main := router.Group("/api")
	{
		// GET /api/ping			-> Used to check if the server is alive
		main.GET("/ping", a.Ping)

		// GET /api/test			-> Reachability check with environment info
		main.GET("/test", a.Test)
	}

	authGroup := main.Group("/auth", limited)
	{
		// POST /api/auth/register		-> Registers a new account and mails a code
		authGroup.POST("/register", a.AuthRegister)

		// POST /api/auth/verify-email		-> Consumes a verification code
		authGroup.POST("/verify-email", a.AuthVerifyEmail)

		// POST /api/auth/login			-> Logs in a user and returns a session token
		authGroup.POST("/login", a.AuthLogin)

		// POST /api/auth/resend-verification	-> Reissues the verification code
		authGroup.POST("/resend-verification", a.AuthResendVerification)

		// POST /api/auth/reset-request		-> Mails a password reset code
		authGroup.POST("/reset-request", a.AuthResetRequest)

		// POST /api/auth/reset-password	-> Consumes a reset code, replaces the password
		authGroup.POST("/reset-password", a.AuthResetPassword)

		// GET /api/auth/verify-token		-> Validates a session token, returns the profile
		authGroup.GET("/verify-token", jwt, a.AuthVerifyToken)

		// PUT /api/auth/update-reciter		-> Replaces the favorite reciter
		authGroup.PUT("/update-reciter", jwt, a.AuthUpdateReciter)
	}

	questions := main.Group("/questions")
	{
		// POST /api/questions/ask		-> Proxies a question to the model
		questions.POST("/ask", a.QuestionAsk)
	}

	audio := main.Group("/audio")
	{
		// POST /api/audio/urls			-> Expands a verse range into audio URLs
		audio.POST("/urls", a.AudioURLs)
	}

	return router
}

// profileJSON is the user shape every auth endpoint responds with.
func profileJSON(u *model.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"name":            u.Name,
		"email":           u.Email,
		"favoriteReciter": u.FavoriteReciter,
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
