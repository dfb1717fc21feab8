package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/altapos/variant-wizard-service/config"
	"github.com/altapos/variant-wizard-service/internal/auth"
	attrHandler "github.com/altapos/variant-wizard-service/internal/attribute/handler"
	wizardHandler "github.com/altapos/variant-wizard-service/internal/wizard/handler"
)

// New assembles the gin engine and wraps it in an http.Server ready for
// graceful shutdown from main.
func New(
	cfg *config.Config,
	attrs *attrHandler.AttributeHandler,
	wizard *wizardHandler.WizardHandler,
) *http.Server {
	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// Row keys travel percent-encoded in path segments. Match on the raw
	// path and leave params encoded so the handlers decode exactly once.
	engine.UseRawPath = true
	engine.UnescapePathValues = false
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Merchant-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Row image previews
	engine.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)

	api := engine.Group("/api/v1")
	api.Use(auth.MerchantMiddleware())
	attrs.Register(api)
	wizard.Register(api)

	return &http.Server{
		Addr:              cfg.Server.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
