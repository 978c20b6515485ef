package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/medassist-api/logmodule"
	"github.com/bitmark-inc/medassist-api/metrics"
	"github.com/bitmark-inc/medassist-api/web"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Options are the settings of the http layer.
type Options struct {
	// AllowedOrigins lists the origins permitted by CORS. Empty or "*" allows
	// every origin.
	AllowedOrigins []string

	Version string

	// Information is published as is by the information endpoint.
	Information map[string]interface{}
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	assistant   Assistant
	synthesizer Synthesizer
	reporter    Reporter

	options Options
}

// NewServer new instance of server
func NewServer(assistant Assistant, synthesizer Synthesizer, reporter Reporter, options Options) *Server {
	return &Server{
		assistant:   assistant,
		synthesizer: synthesizer,
		reporter:    reporter,
		options:     options,
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) corsConfig() cors.Config {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Geo-Position", logmodule.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logmodule.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	var origins []string
	for _, o := range s.options.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			origins = nil
			break
		}
		if o != "" {
			origins = append(origins, o)
		}
	}

	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.Use(logmodule.RequestID())
	r.Use(metricsMiddleware)
	r.Use(cors.New(s.corsConfig()))

	web.Register(r)

	r.GET("/health", s.health)
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiRoute := r.Group("/")
	apiRoute.Use(logmodule.Ginrus("API"))
	{
		apiRoute.GET("/information", s.information)

		apiRoute.POST("/analyze", s.analyze)
		apiRoute.POST("/hospitals", s.hospitals)
		apiRoute.POST("/assist", s.assist)
		apiRoute.POST("/report", s.report)
		apiRoute.POST("/tts", s.textToSpeech)
	}

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": s.options.Version,
			},
			"system_version": "Med Assist 0.2",
			"services":       s.options.Information,
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
