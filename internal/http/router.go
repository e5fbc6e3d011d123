// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, authentication, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/sonata-cms/sonata-backend/internal/auth"
	"github.com/sonata-cms/sonata-backend/internal/cache"
	"github.com/sonata-cms/sonata-backend/internal/config"
	"github.com/sonata-cms/sonata-backend/internal/http/handlers"
	"github.com/sonata-cms/sonata-backend/internal/http/middleware"
	"github.com/sonata-cms/sonata-backend/internal/opaqueid"
	"github.com/sonata-cms/sonata-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (file-upload route exempt; the file service caps it)
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and Security headers
//  9. Bearer-token gate on the protected route groups
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. Bearer tokens and cookies are
	// masked by default; account emails in query strings or headers are
	// pattern-scrubbed.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit. The file-upload route is exempt: its cap
	// belongs to the file service, which rejects oversized payloads with
	// the exact "File too large!" body instead of a truncated-read error.
	r.Use(limitBody(cfg.MaxUploadBytes+(1<<20), routePath(cfg.APIBasePath, "/files/upload_file")))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: codec, cache, token issuer ← config
	ids, err := opaqueid.New(cfg.HashidsSalt)
	if err != nil {
		return err
	}
	fileCache, err := cache.NewFileCache(cfg.FileCacheEntries)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	authSvc := services.NewAuthService(db, tokens)
	pieceSvc := services.NewPieceService(db, fileCache)
	tagSvc := services.NewTagService(db)
	fileSvc := services.NewFileService(db, fileCache)
	fileSvc.MaxUploadBytes = cfg.MaxUploadBytes

	h := handlers.New(authSvc, pieceSvc, tagSvc, fileSvc, ids)
	authed := middleware.RequireAuth(tokens)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Auth
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/current_user", authed, h.CurrentUser)

		// Pieces
		pieces := api.Group("/pieces", authed)
		pieces.POST("/add", h.AddPiece)
		pieces.POST("/edit", h.EditPiece)
		pieces.POST("/delete", h.DeletePiece)
		pieces.GET("", gzip.Gzip(gzip.DefaultCompression), h.ListPieces)

		// Tags
		tags := api.Group("/tags", authed)
		tags.POST("/add", h.AddTag)
		tags.POST("/edit", h.EditTag)
		tags.POST("/delete", h.DeleteTag)
		tags.GET("", gzip.Gzip(gzip.DefaultCompression), h.ListTags)

		// Files
		files := api.Group("/files", authed)
		files.POST("/upload_link", h.UploadLink)
		files.POST("/upload_file", h.UploadFile)
		files.GET("/file/:id", h.GetFile)
	}

	return nil
}

// limitBody returns a Gin middleware that caps the request body size at
// maxBytes using http.MaxBytesReader. Paths listed in except are left
// uncapped so their handlers can enforce their own limit with an exact
// error body.
func limitBody(maxBytes int64, except ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(except))
	for _, p := range except {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; !ok {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// routePath joins the API base path with a route suffix, treating "/" (or
// empty) as the root prefix.
func routePath(prefix, suffix string) string {
	if prefix == "" || prefix == "/" {
		return suffix
	}
	return strings.TrimSuffix(prefix, "/") + suffix
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
