// Package devproxy serves the console's development proxy: every request
// under /api/ is forwarded unchanged to the agency, so tools pointed at the
// proxy see the same origin the web console used to.
package devproxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/4oBuko/spy-cat-console/internal/slogx"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var Endpoints = struct {
	API    string
	Health string
}{
	API:    "/api/*path",
	Health: "/healthz",
}

type Config struct {
	Addr      string
	Target    string
	RateLimit float64 // requests per second; 0 disables limiting
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	target     *url.URL
	logger     *slog.Logger
}

func NewServer(cfg Config, logger *slog.Logger) (*Server, error) {
	target, err := url.Parse(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target %q: %w", cfg.Target, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid proxy target %q: scheme and host are required", cfg.Target)
	}

	router := gin.New()
	router.Use(gin.Recovery(), slogx.GinMiddleware(logger))

	server := &Server{
		router: router,
		target: target,
		logger: logger,
	}
	server.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	api := router.Group("/")
	if cfg.RateLimit > 0 {
		api.Use(limit(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst(cfg.RateLimit))))
	}
	proxy := server.newReverseProxy()
	api.Any(Endpoints.API, gin.WrapH(proxy))
	router.GET(Endpoints.Health, server.handleHealth)
	return server, nil
}

func (s *Server) newReverseProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(s.target)
			r.SetXForwarded()
			r.Out.Host = s.target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slogx.FromContext(r.Context()).Error("agency unreachable", "error", err)
			body, _ := json.Marshal(map[string]string{
				"detail":     "agency unreachable",
				"request_id": slogx.RequestID(r.Context()),
			})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write(body)
		},
	}
}

func (s *Server) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"target": s.target.String(),
	})
}

func limit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.Allow() {
			ctx.Header("Retry-After", "1")
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "rate limit exceeded"})
			return
		}
		ctx.Next()
	}
}

func burst(perSecond float64) int {
	if perSecond < 1 {
		return 1
	}
	return int(perSecond)
}

func (s *Server) Run() error {
	s.logger.Info("dev proxy listening", "addr", s.httpServer.Addr, "target", s.target.String())
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve is Run on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
