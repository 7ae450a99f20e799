package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/telemetry"
)

// Handler is anything that can register its routes on the router.
type Handler interface {
	RegisterRoutes(router *mux.Router, logger *zap.Logger)
}

// Router wraps the mux router with rate limiting and request logging.
type Router struct {
	mux     *mux.Router
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRouter builds the HTTP router: operational endpoints, middleware, then
// every handler's routes.
func NewRouter(limiter *rate.Limiter, tel *telemetry.Telemetry, logger *zap.Logger, handlers []Handler) *Router {
	r := &Router{
		mux:     mux.NewRouter(),
		limiter: limiter,
		logger:  logger.Named("http"),
	}

	r.mux.Handle("/metrics", tel.Handler()).Methods("GET")
	r.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	r.mux.Use(r.loggingMiddleware, r.rateLimitMiddleware)

	for _, h := range handlers {
		h.RegisterRoutes(r.mux, logger)
	}
	return r
}

// CreateServer returns an http.Server bound to addr.
func (r *Router) CreateServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requestID := uuid.New().String()
		start := time.Now()
		next.ServeHTTP(w, req)
		r.logger.Info("request handled",
			zap.String("request_id", requestID),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (r *Router) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.limiter != nil && !r.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}
