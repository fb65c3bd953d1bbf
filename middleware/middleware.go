package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type contextKey string

const (
	TraceKey  contextKey = "trace"
	LoggerKey contextKey = "logger"

	RequestIDHeader = "X-Request-ID"
)

type TraceInfo struct {
	RequestID string
	StartTime time.Time
	UserAgent string
	RemoteIP  string
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
	wroteHeader  bool
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if lrw.wroteHeader {
		return
	}
	lrw.statusCode = code
	lrw.wroteHeader = true
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if !lrw.wroteHeader {
		lrw.WriteHeader(http.StatusOK)
	}
	size, err := lrw.ResponseWriter.Write(b)
	lrw.responseSize += int64(size)
	return size, err
}

func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func Chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			handler = middlewares[i](handler)
		}
	}
	return handler
}

// Logging assigns a request id, stores a request-scoped logger in the
// context, logs completion by status class and recovers panics.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		trace := &TraceInfo{
			RequestID: requestID,
			StartTime: time.Now(),
			UserAgent: r.UserAgent(),
			RemoteIP:  r.RemoteAddr,
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := logrus.WithFields(logrus.Fields{
			"request_id": trace.RequestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"remote_ip":  trace.RemoteIP,
			"user_agent": trace.UserAgent,
		})

		ctx := context.WithValue(r.Context(), TraceKey, trace)
		ctx = context.WithValue(ctx, LoggerKey, logger)
		r = r.WithContext(ctx)

		lrw := newLoggingResponseWriter(w)

		defer func() {
			if rec := recover(); rec != nil {
				err := errors.Internal("middleware.Logging", fmt.Errorf("%v", rec), "Panic recovered")
				logger.WithError(err).WithField("stack", string(debug.Stack())).Error("Panic in handler")
				if !lrw.wroteHeader {
					utils.HandleError(lrw, "Internal server error", http.StatusInternalServerError)
				}
			}

			entry := logger.WithFields(logrus.Fields{
				"status":   lrw.statusCode,
				"duration": time.Since(trace.StartTime),
				"size":     lrw.responseSize,
			})
			switch {
			case lrw.statusCode >= 500:
				entry.Error("Request completed with server error")
			case lrw.statusCode >= 400:
				entry.Warn("Request completed with client error")
			case r.URL.Path == "/health":
				entry.Debug("Health check")
			default:
				entry.Info("Request completed successfully")
			}
		}()

		next.ServeHTTP(lrw, r)
	})
}

// RateLimit rejects requests beyond limit per interval with 429.
func RateLimit(limit int, interval time.Duration) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Every(interval), limit)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				GetLogger(r.Context()).Warn("Rate limit exceeded")
				utils.HandleError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetTraceInfo(ctx context.Context) *TraceInfo {
	if trace, ok := ctx.Value(TraceKey).(*TraceInfo); ok {
		return trace
	}
	return nil
}

func GetLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(LoggerKey).(*logrus.Entry); ok {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
