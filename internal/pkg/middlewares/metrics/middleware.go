package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"marketplace/pkg/logger"
)

// Middleware пишет метрики и лог запроса. Ответ, который хотя бы раз
// вызвал Flush, считается потоком и учитывается отдельно.
func Middleware(log handlerLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeTemplate(r)
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK, route: route}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := strconv.Itoa(rw.statusCode)

			HTTPRequestTotal.WithLabelValues(r.Method, route, statusCode).Inc()
			if rw.streaming {
				StreamsOpen.WithLabelValues(route).Dec()
				StreamDuration.WithLabelValues(route).Observe(duration.Seconds())
			} else {
				HTTPRequestDuration.WithLabelValues(r.Method, route, statusCode).Observe(duration.Seconds())
			}

			log.With(
				logger.NewField("method", r.Method),
				logger.NewField("path", r.URL.Path),
				logger.NewField("route", route),
				logger.NewField("status", statusCode),
				logger.NewField("duration", duration.String()),
				logger.NewField("stream", rw.streaming),
			).Info("HTTP request")
		})
	}
}

// routeTemplate возвращает шаблон маршрута mux, чтобы id не раздували кардинальность.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return r.URL.Path
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	route       string
	streaming   bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Flush нужен потоковым ответам (SSE).
func (rw *responseWriter) Flush() {
	if !rw.streaming {
		rw.streaming = true
		StreamsOpen.WithLabelValues(rw.route).Inc()
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap дает http.ResponseController добраться до исходного writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
