package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// SetLogger задаёт логгер для всех middleware пакета.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	data *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.data.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.data.status = statusCode
}

// quietPaths опрашиваются проверками живости и пишутся на уровне debug.
var quietPaths = map[string]bool{"/api/status": true}

// WithLogging пишет метод, путь, статус, размер ответа, сжатие тела запроса и
// длительность. Заголовки с паролями и токенами в лог не попадают.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data := &responseData{status: http.StatusOK}
		lw := &loggingResponseWriter{ResponseWriter: w, data: data}

		next.ServeHTTP(lw, r)

		log := logger.Infow
		switch {
		case data.status >= http.StatusInternalServerError:
			log = logger.Errorw
		case quietPaths[r.URL.Path]:
			log = logger.Debugw
		}
		log("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", data.status,
			"size", data.size,
			"encoding", r.Header.Get("Content-Encoding"),
			"duration", time.Since(start),
		)
	})
}
