package middleware

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 JSON error. When the handler had already
// started the response, the panic is only logged.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				cid := GetCorrelationID(r.Context())
				started := ww.Status() != 0
				logger.Error("panic",
					zap.Any("recovered", rec),
					zap.String("path", r.URL.Path),
					zap.Bool("response_started", started),
					zap.String("correlation_id", cid))
				if started {
					return
				}

				ww.Header().Set("Content-Type", "application/json")
				ww.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(ww).Encode(ErrorResponse{Error: "internal server error", CorrelationID: cid})
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
