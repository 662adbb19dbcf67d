package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"rcregistry/internal/logs"
	"rcregistry/internal/models"
)

// Recoverer перехватывает панику в обработчике, пишет лог со стеком
// и возвращает 500 в формате application/problem+json.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			reqid := GetRequestID(r)
			logs.Logger.WithFields(logrus.Fields{
				"reqid":  reqid,
				"method": r.Method,
				"path":   r.URL.Path,
				"panic":  rec,
			}).Errorf("panic recovered\n%s", debug.Stack())
			models.WriteProblem(w, http.StatusInternalServerError,
				"Internal Server Error",
				"unexpected server error (see logs by reqid)", map[string]any{
					"reqid": reqid,
				})
		}()
		next.ServeHTTP(w, r)
	})
}
