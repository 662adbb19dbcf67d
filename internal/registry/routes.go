package registry

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает эндпоинты под basePath (например /rc_car).
// Каждый путь доступен и с суффиксом .php — так их зовут старые агенты.
// Полные пути вешаем на корневой роутер: у PathPrefix-саброутера
// несовпадение метода отдаёт 404 вместо 405.
func RegisterRoutes(r *mux.Router, basePath string, h *Handler) {
	prefix := strings.TrimRight(basePath, "/")
	routes := []struct {
		name    string
		fn      http.HandlerFunc
		methods []string
	}{
		{"deactivate", h.Deactivate, []string{http.MethodPost}},
		{"activate", h.Activate, []string{http.MethodPost}},
		{"get_available", h.GetAvailable, []string{http.MethodGet}},
		{"get_id", h.GetID, []string{http.MethodGet}},
		{"set_version", h.SetVersion, []string{http.MethodPost}},
		{"version", h.Version, []string{http.MethodGet}},
		{"update", h.Update, []string{http.MethodPost, http.MethodGet}},
	}
	for _, rt := range routes {
		r.HandleFunc(prefix+"/"+rt.name, rt.fn).Methods(rt.methods...)
		r.HandleFunc(prefix+"/"+rt.name+".php", rt.fn).Methods(rt.methods...)
	}
}
