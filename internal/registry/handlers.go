package registry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"rcregistry/internal/logs"
	"rcregistry/internal/middleware"
	"rcregistry/internal/models"
	"rcregistry/internal/repo"
)

// Store — то, что нужно хендлерам от хранилища.
type Store interface {
	Deactivate(ctx context.Context, id uint) error
	Activate(ctx context.Context, id uint) error
	ListAvailable(ctx context.Context) ([]models.Connection, error)
	ConsumeAuthKey(ctx context.Context, key string) (uint, error)
	Update(ctx context.Context, in models.UpdateFields) error
	SetVersion(ctx context.Context, version string) error
	GetVersion(ctx context.Context) (string, error)
}

type Handler struct {
	store Store
}

func New(store Store) *Handler { return &Handler{store: store} }

// Параметры читаем через FormValue: и query, и form-body.
// Старые агенты шлют POST с параметрами в query.

// POST /deactivate  id=...
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(w, r)
	if !ok {
		return
	}
	if err := h.store.Deactivate(r.Context(), id); err != nil {
		h.internal(w, r, "deactivate", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// POST /activate  id=...
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(w, r)
	if !ok {
		return
	}
	if err := h.store.Activate(r.Context(), id); err != nil {
		h.internal(w, r, "activate", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GET /get_available
func (h *Handler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListAvailable(r.Context())
	if err != nil {
		h.internal(w, r, "get_available", err)
		return
	}
	out := make([]models.AvailableConnection, 0, len(rows))
	for _, c := range rows {
		if c.Available != 1 {
			continue
		}
		out = append(out, c.AsAvailable())
	}
	models.WriteJSON(w, http.StatusOK, out)
}

// GET /get_id?key=...  → голый id; ключ при этом гасится.
func (h *Handler) GetID(w http.ResponseWriter, r *http.Request) {
	key := r.FormValue("key")
	if key == "" {
		models.BadRequest(w, "key is required")
		return
	}
	id, err := h.store.ConsumeAuthKey(r.Context(), key)
	if errors.Is(err, repo.ErrKeyNotFound) {
		models.NotFound(w, "auth key not found")
		return
	}
	if err != nil {
		h.internal(w, r, "get_id", err)
		return
	}
	logs.Logger.WithFields(logrus.Fields{
		"reqid": middleware.GetRequestID(r),
		"id":    id,
	}).Info("auth key consumed")
	models.WriteText(w, http.StatusOK, strconv.FormatUint(uint64(id), 10))
}

// POST /set_version  version=...
func (h *Handler) SetVersion(w http.ResponseWriter, r *http.Request) {
	v := strings.TrimSpace(r.FormValue("version"))
	if v == "" {
		models.BadRequest(w, "version is required")
		return
	}
	if err := h.store.SetVersion(r.Context(), v); err != nil {
		h.internal(w, r, "set_version", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GET /version
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	v, err := h.store.GetVersion(r.Context())
	if errors.Is(err, repo.ErrVersionNotFound) {
		models.NotFound(w, "version not set")
		return
	}
	if err != nil {
		h.internal(w, r, "version", err)
		return
	}
	models.WriteText(w, http.StatusOK, v)
}

// POST|GET /update  id, ip, port, ssid, available[, name]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(w, r)
	if !ok {
		return
	}
	ip, err := models.ParseIPv4(r.FormValue("ip"))
	if err != nil {
		models.BadRequest(w, err.Error())
		return
	}
	port, err := strconv.Atoi(strings.TrimSpace(r.FormValue("port")))
	if err != nil || port < 0 || port > 65535 {
		models.BadRequest(w, "port must be an integer in 0..65535")
		return
	}
	in := models.UpdateFields{
		ID:        id,
		IP:        ip,
		Port:      port,
		SSID:      r.FormValue("ssid"),
		Available: parseAvailable(r.FormValue("available")),
	}
	if name, ok := formLookup(r, "name"); ok {
		in.Name = &name
	}
	if err := h.store.Update(r.Context(), in); err != nil {
		h.internal(w, r, "update", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	reqid := middleware.GetRequestID(r)
	logs.Logger.WithFields(logrus.Fields{
		"reqid": reqid,
		"op":    op,
	}).WithError(err).Error("store error")
	models.WriteProblem(w, http.StatusInternalServerError,
		"Internal Server Error", op+" failed", map[string]any{"reqid": reqid})
}

func formID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := strings.TrimSpace(r.FormValue("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		models.BadRequest(w, "id must be an unsigned integer")
		return 0, false
	}
	return uint(id), true
}

// formLookup отличает «нет параметра» от пустого значения.
func formLookup(r *http.Request, key string) (string, bool) {
	if r.Form == nil {
		_ = r.ParseForm()
	}
	vs, ok := r.Form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// parseAvailable — как истинность строки в PHP: пусто/"0" → 0, остальное → 1.
func parseAvailable(s string) int {
	switch strings.TrimSpace(s) {
	case "", "0":
		return 0
	default:
		return 1
	}
}
