package engine

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"bombarena/pkg/core"
)

// NewRouter 构造只读为主的调试接口；不启动任何 goroutine，可直接用于 httptest
func NewRouter(m *Manager, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	h := &handlers{manager: m}

	r.Get("/healthz", h.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleSnapshot)
			r.Delete("/", h.handleRemove)
			r.Post("/pause", h.handlePause)
			r.Post("/input/{action}", h.handleInput)
		})
	})
	return r
}

type handlers struct {
	manager *Manager
}

func (h *handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": len(h.manager.List()),
	})
}

func (h *handlers) handleList(w http.ResponseWriter, _ *http.Request) {
	rooms := h.manager.List()
	infos := make([]Info, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, room.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *handlers) handleCreate(w http.ResponseWriter, _ *http.Request) {
	room, err := h.manager.Create(nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrTooManySessions) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusCreated, room.Info())
}

func (h *handlers) room(w http.ResponseWriter, r *http.Request) (*Room, bool) {
	room, ok := h.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
	}
	return room, ok
}

func (h *handlers) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, room.Snapshot())
}

func (h *handlers) handleRemove(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Remove(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handlePause(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}
	room.TogglePause()
	w.WriteHeader(http.StatusAccepted)
}

// handleInput 一次完整的按下加松开
func (h *handlers) handleInput(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}
	action, ok := core.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown action"))
		return
	}
	room.Press(action)
	room.Release(action)
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("写响应失败")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
