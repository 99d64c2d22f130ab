// internal/remote/remote.go
package remote

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tamzrod/robotcore/internal/channel"
)

// ErrInUse is returned to a second controller while one is connected.
var ErrInUse = errors.New("controller already connected")

// Message is one controller frame. Keys are sensor slots.
//
//	{"axes": {"1": 0.25, "3": -1}, "buttons": {"4": 1}}
type Message struct {
	Axes    map[int]float32 `json:"axes"`
	Buttons map[int]int16   `json:"buttons"`
}

// Handler bridges a websocket joystick into the sensors channel.
// Only one controller may be connected at a time.
type Handler struct {
	s     *channel.Sensors
	grace uint16
	log   *slog.Logger
	now   func() time.Time

	upgrader websocket.Upgrader

	mu    sync.Mutex
	inuse bool
}

func NewHandler(s *channel.Sensors, grace uint16, log *slog.Logger) *Handler {
	return &Handler{
		s:     s,
		grace: grace,
		log:   log,
		now:   time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// WithClock replaces the timestamp source.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) acquire() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inuse {
		return ErrInUse
	}
	h.inuse = true
	return nil
}

func (h *Handler) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inuse = false
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache")
	if err := h.acquire(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	defer h.release()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer ws.Close()

	h.log.Info("controller connected", "remote", r.RemoteAddr)
	for {
		var m Message
		if err := ws.ReadJSON(&m); err != nil {
			h.log.Info("controller disconnected", "remote", r.RemoteAddr, "err", err)
			return
		}
		if err := h.Apply(m); err != nil {
			h.log.Warn("bad control frame", "remote", r.RemoteAddr, "err", err)
		}
	}
}

// Apply writes one frame into the sensors channel and keeps its watchdog alive.
// Out-of-range slots are skipped and reported; the rest of the frame still lands.
func (h *Handler) Apply(m Message) error {
	ts := channel.Seconds(h.now())
	var errs []error

	for slot, v := range m.Axes {
		if slot < 0 || slot >= channel.SensorSlots {
			errs = append(errs, errors.New("axis slot out of range"))
			continue
		}
		h.s.SetAnalog(slot, max(-1, min(1, v)), channel.StatusValid, ts)
	}
	for slot, v := range m.Buttons {
		if slot < 0 || slot >= channel.SensorSlots {
			errs = append(errs, errors.New("button slot out of range"))
			continue
		}
		h.s.SetDigital(slot, v, channel.StatusValid, ts)
	}

	h.s.Watchdog().Reset(h.grace)
	return errors.Join(errs...)
}
