package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Event is one frame on the wire: a name from the fixed vocabulary and its
// payload (a record, a bare id, or a snapshot listing).
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// viewerBuffer bounds the per-viewer queue. A viewer that falls this far
// behind starts losing events; delivery is at-most-once by contract.
const viewerBuffer = 64

// Viewer is one connected client. Events are consumed from Events() by the
// transport; Done() fires when the viewer is detached.
type Viewer struct {
	ID     string
	events chan Event
	done   chan struct{}
}

func (v *Viewer) Events() <-chan Event { return v.events }

func (v *Viewer) Done() <-chan struct{} { return v.done }

// Send queues an event for this viewer only. Used for the per-connection
// snapshot. Returns false when the viewer's buffer is full and the event was
// dropped.
func (v *Viewer) Send(name string, payload any) bool {
	select {
	case v.events <- Event{Name: name, Payload: payload}:
		return true
	default:
		slog.Warn("viewer buffer full, event dropped", "viewer", v.ID, "event", name)
		return false
	}
}

// Hub owns the registry of connected viewers. It is the only holder of that
// set; nothing else sees it as ambient state.
type Hub struct {
	mu      sync.RWMutex
	viewers map[string]*Viewer
}

func NewHub() *Hub {
	return &Hub{viewers: make(map[string]*Viewer)}
}

// Attach registers a new viewer and returns it. The caller is responsible
// for delivering the initial snapshot before any broadcast can interleave.
func (h *Hub) Attach() *Viewer {
	v := &Viewer{
		ID:     uuid.NewString(),
		events: make(chan Event, viewerBuffer),
		done:   make(chan struct{}),
	}
	h.mu.Lock()
	h.viewers[v.ID] = v
	h.mu.Unlock()
	slog.Info("viewer connected", "viewer", v.ID)
	return v
}

// Detach removes the viewer from the registry. Safe to call more than once.
func (h *Hub) Detach(v *Viewer) {
	h.mu.Lock()
	_, present := h.viewers[v.ID]
	delete(h.viewers, v.ID)
	h.mu.Unlock()
	if present {
		close(v.done)
		slog.Info("viewer disconnected", "viewer", v.ID)
	}
}

// Broadcast delivers the event to every currently attached viewer. Viewers
// attaching afterwards never see it; there is no replay.
func (h *Hub) Broadcast(name string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, v := range h.viewers {
		v.Send(name, payload)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}
