package usecase

import (
	"sort"
	"sync"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/domain/entity"
)

// readySubscription is a single armed "mounted" listener and the payload it delivers.
type readySubscription struct {
	id      port.ListenerID // zero until Listen returned
	payload string
	fired   bool
}

// WindowRecord is the registry entry of one live window.
// All mutable fields are guarded by the owning registry's mutex.
type WindowRecord struct {
	ID     entity.WindowID
	Handle port.WindowHandle

	lifecycle       *entity.WindowLifecycle
	ready           *readySubscription
	destroyListener port.ListenerID
}

func newWindowRecord(id entity.WindowID, handle port.WindowHandle) *WindowRecord {
	return &WindowRecord{
		ID:        id,
		Handle:    handle,
		lifecycle: entity.NewWindowLifecycle(),
	}
}

// WindowSnapshot is a read-only copy of a record's state.
type WindowSnapshot struct {
	ID         entity.WindowID
	State      entity.WindowState
	Deliveries int
	ReadyArmed bool
}

// WindowRegistry maps window ids to live records.
type WindowRegistry struct {
	mu      sync.Mutex
	records map[entity.WindowID]*WindowRecord
}

// NewWindowRegistry creates an empty registry.
func NewWindowRegistry() *WindowRegistry {
	return &WindowRegistry{records: make(map[entity.WindowID]*WindowRecord)}
}

func (r *WindowRegistry) lookup(id entity.WindowID) (*WindowRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return rec, ok
}

// insert stores rec unless a record already exists for the id; it returns
// the record that ends up registered.
func (r *WindowRegistry) insert(rec *WindowRecord) *WindowRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[rec.ID]; ok {
		return existing
	}
	r.records[rec.ID] = rec
	return rec
}

// removeLocked deletes rec only if it is still the registered record for its id.
func (r *WindowRegistry) removeLocked(rec *WindowRecord) bool {
	if current, ok := r.records[rec.ID]; ok && current == rec {
		delete(r.records, rec.ID)
		return true
	}
	return false
}

// Contains reports whether a live record exists for id.
func (r *WindowRegistry) Contains(id entity.WindowID) bool {
	_, ok := r.lookup(id)
	return ok
}

// Len returns the number of live records.
func (r *WindowRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// IDs returns the live window ids in lexical order.
func (r *WindowRegistry) IDs() []entity.WindowID {
	r.mu.Lock()
	ids := make([]entity.WindowID, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Snapshot returns the state of a live record.
func (r *WindowRegistry) Snapshot(id entity.WindowID) (WindowSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return WindowSnapshot{}, false
	}
	return WindowSnapshot{
		ID:         rec.ID,
		State:      rec.lifecycle.State(),
		Deliveries: rec.lifecycle.Deliveries(),
		ReadyArmed: rec.ready != nil,
	}, true
}
