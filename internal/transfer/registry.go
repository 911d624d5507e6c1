package transfer

import (
	"sync"
)

// Operation is one user's in-flight transfer.
type Operation struct {
	UserID    int64
	Kind      Kind
	Cancelled bool
	Tracker   *Tracker
}

// Registry holds at most one Operation per user. It is safe for
// concurrent use.
type Registry struct {
	mu  sync.Mutex
	ops map[int64]*Operation
}

func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[int64]*Operation),
	}
}

// Register adds an operation for userID. It returns ErrBusy and leaves
// the existing entry untouched when the user already has one.
func (r *Registry) Register(userID int64, kind Kind, tracker *Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ops[userID]; ok {
		return ErrBusy
	}
	r.ops[userID] = &Operation{
		UserID:  userID,
		Kind:    kind,
		Tracker: tracker,
	}
	return nil
}

// Reserve claims userID before any tracker exists. The entry is held
// until Release, or until the tracker attached by Handoff finishes.
func (r *Registry) Reserve(userID int64, kind Kind) error {
	return r.Register(userID, kind, nil)
}

// Handoff moves the user's entry from one tracker to the next without
// releasing it. The cancel flag carries over. It returns ErrNoOperation
// when the entry is gone or no longer belongs to from.
func (r *Registry) Handoff(userID int64, kind Kind, from, to *Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[userID]
	if !ok || op.Tracker != from {
		return ErrNoOperation
	}
	op.Kind = kind
	op.Tracker = to
	return nil
}

// Release removes the user's entry if it is still held by t.
func (r *Registry) Release(userID int64, t *Tracker) {
	r.release(userID, t)
}

// FlagCancel marks the user's operation as cancelled and reports whether
// one existed.
func (r *Registry) FlagCancel(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[userID]
	if !ok {
		return false
	}
	op.Cancelled = true
	return true
}

// CancelBy flags owner's operation on behalf of requester. Only the owner
// may cancel.
func (r *Registry) CancelBy(requester, owner int64) error {
	if requester != owner {
		return ErrNotOwner
	}
	if !r.FlagCancel(owner) {
		return ErrNoOperation
	}
	return nil
}

func (r *Registry) IsCancelled(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[userID]
	return ok && op.Cancelled
}

// Remove deletes the user's entry. Removing a missing entry is a no-op.
func (r *Registry) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ops, userID)
}

func (r *Registry) Get(userID int64) (Operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[userID]
	if !ok {
		return Operation{}, false
	}
	return *op, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.ops)
}

// cancelledFor is IsCancelled restricted to the entry owned by t.
func (r *Registry) cancelledFor(userID int64, t *Tracker) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[userID]
	return ok && op.Tracker == t && op.Cancelled
}

// release removes the user's entry only if it belongs to t, so a tracker
// that lost a Register race cannot drop the winner's entry.
func (r *Registry) release(userID int64, t *Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if op, ok := r.ops[userID]; ok && op.Tracker == t {
		delete(r.ops, userID)
	}
}
