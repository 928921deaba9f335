package forms

import (
	"sync"
	"time"
)

const defaultIdleTTL = 2 * time.Hour

// Registry hands out one form per visitor key and forgets idle ones.
type Registry[T any, P Draft[T]] struct {
	newForm func() *Form[T, P]
	ttl     time.Duration

	mu        sync.Mutex
	forms     map[string]*Form[T, P]
	lastSweep time.Time
}

// NewRegistry returns a registry creating forms with newForm. A zero ttl uses two hours.
func NewRegistry[T any, P Draft[T]](newForm func() *Form[T, P], ttl time.Duration) *Registry[T, P] {
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	return &Registry[T, P]{
		newForm:   newForm,
		ttl:       ttl,
		forms:     make(map[string]*Form[T, P]),
		lastSweep: time.Now(),
	}
}

// Get returns the form for key, creating it on first use.
func (r *Registry[T, P]) Get(key string) *Form[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if now.Sub(r.lastSweep) > r.ttl/4 {
		r.sweepLocked(now)
	}
	f, ok := r.forms[key]
	if !ok {
		f = r.newForm()
		r.forms[key] = f
	}
	return f
}

// Len reports how many forms are held.
func (r *Registry[T, P]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

func (r *Registry[T, P]) sweepLocked(now time.Time) {
	r.lastSweep = now
	for key, f := range r.forms {
		if f.Busy() {
			continue
		}
		if now.Sub(f.idleSince()) > r.ttl {
			delete(r.forms, key)
		}
	}
}
