// Package roster keeps the in-memory "radar" of recently computed profiles.
package roster

import (
	"sync"
	"time"

	"vibe-brain/internal/domain"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Option configura un Roster.
type Option func(*Roster)

// WithClock reemplaza el reloj (tests).
func WithClock(c Clock) Option {
	return func(r *Roster) { r.clock = c }
}

// WithMaxEntries acota el radar; al llenarse se descarta la entrada más vieja.
// 0 o negativo = sin límite.
func WithMaxEntries(n int) Option {
	return func(r *Roster) { r.maxEntries = n }
}

// WithPlaceholders define las entradas que devuelve Snapshot con el radar vacío.
func WithPlaceholders(p []domain.RosterEntry) Option {
	return func(r *Roster) { r.placeholders = p }
}

// Roster guarda a lo sumo una entrada por identidad, en orden de inserción.
// Safe for concurrent use.
type Roster struct {
	mu           sync.RWMutex
	entries      []domain.RosterEntry
	clock        Clock
	maxEntries   int
	placeholders []domain.RosterEntry
}

// New crea un Roster vacío.
func New(opts ...Option) *Roster {
	r := &Roster{
		clock: realClock{},
		placeholders: []domain.RosterEntry{
			{Identity: "ghost_coder", Soul: "Commits at 3am and leaves no trace but green squares."},
			{Identity: "system_admin", Soul: "Keeps the servers alive on coffee and quiet rage."},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upsert quita la entrada previa de la misma identidad y agrega una nueva al final.
func (r *Roster) Upsert(p domain.Profile) domain.RosterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := domain.RosterEntry{
		Identity: p.Identity,
		Soul:     p.Soul,
		LastSeen: r.clock.Now(),
	}

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Identity != p.Identity {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)

	if r.maxEntries > 0 && len(kept) > r.maxEntries {
		kept = append(kept[:0], kept[len(kept)-r.maxEntries:]...)
	}
	r.entries = kept
	return entry
}

// Snapshot devuelve una copia de las entradas en orden de inserción. Con el
// radar vacío devuelve los placeholders, que nunca se guardan.
func (r *Roster) Snapshot() []domain.RosterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		out := make([]domain.RosterEntry, len(r.placeholders))
		copy(out, r.placeholders)
		return out
	}
	out := make([]domain.RosterEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len devuelve la cantidad de entradas reales (sin placeholders).
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
