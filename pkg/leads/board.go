package leads

import (
	"sync"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
)

// Board is the in-memory working set behind the dashboard. It is replaced
// by a full reload and patched in place after status writes, so reads
// between reloads reflect the last fetch plus local status changes.
type Board struct {
	mu       sync.RWMutex
	leads    []models.Lead
	loadedAt time.Time
}

// NewBoard creates an empty, unloaded board
func NewBoard() *Board {
	return &Board{}
}

// Replace swaps the working set for a freshly fetched one
func (b *Board) Replace(leads []models.Lead, at time.Time) {
	cp := make([]models.Lead, len(leads))
	copy(cp, leads)

	b.mu.Lock()
	b.leads = cp
	b.loadedAt = at
	b.mu.Unlock()
}

// Loaded reports whether the board has been filled at least once
func (b *Board) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.loadedAt.IsZero()
}

// LoadedAt returns the time of the last full reload
func (b *Board) LoadedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loadedAt
}

// Snapshot returns a copy of the working set
func (b *Board) Snapshot() []models.Lead {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cp := make([]models.Lead, len(b.leads))
	copy(cp, b.leads)
	return cp
}

// Rank runs Rank over the current working set
func (b *Board) Rank(search string, filters FilterSet) []models.Lead {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Rank(b.leads, search, filters)
}

// Get returns the board copy of a lead
func (b *Board) Get(id string) (models.Lead, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.leads {
		if l.ID == id {
			return l, true
		}
	}
	return models.Lead{}, false
}

// PatchStatus sets the status of one lead in place. Returns false when the
// lead is not on the board.
func (b *Board) PatchStatus(id string, status models.LeadStatus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.leads {
		if b.leads[i].ID == id {
			b.leads[i].Status = status
			return true
		}
	}
	return false
}

// Add prepends a newly submitted lead so it shows up before the next reload.
// No-op while the board is unloaded.
func (b *Board) Add(l models.Lead) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadedAt.IsZero() {
		return
	}
	b.leads = append([]models.Lead{l}, b.leads...)
}
