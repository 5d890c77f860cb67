package catalog

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store holds the current catalog document behind a read lock, so requests
// read a consistent snapshot while refreshes swap the whole document.
type Store struct {
	mu  sync.RWMutex
	doc Document
}

func NewStore(doc Document) *Store {
	return &Store{doc: doc}
}

// Categories lists the selectable categories, CategoryAll first.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.doc.CategoryList)+1)
	out = append(out, CategoryAll)
	return append(out, s.doc.CategoryList...)
}

// Destinations returns the curated entries for a category. An empty category
// or CategoryAll selects everything; category names match case-insensitively.
func (s *Store) Destinations(category string) []Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := category == "" || strings.EqualFold(category, CategoryAll)
	out := make([]Destination, 0, len(s.doc.Destinations))
	for _, dest := range s.doc.Destinations {
		if all || strings.EqualFold(dest.Category, category) {
			out = append(out, dest)
		}
	}
	return out
}

// Update swaps in a new document. Logs at info level when the content
// changed, debug when the reload produced identical data.
func (s *Store) Update(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Digest() != doc.Digest() {
		log.Info().Int("destinations", len(doc.Destinations)).Msg("destination catalog: updated")
	} else {
		log.Debug().Msg("destination catalog: no changes detected")
	}

	s.doc = doc
}
