package metrics

import (
	"sync"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"
)

// ChatStats tracks the number of distinct chats seen per chat type and
// exports the counts as gauges. The per-type id sets are capped so a
// long-lived process cannot grow them without bound; once a set is full the
// gauge saturates at the cap.
type ChatStats struct {
	mu       sync.Mutex
	registry *Registry
	seen     map[models.ChatType]map[int64]struct{}
	limit    int
}

// NewChatStats creates a tracker backed by the given registry. A limit of
// zero or less disables the cap.
func NewChatStats(registry *Registry, limit int) *ChatStats {
	return &ChatStats{
		registry: registry,
		seen:     make(map[models.ChatType]map[int64]struct{}),
		limit:    limit,
	}
}

// Observe records a chat sighting and refreshes the known-chat gauge for
// its type.
func (s *ChatStats) Observe(chatType models.ChatType, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, exists := s.seen[chatType]
	if !exists {
		ids = make(map[int64]struct{})
		s.seen[chatType] = ids
	}

	if _, known := ids[chatID]; !known {
		if s.limit > 0 && len(ids) >= s.limit {
			return
		}
		ids[chatID] = struct{}{}
	}

	s.registry.SetGauge(
		"known_chats",
		float64(len(ids)),
		map[string]string{"type": string(chatType)},
		"Distinct chats seen since startup",
	)
}
