package service

// Whitelist is the admission policy: an empty whitelist admits every chat,
// a non-empty one admits only the listed chat ids. Read-only after startup.
type Whitelist struct {
	ids map[int64]struct{}
}

func NewWhitelist(chatIDs []int64) *Whitelist {
	ids := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		ids[id] = struct{}{}
	}
	return &Whitelist{ids: ids}
}

// Admit reports whether events from the given chat should be processed.
func (w *Whitelist) Admit(chatID int64) bool {
	if len(w.ids) == 0 {
		return true
	}
	_, ok := w.ids[chatID]
	return ok
}
