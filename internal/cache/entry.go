package cache

import (
	"encoding/json"
	"time"
)

// Entry is the persisted envelope for a cached response. The payload is kept
// as raw JSON so the envelope can be decoded and expiry-checked without
// knowing the payload type.
type Entry struct {
	Data   json.RawMessage `json:"data"`
	Expiry int64           `json:"expiry"` // epoch millis
}

// NewEntry wraps an already-marshalled payload with its expiry deadline.
func NewEntry(payload json.RawMessage, expiresAt time.Time) Entry {
	return Entry{
		Data:   payload,
		Expiry: expiresAt.UnixMilli(),
	}
}

// Expired reports whether the entry's deadline has passed at the given time.
func (e Entry) Expired(now time.Time) bool {
	return now.UnixMilli() >= e.Expiry
}

// Encode serializes the envelope for storage.
func (e Entry) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEntry parses a stored envelope. A false return indicates corruption:
// callers treat this as a cache miss rather than an error, so a damaged
// entry can never fail a lookup.
func DecodeEntry(raw []byte) (Entry, bool) {
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false
	}
	if e.Data == nil {
		return Entry{}, false
	}
	return e, true
}
