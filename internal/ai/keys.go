package ai

import (
	"sync"

	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

// APIKeyManager rotates through a pool of API keys, one per call, so
// rate limits spread across keys. Keys can be removed permanently when
// a provider rejects them.
type APIKeyManager struct {
	mu    sync.Mutex
	keys  []string
	index int
}

// NewAPIKeyManager builds a manager over the provided keys.
func NewAPIKeyManager(keys []string) *APIKeyManager {
	owned := make([]string, len(keys))
	copy(owned, keys)
	return &APIKeyManager{keys: owned}
}

// Next returns the current key and advances the rotation.
func (m *APIKeyManager) Next() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.keys) == 0 {
		return "", appErrors.ErrNoAPIKey
	}
	key := m.keys[m.index%len(m.keys)]
	m.index++
	return key, nil
}

// Remove permanently drops a key from the rotation.
func (m *APIKeyManager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.keys[:0]
	for _, k := range m.keys {
		if k != key {
			kept = append(kept, k)
		}
	}
	m.keys = kept
	if len(m.keys) > 0 {
		m.index %= len(m.keys)
	} else {
		m.index = 0
	}
}

// Len reports how many keys remain in the rotation.
func (m *APIKeyManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}
