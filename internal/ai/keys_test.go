package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

func TestAPIKeyManagerRoundRobin(t *testing.T) {
	mgr := NewAPIKeyManager([]string{"k1", "k2", "k3"})

	var got []string
	for i := 0; i < 6; i++ {
		key, err := mgr.Next()
		require.NoError(t, err)
		got = append(got, key)
	}
	assert.Equal(t, []string{"k1", "k2", "k3", "k1", "k2", "k3"}, got)
}

func TestAPIKeyManagerRemove(t *testing.T) {
	mgr := NewAPIKeyManager([]string{"k1", "k2"})
	mgr.Remove("k1")
	assert.Equal(t, 1, mgr.Len())

	for i := 0; i < 3; i++ {
		key, err := mgr.Next()
		require.NoError(t, err)
		assert.Equal(t, "k2", key)
	}

	mgr.Remove("k2")
	_, err := mgr.Next()
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoAPIKey.Code, appErrors.FromError(err).Code)
}

func TestAPIKeyManagerEmpty(t *testing.T) {
	mgr := NewAPIKeyManager(nil)
	_, err := mgr.Next()
	require.Error(t, err)
}
