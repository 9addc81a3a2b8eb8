package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("exports/report.csv", []byte("a;b\n1;2\n"))
	require.NoError(t, err)
	assert.Equal(t, "exports/report.csv", rel)

	file, err := store.Open(rel)
	require.NoError(t, err)
	defer file.Close()

	data, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	assert.Equal(t, "a;b\n1;2\n", string(data))
}

func TestLocalStorageRejectsEscapingNames(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	for _, name := range []string{
		"",
		"/etc/passwd",
		"../outside.txt",
		"../../outside.txt",
		"exports/../../outside.txt",
	} {
		_, err := store.Save(name, []byte("x"))
		assert.Error(t, err, name)

		_, err = store.Path(name)
		assert.Error(t, err, name)
	}

	// A dotted segment that still lands inside the base dir is fine.
	path, err := store.Path("exports/../report.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "report.csv"), path)
}
