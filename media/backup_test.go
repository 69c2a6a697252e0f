package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, ProductsFolder), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, ProductsFolder, "a.jpg"), []byte("a"), 0o644))

	backups := t.TempDir()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	dest, err := Backup(src, backups, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backups, "2026-01-02_03-04-05"), dest)

	data, err := os.ReadFile(filepath.Join(dest, ProductsFolder, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestPruneBackups(t *testing.T) {
	backups := t.TempDir()
	old := filepath.Join(backups, "old")
	fresh := filepath.Join(backups, "fresh")
	require.NoError(t, os.Mkdir(old, 0o755))
	require.NoError(t, os.Mkdir(fresh, 0o755))

	now := time.Now()
	require.NoError(t, os.Chtimes(old, now.Add(-10*24*time.Hour), now.Add(-10*24*time.Hour)))

	PruneBackups(backups, 4*24*time.Hour, now)

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestRunDailyBackup_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunDailyBackup(ctx, t.TempDir(), t.TempDir(), time.Hour, 2, 0)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunDailyBackup did not return after cancel")
	}
}
