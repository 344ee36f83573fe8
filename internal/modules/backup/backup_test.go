package backup

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArchivesNotesBlob(t *testing.T) {
	dir := t.TempDir()
	notesPath := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(notesPath, []byte(`{"2025-03-14":{"text":"x"}}`), 0o644))

	svc := NewService(notesPath, filepath.Join(dir, "backups"), 7, nil, nil)
	item, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.Contains(t, item.Filename, "backup-")

	zr, err := zip.OpenReader(filepath.Join(dir, "backups", item.Filename))
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["notes.json"])
	assert.True(t, names["manifest.json"])
}

func TestCreateWithMissingBlobArchivesEmptyMap(t *testing.T) {
	dir := t.TempDir()

	svc := NewService(filepath.Join(dir, "missing.json"), filepath.Join(dir, "backups"), 7, nil, nil)
	item, err := svc.Create(context.Background())
	require.NoError(t, err)

	zr, err := zip.OpenReader(filepath.Join(dir, "backups", item.Filename))
	require.NoError(t, err)
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "notes.json" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		buf := make([]byte, 16)
		n, _ := rc.Read(buf)
		rc.Close()
		assert.Equal(t, "{}", string(buf[:n]))
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	notesPath := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(notesPath, []byte(`{}`), 0o644))

	backupsDir := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(backupsDir, 0o755))
	old := []string{
		"backup-2020-01-01T00-00-00.zip",
		"backup-2020-01-02T00-00-00.zip",
		"backup-2020-01-03T00-00-00.zip",
	}
	for _, name := range old {
		require.NoError(t, os.WriteFile(filepath.Join(backupsDir, name), []byte("x"), 0o644))
	}

	svc := NewService(notesPath, backupsDir, 2, nil, nil)
	_, err := svc.Create(context.Background())
	require.NoError(t, err)

	items := svc.List()
	require.Len(t, items, 2, "retention keeps the newest archives only")
	assert.Contains(t, items[0].Filename, "backup-20")
	for _, it := range items {
		assert.NotEqual(t, old[0], it.Filename)
		assert.NotEqual(t, old[1], it.Filename)
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"backup-2020-01-01T00-00-00.zip",
		"backup-2020-01-03T00-00-00.zip",
		"backup-2020-01-02T00-00-00.zip",
		"ignore.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	svc := NewService("unused", dir, 7, nil, nil)
	items := svc.List()
	require.Len(t, items, 3)
	assert.Equal(t, "backup-2020-01-03T00-00-00.zip", items[0].Filename)
	assert.Equal(t, "backup-2020-01-01T00-00-00.zip", items[2].Filename)
}

func TestRenderObjectKey(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "backups/2025/03/b.zip", renderObjectKey("", "b.zip", now))
	assert.Equal(t, "diary/2025-03-14/b.zip", renderObjectKey("diary/{Y}-{m}-{d}/{filename}", "b.zip", now))
	assert.Equal(t, "b.zip", renderObjectKey("/", "b.zip", now))
}
