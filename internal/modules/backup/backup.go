// Package backup archives the local notes blob into timestamped zip
// files, keeps a bounded number of them, and optionally mirrors each
// archive to S3.
package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const manifestFile = "manifest.json"

type manifest struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
}

type Item struct {
	Filename string `json:"filename"`
	Size     string `json:"size"`
}

// Service creates and lists notes-blob backups.
type Service struct {
	notesPath string
	dir       string
	keep      int
	uploader  *S3Uploader
	logger    *zap.Logger
}

func NewService(notesPath, dir string, keep int, uploader *S3Uploader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keep <= 0 {
		keep = 7
	}
	return &Service{
		notesPath: notesPath,
		dir:       dir,
		keep:      keep,
		uploader:  uploader,
		logger:    logger,
	}
}

// Create writes one archive, prunes old ones and uploads if configured.
func (s *Service) Create(ctx context.Context) (*Item, error) {
	now := time.Now()
	buf, err := s.createZip(now)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	filename := fmt.Sprintf("backup-%s.zip", now.Format("2006-01-02T15-04-05"))
	if err := os.WriteFile(filepath.Join(s.dir, filename), buf.Bytes(), 0o644); err != nil {
		return nil, err
	}

	s.prune()

	if s.uploader != nil {
		key := renderObjectKey(s.uploader.PathTemplate(), filename, now)
		if _, err := s.uploader.Upload(ctx, key, buf.Bytes()); err != nil {
			s.logger.Warn("s3 upload failed", zap.String("key", key), zap.Error(err))
		} else {
			s.logger.Info("backup uploaded", zap.String("key", key))
		}
	}

	return &Item{Filename: filename, Size: formatSize(int64(buf.Len()))}, nil
}

// List returns the archives currently on disk, newest first.
func (s *Service) List() []Item {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return []Item{}
	}
	items := []Item{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{Filename: e.Name(), Size: formatSize(info.Size())})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Filename > items[j].Filename })
	return items
}

func (s *Service) createZip(now time.Time) (*bytes.Buffer, error) {
	notes, err := os.ReadFile(s.notesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read notes blob: %w", err)
		}
		notes = []byte("{}")
	}

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)

	f, err := w.Create("notes.json")
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(notes); err != nil {
		return nil, err
	}

	m := manifest{
		Format:    "moodnotes-backup",
		Version:   1,
		CreatedAt: now.UTC(),
		Source:    filepath.Base(s.notesPath),
	}
	if data, err := json.Marshal(m); err == nil {
		if mf, err := w.Create(manifestFile); err == nil {
			_, _ = mf.Write(data)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

// prune deletes the oldest archives beyond the retention count.
func (s *Service) prune() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".zip") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.keep {
		return
	}
	// Filenames embed the timestamp, so lexical order is age order.
	sort.Strings(names)
	for _, name := range names[:len(names)-s.keep] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.Warn("prune backup failed", zap.String("filename", name), zap.Error(err))
		}
	}
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func renderObjectKey(template, filename string, now time.Time) string {
	tpl := strings.TrimSpace(template)
	if tpl == "" {
		tpl = "backups/{Y}/{m}/{filename}"
	}

	replacer := strings.NewReplacer(
		"{Y}", now.Format("2006"),
		"{m}", now.Format("01"),
		"{d}", now.Format("02"),
		"{filename}", filename,
	)

	key := replacer.Replace(tpl)
	key = strings.TrimSpace(strings.TrimPrefix(key, "/"))
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	if key == "" {
		return filename
	}
	return key
}
