package filestorage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload describes an import file being archived.
type Upload struct {
	Entity   string
	Mode     string
	FileName string
}

// Archived is where an upload ended up and what it contained.
type Archived struct {
	Path   string
	Size   int64
	SHA256 string
}

// FileStorageInterface keeps copies of uploaded import files.
type FileStorageInterface interface {
	Save(file io.Reader, prefix string, upload Upload) (*Archived, error)
}

type LocalFileStorage struct {
	basePath string
	now      func() time.Time
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory %s: %w", basePath, err)
	}
	return &LocalFileStorage{basePath: basePath, now: time.Now}, nil
}

// Save writes the upload to <prefix>/<entity>/YYYY/MM/DD/<time>-<mode>-<id>-<name>.
// The file appears under its final name only once fully written.
func (s *LocalFileStorage) Save(file io.Reader, prefix string, upload Upload) (*Archived, error) {
	at := s.now().UTC()
	entity := safeName(upload.Entity)
	if entity == "" {
		entity = "unknown"
	}
	relDir := filepath.Join(prefix, entity, at.Format("2006/01/02"))
	name := fmt.Sprintf("%s-%s-%s-%s",
		at.Format("150405"), safeName(upload.Mode), uuid.NewString()[:8], archiveFileName(upload.FileName))

	dir := filepath.Join(s.basePath, relDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create archive file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hash), file)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("write archive file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return nil, fmt.Errorf("finalize archive file: %w", err)
	}

	return &Archived{
		Path:   filepath.ToSlash(filepath.Join(relDir, name)),
		Size:   size,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// archiveFileName keeps the uploaded base name readable but filesystem safe.
func archiveFileName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := safeName(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "upload"
	}
	if len(stem) > 64 {
		stem = stem[:64]
	}
	if ext = safeName(strings.TrimPrefix(ext, ".")); ext != "" {
		return stem + "." + ext
	}
	return stem
}

func safeName(s string) string {
	return strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, s), "._")
}
