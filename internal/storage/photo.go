package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// PhotoStore writes employee photos below a single directory of fs. Stored
// photos are referenced by their relative path, e.g. "uploads/1700000000-me.png".
type PhotoStore struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

func NewPhotoStore(fs afero.Fs, dir string, logger *slog.Logger) *PhotoStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoStore{
		fs:     fs,
		dir:    strings.Trim(path.Clean("/"+dir), "/"),
		logger: logger,
	}
}

// NewLocalPhotoStore roots the store at root on the local disk.
func NewLocalPhotoStore(root, dir string, logger *slog.Logger) *PhotoStore {
	return NewPhotoStore(afero.NewBasePathFs(afero.NewOsFs(), root), dir, logger)
}

// Save writes data under a name unique to the submission time and returns the
// relative path to persist. The directory is created when missing.
func (s *PhotoStore) Save(originalName string, data []byte, at time.Time) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty photo upload")
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	detected := mimetype.Detect(data)
	name := UniqueName(originalName, detected.Extension(), at)
	relPath := path.Join(s.dir, name)

	if err := afero.WriteFile(s.fs, relPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}

	s.logger.Info("photo stored",
		"path", relPath,
		"original_name", originalName,
		"mime_type", detected.String(),
		"size", len(data))
	return relPath, nil
}

// Remove deletes a previously saved photo. Missing files are not an error.
func (s *PhotoStore) Remove(relPath string) error {
	clean := strings.TrimPrefix(path.Clean("/"+relPath), "/")
	if !strings.HasPrefix(clean, s.dir+"/") {
		return fmt.Errorf("photo path %q is outside %q", relPath, s.dir)
	}
	if err := s.fs.Remove(clean); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}

// Exists reports whether relPath is present in the store.
func (s *PhotoStore) Exists(relPath string) bool {
	ok, err := afero.Exists(s.fs, strings.TrimPrefix(path.Clean("/"+relPath), "/"))
	return err == nil && ok
}

// Ping makes sure the photo directory exists and is a directory.
func (s *PhotoStore) Ping(_ context.Context) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	info, err := s.fs.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat upload dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// Prefix is the URL path photos are served under.
func (s *PhotoStore) Prefix() string {
	return "/" + s.dir + "/"
}

// Handler serves stored photos; mount it at Prefix(). Directories are not
// listed.
func (s *PhotoStore) Handler() http.Handler {
	photos := afero.NewHttpFs(afero.NewBasePathFs(s.fs, s.dir))
	return http.StripPrefix(strings.TrimSuffix(s.Prefix(), "/"), http.FileServer(filesOnly{photos}))
}

// filesOnly hides directories from http.FileServer.
type filesOnly struct {
	http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// UniqueName derives "<unixnano>-<base name>" from the submission time and the
// client file name. fallbackExt is used when the client name has no extension.
func UniqueName(originalName, fallbackExt string, at time.Time) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "photo"
	}
	if filepath.Ext(base) == "" && fallbackExt != "" {
		base += fallbackExt
	}
	return fmt.Sprintf("%d-%s", at.UnixNano(), base)
}
