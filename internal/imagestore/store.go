// Package imagestore keeps uploaded node pictures on the local filesystem,
// content-addressed under <root>/<type>/<hash>.<ext>.
package imagestore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrTooLarge indicates an upload above the size limit
	ErrTooLarge = errors.New("image too large")

	// ErrUnsupportedType indicates content that is not an accepted image format
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrInvalidFolder indicates an image folder name outside [A-Za-z0-9_-]
	ErrInvalidFolder = errors.New("invalid image folder")
)

// extensions maps accepted content types to file extensions
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	folderPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	imgPattern    = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,40}$`)
)

const (
	hashLength   = 16
	lockTimeout  = 3 * time.Second
	lockInterval = 50 * time.Millisecond
)

// Store writes and resolves images
type Store struct {
	root         string
	baseURL      string
	defaultImage string
	maxBytes     int64
	fileLock     *flock.Flock
	mu           sync.Mutex
}

// New creates a store rooted at dir. baseURL prefixes public URLs and
// defaultImage (e.g. "/caracteres/default.webp") is served when a node has
// no picture.
func New(dir, baseURL, defaultImage string, maxBytes int64) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("image directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &Store{
		root:         dir,
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultImage: "/" + strings.TrimLeft(defaultImage, "/"),
		maxBytes:     maxBytes,
		fileLock:     flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Root returns the directory served as static files
func (s *Store) Root() string {
	return s.root
}

// Save stores the image read from r in folder and returns its file name.
// Identical content always maps to the same name.
func (s *Store) Save(ctx context.Context, folder string, r io.Reader) (string, error) {
	if !folderPattern.MatchString(folder) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}

	ext, err := Extension(data)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:])[:hashLength] + ext

	s.mu.Lock()
	defer s.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := s.fileLock.TryLockContext(lockCtx, lockInterval)
	if err != nil {
		return "", fmt.Errorf("failed to acquire image lock: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("could not acquire image lock")
	}
	defer func() { _ = s.fileLock.Unlock() }()

	dir := filepath.Join(s.root, folder)
	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err == nil {
		return name, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return name, nil
}

// URL returns the public URL of an image, or of the default image when img
// is empty or not a plain file name.
func (s *Store) URL(folder, img string) string {
	if img == "" || !imgPattern.MatchString(img) || !folderPattern.MatchString(folder) {
		return s.baseURL + s.defaultImage
	}
	return s.baseURL + path.Join("/", folder, img)
}

// Extension sniffs the content type of data and returns the matching
// extension.
func Extension(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return ext, nil
}
