package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage stores contract documents on the local filesystem, keyed by
// project id. Download links are HMAC-signed with a TTL so the API can hand
// them to the UI without exposing raw paths.
type LocalStorage struct {
	basePath string
	secret   []byte
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath, secret string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, secret: []byte(secret)}, nil
}

// Upload saves a document under projects/<projectID>/ and returns its
// relative path. The stored name is randomized; the original filename only
// contributes its extension.
func (s *LocalStorage) Upload(projectID uint, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.basePath, "projects", strconv.FormatUint(uint64(projectID), 10))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := filepath.Ext(filename)
	stored := uuid.New().String() + ext
	fullPath := filepath.Join(dir, stored)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, fullPath)
	return filepath.ToSlash(relPath), nil
}

// Open returns a reader for a stored document
func (s *LocalStorage) Open(relPath string) (io.ReadCloser, error) {
	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("invalid path: %s", relPath)
	}
	return os.Open(filepath.Join(s.basePath, clean))
}

// SignedURL returns a relative download URL valid for the given TTL
func (s *LocalStorage) SignedURL(relPath string, ttl time.Duration) string {
	expires := time.Now().Add(ttl).Unix()
	sig := s.sign(relPath, expires)
	return fmt.Sprintf("/api/v1/documents/download?path=%s&expires=%d&sig=%s", relPath, expires, sig)
}

// VerifySignature checks a signed download request. It returns an error for
// expired or tampered links.
func (s *LocalStorage) VerifySignature(relPath string, expires int64, sig string) error {
	if time.Now().Unix() > expires {
		return fmt.Errorf("el enlace de descarga ha expirado")
	}
	expected := s.sign(relPath, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("firma de descarga inválida")
	}
	return nil
}

func (s *LocalStorage) sign(relPath string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", relPath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
