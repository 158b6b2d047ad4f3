// Package media stores uploaded files on disk and owns their lifecycle.
//
// Files live under a configured root, in one directory per entity kind,
// under random names. The relative path stored in the database is the
// handle for every later operation. A stored file is owned by exactly one
// database row; deleting the row or replacing the image deletes the file.
package media

import (
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyFile is returned when an upload contains no data.
	ErrEmptyFile = errors.New("uploaded file is empty")
	// ErrFileTooLarge is returned when an upload exceeds the size ceiling.
	ErrFileTooLarge = errors.New("uploaded file exceeds the maximum size")
	// ErrExtNotAllowed is returned when an upload's extension is not on the allow list.
	ErrExtNotAllowed = errors.New("file extension is not allowed")
	// ErrContentMismatch is returned when an upload's content does not look like its extension.
	ErrContentMismatch = errors.New("file content does not match its extension")
	// ErrInvalidPath is returned when a stored path escapes the media root.
	ErrInvalidPath = errors.New("invalid media path")
)

// allowedTypes maps permitted extensions to the sniffed content types
// accepted for them. Sniffing uses http.DetectContentType on the first
// 512 bytes, so the extension alone never decides.
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	// svg is xml; the sniffer reports it as xml or plain text
	".svg": {"image/svg+xml", "text/xml; charset=utf-8", "text/plain; charset=utf-8"},
	".pdf": {"application/pdf"},
}

// sniffLen is the number of leading bytes http.DetectContentType considers.
const sniffLen = 512

// Store manages uploaded files under a root directory.
type Store struct {
	root    string
	baseURL string
	maxSize int64
}

// NewStore creates a media store rooted at root. Stored files are served
// under baseURL; maxSize is the upload size ceiling in bytes.
func NewStore(root, baseURL string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating media root")
	}

	return &Store{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// Validate checks an upload against the extension allow list, the size
// ceiling, and a content sniff of the file's leading bytes. A file of
// exactly the maximum size passes.
func (s *Store) Validate(filename string, size int64, head []byte) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > s.maxSize {
		return ErrFileTooLarge
	}

	accepted, ok := allowedTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return ErrExtNotAllowed
	}

	detected := http.DetectContentType(head)
	for _, want := range accepted {
		if detected == want {
			return nil
		}
	}

	return ErrContentMismatch
}

// Save validates and stores an upload under folder, returning the
// relative path to record in the database. The stored name is random;
// only the original extension survives.
func (s *Store) Save(folder, filename string, size int64, r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "reading upload")
	}
	head = head[:n]

	if err := s.Validate(filename, size, head); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	relPath := path.Join(SanitizeFolder(folder), uuid.NewString()+ext)

	absPath, err := s.abs(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", errors.Wrap(err, "creating media folder")
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", errors.Wrap(err, "creating media file")
	}
	defer f.Close()

	if _, err := f.Write(head); err != nil {
		return "", errors.Wrap(err, "writing media file")
	}
	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "writing media file")
	}

	return relPath, nil
}

// Delete removes a stored file. It reports whether a file was actually
// removed; deleting a path that no longer exists is not an error.
func (s *Store) Delete(relPath string) (bool, error) {
	if relPath == "" {
		return false, nil
	}

	absPath, err := s.abs(relPath)
	if err != nil {
		return false, err
	}

	if err := os.Remove(absPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "deleting media file")
	}

	return true, nil
}

// Replace stores a new upload and then removes the file it supersedes.
// Failure to remove the old file is logged, not returned; the new file
// is already stored and the caller's database row will point at it.
func (s *Store) Replace(oldPath, folder, filename string, size int64, r io.Reader) (string, error) {
	relPath, err := s.Save(folder, filename, size, r)
	if err != nil {
		return "", err
	}

	if _, err := s.Delete(oldPath); err != nil {
		log.Warn().Err(err).Str("path", oldPath).Msg("failed to remove replaced media file")
	}

	return relPath, nil
}

// Exists reports whether a stored file is present on disk.
func (s *Store) Exists(relPath string) bool {
	absPath, err := s.abs(relPath)
	if err != nil {
		return false
	}

	info, err := os.Stat(absPath)

	return err == nil && !info.IsDir()
}

// URL returns the public URL of a stored file.
func (s *Store) URL(relPath string) string {
	if relPath == "" {
		return ""
	}

	return s.baseURL + "/" + path.Clean(relPath)
}

// abs resolves a stored relative path below the root, rejecting paths
// that would escape it.
func (s *Store) abs(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidPath
	}

	return filepath.Join(s.root, cleaned), nil
}

// SanitizeFolder reduces a folder name to lowercase [a-z0-9-_] so entity
// kinds map to flat, predictable directories. Anything else becomes "misc".
func SanitizeFolder(folder string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(folder) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "misc"
	}

	return b.String()
}
