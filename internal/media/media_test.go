package media

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngData returns bytes that sniff as image/png, padded to size.
func pngData(size int) []byte {
	header := []byte("\x89PNG\r\n\x1a\n")
	data := make([]byte, size)
	copy(data, header)

	return data
}

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), "/media", 1024)
	require.NoError(t, err)

	return store
}

func TestValidate(t *testing.T) {
	store := setupStore(t)

	testCases := []struct {
		name          string
		filename      string
		size          int64
		head          []byte
		expectedError error
	}{
		{
			name:          "empty file",
			filename:      "photo.png",
			size:          0,
			expectedError: ErrEmptyFile,
		},
		{
			name:          "over the size ceiling",
			filename:      "photo.png",
			size:          1025,
			head:          pngData(512),
			expectedError: ErrFileTooLarge,
		},
		{
			name:     "exactly the size ceiling",
			filename: "photo.png",
			size:     1024,
			head:     pngData(512),
		},
		{
			name:          "extension not allowed",
			filename:      "notes.txt",
			size:          10,
			head:          []byte("plain text"),
			expectedError: ErrExtNotAllowed,
		},
		{
			name:          "no extension",
			filename:      "photo",
			size:          10,
			head:          pngData(10),
			expectedError: ErrExtNotAllowed,
		},
		{
			name:          "content does not match extension",
			filename:      "fake.png",
			size:          20,
			head:          []byte("<html><body></body>"),
			expectedError: ErrContentMismatch,
		},
		{
			name:     "uppercase extension accepted",
			filename: "PHOTO.PNG",
			size:     100,
			head:     pngData(100),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Validate(tc.filename, tc.size, tc.head)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSave(t *testing.T) {
	store := setupStore(t)

	data := pngData(600)
	relPath, err := store.Save("news", "photo.png", int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relPath, "news/"))
	assert.True(t, strings.HasSuffix(relPath, ".png"))
	assert.NotContains(t, relPath, "photo")
	assert.True(t, store.Exists(relPath))

	// The stored file holds the full upload, sniffed head included
	stored, err := os.ReadFile(filepath.Join(store.root, filepath.FromSlash(relPath)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	// Two saves of the same upload never collide
	other, err := store.Save("news", "photo.png", int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)
	assert.NotEqual(t, relPath, other)
}

func TestSaveRejectsInvalidUpload(t *testing.T) {
	store := setupStore(t)

	_, err := store.Save("news", "notes.txt", 10, strings.NewReader("plain text"))
	require.ErrorIs(t, err, ErrExtNotAllowed)

	big := pngData(2048)
	_, err = store.Save("news", "big.png", int64(len(big)), bytes.NewReader(big))
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := setupStore(t)

	data := pngData(100)
	relPath, err := store.Save("sliders", "banner.png", int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)

	removed, err := store.Delete(relPath)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, store.Exists(relPath))

	// Second delete of the same path reports nothing removed
	removed, err = store.Delete(relPath)
	require.NoError(t, err)
	assert.False(t, removed)

	// Empty path is a no-op
	removed, err = store.Delete("")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeleteRejectsEscapingPaths(t *testing.T) {
	store := setupStore(t)

	_, err := store.Delete("../outside.png")
	require.ErrorIs(t, err, ErrInvalidPath)

	_, err = store.Delete("/etc/passwd")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestReplace(t *testing.T) {
	store := setupStore(t)

	oldData := pngData(100)
	oldPath, err := store.Save("news", "old.png", int64(len(oldData)), bytes.NewReader(oldData))
	require.NoError(t, err)

	newData := pngData(200)
	newPath, err := store.Replace(oldPath, "news", "new.png", int64(len(newData)), bytes.NewReader(newData))
	require.NoError(t, err)

	assert.NotEqual(t, oldPath, newPath)
	assert.True(t, store.Exists(newPath))
	assert.False(t, store.Exists(oldPath))

	// Replacing with no prior file just saves
	fresh, err := store.Replace("", "news", "fresh.png", int64(len(newData)), bytes.NewReader(newData))
	require.NoError(t, err)
	assert.True(t, store.Exists(fresh))
}

func TestReplaceKeepsOldFileOnInvalidUpload(t *testing.T) {
	store := setupStore(t)

	oldData := pngData(100)
	oldPath, err := store.Save("news", "old.png", int64(len(oldData)), bytes.NewReader(oldData))
	require.NoError(t, err)

	_, err = store.Replace(oldPath, "news", "bad.txt", 10, strings.NewReader("plain text"))
	require.ErrorIs(t, err, ErrExtNotAllowed)
	assert.True(t, store.Exists(oldPath))
}

func TestURL(t *testing.T) {
	store := setupStore(t)

	assert.Equal(t, "/media/news/abc.png", store.URL("news/abc.png"))
	assert.Empty(t, store.URL(""))

	trailing, err := NewStore(t.TempDir(), "/media/", 1024)
	require.NoError(t, err)
	assert.Equal(t, "/media/news/abc.png", trailing.URL("news/abc.png"))
}

func TestSanitizeFolder(t *testing.T) {
	testCases := []struct {
		name     string
		folder   string
		expected string
	}{
		{name: "already clean", folder: "news", expected: "news"},
		{name: "uppercase lowered", folder: "News", expected: "news"},
		{name: "separators stripped", folder: "../etc", expected: "etc"},
		{name: "spaces and symbols stripped", folder: "my folder!", expected: "myfolder"},
		{name: "underscore and hyphen kept", folder: "news_2026-q1", expected: "news_2026-q1"},
		{name: "nothing left", folder: "../..", expected: "misc"},
		{name: "empty", folder: "", expected: "misc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFolder(tc.folder))
		})
	}
}
