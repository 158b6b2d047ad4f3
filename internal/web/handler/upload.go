package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mf010/dynamic-website-sub000/internal/media"
)

// SaveFormImage stores an optional image file posted in a multipart form.
// It returns the stored path, or oldPath unchanged when the form carries no
// file. When a file is posted and oldPath is not empty, the old file is
// replaced.
func SaveFormImage(c *fiber.Ctx, store *media.Store, field, folder, oldPath string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader == nil {
		// no file posted, keep the current image
		return oldPath, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close uploaded file")
		}
	}()

	if oldPath != "" {
		return store.Replace(oldPath, folder, fileHeader.Filename, fileHeader.Size, f)
	}

	return store.Save(folder, fileHeader.Filename, fileHeader.Size, f)
}
