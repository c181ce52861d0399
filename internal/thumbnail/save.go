package thumbnail

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
)

// Save writes every loaded thumbnail to dir as <clip id>.jpg and returns the
// paths written, in no particular order.
func Save(dir string, thumbs Thumbnails) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	paths := make([]string, 0, thumbs.Loaded())
	for id, img := range thumbs.images {
		path := filepath.Join(dir, safeName(id)+".jpg")
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", path, err)
		}
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
		closeErr := f.Close()
		if err != nil {
			return paths, fmt.Errorf("failed to encode %s: %w", path, err)
		}
		if closeErr != nil {
			return paths, closeErr
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func safeName(id string) string {
	return filepath.Base(filepath.Clean("/" + id))
}
