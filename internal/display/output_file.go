package display

import (
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// FileOutputHandler writes each frame as a PNG, replacing the file atomically
// so viewers never read a partial image.
type FileOutputHandler struct {
	filePath string
}

func NewFileOutputHandler(filePath string) *FileOutputHandler {
	return &FileOutputHandler{
		filePath: filePath,
	}
}

func (f *FileOutputHandler) GetType() string {
	return "file"
}

func (f *FileOutputHandler) Output(img image.Image) error {
	tmp := filepath.Join(filepath.Dir(f.filePath), "."+filepath.Base(f.filePath)+".tmp.png")
	if err := gg.SavePNG(tmp, img); err != nil {
		return errors.Wrap(err, "write frame")
	}
	if err := os.Rename(tmp, f.filePath); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "replace frame")
	}
	return nil
}

func (f *FileOutputHandler) Close() error {
	return nil
}
