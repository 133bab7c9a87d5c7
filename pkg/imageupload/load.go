package imageupload

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// LoadFile reads path into a File. The MIME type is sniffed from content.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageupload: load %s: %w", path, err)
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return &File{
		Name: filepath.Base(path),
		Path: path,
		Type: http.DetectContentType(head),
		Size: int64(len(data)),
		Data: data,
	}, nil
}
