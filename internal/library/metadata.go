package library

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/jscyril/flowaudio/api"
)

// MetadataReader builds clips from audio files, taking titles from tags
type MetadataReader struct{}

// NewMetadataReader creates a new metadata reader
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Read returns a clip for filePath. Files without readable tags are named
// after the file.
func (r *MetadataReader) Read(filePath string) (*api.Clip, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	clip := &api.Clip{
		ID:   ClipID(filePath),
		Name: baseName(filePath),
		Path: filePath,
	}

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return clip, nil
	}

	clip.Name = getOrDefault(metadata.Title(), clip.Name)
	clip.Artist = metadata.Artist()
	return clip, nil
}

// ClipID derives a stable clip ID from its file path
func ClipID(filePath string) string {
	hash := md5.Sum([]byte(filepath.Clean(filePath)))
	return fmt.Sprintf("clip-%x", hash[:8])
}

// baseName returns the file name without directory or extension
func baseName(filePath string) string {
	name := filepath.Base(filePath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// getOrDefault returns the value if non-empty, otherwise returns the default
func getOrDefault(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
