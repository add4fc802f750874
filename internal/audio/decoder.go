package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	playerrors "github.com/jscyril/flowaudio/pkg/errors"
)

type decodeFunc func(io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3": func(r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return mp3.Decode(r)
	},
	".wav": func(r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(r)
	},
	".flac": func(r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return flac.Decode(r)
	},
}

// SupportedFormats returns the supported file extensions, sorted
func SupportedFormats() []string {
	formats := make([]string, 0, len(decoders))
	for ext := range decoders {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// IsSupported checks if a file format is supported
func IsSupported(filePath string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// DecodeFile opens and decodes an audio file based on its extension.
// The caller must close the returned streamer.
func DecodeFile(filePath string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	decode, ok := decoders[ext]
	if !ok {
		return nil, beep.Format{}, fmt.Errorf("%w: %s", playerrors.ErrInvalidFormat, ext)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, beep.Format{}, err
	}

	streamer, format, err := decode(file)
	if err != nil {
		file.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}
