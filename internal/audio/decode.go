package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/eote/internal/obfuscate"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// Decode opens an mp3, ogg or wav file. Obfuscated .bytes files are
// unscrambled with key and recognised by their header.
func Decode(path, key string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == obfuscate.Extension {
		data, err := os.ReadFile(path)
		if nil != err {
			return nil, beep.Format{}, fmt.Errorf("unable to read %s: %w", path, err)
		}
		return decodeBytes(obfuscate.Apply(data, key))
	}

	f, err := os.Open(path)
	if nil != err {
		return nil, beep.Format{}, fmt.Errorf("unable to open %s: %w", path, err)
	}
	return decodeAs(ext, f)
}

func decodeBytes(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	return decodeAs(sniff(data), memFile{bytes.NewReader(data)})
}

// sniff guesses the container from the first bytes.
func sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("OggS")):
		return ".ogg"
	case bytes.HasPrefix(data, []byte("RIFF")):
		return ".wav"
	}
	return ".mp3"
}

func decodeAs(ext string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	var streamer beep.StreamSeekCloser
	var format beep.Format
	var err error
	switch ext {
	case ".ogg":
		streamer, format, err = vorbis.Decode(rc)
	case ".mp3":
		streamer, format, err = mp3.Decode(rc)
	case ".wav":
		streamer, format, err = wav.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
	if nil != err {
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to decode %s audio: %w", ext, err)
	}
	return streamer, format, nil
}
