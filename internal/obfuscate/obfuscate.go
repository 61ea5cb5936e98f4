// Package obfuscate scrambles audio files so they cannot be played directly.
// The transform is a repeating-key XOR and is its own inverse. It hides the
// content from casual inspection and offers no secrecy.
package obfuscate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const DefaultKey = "YourSecretKey"

// Extension is given to obfuscated files.
const Extension = ".bytes"

var ErrNotAudio = errors.New("not an audio file")

// Apply returns data XORed with the repeating key. Applying it twice with
// the same key returns the original data.
func Apply(data []byte, key string) []byte {
	out := make([]byte, len(data))
	xor(out, data, []byte(key), 0)
	return out
}

func xor(dst, src, key []byte, offset int64) {
	if len(key) == 0 {
		copy(dst, src)
		return
	}
	k := int(offset % int64(len(key)))
	for i, b := range src {
		dst[i] = b ^ key[k]
		k++
		if k == len(key) {
			k = 0
		}
	}
}

// Reader applies the transform to everything read through it.
type Reader struct {
	r      io.Reader
	key    []byte
	offset int64
}

func NewReader(r io.Reader, key string) *Reader {
	return &Reader{r: r, key: []byte(key)}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	xor(p[:n], p[:n], r.key, r.offset)
	r.offset += int64(n)
	return n, err
}

// IsAudio reports whether path names an audio file the transform accepts.
func IsAudio(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".ogg", ".mp3":
		return true
	}
	return false
}

// UniquePath returns path with its extension replaced by ext, numbered
// "name 1.bytes", "name 2.bytes" and so on if the name is already taken.
func UniquePath(path, ext string) (string, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	candidate := base + ext
	for i := 1; ; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if nil != err {
			return "", fmt.Errorf("unable to check %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s %d%s", base, i, ext)
	}
}

// File writes an obfuscated copy of the audio file at src next to it and
// returns the path written. The source is left untouched.
func File(src, key string) (string, error) {
	if !IsAudio(src) {
		return "", fmt.Errorf("%w: %s", ErrNotAudio, src)
	}
	data, err := os.ReadFile(src)
	if nil != err {
		return "", fmt.Errorf("unable to read %s: %w", src, err)
	}
	dst, err := UniquePath(src, Extension)
	if nil != err {
		return "", err
	}
	if err := os.WriteFile(dst, Apply(data, key), 0o644); nil != err {
		return "", fmt.Errorf("unable to write %s: %w", dst, err)
	}
	return dst, nil
}
