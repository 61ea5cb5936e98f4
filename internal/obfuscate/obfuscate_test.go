package obfuscate

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyKnownBytes(t *testing.T) {
	t.Parallel()

	// 'Y' is 0x59, 'o' is 0x6f
	out := Apply([]byte{0x00, 0xff, 0x59}, DefaultKey)
	assert.Equal(t, []byte{0x59, 0x90, 0x59 ^ 'u'}, out)
}

func TestApplyIsItsOwnInverse(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	for _, size := range []int{0, 1, 12, 13, 14, 4096} {
		data := make([]byte, size)
		rng.Read(data)
		once := Apply(data, DefaultKey)
		assert.Equal(t, data, Apply(once, DefaultKey), "size %d", size)
		if size >= len(DefaultKey) {
			assert.NotEqual(t, data, once)
		}
	}
}

func TestReaderMatchesApply(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("RIFF....WAVEfmt "), 50)
	// one byte per read crosses every key boundary
	r := NewReader(iotest.OneByteReader(bytes.NewReader(data)), DefaultKey)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, Apply(data, DefaultKey), out)
}

func TestFileWritesUniqueBytesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "song.ogg")
	data := []byte("OggS fake audio payload")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	first, err := File(src, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "song.bytes"), first)

	second, err := File(src, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "song 1.bytes"), second)

	written, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, data, Apply(written, DefaultKey))

	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, data, original)
}

func TestFileRejectsNonAudio(t *testing.T) {
	t.Parallel()

	_, err := File(filepath.Join(t.TempDir(), "chart.json"), DefaultKey)
	assert.True(t, errors.Is(err, ErrNotAudio))
}
