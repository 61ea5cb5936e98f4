package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	position int64
	total    int64
	playing  bool
	seeks    []int64
}

func (f *fakeTransport) CurrentPositionMs() int64 { return f.position }
func (f *fakeTransport) TotalDurationMs() int64   { return f.total }
func (f *fakeTransport) IsPlaying() bool          { return f.playing }

func (f *fakeTransport) Seek(ms int64) error {
	f.seeks = append(f.seeks, ms)
	f.position = ms
	return nil
}

func TestPlayheadFollowsTransport(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{position: 1500, total: 60000, playing: true}
	p := NewPlayhead(tr)

	assert.Equal(t, int64(1500), p.Sync())
	assert.Equal(t, int64(60000), p.Total())

	tr.position = 1516
	assert.Equal(t, int64(1516), p.Sync())

	tr.playing = false
	tr.position = 0
	assert.Equal(t, int64(1516), p.Sync())
}

func TestPlayheadIgnoresTransportWhileSeeking(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{position: 1000, total: 60000, playing: true}
	p := NewPlayhead(tr)
	p.Sync()

	require.NoError(t, p.BeginSeek(5000))
	assert.True(t, p.Seeking())
	assert.Equal(t, []int64{5000}, tr.seeks)

	// The transport lags behind the seek for a few frames.
	tr.position = 1016
	assert.Equal(t, int64(5000), p.Sync())

	p.EndSeek()
	tr.position = 5016
	assert.Equal(t, int64(5016), p.Sync())
}

func TestPlayheadSeekIsClamped(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{total: 3000, playing: true}
	p := NewPlayhead(tr)
	p.Sync()

	require.NoError(t, p.BeginSeek(-200))
	assert.Equal(t, int64(0), p.Position())
	require.NoError(t, p.BeginSeek(9000))
	assert.Equal(t, int64(3000), p.Position())
	assert.Equal(t, []int64{0, 3000}, tr.seeks)
}

func TestPlayheadWithoutTransport(t *testing.T) {
	t.Parallel()

	p := NewPlayhead(nil)
	require.NoError(t, p.BeginSeek(1200))
	p.EndSeek()
	assert.Equal(t, int64(1200), p.Sync())

	p.Reset()
	assert.Equal(t, int64(0), p.Position())
	assert.False(t, p.Seeking())
}
