package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func TestClockTransport(t *testing.T) {
	cl := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	tr := NewClockTransport(cl, 3000, 1)

	require.NoError(t, tr.Play())
	cl.SetTime(cl.Now().Add(1200 * time.Millisecond))
	assert.Equal(t, int64(1200), tr.CurrentPositionMs())

	tr.Pause()
	cl.SetTime(cl.Now().Add(time.Second))
	assert.Equal(t, int64(1200), tr.CurrentPositionMs())
	assert.False(t, tr.IsPlaying())

	require.NoError(t, tr.Seek(2500))
	require.NoError(t, tr.Resume())
	cl.SetTime(cl.Now().Add(time.Second))
	assert.Equal(t, int64(3000), tr.CurrentPositionMs())
	assert.False(t, tr.IsPlaying())

	// playing again after the end starts over
	require.NoError(t, tr.Play())
	assert.Equal(t, int64(0), tr.CurrentPositionMs())
}

func TestClockTransportRate(t *testing.T) {
	cl := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	tr := NewClockTransport(cl, 10000, 1.5)

	require.NoError(t, tr.Play())
	cl.SetTime(cl.Now().Add(time.Second))
	assert.Equal(t, int64(1500), tr.CurrentPositionMs())

	require.NoError(t, tr.Stop())
	assert.Equal(t, int64(0), tr.CurrentPositionMs())
}
