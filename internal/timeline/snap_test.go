package timeline

import (
	"errors"
	"math/rand"
	"testing"

	"git.lost.host/meutraa/eote/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapSixteenthAt120(t *testing.T) {
	t.Parallel()

	for in, expected := range map[int64]int64{
		0:    0,
		62:   0,
		63:   125,
		130:  125,
		187:  125,
		188:  250,
		190:  250,
		1000: 1000,
	} {
		out, err := SnapBpm(in, Sixteenth, 120)
		require.NoError(t, err)
		assert.Equal(t, expected, out, "snap(%v)", in)
	}
}

// Halves always round towards the later grid line.
func TestSnapRoundsHalfUp(t *testing.T) {
	t.Parallel()

	// 1/8 at 120bpm is a 250ms step, so 125 and 375 sit exactly between lines.
	out, err := SnapBpm(125, Eighth, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(250), out)

	out, err = SnapBpm(375, Eighth, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(500), out)

	out, err = SnapBpm(625, Eighth, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(750), out)
}

func TestSnapDivisionFactors(t *testing.T) {
	t.Parallel()

	for d, expected := range map[Division]int64{
		Quarter:      500,
		Eighth:       250,
		Sixteenth:    125,
		ThirtySecond: 63,
	} {
		out, err := SnapBpm(40, d, 120)
		require.NoError(t, err)
		if d == ThirtySecond {
			// 62.5ms step, 40 rounds to the first line
			assert.Equal(t, expected, out)
			continue
		}
		assert.Equal(t, int64(0), out, d.String())
		out, err = SnapBpm(expected-1, d, 120)
		require.NoError(t, err)
		assert.Equal(t, expected, out, d.String())
	}
}

func TestSnapNoneIsIdentity(t *testing.T) {
	t.Parallel()

	m := game.TempoMap{Initial: -1}
	for _, in := range []int64{-7, 0, 1, 333, 123456789} {
		out, err := SnapBpm(in, None, 0)
		require.NoError(t, err)
		assert.Equal(t, in, out)

		out, err = Snap(in, None, m)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		bpm := 30 + rng.Float64()*300
		d := Divisions[rng.Intn(len(Divisions))]
		in := rng.Int63n(600000)

		once, err := SnapBpm(in, d, bpm)
		require.NoError(t, err)
		twice, err := SnapBpm(once, d, bpm)
		require.NoError(t, err)
		require.Equal(t, once, twice, "bpm=%v division=%v t=%v", bpm, d, in)
	}
}

func TestSnapIsIdempotentAcrossTempoChanges(t *testing.T) {
	t.Parallel()

	m := game.TempoMap{Initial: 120, Changes: []game.TempoChange{
		{Timestamp: 1030, NewBpm: 140},
		{Timestamp: 2017, NewBpm: 97.5},
		{Timestamp: 2100, NewBpm: 200},
	}}
	for _, d := range Divisions {
		for in := int64(0); in < 4000; in++ {
			once, err := Snap(in, d, m)
			require.NoError(t, err)
			twice, err := Snap(once, d, m)
			require.NoError(t, err)
			require.Equal(t, once, twice, "division=%v t=%v", d, in)
		}
	}
}

func TestSnapUsesSegmentGrid(t *testing.T) {
	t.Parallel()

	m := game.TempoMap{Initial: 120, Changes: []game.TempoChange{{Timestamp: 900, NewBpm: 60}}}

	// 1/4 at 60bpm is 1000ms, counted from the change at 900.
	out, err := Snap(2000, Quarter, m)
	require.NoError(t, err)
	assert.Equal(t, int64(1900), out)

	// Rounding up to 1000 would cross the change, so it stops there.
	out, err = Snap(850, Quarter, m)
	require.NoError(t, err)
	assert.Equal(t, int64(900), out)

	out, err = Snap(700, Quarter, m)
	require.NoError(t, err)
	assert.Equal(t, int64(500), out)
}

func TestSnapInvalidTempo(t *testing.T) {
	t.Parallel()

	_, err := SnapBpm(100, Sixteenth, 0)
	assert.True(t, errors.Is(err, game.ErrInvalidTempo))

	_, err = Snap(100, Sixteenth, game.TempoMap{Initial: 0})
	assert.True(t, errors.Is(err, game.ErrInvalidTempo))
}

func TestParseDivision(t *testing.T) {
	t.Parallel()

	for _, d := range []Division{None, Quarter, Eighth, Sixteenth, ThirtySecond} {
		parsed, err := ParseDivision(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	_, err := ParseDivision("1/12")
	assert.Error(t, err)
}

func TestDenominator(t *testing.T) {
	t.Parallel()

	m := game.TempoMap{Initial: 120}
	assert.Equal(t, 4, Denominator(1000, m))
	assert.Equal(t, 8, Denominator(250, m))
	assert.Equal(t, 16, Denominator(125, m))
	assert.Equal(t, 32, Denominator(63, m))
	assert.Equal(t, -1, Denominator(10, m))
}
