package lfsr

import (
	"math/bits"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// listRegister is a cell-at-a-time register wired from per-register input
// lists, used to check the packed implementation.
type listRegister struct {
	n      int
	inputs [][]int
	gens   [][]int
	inject []bool
	cells  []uint32
}

func newListRegister(n int, seed uint32) *listRegister {
	r := &listRegister{n: n, inputs: make([][]int, n), inject: make([]bool, n), cells: make([]uint32, n)}
	for i := 0; i < n; i++ {
		if i+1 < n {
			r.inputs[i+1] = append(r.inputs[i+1], i)
		}
		r.cells[i] = seed >> uint(i) & 1
	}
	return r
}

func (r *listRegister) feedback(poly uint32) {
	for i := 0; i < r.n; i++ {
		if poly>>uint(i)&1 == 1 {
			r.inputs[i] = append(r.inputs[i], r.n-1)
		}
	}
}

func (r *listRegister) generator(poly uint32) {
	var taps []int
	for i := 0; i < r.n; i++ {
		if poly>>uint(i)&1 == 1 {
			taps = append(taps, i)
		}
	}
	r.gens = append(r.gens, taps)
}

func (r *listRegister) step(bit uint32) (out []uint32) {
	next := make([]uint32, r.n)
	for i, in := range r.inputs {
		for _, src := range in {
			next[i] ^= r.cells[src]
		}
		if r.inject[i] {
			next[i] ^= bit
		}
	}
	for _, taps := range r.gens {
		var b uint32
		for _, t := range taps {
			b ^= r.cells[t]
		}
		out = append(out, b)
	}
	r.cells = next
	return out
}

func (r *listRegister) state() (v uint32) {
	for i, c := range r.cells {
		v |= c << uint(i)
	}
	return v
}

func TestNewClamp(t *testing.T) {
	l := New(40, 0xFFFFFFFF)
	assert.Equal(t, WordSize, l.Registers())
	assert.Equal(t, uint32(0xFFFFFFFF), l.State())

	l = New(7, 0xFF)
	assert.Equal(t, uint32(0x7F), l.State())
}

func TestNewStrict(t *testing.T) {
	for _, n := range []int{-1, 0, 33, 64} {
		_, err := NewStrict(n, 0)
		require.Error(t, err, "registers %d", n)
		assert.Equal(t, ErrInvalidConfiguration, errors.Cause(err))
	}

	l, err := NewStrict(32, 0xDEADBEEF)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), l.State())
}

func TestValidate(t *testing.T) {
	cfg := NewConfig(16)
	cfg.AddFeedbackPoly(0x11021)
	cfg.AddGeneratorPoly(1 << 15)
	cfg.AddDataInputPoly(0x11021)
	assert.NoError(t, cfg.Validate())

	bad := cfg.Clone()
	bad.Generators[0] = 1 << 20
	assert.Equal(t, ErrInvalidConfiguration, errors.Cause(bad.Validate()))

	bad = cfg.Clone()
	bad.Feedback = bad.Feedback[:3]
	assert.Equal(t, ErrInvalidConfiguration, errors.Cause(bad.Validate()))

	assert.Equal(t, ErrInvalidConfiguration, errors.Cause(NewConfig(0).Validate()))
}

func TestFeedbackSources(t *testing.T) {
	cfg := NewConfig(7)
	cfg.AddFeedbackPoly(0x91)

	assert.Equal(t, []int{6}, cfg.Feedback.Sources(0))
	assert.Equal(t, []int{0}, cfg.Feedback.Sources(1))
	assert.Equal(t, []int{3, 6}, cfg.Feedback.Sources(4))
	assert.Equal(t, []int{5}, cfg.Feedback.Sources(6))
}

func TestPlainShift(t *testing.T) {
	l := New(8, 0x01)
	l.Shift(3, nil)
	assert.Equal(t, uint32(0x08), l.State())

	// The top cell has nowhere to go without feedback.
	l.Shift(5, nil)
	assert.Equal(t, uint32(0x00), l.State())
}

func TestRotate(t *testing.T) {
	l := New(4, 0x1)
	l.AddFeedbackPoly(0x1)

	seen := []uint32{}
	for i := 0; i < 4; i++ {
		l.Shift(1, nil)
		seen = append(seen, l.State())
	}
	assert.Equal(t, []uint32{0x2, 0x4, 0x8, 0x1}, seen)
}

func TestSeedRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, WordSize).Draw(t, "registers")
		seed := rapid.Uint32().Draw(t, "seed")

		l := New(n, seed)
		l.AddGeneratorPoly(rapid.Uint32().Draw(t, "generator"))
		l.Shift(0, nil)

		assert.Equal(t, seed&l.Config().Mask(), l.State())
	})
}

func TestShiftMatchesListRegister(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, WordSize).Draw(t, "registers")
		seed := rapid.Uint32().Draw(t, "seed")
		fb := rapid.Uint32().Draw(t, "feedback")
		gen := rapid.Uint32().Draw(t, "generator")
		inject := rapid.Uint32().Draw(t, "inject")
		payload := rapid.SliceOfN(rapid.Byte(), 0, 16).Draw(t, "payload")
		steps := rapid.IntRange(0, 200).Draw(t, "steps")

		l := New(n, seed)
		l.AddFeedbackPoly(fb)
		l.AddGeneratorPoly(gen)
		l.AddDataInputPoly(inject)

		ref := newListRegister(n, seed)
		ref.feedback(fb)
		ref.generator(gen)
		for i := 0; i < n; i++ {
			ref.inject[i] = inject>>uint(i)&1 == 1
		}

		acc := Accumulator{}
		for i := 0; i < steps; i++ {
			out := ref.step(dataBit(payload, i))
			acc.Push(out[0])
		}
		acc.Flush()

		l.Shift(steps, payload)
		require.Equal(t, ref.state(), l.State())
		require.Zero(t, l.State()&^l.Config().Mask())
		require.Equal(t, steps, l.BitIndex())
		require.Equal(t, acc.Bytes(), l.Output(0))
		require.Len(t, l.Output(0), (steps+7)/8)
	})
}

func TestShiftSplitEqualsWhole(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "payload")
		split := rapid.IntRange(0, len(payload)*8).Draw(t, "split")

		cfg := NewConfig(16)
		cfg.AddFeedbackPoly(0x11021)
		cfg.AddDataInputPoly(0x11021)

		whole := NewFromConfig(cfg, 0x47)
		whole.Shift(len(payload)*8, payload)

		parts := NewFromConfig(cfg, 0x47)
		parts.Shift(split, payload)
		parts.Shift(len(payload)*8-split, payload)

		assert.Equal(t, whole.State(), parts.State())
	})
}

func TestDataOutOfRange(t *testing.T) {
	cfg := NewConfig(5)
	cfg.AddFeedbackPoly(0x35)
	cfg.AddDataInputPoly(0x35)

	a := NewFromConfig(cfg, 0x13)
	a.Shift(40, []byte{0x01})

	b := NewFromConfig(cfg, 0x13)
	b.Shift(1, []byte{0x01})
	b.Shift(39, nil)

	assert.Equal(t, a.State(), b.State())
	assert.Equal(t, 40, a.BitIndex())
}

func TestGeneratorChannels(t *testing.T) {
	l := New(7, 0x70)
	l.AddFeedbackPoly(0x91)
	top := l.AddGeneratorPoly(0x40)
	low := l.AddGeneratorPoly(0x01)
	assert.Equal(t, 0, top)
	assert.Equal(t, 1, low)

	l.Shift(18, nil)
	assert.Equal(t, []byte{0x7F, 0xDC, 0x00}, l.Output(top))
	assert.Len(t, l.Output(low), 3)

	// Flushing an aligned channel doesn't add a byte.
	l.Flush(top)
	assert.Len(t, l.Output(top), 3)
}

func TestSetDirection(t *testing.T) {
	l := New(7, 0x70)
	l.AddFeedbackPoly(0x91)
	lsb := l.AddGeneratorPoly(0x40)
	msb := l.AddGeneratorPoly(0x40)
	l.SetDirection(msb, MSBFirst)

	l.Shift(18, nil)

	// Both channels see the same bits, including the flushed partial byte.
	want := l.Output(lsb)
	require.Equal(t, []byte{0x7F, 0xDC, 0x00}, want)
	for i := range want {
		want[i] = bits.Reverse8(want[i])
	}
	assert.Equal(t, []byte{0xFE, 0x3B, 0x00}, want)
	assert.Equal(t, want, l.Output(msb))
}

func TestReset(t *testing.T) {
	l := New(7, 0x70)
	l.AddFeedbackPoly(0x91)
	l.AddGeneratorPoly(0x40)

	l.Shift(18, nil)
	state := l.State()

	l.Reset(0, false)
	assert.Empty(t, l.Output(0))
	assert.Equal(t, state, l.State())
	assert.Zero(t, l.BitIndex())

	l.Shift(3, nil)
	l.Reset(0, true)
	assert.Zero(t, l.State())
	assert.Empty(t, l.Output(0))
}

func TestReseedKeepsTaps(t *testing.T) {
	l := New(8, 0)
	l.AddFeedbackPoly(0x1A7)
	l.AddDataInputPoly(0x1A7)

	l.Reseed(0x47)
	l.Shift(10, []byte{0x23, 0x01})
	first := l.State()

	l.Reseed(0x47)
	l.Shift(10, []byte{0x23, 0x01})
	assert.Equal(t, first, l.State())
}

func TestConfigIsolation(t *testing.T) {
	cfg := NewConfig(7)
	cfg.AddFeedbackPoly(0x91)

	l := NewFromConfig(cfg, 0x40)
	l.AddFeedbackPoly(0x91)

	assert.NotEqual(t, cfg.Feedback, l.Config().Feedback)
	assert.Empty(t, cfg.Generators)
}

func TestReverse(t *testing.T) {
	assert.Equal(t, uint32(0xD26D), Reverse(0xB64B, 16))
	assert.Equal(t, uint32(0x0B), Reverse(0x1A, 5))
	assert.Equal(t, uint32(0x80000000), Reverse(1, 32))
	assert.Zero(t, Reverse(0xFF, 0))
}

func BenchmarkShift(b *testing.B) {
	cfg := NewConfig(16)
	cfg.AddFeedbackPoly(0x11021)
	cfg.AddGeneratorPoly(1 << 15)
	cfg.AddDataInputPoly(0x11021)

	l := NewFromConfig(cfg, 0x47)
	payload := make([]byte, 256)

	b.SetBytes(int64(len(payload)))
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		l.Reseed(0x47)
		l.Shift(len(payload)*8, payload)
	}
}
