package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		f, ok := EasingByName(name)
		require.True(t, ok, name)
		assert.InDelta(t, 0, f(0), 1e-6, name)
		assert.InDelta(t, 1, f(1), 1e-6, name)
	}
}

func TestEasingByName(t *testing.T) {
	f, ok := EasingByName("")
	assert.True(t, ok)
	assert.Nil(t, f)

	_, ok = EasingByName("bounce")
	assert.False(t, ok)

	f, ok = EasingByName("smoothstep")
	require.True(t, ok)
	assert.InDelta(t, 0.5, f(0.5), 1e-6)
}

func TestCubicBezier(t *testing.T) {
	linear := CubicBezier(0, 0, 1, 1)
	for _, x := range []float32{0.1, 0.25, 0.5, 0.9} {
		assert.InDelta(t, x, linear(x), 1e-4)
	}

	ease := CubicBezier(0.25, 0.1, 0.25, 1)
	assert.Zero(t, ease(0))
	assert.Equal(t, float32(1), ease(1))
	assert.Greater(t, ease(0.5), float32(0.5))

	var prev float32
	for x := float32(0); x <= 1; x += 0.05 {
		y := ease(x)
		assert.GreaterOrEqual(t, y, prev-1e-5)
		prev = y
	}
}

func TestGuards(t *testing.T) {
	p := Parameters{ParamSpeed: 0.5, ParamIsJumping: 0}

	tests := []struct {
		name  string
		guard Guard
		want  bool
	}{
		{"greater", Greater(ParamSpeed, 0.1), true},
		{"greater equal boundary", GreaterEqual(ParamSpeed, 0.5), true},
		{"less", Less(ParamSpeed, 0.1), false},
		{"less equal", LessEqual(ParamSpeed, 0.5), true},
		{"equal", Equal(ParamIsJumping, 0), true},
		{"not equal", NotEqual(ParamIsJumping, 0), false},
		{"missing key", Greater("lean", -100), false},
		{"missing key negated", Not(Greater("lean", -100)), true},
		{"all", All(Greater(ParamSpeed, 0.1), Equal(ParamIsJumping, 0)), true},
		{"all fails", All(Greater(ParamSpeed, 0.1), Equal(ParamIsJumping, 1)), false},
		{"empty all", All(), true},
		{"any", Any(Less(ParamSpeed, 0), Equal(ParamIsJumping, 0)), true},
		{"empty any", Any(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guard(p))
		})
	}
}
