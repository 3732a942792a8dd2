package animation

import (
	"math"
	"sort"
)

// EasingFunc remaps linear transition progress t in [0,1].
type EasingFunc func(t float32) float32

// Linear returns t unchanged.
func Linear(t float32) float32 {
	return t
}

// SmoothStep is the cubic Hermite 3t²-2t³.
func SmoothStep(t float32) float32 {
	return t * t * (3 - 2*t)
}

// EaseIn is a quadratic ease-in.
func EaseIn(t float32) float32 {
	return t * t
}

// EaseOut is a quadratic ease-out.
func EaseOut(t float32) float32 {
	return t * (2 - t)
}

// EaseInOut is a quadratic ease-in-out.
func EaseInOut(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// CubicBezier returns an easing matching CSS cubic-bezier(x1, y1, x2, y2).
func CubicBezier(x1, y1, x2, y2 float32) EasingFunc {
	ax, ay := float64(x1), float64(y1)
	bx, by := float64(x2), float64(y2)
	return func(t float32) float32 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		target := float64(t)

		u := target
		for i := 0; i < 8; i++ {
			x := bezier(ax, bx, u) - target
			if math.Abs(x) < 1e-7 {
				return float32(bezier(ay, by, u))
			}
			dx := bezierSlope(ax, bx, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Newton failed to converge; bisect.
		lo, hi := 0.0, 1.0
		u = math.Min(math.Max(u, 0), 1)
		for i := 0; i < 20; i++ {
			x := bezier(ax, bx, u) - target
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return float32(bezier(ay, by, u))
	}
}

func bezier(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func bezierSlope(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

var easings = map[string]EasingFunc{
	"linear":      Linear,
	"smoothstep":  SmoothStep,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,
}

// EasingByName resolves an easing used in rig files. The empty name means
// no easing (nil, true).
func EasingByName(name string) (EasingFunc, bool) {
	if name == "" {
		return nil, true
	}
	f, ok := easings[name]
	return f, ok
}

// EasingNames lists the registered easing names.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
