package animation

// Well-known parameter keys used by locomotion graphs.
const (
	ParamSpeed     = "speed"
	ParamIsJumping = "isJumping"
	ParamWalkFoot  = "walkFoot"
)

// ParameterView is the read-only view of a parameter map handed to guards.
type ParameterView interface {
	Get(name string) (float32, bool)
}

// Parameters maps parameter names to values.
type Parameters map[string]float32

// Get returns the named value and whether it is set.
func (p Parameters) Get(name string) (float32, bool) {
	v, ok := p[name]
	return v, ok
}

// Guard gates an edge on the current parameters.
type Guard func(p ParameterView) bool

// Greater is true when the parameter exists and is > value.
func Greater(name string, value float32) Guard {
	return compare(name, func(v float32) bool { return v > value })
}

// GreaterEqual is true when the parameter exists and is >= value.
func GreaterEqual(name string, value float32) Guard {
	return compare(name, func(v float32) bool { return v >= value })
}

// Less is true when the parameter exists and is < value.
func Less(name string, value float32) Guard {
	return compare(name, func(v float32) bool { return v < value })
}

// LessEqual is true when the parameter exists and is <= value.
func LessEqual(name string, value float32) Guard {
	return compare(name, func(v float32) bool { return v <= value })
}

// Equal is true when the parameter exists and equals value.
func Equal(name string, value float32) Guard {
	return compare(name, func(v float32) bool { return v == value })
}

// NotEqual is true when the parameter exists and differs from value.
func NotEqual(name string, value float32) Guard {
	return compare(name, func(v float32) bool { return v != value })
}

// All is true when every guard passes. An empty All passes.
func All(guards ...Guard) Guard {
	return func(p ParameterView) bool {
		for _, g := range guards {
			if g != nil && !g(p) {
				return false
			}
		}
		return true
	}
}

// Any is true when at least one guard passes.
func Any(guards ...Guard) Guard {
	return func(p ParameterView) bool {
		for _, g := range guards {
			if g != nil && g(p) {
				return true
			}
		}
		return false
	}
}

// Not inverts a guard. Note that Not(Greater("x", 0)) passes when x is
// unset; use LessEqual to require the key.
func Not(g Guard) Guard {
	return func(p ParameterView) bool {
		return !g(p)
	}
}

func compare(name string, ok func(float32) bool) Guard {
	return func(p ParameterView) bool {
		v, found := p.Get(name)
		return found && ok(v)
	}
}
