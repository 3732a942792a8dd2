package rig

import (
	"fmt"

	"github.com/Faultbox/skelanim/internal/engine/animation"
)

var comparisons = map[string]func(string, float32) animation.Guard{
	">":  animation.Greater,
	">=": animation.GreaterEqual,
	"<":  animation.Less,
	"<=": animation.LessEqual,
	"==": animation.Equal,
	"!=": animation.NotEqual,
	"gt": animation.Greater,
	"ge": animation.GreaterEqual,
	"lt": animation.Less,
	"le": animation.LessEqual,
	"eq": animation.Equal,
	"ne": animation.NotEqual,
}

// buildGuard turns a guard tree into a predicate. A nil definition yields a
// nil guard, which the graph treats as always open.
func buildGuard(d *GuardDef) (animation.Guard, error) {
	if d == nil {
		return nil, nil
	}

	forms := 0
	if d.Param != "" {
		forms++
	}
	if len(d.All) > 0 {
		forms++
	}
	if len(d.Any) > 0 {
		forms++
	}
	if d.Not != nil {
		forms++
	}
	if forms != 1 {
		return nil, fmt.Errorf("%w: guard needs exactly one of param, all, any or not", ErrInvalidGraph)
	}

	switch {
	case d.Param != "":
		op := d.Op
		if op == "" {
			op = "=="
		}
		cmp, ok := comparisons[op]
		if !ok {
			return nil, fmt.Errorf("%w: unknown guard operator %q", ErrInvalidGraph, d.Op)
		}
		return cmp(d.Param, d.Value), nil
	case len(d.All) > 0:
		gs, err := buildGuards(d.All)
		if err != nil {
			return nil, err
		}
		return animation.All(gs...), nil
	case len(d.Any) > 0:
		gs, err := buildGuards(d.Any)
		if err != nil {
			return nil, err
		}
		return animation.Any(gs...), nil
	default:
		g, err := buildGuard(d.Not)
		if err != nil {
			return nil, err
		}
		return animation.Not(g), nil
	}
}

func buildGuards(defs []GuardDef) ([]animation.Guard, error) {
	out := make([]animation.Guard, 0, len(defs))
	for i := range defs {
		g, err := buildGuard(&defs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
