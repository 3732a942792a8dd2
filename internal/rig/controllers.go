package rig

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/Faultbox/skelanim/internal/engine/animation"
)

// Controller type names accepted under controllers.<name>.type.
const (
	TypeSingle  = "single"
	TypeBlend1D = "blend1d"
	TypeBlend2D = "blend2d"
)

// decodeSpec decodes a raw controller map into out. Strict mode rejects keys
// the controller type does not know.
func decodeSpec(raw map[string]any, strict bool, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      strict,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// buildController creates the controller described by raw.
func (b *builder) buildController(name string, raw map[string]any) (animation.Controller, error) {
	kind, _ := raw["type"].(string)
	switch kind {
	case TypeSingle:
		var s singleSpec
		if err := decodeSpec(raw, b.opts.Strict, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidController, name, err)
		}
		c, err := b.clip(s.Clip)
		if err != nil {
			return nil, fmt.Errorf("controller %s: %w", name, err)
		}
		return animation.NewSingleClip(c), nil

	case TypeBlend1D:
		var s blend1DSpec
		if err := decodeSpec(raw, b.opts.Strict, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidController, name, err)
		}
		nodes := make([]animation.Node1D, 0, len(s.Nodes))
		for _, n := range s.Nodes {
			c, err := b.clip(n.Clip)
			if err != nil {
				return nil, fmt.Errorf("controller %s: %w", name, err)
			}
			if c == nil {
				continue
			}
			nodes = append(nodes, animation.Node1D{Clip: c, Parameter: n.Param})
		}
		return animation.NewBlendSpace1D(nodes), nil

	case TypeBlend2D:
		var s blend2DSpec
		if err := decodeSpec(raw, b.opts.Strict, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidController, name, err)
		}
		nodes := make([]animation.Node2D, 0, len(s.Nodes))
		for _, n := range s.Nodes {
			c, err := b.clip(n.Clip)
			if err != nil {
				return nil, fmt.Errorf("controller %s: %w", name, err)
			}
			if c == nil {
				continue
			}
			nodes = append(nodes, animation.Node2D{Clip: c, X: n.X, Y: n.Y})
		}
		return animation.NewBlendSpace2D(nodes), nil

	case "":
		return nil, fmt.Errorf("%w: %s: missing type", ErrInvalidController, name)
	default:
		return nil, fmt.Errorf("%w: %s: unknown type %q", ErrInvalidController, name, kind)
	}
}
