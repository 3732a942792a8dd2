package pose

import (
	"errors"
	"fmt"
)

// ErrInvalidHierarchy is returned when a skeleton's parent table is malformed.
var ErrInvalidHierarchy = errors.New("invalid joint hierarchy")

// Skeleton describes a joint hierarchy and its rest pose.
// Parents[i] is -1 for root joints. Parents must precede their children.
type Skeleton struct {
	Names   []string
	Parents []int
	Rest    LocalPose
}

// NumJoints returns the number of joints in the skeleton.
func (s *Skeleton) NumJoints() int {
	if s == nil {
		return 0
	}
	return len(s.Parents)
}

// FindJoint returns the index of the named joint, or -1 if absent.
func (s *Skeleton) FindJoint(name string) int {
	if s == nil {
		return -1
	}
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// RestPose returns a copy of the skeleton's rest pose.
func (s *Skeleton) RestPose() LocalPose {
	if s == nil {
		return nil
	}
	out := make(LocalPose, len(s.Rest))
	copy(out, s.Rest)
	return out
}

// Validate checks table sizes and that every parent precedes its child,
// which forward kinematics relies on.
func (s *Skeleton) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil skeleton", ErrInvalidHierarchy)
	}
	n := len(s.Parents)
	if len(s.Names) != n {
		return fmt.Errorf("%w: %d names for %d joints", ErrInvalidHierarchy, len(s.Names), n)
	}
	if len(s.Rest) != n {
		return fmt.Errorf("%w: %d rest transforms for %d joints", ErrInvalidHierarchy, len(s.Rest), n)
	}
	for i, parent := range s.Parents {
		if parent < -1 || parent >= i {
			return fmt.Errorf("%w: joint %d (%s) has parent %d", ErrInvalidHierarchy, i, s.Names[i], parent)
		}
	}
	return nil
}
