// Package clip provides immutable keyframed motion clips, a named clip store
// and the reference pose sampler.
package clip

import "github.com/go-gl/mathgl/mgl32"

// Vec3Key is a translation or scale keyframe. Time is in seconds.
type Vec3Key struct {
	Time  float32
	Value mgl32.Vec3
}

// QuatKey is a rotation keyframe. Time is in seconds.
type QuatKey struct {
	Time  float32
	Value mgl32.Quat
}

// Track holds the keyframes animating one joint. Keys must be sorted by time.
// An empty channel leaves the corresponding component of the sampled pose
// untouched.
type Track struct {
	Translations []Vec3Key
	Rotations    []QuatKey
	Scales       []Vec3Key
}

// Clip is an immutable named motion clip with one track per skeleton joint.
// Clips are shared read-only between characters and controllers.
type Clip struct {
	name     string
	duration float32
	tracks   []Track
}

// New creates a clip. A non-positive duration is stored as given; controllers
// guard against it when advancing time.
func New(name string, duration float32, tracks []Track) *Clip {
	owned := make([]Track, len(tracks))
	copy(owned, tracks)
	return &Clip{name: name, duration: duration, tracks: owned}
}

// NewStatic creates a clip with numTracks empty tracks. Sampling it leaves
// the caller's pose (normally the rest pose) unchanged.
func NewStatic(name string, duration float32, numTracks int) *Clip {
	return &Clip{name: name, duration: duration, tracks: make([]Track, numTracks)}
}

// Name returns the clip name.
func (c *Clip) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float32 {
	if c == nil {
		return 0
	}
	return c.duration
}

// NumTracks returns the number of joint tracks.
func (c *Clip) NumTracks() int {
	if c == nil {
		return 0
	}
	return len(c.tracks)
}

// Track returns the track for joint i.
func (c *Clip) Track(i int) *Track {
	return &c.tracks[i]
}
