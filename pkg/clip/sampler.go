package clip

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelanim/pkg/pose"
)

var (
	// ErrNilClip is returned when sampling without a clip.
	ErrNilClip = errors.New("nil clip")

	// ErrTrackCount is returned when a clip's track count does not match the
	// pose it is sampled into.
	ErrTrackCount = errors.New("clip track count does not match joint count")
)

// cursor remembers the last key index per channel so forward playback
// only scans a key or two each frame.
type cursor struct {
	translation, rotation, scale int
}

// SamplingCache holds per-track key cursors for one layer. It is tied to the
// last clip sampled through it and resets itself when the clip changes.
type SamplingCache struct {
	clip    *Clip
	cursors []cursor
}

// NewSamplingCache creates a cache sized for numJoints tracks.
func NewSamplingCache(numJoints int) *SamplingCache {
	c := &SamplingCache{}
	c.Resize(numJoints)
	return c
}

// Resize sets the number of tracks the cache can serve.
func (c *SamplingCache) Resize(numJoints int) {
	if cap(c.cursors) >= numJoints {
		c.cursors = c.cursors[:numJoints]
	} else {
		c.cursors = make([]cursor, numJoints)
	}
	c.Invalidate()
}

// Invalidate forgets the cached clip and rewinds every cursor.
func (c *SamplingCache) Invalidate() {
	c.clip = nil
	for i := range c.cursors {
		c.cursors[i] = cursor{}
	}
}

// Sample evaluates clip c at the normalized time ratio into out. The ratio is
// clamped to [0,1]. Channels without keys leave out untouched, so callers
// pre-fill out with the rest pose. cache may be nil.
func Sample(c *Clip, ratio float32, cache *SamplingCache, out pose.LocalPose) error {
	if c == nil {
		return ErrNilClip
	}
	if c.NumTracks() != len(out) {
		return fmt.Errorf("%w: clip %s has %d tracks, pose has %d joints",
			ErrTrackCount, c.name, c.NumTracks(), len(out))
	}

	ratio = mgl32.Clamp(ratio, 0, 1)
	t := ratio * c.duration

	if cache == nil {
		cache = NewSamplingCache(len(out))
	}
	if len(cache.cursors) != len(out) {
		cache.Resize(len(out))
	}
	if cache.clip != c {
		cache.Invalidate()
		cache.clip = c
	}

	for i := range c.tracks {
		track := &c.tracks[i]
		cur := &cache.cursors[i]

		if n := len(track.Translations); n > 0 {
			k0, k1, f := seek(n, func(k int) float32 { return track.Translations[k].Time }, cur.translation, t)
			cur.translation = k0
			out[i].Translation = lerpVec3(track.Translations[k0].Value, track.Translations[k1].Value, f)
		}
		if n := len(track.Rotations); n > 0 {
			k0, k1, f := seek(n, func(k int) float32 { return track.Rotations[k].Time }, cur.rotation, t)
			cur.rotation = k0
			if k0 == k1 {
				out[i].Rotation = track.Rotations[k0].Value
			} else {
				out[i].Rotation = mgl32.QuatSlerp(track.Rotations[k0].Value, track.Rotations[k1].Value, f)
			}
		}
		if n := len(track.Scales); n > 0 {
			k0, k1, f := seek(n, func(k int) float32 { return track.Scales[k].Time }, cur.scale, t)
			cur.scale = k0
			out[i].Scale = lerpVec3(track.Scales[k0].Value, track.Scales[k1].Value, f)
		}
	}
	return nil
}

// seek finds the keys surrounding t starting from a cached cursor.
// It returns the previous key, the next key and the blend factor between
// them. Before the first key or after the last, both indices are equal.
func seek(n int, at func(int) float32, start int, t float32) (int, int, float32) {
	k := start
	if k < 0 || k >= n || at(k) > t {
		k = 0
	}
	for k+1 < n && at(k+1) <= t {
		k++
	}

	next := k
	if k+1 < n && at(k) <= t {
		next = k + 1
	}
	if next == k {
		return k, k, 0
	}

	span := at(next) - at(k)
	if span <= 0 {
		return k, k, 0
	}
	return k, next, (t - at(k)) / span
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
