package character

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Locomotion moves a character's root toward a destination on the XZ plane
// and reports the resulting ground speed for the animation graph.
type Locomotion struct {
	Position  mgl32.Vec3
	Heading   float32 // radians about +Y, 0 faces +Z
	MoveSpeed float32 // world units per second

	dest       mgl32.Vec3
	hasDest    bool
	path       []mgl32.Vec2
	speed      float32
	dirX, dirZ float32
	locked     bool
	ground     Ground
}

// NewLocomotion creates a stationary driver at pos. ground may be nil.
func NewLocomotion(pos mgl32.Vec3, ground Ground) *Locomotion {
	return &Locomotion{Position: pos, MoveSpeed: DefaultMoveSpeed, ground: ground}
}

// SetDestination starts moving in a straight line toward (worldX, worldZ).
func (l *Locomotion) SetDestination(worldX, worldZ float32) {
	l.path = nil
	l.setTarget(worldX, worldZ)
}

// NavigateTo routes around obstacles when the ground is a Pathfinder and
// falls back to SetDestination otherwise. It returns false and stops when
// the goal is unreachable.
func (l *Locomotion) NavigateTo(worldX, worldZ float32) bool {
	pf, ok := l.ground.(Pathfinder)
	if !ok {
		l.SetDestination(worldX, worldZ)
		return true
	}
	path := pf.FindPath(l.Position.X(), l.Position.Z(), worldX, worldZ)
	if len(path) == 0 {
		l.ClearDestination()
		return false
	}
	l.path = path[1:]
	l.setTarget(path[0].X(), path[0].Y())
	return true
}

// Waypoints returns the waypoints left after the current target.
func (l *Locomotion) Waypoints() []mgl32.Vec2 {
	return l.path
}

func (l *Locomotion) setTarget(worldX, worldZ float32) {
	l.dest = mgl32.Vec3{worldX, l.Position.Y(), worldZ}
	l.hasDest = true
}

// ClearDestination stops the character where it stands.
func (l *Locomotion) ClearDestination() {
	l.hasDest = false
	l.path = nil
	l.speed = 0
}

// HasDestination reports whether the driver is moving.
func (l *Locomotion) HasDestination() bool {
	return l.hasDest
}

// Speed returns the ground speed of the last step.
func (l *Locomotion) Speed() float32 {
	return l.speed
}

// LockHeading keeps the character facing heading while it moves, so
// sideways motion shows up as strafing in Blend.
func (l *Locomotion) LockHeading(heading float32) {
	l.Heading = NormalizeAngle(heading)
	l.locked = true
}

// UnlockHeading makes the character face its direction of travel again.
func (l *Locomotion) UnlockHeading() {
	l.locked = false
}

// Blend returns the character-local 2-D blend coordinates of the last step.
func (l *Locomotion) Blend() (x, y float32) {
	return LocalBlend(l.Heading, l.dirX, l.dirZ, l.speed)
}

// Step advances dt seconds and returns the ground speed.
func (l *Locomotion) Step(dt float32) float32 {
	if !l.hasDest || dt <= 0 {
		l.speed = 0
		return 0
	}

	dx := l.dest.X() - l.Position.X()
	dz := l.dest.Z() - l.Position.Z()
	dist := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))

	for dist < ArrivalThreshold {
		if len(l.path) == 0 {
			l.ClearDestination()
			return 0
		}
		next := l.path[0]
		l.path = l.path[1:]
		l.setTarget(next.X(), next.Y())
		dx = l.dest.X() - l.Position.X()
		dz = l.dest.Z() - l.Position.Z()
		dist = float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
	}

	dx /= dist
	dz /= dist

	moveAmount := l.MoveSpeed * dt
	if moveAmount > dist {
		moveAmount = dist
	}

	newX := l.Position.X() + dx*moveAmount
	newZ := l.Position.Z() + dz*moveAmount

	// Stop if hit obstacle
	if l.ground != nil && !l.ground.IsWalkable(newX, newZ) {
		l.ClearDestination()
		return 0
	}

	newY := l.Position.Y()
	if l.ground != nil {
		newY = l.ground.HeightAt(newX, newZ)
	}
	l.Position = mgl32.Vec3{newX, newY, newZ}
	l.dirX, l.dirZ = dx, dz
	if !l.locked {
		l.Heading = HeadingOf(dx, dz)
	}
	l.speed = moveAmount / dt
	return l.speed
}

// Transform returns the root transform for the current position and heading.
func (l *Locomotion) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(l.Position.X(), l.Position.Y(), l.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(l.Heading))
}

// ArrivalThreshold is the distance at which a character is considered to have arrived.
const ArrivalThreshold = 0.05

// DefaultMoveSpeed is the default movement speed in world units per second.
const DefaultMoveSpeed = 1.5
