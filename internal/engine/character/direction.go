package character

import (
	gomath "math"
)

// HeadingOf returns the yaw (radians about +Y, 0 facing +Z) of the direction
// (dx, dz).
func HeadingOf(dx, dz float32) float32 {
	return float32(gomath.Atan2(float64(dx), float64(dz)))
}

// NormalizeAngle wraps an angle to [-π, π).
func NormalizeAngle(a float32) float32 {
	for a >= gomath.Pi {
		a -= 2 * gomath.Pi
	}
	for a < -gomath.Pi {
		a += 2 * gomath.Pi
	}
	return a
}

// LocalBlend converts a world-space move direction into character-local 2-D
// blend coordinates scaled by speed: x is the lateral (strafe) component,
// positive to the character's right, and y the forward component.
func LocalBlend(heading, dirX, dirZ, speed float32) (x, y float32) {
	length := float32(gomath.Sqrt(float64(dirX*dirX + dirZ*dirZ)))
	if length < 0.001 || speed == 0 {
		return 0, 0
	}
	dirX /= length
	dirZ /= length

	sin := float32(gomath.Sin(float64(heading)))
	cos := float32(gomath.Cos(float64(heading)))

	// Heading rotates forward +Z to (sin, cos) and right -X to (-cos, sin).
	forward := dirX*sin + dirZ*cos
	right := -dirX*cos + dirZ*sin
	return right * speed, forward * speed
}
