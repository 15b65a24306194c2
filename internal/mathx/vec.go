package mathx

import "math"

// Vec3 is a float64 3-component vector in world space.
// JSON tags match the wire payload shape ({x,y,z}).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// IsZero reports whether the vector has no usable direction.
func (v Vec3) IsZero() bool {
	return v.LengthSq() < 1e-12
}

// Normalize returns the unit vector, or the zero vector for zero-length input.
func (v Vec3) Normalize() Vec3 {
	mag := v.Length()
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// ClampLength rescales v to max when it is longer, preserving direction.
func (v Vec3) ClampLength(max float64) Vec3 {
	lenSq := v.LengthSq()
	if lenSq <= max*max {
		return v
	}
	return v.Scale(max / math.Sqrt(lenSq))
}

// Forward returns the unit forward axis for an Euler rotation
// (X pitch, Y yaw, Z roll, radians). Identity rotation faces -Z.
func Forward(rot Vec3) Vec3 {
	cp := math.Cos(rot.X)
	return Vec3{
		X: -math.Sin(rot.Y) * cp,
		Y: math.Sin(rot.X),
		Z: -math.Cos(rot.Y) * cp,
	}
}
