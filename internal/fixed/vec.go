package fixed

// Vec2 is a 2D vector of fixed-point components.
type Vec2 struct {
	X Fixed
	Y Fixed
}

// Vec builds a vector from two scalars.
func Vec(x, y Fixed) Vec2 {
	return Vec2{X: x, Y: y}
}

// VecFromFloats converts a float pair at the boundary.
func VecFromFloats(x, y float64) Vec2 {
	return Vec2{X: FromFloat(x), Y: FromFloat(y)}
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X.Add(o.X), Y: v.Y.Add(o.Y)}
}

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X.Sub(o.X), Y: v.Y.Sub(o.Y)}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: v.X.Neg(), Y: v.Y.Neg()}
}

// Scale returns v*s.
func (v Vec2) Scale(s Fixed) Vec2 {
	return Vec2{X: v.X.Mul(s), Y: v.Y.Mul(s)}
}

// Div returns v/s component-wise.
func (v Vec2) Div(s Fixed) Vec2 {
	return Vec2{X: v.X.Div(s), Y: v.Y.Div(s)}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) Fixed {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y))
}

// LengthSq returns the squared magnitude without a square root.
func (v Vec2) LengthSq() Fixed {
	return v.X.Mul(v.X).Add(v.Y.Mul(v.Y))
}

// Length returns the magnitude.
func (v Vec2) Length() Fixed {
	return Sqrt(v.LengthSq())
}

// Normalized returns a unit vector, or the zero vector when the magnitude
// is too small to divide by safely.
func (v Vec2) Normalized() Vec2 {
	length := v.Length()
	if length.Raw < One/1000 {
		return Vec2{}
	}
	return v.Div(length)
}

// Perp returns the vector rotated a quarter turn counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: v.Y.Neg(), Y: v.X}
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X.IsZero() && v.Y.IsZero()
}

// FloatPair converts to float64 components for read-only consumers.
func (v Vec2) FloatPair() (float64, float64) {
	return v.X.Float(), v.Y.Float()
}
