package fixed

// Fixed is a 16.16 fixed-point scalar. All spatial quantities (position,
// velocity, facing) use it so that integration is bit-identical across
// replicas regardless of platform floating-point behavior.
type Fixed struct {
	Raw int32
}

const (
	// Shift is the number of fractional bits.
	Shift = 16
	// One is the raw representation of 1.0.
	One = int32(1) << Shift
)

// Zero returns the zero scalar.
func Zero() Fixed {
	return Fixed{}
}

// FromInt converts an integer to fixed point.
func FromInt(i int32) Fixed {
	return Fixed{Raw: i << Shift}
}

// FromFloat converts a float64 to fixed point. Conversion happens only at
// the boundary with the behavioral (float) layer; everything downstream of
// it stays in raw integer math.
func FromFloat(f float64) Fixed {
	return Fixed{Raw: int32(f * float64(One))}
}

// Float converts back to float64 for read-only consumers.
func (a Fixed) Float() float64 {
	return float64(a.Raw) / float64(One)
}

// Int truncates toward negative infinity.
func (a Fixed) Int() int32 {
	return a.Raw >> Shift
}

// Add returns a+b.
func (a Fixed) Add(b Fixed) Fixed {
	return Fixed{Raw: a.Raw + b.Raw}
}

// Sub returns a-b.
func (a Fixed) Sub(b Fixed) Fixed {
	return Fixed{Raw: a.Raw - b.Raw}
}

// Neg returns -a.
func (a Fixed) Neg() Fixed {
	return Fixed{Raw: -a.Raw}
}

// Mul returns a*b using a 64-bit intermediate so the product cannot wrap
// before the shift.
func (a Fixed) Mul(b Fixed) Fixed {
	return Fixed{Raw: int32((int64(a.Raw) * int64(b.Raw)) >> Shift)}
}

// Div returns a/b. Division by zero yields zero rather than trapping; the
// callers treat the zero scalar as "no direction".
func (a Fixed) Div(b Fixed) Fixed {
	if b.Raw == 0 {
		return Fixed{}
	}
	return Fixed{Raw: int32((int64(a.Raw) << Shift) / int64(b.Raw))}
}

// Abs returns the magnitude of a.
func (a Fixed) Abs() Fixed {
	if a.Raw < 0 {
		return Fixed{Raw: -a.Raw}
	}
	return a
}

// Less reports a < b.
func (a Fixed) Less(b Fixed) bool {
	return a.Raw < b.Raw
}

// Greater reports a > b.
func (a Fixed) Greater(b Fixed) bool {
	return a.Raw > b.Raw
}

// IsZero reports whether a is exactly zero.
func (a Fixed) IsZero() bool {
	return a.Raw == 0
}

// Min returns the smaller of a and b.
func Min(a, b Fixed) Fixed {
	if a.Raw < b.Raw {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Fixed) Fixed {
	if a.Raw > b.Raw {
		return a
	}
	return b
}

// Clamp limits a to [lo, hi].
func Clamp(a, lo, hi Fixed) Fixed {
	if a.Raw < lo.Raw {
		return lo
	}
	if a.Raw > hi.Raw {
		return hi
	}
	return a
}

// Sqrt computes the square root with a restoring integer algorithm over the
// widened raw value. Pure integer ops, exact result, identical on every
// target.
func Sqrt(x Fixed) Fixed {
	if x.Raw <= 0 {
		return Fixed{}
	}

	n := uint64(x.Raw) << Shift
	var root uint64
	bit := uint64(1) << 62
	for bit > n {
		bit >>= 2
	}
	for bit != 0 {
		if n >= root+bit {
			n -= root + bit
			root = root>>1 + bit
		} else {
			root >>= 1
		}
		bit >>= 2
	}
	return Fixed{Raw: int32(root)}
}
