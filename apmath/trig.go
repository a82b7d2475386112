package apmath

import "github.com/cockroachdb/apd/v3"

// Sin sets r to the sine of x (in radians) at c's precision.
func Sin(c *apd.Context, r, x *apd.Decimal) error {
	w := work(c, x)
	var z, v apd.Decimal
	if err := reduce(w, &z, x); err != nil {
		return err
	}
	if err := sinSeries(w, &v, &z); err != nil {
		return err
	}
	_, err := c.Round(r, &v)
	return err
}

// Cos sets r to the cosine of x (in radians) at c's precision.
func Cos(c *apd.Context, r, x *apd.Decimal) error {
	w := work(c, x)
	var z, v apd.Decimal
	if err := reduce(w, &z, x); err != nil {
		return err
	}
	if err := cosSeries(w, &v, &z); err != nil {
		return err
	}
	_, err := c.Round(r, &v)
	return err
}

// Tan sets r to the tangent of x (in radians) at c's precision. Tan returns
// a DomainError when x is an odd multiple of π/2 to within the working
// precision.
func Tan(c *apd.Context, r, x *apd.Decimal) error {
	w := work(c, x)
	var z, s, co apd.Decimal
	if err := reduce(w, &z, x); err != nil {
		return err
	}
	if err := sinSeries(w, &s, &z); err != nil {
		return err
	}
	if err := cosSeries(w, &co, &z); err != nil {
		return err
	}
	if co.IsZero() {
		return &DomainError{X: x, Func: "tan"}
	}
	var v apd.Decimal
	if _, err := w.Quo(&v, &s, &co); err != nil {
		return err
	}
	_, err := c.Round(r, &v)
	return err
}

// Asin sets r to the arc sine of x at c's precision. The argument must be
// in [-1, 1].
func Asin(c *apd.Context, r, x *apd.Decimal) error {
	var ax apd.Decimal
	ax.Abs(x)
	one := apd.New(1, 0)
	switch ax.Cmp(one) {
	case 1:
		return &DomainError{X: x, Func: "asin"}
	case 0:
		// asin(±1) = ±π/2.
		w := work(c, nil)
		var pi, v apd.Decimal
		if err := Pi(w, &pi); err != nil {
			return err
		}
		if _, err := w.Quo(&v, &pi, apd.New(2, 0)); err != nil {
			return err
		}
		if x.Negative {
			v.Neg(&v)
		}
		_, err := c.Round(r, &v)
		return err
	}
	// asin(x) = atan(x / sqrt(1 - x²)). The subtraction cancels near ±1,
	// so carry a second band of guard digits.
	w := apd.BaseContext.WithPrecision(uint32(int64(c.Precision) + 2*guard))
	ed := apd.MakeErrDecimal(w)
	var s, t, v apd.Decimal
	ed.Mul(&s, x, x)
	ed.Sub(&s, one, &s)
	ed.Sqrt(&s, &s)
	ed.Quo(&t, x, &s)
	if err := ed.Err(); err != nil {
		return err
	}
	if err := atan(w, &v, &t); err != nil {
		return err
	}
	_, err := c.Round(r, &v)
	return err
}

// Acos sets r to the arc cosine of x at c's precision. The argument must be
// in [-1, 1].
func Acos(c *apd.Context, r, x *apd.Decimal) error {
	var ax apd.Decimal
	ax.Abs(x)
	if ax.Cmp(apd.New(1, 0)) > 0 {
		return &DomainError{X: x, Func: "acos"}
	}
	// acos(x) = π/2 - asin(x).
	w := apd.BaseContext.WithPrecision(uint32(int64(c.Precision) + guard))
	var asn, pi, half, v apd.Decimal
	if err := Asin(w, &asn, x); err != nil {
		return err
	}
	if err := Pi(w, &pi); err != nil {
		return err
	}
	ed := apd.MakeErrDecimal(w)
	ed.Quo(&half, &pi, apd.New(2, 0))
	ed.Sub(&v, &half, &asn)
	if err := ed.Err(); err != nil {
		return err
	}
	_, err := c.Round(r, &v)
	return err
}

// Atan sets r to the arc tangent of x at c's precision.
func Atan(c *apd.Context, r, x *apd.Decimal) error {
	w := work(c, x)
	var v apd.Decimal
	if err := atan(w, &v, x); err != nil {
		return err
	}
	_, err := c.Round(r, &v)
	return err
}

// atan computes the arc tangent at w's full precision.
func atan(w *apd.Context, r, x *apd.Decimal) error {
	one := apd.New(1, 0)
	var ax apd.Decimal
	ax.Abs(x)
	if ax.Cmp(one) > 0 {
		// atan(x) = π/2 - atan(1/x) for x > 1.
		ed := apd.MakeErrDecimal(w)
		var inv, t, pi, half apd.Decimal
		ed.Quo(&inv, one, &ax)
		if err := ed.Err(); err != nil {
			return err
		}
		if err := atanSmall(w, &t, &inv); err != nil {
			return err
		}
		if err := Pi(w, &pi); err != nil {
			return err
		}
		ed.Quo(&half, &pi, apd.New(2, 0))
		ed.Sub(r, &half, &t)
		if err := ed.Err(); err != nil {
			return err
		}
	} else {
		if err := atanSmall(w, r, &ax); err != nil {
			return err
		}
	}
	if x.Negative {
		r.Neg(r)
	}
	return nil
}

// atanSmall computes atan for 0 <= x <= 1 by halving the angle until the
// Taylor series converges quickly: atan(x) = 2 atan(x / (1 + sqrt(1 + x²))).
func atanSmall(w *apd.Context, r, x *apd.Decimal) error {
	ed := apd.MakeErrDecimal(w)
	one := apd.New(1, 0)
	tenth := apd.New(1, -1)
	var y apd.Decimal
	y.Set(x)
	n := 0
	for y.Cmp(tenth) > 0 {
		var s apd.Decimal
		ed.Mul(&s, &y, &y)
		ed.Add(&s, &s, one)
		ed.Sqrt(&s, &s)
		ed.Add(&s, &s, one)
		ed.Quo(&y, &y, &s)
		if err := ed.Err(); err != nil {
			return err
		}
		n++
	}
	// atan(y) = y - y³/3 + y⁵/5 - ...
	var y2, pow, term apd.Decimal
	ed.Mul(&y2, &y, &y)
	pow.Set(&y)
	r.Set(&y)
	for k := int64(1); ; k++ {
		ed.Mul(&pow, &pow, &y2)
		ed.Quo(&term, &pow, apd.New(2*k+1, 0))
		if err := ed.Err(); err != nil {
			return err
		}
		if negligible(w, &term) {
			break
		}
		if k%2 == 1 {
			ed.Sub(r, r, &term)
		} else {
			ed.Add(r, r, &term)
		}
	}
	if n > 0 {
		ed.Mul(r, r, apd.New(int64(1)<<n, 0))
	}
	return ed.Err()
}

// reduce brings x into (-π, π] modulo 2π at w's precision.
func reduce(w *apd.Context, z, x *apd.Decimal) error {
	var pi, pi2, q apd.Decimal
	if err := Pi(w, &pi); err != nil {
		return err
	}
	ed := apd.MakeErrDecimal(w)
	ed.Mul(&pi2, &pi, apd.New(2, 0))
	// z = x - 2π·floor(x/2π), in [0, 2π).
	ed.Quo(&q, x, &pi2)
	ed.Floor(&q, &q)
	ed.Mul(&q, &q, &pi2)
	ed.Sub(z, x, &q)
	if err := ed.Err(); err != nil {
		return err
	}
	if z.Cmp(&pi) > 0 {
		ed.Sub(z, z, &pi2)
	}
	return ed.Err()
}

// sinSeries sums the Taylor series of sine for a reduced argument.
func sinSeries(w *apd.Context, r, z *apd.Decimal) error {
	ed := apd.MakeErrDecimal(w)
	var z2, term apd.Decimal
	ed.Mul(&z2, z, z)
	term.Set(z)
	r.Set(z)
	for k := int64(1); ; k++ {
		ed.Mul(&term, &term, &z2)
		ed.Quo(&term, &term, apd.New(2*k*(2*k+1), 0))
		ed.Neg(&term, &term)
		if err := ed.Err(); err != nil {
			return err
		}
		if negligible(w, &term) {
			break
		}
		ed.Add(r, r, &term)
	}
	return ed.Err()
}

// cosSeries sums the Taylor series of cosine for a reduced argument.
func cosSeries(w *apd.Context, r, z *apd.Decimal) error {
	ed := apd.MakeErrDecimal(w)
	one := apd.New(1, 0)
	var z2, term apd.Decimal
	ed.Mul(&z2, z, z)
	term.Set(one)
	r.Set(one)
	for k := int64(1); ; k++ {
		ed.Mul(&term, &term, &z2)
		ed.Quo(&term, &term, apd.New((2*k-1)*2*k, 0))
		ed.Neg(&term, &term)
		if err := ed.Err(); err != nil {
			return err
		}
		if negligible(w, &term) {
			break
		}
		ed.Add(r, r, &term)
	}
	return ed.Err()
}
