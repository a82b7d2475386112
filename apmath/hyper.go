package apmath

import (
	"errors"

	"github.com/cockroachdb/apd/v3"
)

// errExpRange reports a result too large for the decimal exponent range.
var errExpRange = errors.New("result exceeds the exponent range")

// Sinh sets r to the hyperbolic sine of x at c's precision. It returns an
// error when the result exceeds the decimal exponent range.
func Sinh(c *apd.Context, r, x *apd.Decimal) error {
	w := work(c, x)
	a, b, err := expPair(w, x)
	if err != nil {
		return err
	}
	ed := apd.MakeErrDecimal(w)
	var v apd.Decimal
	ed.Sub(&v, a, b)
	ed.Quo(&v, &v, apd.New(2, 0))
	if err := ed.Err(); err != nil {
		return err
	}
	_, err = c.Round(r, &v)
	return err
}

// Cosh sets r to the hyperbolic cosine of x at c's precision. It returns an
// error when the result exceeds the decimal exponent range.
func Cosh(c *apd.Context, r, x *apd.Decimal) error {
	w := work(c, x)
	a, b, err := expPair(w, x)
	if err != nil {
		return err
	}
	ed := apd.MakeErrDecimal(w)
	var v apd.Decimal
	ed.Add(&v, a, b)
	ed.Quo(&v, &v, apd.New(2, 0))
	if err := ed.Err(); err != nil {
		return err
	}
	_, err = c.Round(r, &v)
	return err
}

// Tanh sets r to the hyperbolic tangent of x at c's precision.
//
// It is computed as sign(x)·(1-t)/(1+t) with t = e^(-2|x|), so t never
// grows and large arguments saturate at ±1 instead of overflowing.
func Tanh(c *apd.Context, r, x *apd.Decimal) error {
	w := work(c, x)
	var ax apd.Decimal
	ax.Abs(x)
	// Once 2|x| is several times the working precision, t is far below
	// one unit in the last place and the result rounds to ±1 exactly.
	if ax.Cmp(apd.New(3*int64(w.Precision), 0)) >= 0 {
		r.Set(apd.New(1, 0))
		if x.Negative {
			r.Neg(r)
		}
		return nil
	}
	ed := apd.MakeErrDecimal(w)
	var t, num, den apd.Decimal
	ed.Mul(&t, &ax, apd.New(-2, 0))
	if err := ed.Err(); err != nil {
		return err
	}
	if err := exp(w, &t, &t); err != nil {
		return err
	}
	one := apd.New(1, 0)
	ed.Sub(&num, one, &t)
	ed.Add(&den, one, &t)
	ed.Quo(&num, &num, &den)
	if err := ed.Err(); err != nil {
		return err
	}
	if x.Negative {
		num.Neg(&num)
	}
	_, err := c.Round(r, &num)
	return err
}

// expPair computes e^x and e^-x at w's precision.
func expPair(w *apd.Context, x *apd.Decimal) (*apd.Decimal, *apd.Decimal, error) {
	var a, b, nx apd.Decimal
	if err := exp(w, &a, x); err != nil {
		return nil, nil, err
	}
	nx.Neg(x)
	if err := exp(w, &b, &nx); err != nil {
		return nil, nil, err
	}
	return &a, &b, nil
}

// expSplitCutoff is the argument magnitude beyond which exp peels off the
// power of ten instead of handing the whole argument to the library, whose
// series rejects arguments much larger than the working precision.
var expSplitCutoff = apd.New(100, 0)

// exp sets r to e^x at w's full precision. Large arguments are split as
// x = k·ln(10) + f with f in [0, ln 10), so e^x = e^f · 10^k and the
// series only ever sees a small argument. Results below the exponent range
// are flushed to zero; results above it are an error.
func exp(w *apd.Context, r, x *apd.Decimal) error {
	var ax apd.Decimal
	ax.Abs(x)
	if ax.Cmp(expSplitCutoff) <= 0 {
		_, err := w.Exp(r, x)
		return err
	}
	ed := apd.MakeErrDecimal(w)
	var ln10, k, f apd.Decimal
	ed.Ln(&ln10, apd.New(10, 0))
	ed.Quo(&k, x, &ln10)
	ed.Floor(&k, &k)
	ed.Mul(&f, &k, &ln10)
	ed.Sub(&f, x, &f)
	if err := ed.Err(); err != nil {
		return err
	}
	ki, err := k.Int64()
	if err != nil {
		// The decimal point moves by more positions than an int64 holds.
		if x.Negative {
			r.SetInt64(0)
			return nil
		}
		return errExpRange
	}
	if _, err := w.Exp(r, &f); err != nil {
		return err
	}
	e := int64(r.Exponent) + ki
	// The range limits apply to the adjusted exponent.
	switch adj := e + r.NumDigits() - 1; {
	case adj > int64(w.MaxExponent):
		return errExpRange
	case adj < int64(w.MinExponent):
		r.SetInt64(0)
		return nil
	}
	r.Exponent = int32(e)
	return nil
}
