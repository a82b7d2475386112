// Package apmath provides transcendental functions on arbitrary-precision
// decimals, complementing the arithmetic in cockroachdb/apd. Every function
// computes with internal guard digits and rounds its result to the
// precision of the supplied context.
package apmath

import (
	"sync"

	"github.com/cockroachdb/apd/v3"
)

// guard is the number of extra significant digits carried by internal
// computations so that the final rounding is correct.
const guard = 20

// work returns a context with guard digits beyond c. If x is non-nil, the
// context also carries room for x's integer digits, which argument
// reduction consumes.
func work(c *apd.Context, x *apd.Decimal) *apd.Context {
	p := int64(c.Precision) + guard
	if x != nil {
		if id := x.NumDigits() + int64(x.Exponent); id > 0 {
			p += id
		}
	}
	return apd.BaseContext.WithPrecision(uint32(p))
}

// negligible reports whether a series term can no longer affect a sum at
// w's precision.
func negligible(w *apd.Context, d *apd.Decimal) bool {
	if d.IsZero() {
		return true
	}
	return int64(d.Exponent)+d.NumDigits() < -int64(w.Precision)
}

var piCache struct {
	sync.Mutex
	prec uint32
	v    apd.Decimal
}

// Pi sets r to the circle constant at c's precision.
func Pi(c *apd.Context, r *apd.Decimal) error {
	piCache.Lock()
	defer piCache.Unlock()
	if piCache.prec >= c.Precision {
		_, err := c.Round(r, &piCache.v)
		return err
	}
	w := work(c, nil)
	var v apd.Decimal
	if err := machin(w, &v); err != nil {
		return err
	}
	piCache.prec = c.Precision
	piCache.v.Set(&v)
	_, err := c.Round(r, &v)
	return err
}

// machin computes π = 16 atan(1/5) - 4 atan(1/239).
func machin(w *apd.Context, r *apd.Decimal) error {
	var a5, a239 apd.Decimal
	if err := atanRecip(w, &a5, 5); err != nil {
		return err
	}
	if err := atanRecip(w, &a239, 239); err != nil {
		return err
	}
	ed := apd.MakeErrDecimal(w)
	ed.Mul(&a5, &a5, apd.New(16, 0))
	ed.Mul(&a239, &a239, apd.New(4, 0))
	ed.Sub(r, &a5, &a239)
	return ed.Err()
}

// atanRecip computes atan(1/m) for integer m > 1 by the Taylor series
// of atan, which converges by a factor of m² per term.
func atanRecip(w *apd.Context, r *apd.Decimal, m int64) error {
	ed := apd.MakeErrDecimal(w)
	one := apd.New(1, 0)
	mm := apd.New(m*m, 0)
	var pow, term apd.Decimal
	ed.Quo(&pow, one, apd.New(m, 0))
	r.Set(&pow)
	for k := int64(1); ; k++ {
		ed.Quo(&pow, &pow, mm)
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
	return ed.Err()
}

// E sets r to the base of the natural logarithm at c's precision.
func E(c *apd.Context, r *apd.Decimal) error {
	w := work(c, nil)
	var v apd.Decimal
	if _, err := w.Exp(&v, apd.New(1, 0)); err != nil {
		return err
	}
	_, err := c.Round(r, &v)
	return err
}

// DomainError is the error returned when a function is called on an
// argument outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X *apd.Decimal
	// Func is the name of the function.
	Func string
}

func (err *DomainError) Error() string {
	return err.X.String() + " outside domain of " + err.Func
}
