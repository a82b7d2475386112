package apeval

import "github.com/cockroachdb/apd/v3"

// Format renders a result as plain decimal text with a period as the
// decimal separator, no digit grouping, and no exponent. Trailing zeros
// are dropped, so an exact quotient like 10/4 reads 2.5 rather than a
// coefficient padded to the working precision.
func Format(d *apd.Decimal) string {
	var v apd.Decimal
	v.Reduce(d)
	return v.Text('f')
}

// FormatPrec renders a result rounded to the given number of significant
// digits for display. The value itself is not modified. Non-positive digits
// format the value as is.
func FormatPrec(d *apd.Decimal, digits int) string {
	if digits < 1 {
		return Format(d)
	}
	c := apd.BaseContext.WithPrecision(uint32(digits))
	var v apd.Decimal
	if _, err := c.Round(&v, d); err != nil {
		return Format(d)
	}
	// Rounding can leave a trailing zero run inside the precision; drop it
	// so that 0.5000 displays as 0.5.
	v.Reduce(&v)
	return v.Text('f')
}
