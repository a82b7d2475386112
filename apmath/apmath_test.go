package apmath

import (
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pi40 = "3.141592653589793238462643383279502884197"
	e40  = "2.718281828459045235360287471352662497757"
)

// prefix50 evaluates f at 50 digits and returns the result's plain text.
func prefix50(t *testing.T, f func(c *apd.Context, r, x *apd.Decimal) error, arg string) string {
	t.Helper()
	c := apd.BaseContext.WithPrecision(50)
	x, _, err := apd.NewFromString(arg)
	require.NoError(t, err)
	var r apd.Decimal
	require.NoError(t, f(c, &r, x))
	return r.Text('f')
}

func TestPi(t *testing.T) {
	c := apd.BaseContext.WithPrecision(50)
	var r apd.Decimal
	require.NoError(t, Pi(c, &r))
	assert.True(t, strings.HasPrefix(r.Text('f'), pi40), "got %s", r.Text('f'))

	// A higher precision than any earlier request recomputes past the cache.
	c = apd.BaseContext.WithPrecision(200)
	require.NoError(t, Pi(c, &r))
	assert.True(t, strings.HasPrefix(r.Text('f'), pi40), "got %s", r.Text('f'))
	assert.GreaterOrEqual(t, r.NumDigits(), int64(190))

	// And a lower one is served from it.
	c = apd.BaseContext.WithPrecision(10)
	require.NoError(t, Pi(c, &r))
	assert.Equal(t, "3.141592654", r.Text('f'))
}

func TestE(t *testing.T) {
	c := apd.BaseContext.WithPrecision(50)
	var r apd.Decimal
	require.NoError(t, E(c, &r))
	assert.True(t, strings.HasPrefix(r.Text('f'), e40), "got %s", r.Text('f'))
}

func TestTrig(t *testing.T) {
	cases := []struct {
		name string
		f    func(c *apd.Context, r, x *apd.Decimal) error
		arg  string
		want string
	}{
		{"sin", Sin, "1", "0.841470984807896506652502321630298999622563060798"},
		{"cos", Cos, "1", "0.540302305868139717400936607442976603732310420617"},
		{"tan", Tan, "1", "1.55740772465490223050697480745836017308725077238"},
		{"asin", Asin, "0.5", "0.523598775598298873077107230546583814032861566562"},
		{"acos", Acos, "0.5", "1.04719755119659774615421446109316762806572313312"},
		{"atan", Atan, "1", "0.785398163397448309615660845819875721049292349843"},
		{"atan", Atan, "3", "1.24904577239825442582991707728109012307782940412"},
		{"sinh", Sinh, "1", "1.17520119364380145688238185059560081515571798133"},
		{"cosh", Cosh, "1", "1.54308063481524377847790562075706168260152911236"},
		{"tanh", Tanh, "1", "0.761594155955764888119458282604793590412768597257"},
	}
	for _, c := range cases {
		got := prefix50(t, c.f, c.arg)
		assert.True(t, strings.HasPrefix(got, c.want[:40]),
			"%s(%s): want prefix %s, got %s", c.name, c.arg, c.want[:40], got)
	}
}

func TestTrigSymmetry(t *testing.T) {
	// sin and atan are odd, cos is even.
	assert.Equal(t, "-"+prefix50(t, Sin, "2"), prefix50(t, Sin, "-2"))
	assert.Equal(t, "-"+prefix50(t, Atan, "2"), prefix50(t, Atan, "-2"))
	assert.Equal(t, prefix50(t, Cos, "2"), prefix50(t, Cos, "-2"))
}

func TestPythagoreanIdentity(t *testing.T) {
	c := apd.BaseContext.WithPrecision(50)
	for _, arg := range []string{"0.1", "1", "2", "10", "-3"} {
		x, _, err := apd.NewFromString(arg)
		require.NoError(t, err)
		var s, co, v apd.Decimal
		require.NoError(t, Sin(c, &s, x))
		require.NoError(t, Cos(c, &co, x))
		ed := apd.MakeErrDecimal(c)
		ed.Mul(&s, &s, &s)
		ed.Mul(&co, &co, &co)
		ed.Add(&v, &s, &co)
		ed.Sub(&v, &v, apd.New(1, 0))
		ed.Abs(&v, &v)
		require.NoError(t, ed.Err())
		bound := apd.New(1, -45)
		assert.True(t, v.Cmp(bound) < 0, "sin²+cos² at %s differs from 1 by %s", arg, v.Text('e'))
	}
}

func TestArgumentReduction(t *testing.T) {
	// sin(x + 2πk) = sin(x) for large k.
	c := apd.BaseContext.WithPrecision(50)
	var pi, x, want, got apd.Decimal
	require.NoError(t, Pi(c, &pi))
	ed := apd.MakeErrDecimal(c)
	// x = 1 + 1000·2π
	ed.Mul(&x, &pi, apd.New(2000, 0))
	ed.Add(&x, &x, apd.New(1, 0))
	require.NoError(t, ed.Err())
	require.NoError(t, Sin(c, &want, apd.New(1, 0)))
	require.NoError(t, Sin(c, &got, &x))
	var diff apd.Decimal
	ed.Sub(&diff, &want, &got)
	ed.Abs(&diff, &diff)
	require.NoError(t, ed.Err())
	assert.True(t, diff.Cmp(apd.New(1, -40)) < 0, "difference %s", diff.Text('e'))
}

func TestAsinBoundary(t *testing.T) {
	const halfPi40 = "1.570796326794896619231321691639751442098"
	c := apd.BaseContext.WithPrecision(50)
	var r apd.Decimal
	require.NoError(t, Asin(c, &r, apd.New(1, 0)))
	assert.True(t, strings.HasPrefix(r.Text('f'), halfPi40), "asin(1) = %s, want π/2", r.Text('f'))

	require.NoError(t, Asin(c, &r, apd.New(-1, 0)))
	assert.True(t, strings.HasPrefix(r.Text('f'), "-"+halfPi40), "asin(-1) = %s, want -π/2", r.Text('f'))
}

func TestHyperLarge(t *testing.T) {
	c := apd.BaseContext.WithPrecision(50)
	one := apd.New(1, 0)
	negOne := apd.New(-1, 0)
	var tn apd.Decimal

	// tanh saturates at ±1 long before e^x leaves the exponent range.
	for _, arg := range []int64{200, 1000, 100000} {
		require.NoError(t, Tanh(c, &tn, apd.New(arg, 0)))
		assert.Zero(t, tn.Cmp(one), "tanh(%d) = %s", arg, tn.Text('f'))
		require.NoError(t, Tanh(c, &tn, apd.New(-arg, 0)))
		assert.Zero(t, tn.Cmp(negOne), "tanh(-%d) = %s", arg, tn.Text('f'))
	}

	// sinh(300) ≈ 9.71·10^129; e^-300 is far below the working precision,
	// so sinh and cosh agree to every computed digit.
	x := apd.New(300, 0)
	var s, co apd.Decimal
	require.NoError(t, Sinh(c, &s, x))
	require.NoError(t, Cosh(c, &co, x))
	assert.False(t, s.Negative)
	assert.Equal(t, int64(129), int64(s.Exponent)+s.NumDigits()-1)
	assert.Zero(t, s.Cmp(&co))
	var q apd.Decimal
	_, err := c.Quo(&q, &s, &co)
	require.NoError(t, err)
	assert.Zero(t, q.Cmp(one))

	require.NoError(t, Sinh(c, &s, apd.New(-300, 0)))
	assert.True(t, s.Negative)

	// A result beyond the exponent range is an error, not an infinity.
	err = Sinh(c, &s, apd.New(1, 7))
	require.Error(t, err)
}

func TestDomainErrors(t *testing.T) {
	c := apd.BaseContext.WithPrecision(50)
	var r apd.Decimal
	for _, f := range []func(c *apd.Context, r, x *apd.Decimal) error{Asin, Acos} {
		err := f(c, &r, apd.New(2, 0))
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "2", de.X.String())
		err = f(c, &r, apd.New(-2, 0))
		require.ErrorAs(t, err, &de)
	}
}
