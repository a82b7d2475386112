package apeval

import (
	"errors"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func TestEvalString(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		// literals
		{"0", "0"},
		{"42", "42"},
		{"1.5", "1.5"},
		// precedence and grouping
		{"1+2+3", "6"},
		{"3+2+1", "6"},
		{"3-5", "-2"},
		{"2+3*4", "14"},
		{"(2+3)*4", "20"},
		{"2*3+4", "10"},
		{"10-2-3", "5"},
		{"24/4/2", "3"},
		{"2^10", "1024"},
		{"4^3^2", "4096"},
		{"((((7))))", "7"},
		// unary minus
		{"-3+5", "2"},
		{"3--5", "8"},
		{"2*-3", "-6"},
		{"--4", "4"},
		{"-2^2", "-4"},
		// division
		{"1/8", "0.125"},
		{"10/4", "2.5"},
		{"1/3", "0." + strings.Repeat("3", 64)},
		// floored modulo takes the sign of the divisor
		{"7%3", "1"},
		{"-7%3", "2"},
		{"7%-3", "-2"},
		{"-7%-3", "-1"},
		// rounding functions
		{"abs(-4.5)", "4.5"},
		{"ceil(1.2)", "2"},
		{"floor(-1.2)", "-2"},
		{"round(0.1)", "1"},
		{"round(-1.1)", "-2"},
		{"round(7)", "7"},
		// variadics
		{"min(3,1,2)", "1"},
		{"max(3,1,2)", "3"},
		{"sum(1,2,3)", "6"},
		{"sum(5)", "5"},
		{"avg(2,4)", "3"},
		{"avg(1,2,3,4,5,7)", "3." + strings.Repeat("6", 62) + "7"},
		// logarithms
		{"ln(1)", "0"},
		{"log(1000)", "3"},
		// exact trigonometric values
		{"sin(0)", "0"},
		{"atan(0)", "0"},
		{"sinh(0)", "0"},
		// whitespace
		{"  2 + 2\t", "4"},
		{"sum( 1 , 2 )", "3"},
	}
	for _, c := range cases {
		d, err := EvalString(c.expr)
		if err != nil {
			t.Errorf("evaluating %q: unexpected error %v", c.expr, err)
			continue
		}
		if got := Format(d); got != c.want {
			t.Errorf("evaluating %q: want %s, got %s", c.expr, c.want, got)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	var (
		lexErr   *LexError
		synErr   *SyntaxError
		opErr    *OperatorError
		nameErr  *NameError
		brkErr   *BracketError
		sepErr   *SeparatorError
		emptyErr *EmptyExpressionError
		arityErr *ArityError
		operand  *OperandError
	)
	cases := []struct {
		expr string
		as   any
	}{
		// lexical
		{"1&2", &lexErr},
		{"2.", &lexErr},
		// structural
		{"1+", &synErr},
		{"*1", &opErr},
		{"1 2", &synErr},
		{"2 pi", &synErr},
		{"sin 1", &synErr},
		{"(1+2", &brkErr},
		{"1+2)", &brkErr},
		{"1,2", &sepErr},
		{"", &emptyErr},
		{"()", &emptyErr},
		{"sin(,1)", &emptyErr},
		{"sum(1,)", &emptyErr},
		{"foo", &nameErr},
		{"foo(1)", &nameErr},
		// arity
		{"sum()", &arityErr},
		{"abs(1,2)", &arityErr},
		{"random(1)", &arityErr},
		// undefined results
		{"1/0", &operand},
		{"5%0", &operand},
		{"0^-1", &operand},
		{"(0-2)^0.5", &operand},
		{"ln(0)", &operand},
		{"ln(0-1)", &operand},
		{"log(0)", &operand},
		{"asin(2)", &operand},
		{"acos(0-2)", &operand},
		// sinh(1e7) ≈ 10^4342944, past the decimal exponent range.
		{"sinh(10000000)", &operand},
	}
	for _, c := range cases {
		d, err := EvalString(c.expr)
		if err == nil {
			t.Errorf("evaluating %q: no error, got %s", c.expr, Format(d))
			continue
		}
		if !errors.As(err, c.as) {
			t.Errorf("evaluating %q: error %v has wrong type %T", c.expr, err, err)
		}
		var ie InputError
		if !errors.As(err, &ie) {
			t.Errorf("evaluating %q: error %v does not implement InputError", c.expr, err)
		} else if ie.Pos() < 1 {
			t.Errorf("evaluating %q: error position %d", c.expr, ie.Pos())
		}
	}
}

func TestErrorPositions(t *testing.T) {
	cases := []struct {
		expr string
		pos  int
	}{
		{"1 + foo", 5},
		{"1/0", 2},
		{"12 + ln(0)", 6},
		{"(1+2", 1},
	}
	for _, c := range cases {
		_, err := EvalString(c.expr)
		if err == nil {
			t.Errorf("evaluating %q: no error", c.expr)
			continue
		}
		var ie InputError
		if !errors.As(err, &ie) {
			t.Errorf("evaluating %q: %T does not implement InputError", c.expr, err)
			continue
		}
		if ie.Pos() != c.pos {
			t.Errorf("evaluating %q: want error at %d, got %v", c.expr, c.pos, err)
		}
	}
}

func TestConstants(t *testing.T) {
	const pi40 = "3.141592653589793238462643383279502884197"
	const e40 = "2.718281828459045235360287471352662497757"
	d, err := EvalString("pi")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(Format(d), pi40) {
		t.Errorf("pi: got %s", Format(d))
	}
	if n := d.NumDigits(); n != 64 {
		t.Errorf("pi at default precision: %d digits", n)
	}
	d, err = EvalString("e")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(Format(d), e40) {
		t.Errorf("e: got %s", Format(d))
	}
	d, err = EvalString("pi", Prec(128))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(Format(d), pi40) {
		t.Errorf("pi at 128 digits: got %s", Format(d))
	}
	if n := d.NumDigits(); n < 120 {
		t.Errorf("pi at 128 digits: only %d digits", n)
	}
}

func TestTranscendental(t *testing.T) {
	// asin(0.5)*6 = π.
	d, err := EvalString("asin(0.5)*6")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(Format(d), "3.1415926535897932384626433832795028") {
		t.Errorf("asin(0.5)*6: got %s", Format(d))
	}
	// cos(0) = 1 exactly after rounding.
	d, err = EvalString("cos(0)")
	if err != nil {
		t.Fatal(err)
	}
	if d.Cmp(apd.New(1, 0)) != 0 {
		t.Errorf("cos(0): got %s", Format(d))
	}
	// tanh(1e5) saturates at 1 to any finite precision.
	d, err = EvalString("tanh(100000)")
	if err != nil {
		t.Fatal(err)
	}
	if d.Cmp(apd.New(1, 0)) != 0 {
		t.Errorf("tanh(100000): got %s", Format(d))
	}
}

func TestSpreadsheetStyle(t *testing.T) {
	cases := []struct {
		expr       string
		std, sheet string
	}{
		{"-3^2", "-9", "9"},
		{"-2^2+1", "-3", "5"},
		{"2+3*4", "14", "14"},
	}
	for _, c := range cases {
		d, err := EvalString(c.expr)
		if err != nil {
			t.Fatalf("evaluating %q: %v", c.expr, err)
		}
		if got := Format(d); got != c.std {
			t.Errorf("standard %q: want %s, got %s", c.expr, c.std, got)
		}
		d, err = EvalString(c.expr, WithCatalog(DefaultCatalog(Spreadsheet)))
		if err != nil {
			t.Fatalf("evaluating %q: %v", c.expr, err)
		}
		if got := Format(d); got != c.sheet {
			t.Errorf("spreadsheet %q: want %s, got %s", c.expr, c.sheet, got)
		}
	}
}

func TestRandom(t *testing.T) {
	one := apd.New(1, 0)
	for i := 0; i < 10; i++ {
		d, err := EvalString("random()")
		if err != nil {
			t.Fatal(err)
		}
		if d.Negative || d.Cmp(one) >= 0 {
			t.Errorf("random(): %s outside [0, 1)", Format(d))
		}
	}
}

func TestContextReuse(t *testing.T) {
	ctx := NewContext()
	for i := 0; i < 2; i++ {
		d, err := ctx.EvalString("2+2")
		if err != nil {
			t.Fatal(err)
		}
		if got := Format(d); got != "4" {
			t.Errorf("run %d: want 4, got %s", i, got)
		}
	}
	// An error must not poison later evaluations.
	if _, err := ctx.EvalString("1+"); err == nil {
		t.Error("no error evaluating invalid input")
	}
	d, err := ctx.EvalString("1+1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(d); got != "2" {
		t.Errorf("after error: want 2, got %s", got)
	}
}

func TestDefaultPrecision(t *testing.T) {
	t.Cleanup(func() { SetPrecision(DefaultPrecision) })
	SetPrecision(10)
	d, err := EvalString("1/3")
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(d); got != "0.3333333333" {
		t.Errorf("1/3 at 10 digits: got %s", got)
	}
	// Negative and zero values are ignored.
	SetPrecision(0)
	SetPrecision(-5)
	if p := Precision(); p != 10 {
		t.Errorf("precision changed to %d", p)
	}
	// An existing context keeps its snapshot.
	ctx := NewContext()
	SetPrecision(20)
	if p := ctx.Prec(); p != 10 {
		t.Errorf("context precision changed to %d", p)
	}
}

func TestRoundTrip(t *testing.T) {
	d, err := EvalString("4/2")
	if err != nil {
		t.Fatal(err)
	}
	again, err := EvalString(Format(d))
	if err != nil {
		t.Fatal(err)
	}
	if d.Cmp(again) != 0 {
		t.Errorf("round trip: %s became %s", Format(d), Format(again))
	}
}

func TestPayload(t *testing.T) {
	ctx := NewContext(Payload(42))
	if v := ctx.Payload(); v != 42 {
		t.Errorf("payload: got %v", v)
	}
	if v := NewContext().Payload(); v != nil {
		t.Errorf("default payload: got %v", v)
	}
}
