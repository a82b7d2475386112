package apeval

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/lilggamegenuis/apeval/apmath"
)

// applyOperator computes an operator application into r. Undefined results
// are reported as OperandErrors before the arithmetic is attempted wherever
// the operands alone decide them.
func (ctx *Context) applyOperator(op *Operator, args []*apd.Decimal, r *apd.Decimal, pos int) error {
	switch op.Kind {
	case OpNegate:
		if _, err := ctx.dctx.Neg(r, args[0]); err != nil {
			return ctx.numErr(pos, op.Symbol, err)
		}
	case OpAdd:
		if _, err := ctx.dctx.Add(r, args[0], args[1]); err != nil {
			return ctx.numErr(pos, op.Symbol, err)
		}
	case OpSubtract:
		if _, err := ctx.dctx.Sub(r, args[0], args[1]); err != nil {
			return ctx.numErr(pos, op.Symbol, err)
		}
	case OpMultiply:
		if _, err := ctx.dctx.Mul(r, args[0], args[1]); err != nil {
			return ctx.numErr(pos, op.Symbol, err)
		}
	case OpDivide:
		if args[1].IsZero() {
			return &OperandError{Col: pos, Op: op.Symbol, Reason: "division by zero"}
		}
		if _, err := ctx.dctx.Quo(r, args[0], args[1]); err != nil {
			return ctx.numErr(pos, op.Symbol, err)
		}
	case OpModulo:
		if err := ctx.modulo(r, args[0], args[1], pos); err != nil {
			return err
		}
	case OpPower:
		if err := ctx.power(r, args[0], args[1], pos); err != nil {
			return err
		}
	default:
		panic("apeval: unknown operator kind")
	}
	return ctx.finite(r, pos, op.Symbol)
}

// modulo computes the floored modulo x - y·floor(x/y), so the result takes
// the sign of the divisor: -7 % 3 is 2.
func (ctx *Context) modulo(r, x, y *apd.Decimal, pos int) error {
	if y.IsZero() {
		return &OperandError{Col: pos, Op: "%", Reason: "division by zero"}
	}
	ed := apd.MakeErrDecimal(ctx.dctx)
	var q apd.Decimal
	ed.Quo(&q, x, y)
	ed.Floor(&q, &q)
	ed.Mul(&q, &q, y)
	ed.Sub(r, x, &q)
	if err := ed.Err(); err != nil {
		return ctx.numErr(pos, "%", err)
	}
	return nil
}

// power computes exponentiation, rejecting the combinations that have no
// real result before handing off to the decimal context.
func (ctx *Context) power(r, x, y *apd.Decimal, pos int) error {
	if x.IsZero() && y.Negative {
		return &OperandError{Col: pos, Op: "^", Reason: "zero base with negative exponent"}
	}
	var i apd.Decimal
	if x.Negative {
		if _, err := ctx.dctx.RoundToIntegralExact(&i, y); err != nil || i.Cmp(y) != 0 {
			return &OperandError{Col: pos, Op: "^", Reason: "negative base with fractional exponent"}
		}
	}
	if _, err := ctx.dctx.Pow(r, x, y); err != nil {
		return ctx.numErr(pos, "^", err)
	}
	return nil
}

// applyFunction computes a function application into r. The argument count
// has already been validated against the function's bounds.
func (ctx *Context) applyFunction(fn *Function, args []*apd.Decimal, r *apd.Decimal, pos int) error {
	switch fn.Kind {
	case FuncAbs:
		if _, err := ctx.dctx.Abs(r, args[0]); err != nil {
			return ctx.numErr(pos, fn.Name, err)
		}
	case FuncCeil:
		if _, err := ctx.dctx.Ceil(r, args[0]); err != nil {
			return ctx.numErr(pos, fn.Name, err)
		}
	case FuncFloor:
		if _, err := ctx.dctx.Floor(r, args[0]); err != nil {
			return ctx.numErr(pos, fn.Name, err)
		}
	case FuncRound:
		// Away from zero regardless of the fraction: round(0.1) is 1 and
		// round(-1.1) is -2.
		c := *ctx.dctx
		c.Rounding = apd.RoundUp
		if _, err := c.RoundToIntegralValue(r, args[0]); err != nil {
			return ctx.numErr(pos, fn.Name, err)
		}
	case FuncSin:
		return ctx.transcend(apmath.Sin, args[0], r, fn.Name, pos)
	case FuncCos:
		return ctx.transcend(apmath.Cos, args[0], r, fn.Name, pos)
	case FuncTan:
		return ctx.transcend(apmath.Tan, args[0], r, fn.Name, pos)
	case FuncAsin:
		return ctx.transcend(apmath.Asin, args[0], r, fn.Name, pos)
	case FuncAcos:
		return ctx.transcend(apmath.Acos, args[0], r, fn.Name, pos)
	case FuncAtan:
		return ctx.transcend(apmath.Atan, args[0], r, fn.Name, pos)
	case FuncSinh:
		return ctx.transcend(apmath.Sinh, args[0], r, fn.Name, pos)
	case FuncCosh:
		return ctx.transcend(apmath.Cosh, args[0], r, fn.Name, pos)
	case FuncTanh:
		return ctx.transcend(apmath.Tanh, args[0], r, fn.Name, pos)
	case FuncLn:
		if !args[0].Negative && !args[0].IsZero() {
			if _, err := ctx.dctx.Ln(r, args[0]); err != nil {
				return ctx.numErr(pos, fn.Name, err)
			}
			break
		}
		return &OperandError{Col: pos, Op: fn.Name, Reason: "argument must be positive"}
	case FuncLog:
		if !args[0].Negative && !args[0].IsZero() {
			if _, err := ctx.dctx.Log10(r, args[0]); err != nil {
				return ctx.numErr(pos, fn.Name, err)
			}
			break
		}
		return &OperandError{Col: pos, Op: fn.Name, Reason: "argument must be positive"}
	case FuncMin:
		best := args[0]
		for _, a := range args[1:] {
			if a.Cmp(best) < 0 {
				best = a
			}
		}
		r.Set(best)
	case FuncMax:
		best := args[0]
		for _, a := range args[1:] {
			if a.Cmp(best) > 0 {
				best = a
			}
		}
		r.Set(best)
	case FuncSum:
		if err := ctx.sum(r, args, pos); err != nil {
			return err
		}
	case FuncAvg:
		if err := ctx.sum(r, args, pos); err != nil {
			return err
		}
		if _, err := ctx.dctx.Quo(r, r, apd.New(int64(len(args)), 0)); err != nil {
			return ctx.numErr(pos, fn.Name, err)
		}
	case FuncRandom:
		if err := ctx.random(r); err != nil {
			return ctx.numErr(pos, fn.Name, err)
		}
	default:
		panic("apeval: unknown function kind")
	}
	return ctx.finite(r, pos, fn.Name)
}

func (ctx *Context) sum(r *apd.Decimal, args []*apd.Decimal, pos int) error {
	r.Set(args[0])
	for _, a := range args[1:] {
		if _, err := ctx.dctx.Add(r, r, a); err != nil {
			return ctx.numErr(pos, "sum", err)
		}
	}
	return nil
}

// random sets r to a uniform value in [0, 1) with one random digit per
// significant digit of precision.
func (ctx *Context) random(r *apd.Decimal) error {
	var sb strings.Builder
	sb.Grow(int(ctx.dctx.Precision) + 2)
	sb.WriteString("0.")
	for range ctx.dctx.Precision {
		sb.WriteByte('0' + byte(rand.IntN(10)))
	}
	_, _, err := r.SetString(sb.String())
	return err
}

// transcend applies an apmath function, translating its domain errors.
func (ctx *Context) transcend(f func(*apd.Context, *apd.Decimal, *apd.Decimal) error, x, r *apd.Decimal, name string, pos int) error {
	if err := f(ctx.dctx, r, x); err != nil {
		return ctx.numErr(pos, name, err)
	}
	return ctx.finite(r, pos, name)
}

// constant produces a constant's value at the context's precision.
func (ctx *Context) constant(k *Constant, r *apd.Decimal, pos int) error {
	var err error
	switch k.Kind {
	case ConstPi:
		err = apmath.Pi(ctx.dctx, r)
	case ConstE:
		err = apmath.E(ctx.dctx, r)
	default:
		panic("apeval: unknown constant kind")
	}
	if err != nil {
		return ctx.numErr(pos, k.Name, err)
	}
	return nil
}

// finite rejects non-finite results so that infinities and NaNs never enter
// the operand stack.
func (ctx *Context) finite(r *apd.Decimal, pos int, name string) error {
	if r.Form != apd.Finite {
		return &OperandError{Col: pos, Op: name, Reason: "result is not finite"}
	}
	return nil
}

// numErr converts an arithmetic error into an OperandError at a position.
func (ctx *Context) numErr(pos int, name string, err error) error {
	var de *apmath.DomainError
	if errors.As(err, &de) {
		return &OperandError{Col: pos, Op: name, Reason: de.X.String() + " outside domain"}
	}
	return &OperandError{Col: pos, Op: name, Reason: err.Error()}
}
