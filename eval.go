package apeval

import (
	"sync/atomic"

	"github.com/cockroachdb/apd/v3"
)

// DefaultPrecision is the significant-digit precision used when neither
// SetPrecision nor the Prec option has chosen another.
const DefaultPrecision = 64

var defaultPrec atomic.Uint32

// Precision returns the process-wide default significant-digit precision.
func Precision() uint32 {
	if p := defaultPrec.Load(); p != 0 {
		return p
	}
	return DefaultPrecision
}

// SetPrecision sets the process-wide default significant-digit precision.
// Values less than 1 are ignored and the prior setting is retained.
// Contexts snapshot the default when they are created, so changing it never
// affects an evaluation already in progress.
func SetPrecision(digits int) {
	if digits > 0 {
		defaultPrec.Store(uint32(digits))
	}
}

// Context is a context for evaluating expressions. It is not safe to use a
// Context concurrently, but any number of contexts may share one catalog.
type Context struct {
	cat     *Catalog
	dctx    *apd.Context
	payload any

	vals []*apd.Decimal
	ops  []opEntry
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt    uint32
	catopt     struct{ cat *Catalog }
	payloadopt struct{ v any }
)

func (precopt) ctxOption()    {}
func (catopt) ctxOption()     {}
func (payloadopt) ctxOption() {}

// Prec sets the significant-digit precision of calculations. Values less
// than 1 are ignored.
func Prec(digits int) ContextOption {
	if digits < 1 {
		return precopt(0)
	}
	return precopt(digits)
}

// WithCatalog selects the grammar catalog the context evaluates against.
func WithCatalog(cat *Catalog) ContextOption {
	return catopt{cat}
}

// Payload attaches an opaque caller value to the context. The evaluator
// never inspects it.
func Payload(v any) ContextOption {
	return payloadopt{v}
}

// NewContext creates a new evaluation context. Without options it uses the
// standard catalog and the process-wide default precision.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{cat: stdCatalog}
	prec := Precision()
	for _, opt := range opts {
		switch opt := opt.(type) {
		case precopt:
			if opt != 0 {
				prec = uint32(opt)
			}
		case catopt:
			ctx.cat = opt.cat
		case payloadopt:
			ctx.payload = opt.v
		default:
			panic("apeval: unknown option type")
		}
	}
	ctx.dctx = decimalContext(prec)
	return ctx
}

// decimalContext builds the apd context for a precision. Division by zero
// and invalid operations are trapped so they surface as errors rather than
// infinities or NaNs.
func decimalContext(prec uint32) *apd.Context {
	c := apd.BaseContext.WithPrecision(prec)
	c.Traps |= apd.DivisionByZero | apd.DivisionUndefined | apd.InvalidOperation
	return c
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint32 {
	return ctx.dctx.Precision
}

// Payload returns the opaque value attached with the Payload option, if any.
func (ctx *Context) Payload() any {
	return ctx.payload
}

// Catalog returns the catalog the context evaluates against.
func (ctx *Context) Catalog() *Catalog {
	return ctx.cat
}

// opEntry is an element of the pending-operator stack: an operator awaiting
// its operands, a function marker counting its arguments, or a bracket
// barrier that popping must not cross.
type opEntry struct {
	kind entryKind
	op   *Operator
	fn   *Function
	open string
	clos string
	// fnCall marks a bracket that opened a function argument list.
	fnCall bool
	// argc counts the separators seen inside a function call.
	argc int
	pos  int
}

type entryKind int8

const (
	entryOperator entryKind = iota
	entryFunction
	entryBracket
)

// EvalString evaluates an infix expression and returns its value at the
// context's precision. The error, if any, is an InputError; no partial
// result is ever returned.
func (ctx *Context) EvalString(expr string) (*apd.Decimal, error) {
	ctx.vals = ctx.vals[:0]
	ctx.ops = ctx.ops[:0]
	scan := lex(expr, ctx.cat)
	var prev lexToken
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum:
			if valueEnd(prev.kind) {
				return nil, &SyntaxError{Col: tok.pos, Msg: "missing operator before " + tok.text}
			}
			v, _, err := ctx.dctx.NewFromString(tok.text)
			if err != nil {
				return nil, &OperandError{Col: tok.pos, Op: tok.text, Reason: "invalid number"}
			}
			ctx.vals = append(ctx.vals, v)
		case tokenIdent:
			if valueEnd(prev.kind) {
				return nil, &SyntaxError{Col: tok.pos, Msg: "missing operator before " + tok.text}
			}
			if fn := ctx.cat.funcs[tok.text]; fn != nil {
				nt, err := scan.next()
				if err != nil {
					return nil, err
				}
				b, ok := ctx.cat.opens[nt.text]
				if nt.kind != tokenOpen || !ok || !b.fn {
					return nil, &SyntaxError{Col: tok.pos, Msg: "call to " + tok.text + " requires an argument list"}
				}
				ctx.ops = append(ctx.ops,
					opEntry{kind: entryFunction, fn: fn, pos: tok.pos},
					opEntry{kind: entryBracket, open: nt.text, clos: b.close, fnCall: true, pos: nt.pos})
				prev = nt
				continue
			}
			k := ctx.cat.consts[tok.text]
			if k == nil {
				return nil, &NameError{Col: tok.pos, Name: tok.text}
			}
			v := new(apd.Decimal)
			if err := ctx.constant(k, v, tok.pos); err != nil {
				return nil, err
			}
			ctx.vals = append(ctx.vals, v)
		case tokenOp:
			unary := prev.kind == tokenNone || prev.kind == tokenOp || prev.kind == tokenOpen || prev.kind == tokenSep
			var op *Operator
			if unary {
				op = ctx.cat.unary[tok.text]
			} else {
				op = ctx.cat.binary[tok.text]
			}
			if op == nil {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: unary}
			}
			// A unary operator is a prefix: the pending operator's right
			// operand has not started, so nothing can be applied yet.
			for !unary && len(ctx.ops) > 0 {
				top := &ctx.ops[len(ctx.ops)-1]
				if top.kind != entryOperator {
					break
				}
				if top.op.Prec > op.Prec || (top.op.Prec == op.Prec && op.Assoc == AssocLeft) {
					e := ctx.popOp()
					if err := ctx.reduce(e); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			ctx.ops = append(ctx.ops, opEntry{kind: entryOperator, op: op, pos: tok.pos})
		case tokenOpen:
			if valueEnd(prev.kind) {
				return nil, &SyntaxError{Col: tok.pos, Msg: "missing operator before " + tok.text}
			}
			b := ctx.cat.opens[tok.text]
			if !b.expr {
				return nil, &SyntaxError{Col: tok.pos, Msg: tok.text + " cannot open a subexpression"}
			}
			ctx.ops = append(ctx.ops, opEntry{kind: entryBracket, open: tok.text, clos: b.close, pos: tok.pos})
		case tokenSep:
			if prev.kind == tokenOpen || prev.kind == tokenSep {
				return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
			}
			if err := ctx.popToBarrier(tok); err != nil {
				return nil, err
			}
			// The barrier is on top; the function marker counting the
			// arguments sits directly beneath it.
			n := len(ctx.ops)
			if n < 2 || !ctx.ops[n-1].fnCall || ctx.ops[n-2].kind != entryFunction {
				return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
			}
			ctx.ops[n-2].argc++
		case tokenClose:
			if prev.kind == tokenSep {
				return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
			}
			emptyCall := prev.kind == tokenOpen
			if err := ctx.popToBarrier(tok); err != nil {
				return nil, err
			}
			if len(ctx.ops) == 0 {
				return nil, &BracketError{Col: tok.pos, Right: tok.text}
			}
			barrier := ctx.popOp()
			if barrier.clos != tok.text {
				return nil, &BracketError{Col: tok.pos, Left: barrier.open, Right: tok.text}
			}
			if barrier.fnCall {
				marker := ctx.popOp()
				if err := ctx.call(marker, emptyCall); err != nil {
					return nil, err
				}
			} else if emptyCall {
				return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
			}
		case tokenEOF:
			for len(ctx.ops) > 0 {
				e := ctx.popOp()
				switch e.kind {
				case entryOperator:
					if err := ctx.reduce(e); err != nil {
						return nil, err
					}
				case entryBracket:
					return nil, &BracketError{Col: e.pos, Left: e.open}
				default:
					panic("apeval: function marker without bracket")
				}
			}
			switch len(ctx.vals) {
			case 1:
				return ctx.vals[0], nil
			case 0:
				return nil, &EmptyExpressionError{Col: tok.pos}
			default:
				return nil, &SyntaxError{Col: tok.pos, Msg: "missing operator between terms"}
			}
		default:
			panic("apeval: unknown token: " + tok.String())
		}
		prev = tok
	}
}

// valueEnd reports whether a token kind ends a value, after which another
// value may not directly follow.
func valueEnd(k tokenKind) bool {
	return k == tokenNum || k == tokenIdent || k == tokenClose
}

func (ctx *Context) popOp() opEntry {
	e := ctx.ops[len(ctx.ops)-1]
	ctx.ops = ctx.ops[:len(ctx.ops)-1]
	return e
}

// popToBarrier applies pending operators until the top of the operator
// stack is a bracket barrier.
func (ctx *Context) popToBarrier(tok lexToken) error {
	for len(ctx.ops) > 0 {
		top := &ctx.ops[len(ctx.ops)-1]
		if top.kind == entryBracket {
			return nil
		}
		e := ctx.popOp()
		if err := ctx.reduce(e); err != nil {
			return err
		}
	}
	if tok.kind == tokenSep {
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	}
	return nil
}

// reduce applies a pending operator to the top of the operand stack.
func (ctx *Context) reduce(e opEntry) error {
	op := e.op
	if len(ctx.vals) < op.Arity {
		return &SyntaxError{Col: e.pos, Msg: "missing operand for " + op.Symbol}
	}
	args := ctx.vals[len(ctx.vals)-op.Arity:]
	r := new(apd.Decimal)
	if err := ctx.applyOperator(op, args, r, e.pos); err != nil {
		return err
	}
	ctx.vals = ctx.vals[:len(ctx.vals)-op.Arity]
	ctx.vals = append(ctx.vals, r)
	return nil
}

// call validates a function's argument count and applies it. emptyCall
// reports that nothing appeared between the call's brackets, which supplies
// zero arguments; otherwise the final unseparated argument counts for one
// more than the separators seen.
func (ctx *Context) call(marker opEntry, emptyCall bool) error {
	fn := marker.fn
	n := marker.argc + 1
	if emptyCall {
		n = 0
	}
	if n < fn.MinArgs || n > fn.MaxArgs {
		return &ArityError{Col: marker.pos, Func: fn.Name, Len: n}
	}
	if len(ctx.vals) < n {
		return &SyntaxError{Col: marker.pos, Msg: "missing argument to " + fn.Name}
	}
	args := ctx.vals[len(ctx.vals)-n:]
	r := new(apd.Decimal)
	if err := ctx.applyFunction(fn, args, r, marker.pos); err != nil {
		return err
	}
	ctx.vals = ctx.vals[:len(ctx.vals)-n]
	ctx.vals = append(ctx.vals, r)
	return nil
}

// EvalString is a shortcut to evaluate an expression with a fresh context.
func EvalString(expr string, opts ...ContextOption) (*apd.Decimal, error) {
	return NewContext(opts...).EvalString(expr)
}
