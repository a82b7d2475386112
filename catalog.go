package apeval

import (
	"math"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Assoc is the associativity of an operator: for operators of equal
// precedence, whether repeated application groups left-to-right or
// right-to-left.
type Assoc int8

const (
	AssocLeft Assoc = iota
	AssocRight
)

// OpKind identifies the arithmetic operation an operator performs. Operators
// are dispatched by kind, so a catalog may relabel an operation under any
// symbol by constructing an Operator with an existing kind.
type OpKind int8

const (
	OpNone OpKind = iota
	OpNegate
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower
)

// Operator describes an operator symbol with its arity, associativity, and
// precedence. Higher precedence binds tighter. The same symbol may appear
// with arity 1 and arity 2 in one catalog; the evaluator selects between
// them by context.
type Operator struct {
	Symbol string
	Arity  int
	Assoc  Assoc
	Prec   int
	Kind   OpKind
}

// Predefined operators. Negate is the unary minus of the standard precedence
// table; NegateHigh is the spreadsheet-style variant that binds tighter than
// exponentiation, so that -3^2 is 9 rather than -9.
var (
	Negate     = &Operator{"-", 1, AssocRight, 3, OpNegate}
	NegateHigh = &Operator{"-", 1, AssocRight, 5, OpNegate}
	Plus       = &Operator{"+", 2, AssocLeft, 1, OpAdd}
	Minus      = &Operator{"-", 2, AssocLeft, 1, OpSubtract}
	Multiply   = &Operator{"*", 2, AssocLeft, 2, OpMultiply}
	Divide     = &Operator{"/", 2, AssocLeft, 2, OpDivide}
	Modulo     = &Operator{"%", 2, AssocLeft, 2, OpModulo}
	Power      = &Operator{"^", 2, AssocLeft, 4, OpPower}
)

// FuncKind identifies the computation a function performs.
type FuncKind int8

const (
	FuncNone FuncKind = iota
	FuncAbs
	FuncCeil
	FuncFloor
	FuncRound
	FuncSin
	FuncCos
	FuncTan
	FuncAsin
	FuncAcos
	FuncAtan
	FuncSinh
	FuncCosh
	FuncTanh
	FuncLn
	FuncLog
	FuncMin
	FuncMax
	FuncSum
	FuncAvg
	FuncRandom
)

// Unbounded marks a function with no upper limit on its argument count.
const Unbounded = math.MaxInt

// Function describes a named function with its argument count bounds.
// Name lookup is case-sensitive and exact.
type Function struct {
	Name    string
	MinArgs int
	MaxArgs int
	Kind    FuncKind
}

// Predefined functions. The trigonometric functions take and return radians.
var (
	Abs     = &Function{"abs", 1, 1, FuncAbs}
	Ceil    = &Function{"ceil", 1, 1, FuncCeil}
	Floor   = &Function{"floor", 1, 1, FuncFloor}
	Round   = &Function{"round", 1, 1, FuncRound}
	Sine    = &Function{"sin", 1, 1, FuncSin}
	Cosine  = &Function{"cos", 1, 1, FuncCos}
	Tangent = &Function{"tan", 1, 1, FuncTan}
	Asine   = &Function{"asin", 1, 1, FuncAsin}
	Acosine = &Function{"acos", 1, 1, FuncAcos}
	Atan    = &Function{"atan", 1, 1, FuncAtan}
	Sineh   = &Function{"sinh", 1, 1, FuncSinh}
	Cosineh = &Function{"cosh", 1, 1, FuncCosh}
	Tanh    = &Function{"tanh", 1, 1, FuncTanh}
	Ln      = &Function{"ln", 1, 1, FuncLn}
	Log     = &Function{"log", 1, 1, FuncLog}
	Min     = &Function{"min", 1, Unbounded, FuncMin}
	Max     = &Function{"max", 1, Unbounded, FuncMax}
	Sum     = &Function{"sum", 1, Unbounded, FuncSum}
	Average = &Function{"avg", 1, Unbounded, FuncAvg}
	Random  = &Function{"random", 0, 0, FuncRandom}
)

// ConstKind identifies the value a constant produces.
type ConstKind int8

const (
	ConstNone ConstKind = iota
	ConstPi
	ConstE
)

// Constant describes a named constant. Its value is produced lazily at each
// reference, at the evaluating context's precision.
type Constant struct {
	Name string
	Kind ConstKind
}

var (
	Pi = &Constant{"pi", ConstPi}
	E  = &Constant{"e", ConstE}
)

// BracketPair is a matched pair of grouping symbols.
type BracketPair struct {
	Open  string
	Close string
}

var (
	Parentheses    = BracketPair{"(", ")"}
	SquareBrackets = BracketPair{"[", "]"}
	Braces         = BracketPair{"{", "}"}
)

// Style selects a default precedence table.
type Style int8

const (
	// Standard gives unary minus a precedence between multiplication and
	// exponentiation, so -3^2 is -9.
	Standard Style = iota
	// Spreadsheet gives unary minus the highest precedence, so -3^2 is 9.
	Spreadsheet
)

// Params collects the descriptors from which a catalog is built. A zero
// Params describes an empty language; DefaultParams returns the full
// predefined set. Callers may restrict or relabel the language by listing
// only the descriptors they want, possibly with new symbols or names.
type Params struct {
	Operators []*Operator
	Functions []*Function
	Constants []*Constant
	// ExprBrackets group subexpressions; FuncBrackets delimit function
	// argument lists. A pair may appear in both.
	ExprBrackets []BracketPair
	FuncBrackets []BracketPair
}

// DefaultParams returns the predefined operators, functions, and constants
// with parentheses as both the expression and function bracket.
func DefaultParams(style Style) *Params {
	neg := Negate
	if style == Spreadsheet {
		neg = NegateHigh
	}
	return &Params{
		Operators: []*Operator{neg, Plus, Minus, Multiply, Divide, Modulo, Power},
		Functions: []*Function{
			Abs, Ceil, Floor, Round,
			Sine, Cosine, Tangent, Asine, Acosine, Atan,
			Sineh, Cosineh, Tanh,
			Ln, Log,
			Min, Max, Sum, Average,
			Random,
		},
		Constants:    []*Constant{Pi, E},
		ExprBrackets: []BracketPair{Parentheses},
		FuncBrackets: []BracketPair{Parentheses},
	}
}

// Catalog is a frozen set of descriptors shared read-only by evaluations.
// It is safe for concurrent use.
type Catalog struct {
	unary  map[string]*Operator
	binary map[string]*Operator
	funcs  map[string]*Function
	consts map[string]*Constant
	// opens maps an opening symbol to its bracket info; closes records every
	// closing symbol so the lexer can classify it.
	opens  map[string]bracket
	closes map[string]bool
	// symbols is every operator and bracket symbol, longest first, for
	// longest-match lexing.
	symbols []string
}

type bracket struct {
	close string
	expr  bool
	fn    bool
}

// Catalog validates the parameters and freezes them into a Catalog.
func (p *Params) Catalog() (*Catalog, error) {
	c := &Catalog{
		unary:  make(map[string]*Operator),
		binary: make(map[string]*Operator),
		funcs:  make(map[string]*Function),
		consts: make(map[string]*Constant),
		opens:  make(map[string]bracket),
		closes: make(map[string]bool),
	}
	seen := make(map[string]bool)
	addSymbol := func(s string) {
		if !seen[s] {
			seen[s] = true
			c.symbols = append(c.symbols, s)
		}
	}
	for _, op := range p.Operators {
		if op.Symbol == "" {
			return nil, &CatalogError{What: "operator with empty symbol"}
		}
		if op.Kind == OpNone {
			return nil, &CatalogError{What: "operator " + strconv.Quote(op.Symbol) + " with no kind"}
		}
		var m map[string]*Operator
		switch op.Arity {
		case 1:
			m = c.unary
		case 2:
			m = c.binary
		default:
			return nil, &CatalogError{What: "operator " + strconv.Quote(op.Symbol) + " with arity " + strconv.Itoa(op.Arity)}
		}
		if m[op.Symbol] != nil {
			return nil, &CatalogError{What: "duplicate operator " + strconv.Quote(op.Symbol) + " with arity " + strconv.Itoa(op.Arity)}
		}
		m[op.Symbol] = op
		addSymbol(op.Symbol)
	}
	for _, fn := range p.Functions {
		if fn.Name == "" || !identName(fn.Name) {
			return nil, &CatalogError{What: "function with invalid name " + strconv.Quote(fn.Name)}
		}
		if fn.Kind == FuncNone {
			return nil, &CatalogError{What: "function " + fn.Name + " with no kind"}
		}
		if fn.MinArgs < 0 || fn.MinArgs > fn.MaxArgs {
			return nil, &CatalogError{What: "function " + fn.Name + " with invalid argument bounds"}
		}
		if c.funcs[fn.Name] != nil {
			return nil, &CatalogError{What: "duplicate function " + fn.Name}
		}
		c.funcs[fn.Name] = fn
	}
	for _, k := range p.Constants {
		if k.Name == "" || !identName(k.Name) {
			return nil, &CatalogError{What: "constant with invalid name " + strconv.Quote(k.Name)}
		}
		if k.Kind == ConstNone {
			return nil, &CatalogError{What: "constant " + k.Name + " with no kind"}
		}
		if c.consts[k.Name] != nil || c.funcs[k.Name] != nil {
			return nil, &CatalogError{What: "duplicate name " + k.Name}
		}
		c.consts[k.Name] = k
	}
	add := func(pair BracketPair, expr bool) error {
		if pair.Open == "" || pair.Close == "" || pair.Open == pair.Close {
			return &CatalogError{What: "invalid bracket pair " + strconv.Quote(pair.Open) + " " + strconv.Quote(pair.Close)}
		}
		b, ok := c.opens[pair.Open]
		if ok && b.close != pair.Close {
			return &CatalogError{What: "open bracket " + strconv.Quote(pair.Open) + " with two close brackets"}
		}
		b.close = pair.Close
		if expr {
			b.expr = true
		} else {
			b.fn = true
		}
		c.opens[pair.Open] = b
		c.closes[pair.Close] = true
		addSymbol(pair.Open)
		addSymbol(pair.Close)
		return nil
	}
	for _, pair := range p.ExprBrackets {
		if err := add(pair, true); err != nil {
			return nil, err
		}
	}
	for _, pair := range p.FuncBrackets {
		if err := add(pair, false); err != nil {
			return nil, err
		}
	}
	sort.Slice(c.symbols, func(i, j int) bool {
		if len(c.symbols[i]) != len(c.symbols[j]) {
			return len(c.symbols[i]) > len(c.symbols[j])
		}
		return c.symbols[i] < c.symbols[j]
	})
	return c, nil
}

// identName reports whether s lexes as a single identifier.
func identName(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return utf8.RuneCountInString(s) > 0
}

// FunctionNames returns the catalog's function names, sorted.
func (c *Catalog) FunctionNames() []string {
	v := make([]string, 0, len(c.funcs))
	for k := range c.funcs {
		v = append(v, k)
	}
	sort.Strings(v)
	return v
}

// ConstantNames returns the catalog's constant names, sorted.
func (c *Catalog) ConstantNames() []string {
	v := make([]string, 0, len(c.consts))
	for k := range c.consts {
		v = append(v, k)
	}
	sort.Strings(v)
	return v
}

// OperatorSymbols returns every distinct operator symbol, sorted.
func (c *Catalog) OperatorSymbols() []string {
	seen := make(map[string]bool, len(c.unary)+len(c.binary))
	var v []string
	for k := range c.unary {
		if !seen[k] {
			seen[k] = true
			v = append(v, k)
		}
	}
	for k := range c.binary {
		if !seen[k] {
			seen[k] = true
			v = append(v, k)
		}
	}
	sort.Strings(v)
	return v
}

var (
	stdCatalog   = mustCatalog(DefaultParams(Standard))
	sheetCatalog = mustCatalog(DefaultParams(Spreadsheet))
)

func mustCatalog(p *Params) *Catalog {
	c, err := p.Catalog()
	if err != nil {
		panic("apeval: " + err.Error())
	}
	return c
}

// DefaultCatalog returns the shared frozen catalog for a style.
func DefaultCatalog(style Style) *Catalog {
	if style == Spreadsheet {
		return sheetCatalog
	}
	return stdCatalog
}

// CatalogError reports invalid catalog parameters.
type CatalogError struct {
	What string
}

func (err *CatalogError) Error() string {
	return "invalid catalog: " + err.What
}
