package apeval

import "strconv"

// InputError is an error with position information. Every error resulting
// from invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token that caused the
	// error.
	Pos() int
}

// SyntaxError indicates a token sequence that violates the grammar shape,
// such as a missing operand or two adjacent terms with no operator.
type SyntaxError struct {
	// Col is the position at which the problem was detected.
	Col int
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// OperatorError indicates an operator token with no descriptor of the
// required arity in the catalog.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether a unary operator was expected at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// NameError indicates an identifier that names no function or constant in
// the catalog.
type NameError struct {
	// Col is the position of the identifier.
	Col int
	// Name is the unknown identifier.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "unknown identifier "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// BracketError indicates mismatched or unbalanced brackets.
type BracketError struct {
	// Col is the position at which the mismatch was detected.
	Col int
	// Left is the opening bracket, if any.
	Left string
	// Right is the closing bracket, if any.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError indicates an argument separator outside a function call.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// EmptyExpressionError indicates an empty expression or subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or empty at the end of
	// input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// ArityError indicates a function call with an argument count outside the
// function's bounds. It is raised when the call's close bracket is reached,
// before the function is applied.
type ArityError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name.
	Func string
	// Len is the number of arguments the call supplied.
	Len int
}

func (err *ArityError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *ArityError) Pos() int {
	return err.Col
}

// OperandError indicates a well-formed application that has no defined
// numeric result, such as division by zero or an out-of-domain argument to
// a transcendental function.
type OperandError struct {
	// Col is the position of the operator or function.
	Col int
	// Op is the operator symbol or function name.
	Op string
	// Reason describes why the result is undefined.
	Reason string
}

func (err *OperandError) Error() string {
	return errpos(err.Col, err.Op+": "+err.Reason)
}

func (err *OperandError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*ArityError)(nil)
	_ InputError = (*OperandError)(nil)
)
