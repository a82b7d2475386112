// Package apeval evaluates arithmetic expressions at arbitrary precision.
//
// Expressions are infix with the usual precedence rules, e.g.
// 2+3*4, (1+2)^3, or sum(1, 2, 3)/avg(2, 4). Values are decimal
// floating-point numbers computed to a configurable number of significant
// digits; arithmetic is exact except for the final rounding of each
// operation. Evaluation is a single pass over the input with two stacks, so
// there is no syntax tree and no separate parse step.
//
// The operators, functions, constants, and brackets an evaluation
// recognizes come from a Catalog. DefaultCatalog provides the standard
// language: + - * / % ^, unary minus, parentheses, a set of named functions
// (abs, ceil, floor, round, trigonometric and hyperbolic functions, ln,
// log, min, max, sum, avg, random), and the constants pi and e. Callers may
// build restricted or relabeled languages with Params.
//
// The simplest use is the package-level EvalString:
//
//	d, err := apeval.EvalString("asin(0.5) * 6", apeval.Prec(80))
//
// A Context carries the catalog and precision across evaluations. Contexts
// are not safe for concurrent use, but they are cheap, and any number of
// them may share a catalog.
//
// Every error from invalid input implements InputError, which reports the
// 1-based column of the offending token.
package apeval
