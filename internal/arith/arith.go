// Package arith holds the arithmetic example functions used throughout the
// study notes. Every function is pure: no state, no side effects, so the
// assertion examples built on top of them stay deterministic.
package arith

import "errors"

// ErrDivisionByZero is returned by Divide when the divisor is zero.
var ErrDivisionByZero = errors.New("arith: division by zero")

// ErrEmptyInput is returned by Mean when there are no values to average.
var ErrEmptyInput = errors.New("arith: empty input")

// Add returns the sum of two numbers. This is the canonical two-argument
// example the basics note opens with.
func Add(a, b float64) float64 {
	return a + b
}

// Subtract returns a minus b.
func Subtract(a, b float64) float64 {
	return a - b
}

// Multiply returns the product of two numbers.
func Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a divided by b, or ErrDivisionByZero when b is zero.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

// Sum adds up all values. Sum of nothing is zero.
func Sum(xs ...float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

// Mean returns the arithmetic mean of the values.
func Mean(xs ...float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptyInput
	}
	return Sum(xs...) / float64(len(xs)), nil
}

// Clamp restricts v to the inclusive range [lo, hi].
// It panics when lo > hi; the bounds are the caller's contract.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		panic("arith: Clamp called with lo > hi")
	}
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
