package arith_test

// Describe/It specs over the same arithmetic subjects. The nesting gives
// each behavior a sentence-shaped name, and BeforeEach resets shared state
// per spec, which is the lifecycle-hook model the hooks note walks through.

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"testkata/internal/arith"
	"testkata/internal/match"
)

var _ = Describe("Add", func() {
	It("adds two numbers", func() {
		Expect(arith.Add(1, 2)).To(Equal(3.0))
	})

	It("is commutative", func() {
		Expect(arith.Add(2, 5)).To(Equal(arith.Add(5, 2)))
	})
})

var _ = Describe("Divide", func() {
	var (
		a, b   float64
		result float64
		err    error
	)

	BeforeEach(func() {
		a, b = 9, 3
	})

	JustBeforeEach(func() {
		result, err = arith.Divide(a, b)
	})

	It("divides evenly", func() {
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(3.0))
	})

	When("the divisor is zero", func() {
		BeforeEach(func() {
			b = 0
		})

		It("returns ErrDivisionByZero", func() {
			Expect(err).To(MatchError(arith.ErrDivisionByZero))
			Expect(result).To(BeZero())
		})
	})
})

var _ = Describe("Mean", func() {
	It("averages within a tolerance", func() {
		m, err := arith.Mean(0.1, 0.2)
		Expect(err).NotTo(HaveOccurred())

		// BeNumerically is the built-in; BeWithin is this repo's custom
		// matcher doing the same job.
		Expect(m).To(BeNumerically("~", 0.15, 1e-9))
		Expect(m).To(match.BeWithin(1e-9).Of(0.15))
	})

	It("rejects empty input", func() {
		_, err := arith.Mean()
		Expect(err).To(MatchError(arith.ErrEmptyInput))
	})
})

var _ = Describe("Clamp", func() {
	It("panics when the bounds are inverted", func() {
		Expect(func() { arith.Clamp(1, 10, 0) }).To(Panic())
	})
})
