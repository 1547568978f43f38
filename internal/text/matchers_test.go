package text_test

// String-shaped gomega matchers from the matcher note: substring, prefix
// and suffix, regular expressions, length and collection membership, all
// shown on the text helpers.

import (
	"testing"

	. "github.com/onsi/gomega"

	"testkata/internal/text"
)

func TestSlugShape(t *testing.T) {
	g := NewWithT(t)

	slug := text.Slug("Fake Timers in Go")

	g.Expect(slug).To(ContainSubstring("timers"))
	g.Expect(slug).To(HavePrefix("fake"))
	g.Expect(slug).To(MatchRegexp(`^[a-z0-9]+(-[a-z0-9]+)*$`))
	g.Expect(slug).NotTo(ContainSubstring(" "))
}

func TestEllipsisSuffix(t *testing.T) {
	g := NewWithT(t)

	got := text.Ellipsis("documentation is a love letter to your future self", 20)

	g.Expect(got).To(HaveLen(20))
	g.Expect(got).To(HaveSuffix("..."))
}

func TestEllipsisLeavesShortStringsAlone(t *testing.T) {
	g := NewWithT(t)

	g.Expect(text.Ellipsis("short", 10)).To(Equal("short"))
	g.Expect(text.Ellipsis("short", 10)).NotTo(HaveSuffix("..."))
}

func TestWordCountOnSlices(t *testing.T) {
	g := NewWithT(t)

	phrases := []string{"a b c", "single", ""}
	counts := make([]int, 0, len(phrases))
	for _, p := range phrases {
		counts = append(counts, text.WordCount(p))
	}

	g.Expect(counts).To(ConsistOf(3, 1, 0))
	g.Expect(counts).To(ContainElement(0))
	g.Expect(counts).To(HaveLen(len(phrases)))
}
