package fetch_test

// Lifecycle hooks via testify/suite, for the hooks note. SetupSuite runs
// once, SetupTest rebuilds the fixture before every test, so mutations in
// one test can never leak into the next.

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"testkata/internal/fetch"
)

type DirectorySuite struct {
	suite.Suite

	fixtures []fetch.Record
	src      *fetch.StaticSource
	dir      *fetch.Directory

	setupTestCalls int
}

func (s *DirectorySuite) SetupSuite() {
	s.fixtures = []fetch.Record{
		{ID: "ada", Name: "Ada Lovelace", Tags: []string{"math"}},
		{ID: "grace", Name: "Grace Hopper"},
	}
}

func (s *DirectorySuite) SetupTest() {
	s.setupTestCalls++
	s.src = fetch.NewStaticSource(s.fixtures)
	s.dir = fetch.NewDirectory(s.src, fetch.WithConcurrency(2))
}

func (s *DirectorySuite) TearDownTest() {
	// Each test gets a fresh source; anything recorded here belongs to the
	// test that just ran.
	s.src = nil
	s.dir = nil
}

func (s *DirectorySuite) TestLookupHit() {
	rec, err := s.dir.Lookup(context.Background(), "ada")
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", rec.Name)
}

func (s *DirectorySuite) TestLookupMiss() {
	_, err := s.dir.Lookup(context.Background(), "ghost")
	s.Require().ErrorIs(err, fetch.ErrNotFound)
}

func (s *DirectorySuite) TestMutationsDoNotLeakBetweenTests() {
	// Whichever order the suite runs in, the fixture always starts clean,
	// so this Put is invisible to the other tests.
	s.src.Put(fetch.Record{ID: "intruder", Name: "Should Not Persist"})

	rec, err := s.dir.Lookup(context.Background(), "intruder")
	s.Require().NoError(err)
	s.Equal("Should Not Persist", rec.Name)
}

func (s *DirectorySuite) TestSetupRanFreshForThisTest() {
	s.GreaterOrEqual(s.setupTestCalls, 1)
	s.Equal(int64(0), s.src.Lookups(), "fresh source, no lookups yet")
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}
