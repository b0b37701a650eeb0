package movies

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilterClausesEmpty(t *testing.T) {
	where, order, args := buildFilterClauses(&MovieFilter{}, 1)
	assert.Equal(t, "WHERE m.missing = false", where)
	assert.Equal(t, "ORDER BY "+sortColumns["name"], order)
	assert.Empty(t, args)
}

func TestBuildFilterClausesParamNumbering(t *testing.T) {
	series := true
	f := &MovieFilter{
		Query:    "matrix",
		YearFrom: 1990,
		YearTo:   2005,
		Series:   &series,
	}
	where, _, args := buildFilterClauses(f, 1)
	assert.Contains(t, where, "$1")
	assert.Contains(t, where, "m.year >= $2")
	assert.Contains(t, where, "m.year <= $3")
	assert.Contains(t, where, "m.is_series_episode = $4")
	require.Len(t, args, 4)
	assert.Equal(t, "matrix", args[0])
	assert.Equal(t, 1990, args[1])
}

func TestBuildFilterClausesWatchedTriState(t *testing.T) {
	watched := true
	where, _, args := buildFilterClauses(&MovieFilter{Watched: &watched}, 1)
	assert.Contains(t, where, "wh.watched = true")
	assert.Empty(t, args)

	watched = false
	where, _, _ = buildFilterClauses(&MovieFilter{Watched: &watched}, 1)
	assert.Contains(t, where, "wh.watched IS NULL OR wh.watched = false",
		"unwatched filter must include movies with no watch events at all")
}

func TestBuildFilterClausesUnknownSortFallsBack(t *testing.T) {
	_, order, _ := buildFilterClauses(&MovieFilter{Sort: "evil; DROP TABLE movies"}, 1)
	assert.Equal(t, "ORDER BY "+sortColumns["name"], order,
		"sort keys outside the allow-list must fall back to name order")
}

func TestFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/movies?q=bad&year=2008&series=true&watched=false&min_rating=7.5&limit=10&offset=20&sort=rating", nil)
	f := FilterFromQuery(r)
	assert.Equal(t, "bad", f.Query)
	assert.Equal(t, 2008, f.YearFrom)
	assert.Equal(t, 2008, f.YearTo)
	require.NotNil(t, f.Series)
	assert.True(t, *f.Series)
	require.NotNil(t, f.Watched)
	assert.False(t, *f.Watched)
	assert.Equal(t, 7.5, f.MinRating)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
	assert.Equal(t, "rating", f.Sort)
}
