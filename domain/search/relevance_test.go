package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fulltextRelevance(t *testing.T, spec Spec, query string) Relevance {
	t.Helper()
	compiled, err := Compile(spec, query)
	require.NoError(t, err)
	return compiled.Relevance()
}

func TestWithScore_AppendsScore(t *testing.T) {
	spec := NewSpec([]string{"title", "body"}, ModeFulltext, FulltextNatural)
	rel := fulltextRelevance(t, spec, "foo")

	got := WithScore(spec, rel, NewProjection("id", "title"))

	assert.Equal(t, []string{
		"id",
		"title",
		"MATCH (title,body) AGAINST (? IN NATURAL LANGUAGE MODE) AS score",
	}, got.Columns())
	assert.Equal(t, []any{"foo"}, got.Vars())
}

func TestWithScore_EmptyBaseSelectsAll(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, FulltextBoolean)
	rel := fulltextRelevance(t, spec, "foo")

	got := WithScore(spec, rel, Projection{})

	assert.Equal(t, "*, MATCH (title) AGAINST (? IN BOOLEAN MODE) AS score", got.SQL())
}

func TestWithScore_Idempotent(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, FulltextBoolean)
	rel := fulltextRelevance(t, spec, "foo")

	once := WithScore(spec, rel, NewProjection("*"))
	twice := WithScore(spec, rel, once)

	assert.Equal(t, once.Columns(), twice.Columns())
	assert.Equal(t, once.Vars(), twice.Vars())
	assert.Len(t, twice.Columns(), 2)
}

func TestWithScore_NoopForLikeMode(t *testing.T) {
	fulltext := NewSpec([]string{"title"}, ModeFulltext, FulltextBoolean)
	rel := fulltextRelevance(t, fulltext, "foo")
	like := NewSpec([]string{"title"}, ModeLike, "")

	base := NewProjection("id")
	got := WithScore(like, rel, base)

	assert.Equal(t, base.Columns(), got.Columns())
	assert.Empty(t, got.Vars())
}

func TestWithScore_NoopWithoutRelevance(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, FulltextBoolean)

	got := WithScore(spec, Relevance{}, NewProjection("id"))

	assert.Equal(t, []string{"id"}, got.Columns())
}

func TestWithScore_DoesNotMutateBase(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, FulltextBoolean)
	rel := fulltextRelevance(t, spec, "foo")
	base := NewProjection("id")

	_ = WithScore(spec, rel, base)

	assert.Equal(t, []string{"id"}, base.Columns())
}

func TestRelevance_FromLikeIsEmpty(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeLike, "")

	assert.True(t, fulltextRelevance(t, spec, "foo").IsEmpty())
}

func TestRelevance_IndependentPerSearch(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, FulltextBoolean)

	first := fulltextRelevance(t, spec, "first")
	second := fulltextRelevance(t, spec, "second")

	a, _ := first.Expression()
	b, _ := second.Expression()
	assert.Equal(t, "first", a.Query())
	assert.Equal(t, "second", b.Query())
}
