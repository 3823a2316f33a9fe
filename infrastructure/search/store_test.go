package search

import (
	"context"
	"testing"

	"github.com/helixml/modelsearch/domain/repository"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(rows []post) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func TestStore_SearchLike(t *testing.T) {
	ctx := context.Background()
	store := NewStore[post](seedPosts(t), nil)

	rows, rel, err := store.Search(ctx, "foo bar", repository.WithOrderAsc("id"))
	require.NoError(t, err)
	assert.True(t, rel.IsEmpty())
	assert.Equal(t, []string{"Foo fighters", "Quiet evening", "Foobar"}, titles(rows))
}

func TestStore_SearchCombinesWithConditions(t *testing.T) {
	ctx := context.Background()
	store := NewStore[post](seedPosts(t), nil)

	rows, _, err := store.Search(ctx, "foo bar",
		repository.WithCondition("published", true),
		repository.WithOrderAsc("id"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo fighters", "Quiet evening"}, titles(rows))
}

func TestStore_EmptyColumnsReturnsUnfilteredRows(t *testing.T) {
	ctx := context.Background()
	db := seedPosts(t)

	rows, _, err := NewStore[unindexedPost](db, nil).Search(ctx, "foo")
	require.NoError(t, err)

	base, _, err := NewStore[unindexedPost](db, nil).Search(ctx, "")
	require.NoError(t, err)

	assert.Len(t, rows, 4)
	assert.Equal(t, base, rows)
}

func TestStore_SpecOverrides(t *testing.T) {
	ctx := context.Background()
	store := NewStore[post](seedPosts(t), nil)

	rows, _, err := store.Search(ctx, "bar",
		search.WithSpec(search.WithColumns("title")),
		repository.WithOrderAsc("id"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foobar"}, titles(rows))

	spec := store.Spec(search.WithSpec(search.WithMode(search.ModeFulltext)))
	assert.Equal(t, search.ModeFulltext, spec.Mode())
	assert.Equal(t, []string{"title", "body"}, spec.Columns())
}

func TestStore_Count(t *testing.T) {
	ctx := context.Background()
	store := NewStore[post](seedPosts(t), nil)

	count, err := store.Count(ctx, "foo", repository.WithLimit(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "limit does not apply to counts")
}

func TestStore_GetWithScoreLikeMode(t *testing.T) {
	ctx := context.Background()
	store := NewStore[post](seedPosts(t), nil)

	rows, err := store.GetWithScore(ctx, "fighters")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Foo fighters", rows[0].Title)
	assert.Zero(t, rows[0].Score)
}

func TestStore_FulltextRequiresMySQL(t *testing.T) {
	ctx := context.Background()
	store := NewStore[rankedPost](seedPosts(t), nil)

	_, _, err := store.Search(ctx, "foo")
	assert.ErrorIs(t, err, ErrFulltextUnsupported)

	_, err = store.GetWithScore(ctx, "foo")
	assert.ErrorIs(t, err, ErrFulltextUnsupported)

	_, err = store.Count(ctx, "foo")
	assert.ErrorIs(t, err, ErrFulltextUnsupported)
}

func TestStore_FulltextWithoutColumnsIsUnfiltered(t *testing.T) {
	ctx := context.Background()
	store := NewStore[unindexedPost](seedPosts(t), nil)

	rows, rel, err := store.Search(ctx, "foo", search.WithSpec(search.WithMode(search.ModeFulltext)))
	require.NoError(t, err, "nothing is sent to MATCH, so the dialect does not matter")
	assert.True(t, rel.IsEmpty())
	assert.Len(t, rows, 4)
}

func TestStore_ConfigurationErrorBeforeDialectCheck(t *testing.T) {
	ctx := context.Background()
	store := NewStore[rankedPost](seedPosts(t), nil)

	_, _, err := store.Search(ctx, "foo", search.WithSpec(search.WithFulltextMode("fuzzy")))
	assert.ErrorIs(t, err, search.ErrUnknownFulltextMode)
	assert.NotErrorIs(t, err, ErrFulltextUnsupported)
}

func TestNewStoreForTable(t *testing.T) {
	ctx := context.Background()
	db := seedPosts(t)
	require.NoError(t, db.Session(ctx).Exec("CREATE TABLE archived_posts AS SELECT * FROM posts WHERE published = 0").Error)

	store := NewStoreForTable[post](db, "archived_posts", nil)
	rows, _, err := store.Search(ctx, "bar")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foobar"}, titles(rows))
}
