package service

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/modelsearch/domain/search"
	infrasearch "github.com/helixml/modelsearch/infrastructure/search"
	"github.com/helixml/modelsearch/internal/config"
	"github.com/helixml/modelsearch/internal/database"
	"github.com/helixml/modelsearch/internal/log"
	"github.com/helixml/modelsearch/internal/metrics"
	"github.com/helixml/modelsearch/internal/testdb"
)

func seedDB(t *testing.T) database.Database {
	t.Helper()
	return testdb.WithSchema(t,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, title TEXT, body TEXT, archived INTEGER)`,
		`INSERT INTO notes (title, body, archived) VALUES
			('Shopping', 'milk and bread', 0),
			('Reading', 'a book about bread', 0),
			('Old shopping', 'bread again', 1),
			('Travel', 'train times', 0)`,
		`CREATE TABLE tasks (id INTEGER PRIMARY KEY, name TEXT)`,
		`INSERT INTO tasks (name) VALUES ('bake bread'), ('book train')`,
	)
}

func testRegistry() config.Registry {
	return config.NewRegistry().
		With("notes", search.NewSpec([]string{"title", "body"}, search.ModeLike, "")).
		With("tasks", search.NewSpec([]string{"name"}, search.ModeLike, ""))
}

type fixture struct {
	search *Search
	closed *atomic.Bool
	reg    *prometheus.Registry
	logs   *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.NewSearch(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := log.NewLoggerWithWriter(&logs, config.LogFormatJSON, "DEBUG")
	closed := &atomic.Bool{}

	return fixture{
		search: NewSearch(seedDB(t), testRegistry(), search.DefaultSpec(), 10, m, closed, logger.Slog()),
		closed: closed,
		reg:    reg,
		logs:   &logs,
	}
}

func titles(result SearchResult) []string {
	out := make([]string, 0, result.Count())
	for _, h := range result.Hits() {
		out = append(out, h.String("title"))
	}
	return out
}

func TestSearch_Query(t *testing.T) {
	f := newFixture(t)

	result, err := f.search.Query(context.Background(), "notes", "  bread ", WithOrderBy("id", false), WithLimit(2))
	require.NoError(t, err)

	assert.Equal(t, "notes", result.Table())
	assert.Equal(t, search.ModeLike, result.Mode())
	assert.Equal(t, "bread", result.Query())
	assert.Equal(t, int64(3), result.Total(), "total ignores the limit")
	assert.Equal(t, []string{"Shopping", "Reading"}, titles(result))
}

func TestSearch_QueryOffset(t *testing.T) {
	f := newFixture(t)

	result, err := f.search.Query(context.Background(), "notes", "bread", WithOrderBy("id", true), WithLimit(1), WithOffset(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Reading"}, titles(result))
}

func TestSearch_QueryFilter(t *testing.T) {
	f := newFixture(t)

	result, err := f.search.Query(context.Background(), "notes", "bread", WithFilter("archived", 0), WithOrderBy("id", false))
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total())
	assert.Equal(t, []string{"Shopping", "Reading"}, titles(result))
}

func TestSearch_QueryColumnOverride(t *testing.T) {
	f := newFixture(t)

	result, err := f.search.Query(context.Background(), "notes", "bread", WithColumns("title"))
	require.NoError(t, err)
	assert.Zero(t, result.Total(), "no title mentions bread")
}

func TestSearch_QueryScoreInLikeMode(t *testing.T) {
	f := newFixture(t)

	result, err := f.search.Query(context.Background(), "notes", "train", WithScore(true))
	require.NoError(t, err)
	require.Equal(t, 1, result.Count())

	_, scored := result.Hits()[0].Score()
	assert.False(t, scored, "LIKE searches carry no relevance")
}

func TestSearch_OwnScoreColumnIsAField(t *testing.T) {
	db := testdb.WithSchema(t,
		`CREATE TABLE reviews (id INTEGER PRIMARY KEY, body TEXT, score INTEGER)`,
		`INSERT INTO reviews (body, score) VALUES ('great band', 5), ('dull film', 2)`,
	)
	registry := config.NewRegistry().With("reviews", search.NewSpec([]string{"body"}, search.ModeLike, ""))
	s := NewSearch(db, registry, search.DefaultSpec(), 10, nil, nil, nil)

	for _, withScore := range []bool{false, true} {
		result, err := s.Query(context.Background(), "reviews", "band", WithScore(withScore))
		require.NoError(t, err)
		require.Equal(t, 1, result.Count())

		hit := result.Hits()[0]
		_, scored := hit.Score()
		assert.False(t, scored)
		assert.Equal(t, "great band", hit.String("body"))
		assert.EqualValues(t, 5, hit.Fields()["score"])
	}
}

func TestSearch_UnknownTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.search.Query(ctx, "posts", "bread")
	assert.ErrorIs(t, err, config.ErrUnknownTable)

	_, err = f.search.Query(ctx, "tasks; --", "bread", WithColumns("name"))
	assert.ErrorIs(t, err, search.ErrInvalidColumn)
}

func TestSearch_AdHocTable(t *testing.T) {
	db := seedDB(t)
	s := NewSearch(db, config.NewRegistry(), search.DefaultSpec(), 10, nil, nil, nil)

	result, err := s.Query(context.Background(), "tasks", "train", WithColumns("name"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Count())
	assert.Equal(t, "book train", result.Hits()[0].String("name"))
}

func TestSearch_InvalidIdentifiers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.search.Query(ctx, "notes", "bread", WithFilter("archived = 0 OR 1", 1))
	assert.ErrorIs(t, err, search.ErrInvalidColumn)

	_, err = f.search.Query(ctx, "notes", "bread", WithOrderBy("id; DROP TABLE notes", false))
	assert.ErrorIs(t, err, search.ErrInvalidColumn)
}

func TestSearch_FulltextRequiresMySQL(t *testing.T) {
	f := newFixture(t)

	_, err := f.search.Query(context.Background(), "notes", "bread", WithMode(search.ModeFulltext))
	assert.ErrorIs(t, err, infrasearch.ErrFulltextUnsupported)
}

func TestSearch_Closed(t *testing.T) {
	f := newFixture(t)
	f.closed.Store(true)

	_, err := f.search.Query(context.Background(), "notes", "bread")
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestSearch_Spec(t *testing.T) {
	f := newFixture(t)

	spec, err := f.search.Spec("notes", WithMode(search.ModeFulltext))
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "body"}, spec.Columns())
	assert.Equal(t, search.ModeFulltext, spec.Mode())

	assert.Equal(t, []string{"notes", "tasks"}, f.search.Tables())
}

func TestSearch_MetricsAndLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.search.Query(ctx, "notes", "bread")
	require.NoError(t, err)
	_, err = f.search.Query(ctx, "notes", "bread", WithMode("regex"))
	require.ErrorIs(t, err, search.ErrUnsupportedMode)

	count, err := testutil.GatherAndCount(f.reg, "modelsearch_search_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	logs := f.logs.String()
	assert.Contains(t, logs, `"msg":"search completed"`)
	assert.Contains(t, logs, `"msg":"search rejected"`)
	assert.Contains(t, logs, `"table":"notes"`)
	assert.Contains(t, logs, `"search_id":"`)
}

func TestExplain(t *testing.T) {
	registry := config.NewRegistry().
		With("posts", search.NewSpec([]string{"title", "body"}, search.ModeFulltext, search.FulltextNatural))

	explanation, err := Explain(context.Background(), registry, search.DefaultSpec(), "posts", "rock band",
		WithScore(true), WithFilter("published", true))
	require.NoError(t, err)

	assert.Equal(t, "rock band", explanation.Query())
	assert.Equal(t, "MATCH (title,body) AGAINST (? IN NATURAL LANGUAGE MODE)", explanation.Predicate())
	assert.Contains(t, explanation.SQL(), "AS score")
	assert.Contains(t, explanation.SQL(), "ORDER BY score DESC")
	require.GreaterOrEqual(t, len(explanation.Vars()), 3)
	assert.Equal(t, []any{"rock band", true, "rock band"}, explanation.Vars()[:3])
}

func TestExplain_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Explain(ctx, config.NewRegistry(), search.DefaultSpec(), "posts", "x")
	assert.ErrorIs(t, err, config.ErrUnknownTable)

	_, err = Explain(ctx, config.NewRegistry(), search.DefaultSpec(), "posts", "x",
		WithColumns("title"), WithMode(search.ModeFulltext), WithFulltextMode("fuzzy"))
	assert.ErrorIs(t, err, search.ErrUnknownFulltextMode)
}
