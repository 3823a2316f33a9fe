package modelsearch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/internal/config"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search.db")
	client, err := New(append([]Option{WithSQLite(path)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT, body TEXT, published INTEGER)`,
		`INSERT INTO posts (title, body, published) VALUES
			('Foo fighters', 'rock band', 1),
			('Quiet evening', 'a bar by the sea', 1),
			('Draft', 'nothing here', 0),
			('Foobar', 'bar none', 1)`,
	} {
		require.NoError(t, client.db.Session(ctx).Exec(stmt).Error)
	}
	return client
}

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestNew_UnsupportedURL(t *testing.T) {
	_, err := New(WithDatabaseURL("oracle://db"))
	assert.Error(t, err)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, WithTable("posts", search.NewSpec([]string{"title", "body"}, search.ModeLike, "")))

	result, err := client.Search.Query(context.Background(), "posts", "foo bar",
		service.WithFilter("published", 1),
		service.WithOrderBy("id", false),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total())

	var titles []string
	for _, h := range result.Hits() {
		titles = append(titles, h.String("title"))
	}
	assert.Equal(t, []string{"Foo fighters", "Quiet evening", "Foobar"}, titles)
	assert.Equal(t, []string{"posts"}, client.Tables())
}

func TestClient_ModelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  posts:\n    columns: [title]\n"), 0o600))

	client := newTestClient(t, WithModelsFile(path))

	result, err := client.Search.Query(context.Background(), "posts", "bar")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total(), "only Foobar has bar in its title")
}

func TestClient_TableOverridesModelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  posts:\n    columns: [title]\n"), 0o600))

	client := newTestClient(t,
		WithModelsFile(path),
		WithTable("posts", search.NewSpec([]string{"body"}, search.ModeLike, "")),
	)

	result, err := client.Search.Query(context.Background(), "posts", "bar")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total())
}

func TestNew_InvalidTable(t *testing.T) {
	_, err := New(
		WithSQLite(filepath.Join(t.TempDir(), "search.db")),
		WithTable("posts", search.NewSpec([]string{"title; DROP"}, search.ModeLike, "")),
	)
	assert.ErrorIs(t, err, search.ErrInvalidColumn)
}

func TestNew_FulltextIndexesSkippedOffMySQL(t *testing.T) {
	client := newTestClient(t,
		WithTable("posts", search.NewSpec([]string{"title"}, search.ModeFulltext, "")),
		WithFulltextIndexes(true),
	)
	assert.Equal(t, []string{"posts"}, client.Tables())
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := newTestClient(t,
		WithTable("posts", search.NewSpec([]string{"title"}, search.ModeLike, "")),
		WithMetrics(reg),
	)

	_, err := client.Search.Query(context.Background(), "posts", "foo")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "modelsearch_search_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClient_WithConfig(t *testing.T) {
	cfg := config.NewAppConfigWithOptions(
		config.WithDBURL("sqlite:///"+filepath.Join(t.TempDir(), "search.db")),
		config.WithSearchLimit(1),
	)
	client, err := New(WithConfig(cfg), WithTable("notes", search.NewSpec([]string{"title"}, "", "")))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	spec, err := client.Search.Spec("notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, spec.Columns())
}

func TestClient_Close(t *testing.T) {
	client, err := New(WithSQLite(filepath.Join(t.TempDir(), "search.db")))
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), ErrClientClosed)

	_, err = client.Search.Query(context.Background(), "posts", "foo", service.WithColumns("title"))
	assert.ErrorIs(t, err, ErrClientClosed)
}
