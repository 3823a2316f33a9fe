package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFulltext_Modes(t *testing.T) {
	tests := []struct {
		mode FulltextMode
		want string
	}{
		{FulltextBoolean, "MATCH (title,body) AGAINST (? IN BOOLEAN MODE)"},
		{FulltextNatural, "MATCH (title,body) AGAINST (? IN NATURAL LANGUAGE MODE)"},
		{FulltextExpansion, "MATCH (title,body) AGAINST (? IN NATURAL LANGUAGE MODE WITH QUERY EXPANSION)"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			spec := NewSpec([]string{"title", "body"}, ModeFulltext, tt.mode)

			expr, err := CompileFulltext(spec, "foo")
			require.NoError(t, err)

			assert.Equal(t, tt.want, expr.SQL())
			assert.Equal(t, []any{"foo"}, expr.Vars())
			assert.NotContains(t, expr.SQL(), "foo")
		})
	}
}

func TestCompileFulltext_DefaultsToBoolean(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, "")

	expr, err := CompileFulltext(spec, "foo")
	require.NoError(t, err)

	assert.Equal(t, "IN BOOLEAN MODE", expr.Literal())
}

func TestCompileFulltext_UnknownMode(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, "fuzzy")

	expr, err := CompileFulltext(spec, "foo")

	require.ErrorIs(t, err, ErrUnknownFulltextMode)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.True(t, expr.IsEmpty())
}

func TestCompileFulltext_UnknownModeWithoutColumns(t *testing.T) {
	spec := NewSpec(nil, ModeFulltext, "fuzzy")

	_, err := CompileFulltext(spec, "foo")

	assert.ErrorIs(t, err, ErrUnknownFulltextMode)
}

func TestCompileFulltext_NoColumns(t *testing.T) {
	spec := NewSpec(nil, ModeFulltext, FulltextNatural)

	expr, err := CompileFulltext(spec, "foo")
	require.NoError(t, err)

	assert.True(t, expr.IsEmpty())
}

func TestCompileFulltext_OperatorsBoundVerbatim(t *testing.T) {
	spec := NewSpec([]string{"title"}, ModeFulltext, FulltextBoolean)

	expr, err := CompileFulltext(spec, `+foo -"bar baz"`)
	require.NoError(t, err)

	assert.Equal(t, "MATCH (title) AGAINST (? IN BOOLEAN MODE)", expr.SQL())
	assert.Equal(t, `+foo -"bar baz"`, expr.Query())
}
