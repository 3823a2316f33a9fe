package search

import (
	"testing"

	"github.com/helixml/modelsearch/domain/repository"
	"github.com/stretchr/testify/assert"
)

func TestWithSpec_Accumulates(t *testing.T) {
	q := repository.Build(
		WithSpec(WithMode(ModeFulltext)),
		repository.WithLimit(5),
		WithSpec(WithColumns("title"), WithFulltextMode(FulltextNatural)),
	)

	opts := SpecOptionsFrom(q)
	assert.Len(t, opts, 3)

	spec := ResolveSpec(plainModel{}, opts...)
	assert.Equal(t, []string{"title"}, spec.Columns())
	assert.Equal(t, ModeFulltext, spec.Mode())
	assert.Equal(t, FulltextNatural, spec.FulltextMode())
}

func TestSpecOptionsFrom_Missing(t *testing.T) {
	assert.Nil(t, SpecOptionsFrom(repository.Build(repository.WithLimit(1))))
}
