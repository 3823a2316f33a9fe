package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_Conditions(t *testing.T) {
	q := Build(
		WithCondition("published", true),
		WithConditionIn("id", []int64{1, 2}),
		WithWhere("created_at > ?", "2024-01-01"),
	)

	conds := q.Conditions()
	assert.Len(t, conds, 3)

	assert.Equal(t, "published = ?", conds[0].SQL())
	assert.Equal(t, []any{true}, conds[0].Vars())
	assert.False(t, conds[0].In())

	assert.Equal(t, "id IN ?", conds[1].SQL())
	assert.True(t, conds[1].In())

	assert.Equal(t, ConditionRaw, conds[2].Kind())
	assert.Equal(t, "created_at > ?", conds[2].SQL())
	assert.Equal(t, []any{"2024-01-01"}, conds[2].Vars())
}

func TestBuild_IsImmutable(t *testing.T) {
	base := Build(WithCondition("a", 1))
	extended := WithCondition("b", 2)(base)

	assert.Len(t, base.Conditions(), 1)
	assert.Len(t, extended.Conditions(), 2)
}

func TestBuild_OrderAndPagination(t *testing.T) {
	opts := append([]Option{WithBestMatchFirst(), WithOrderAsc("id")}, WithPage(3, 20)...)
	q := Build(opts...)

	orders := q.Orders()
	assert.Equal(t, "score DESC", orders[0].SQL())
	assert.Equal(t, "id ASC", orders[1].SQL())
	assert.Equal(t, 20, q.LimitValue())
	assert.Equal(t, 40, q.OffsetValue())
}

func TestWithPage_Clamps(t *testing.T) {
	q := Build(WithPage(0, 0)...)

	assert.Equal(t, 10, q.LimitValue())
	assert.Equal(t, 0, q.OffsetValue())
}

func TestCondition_String(t *testing.T) {
	assert.Equal(t, "id = 5", Build(WithID(5)).Conditions()[0].String())
	assert.Equal(t, "id IN [1 2]", Build(WithIDIn([]int64{1, 2})).Conditions()[0].String())
	assert.Equal(t, "a > ? [3]", Build(WithWhere("a > ?", 3)).Conditions()[0].String())
}

func TestWithParam(t *testing.T) {
	base := Build(WithParam("a", 1))
	extended := WithParam("b", 2)(base)

	v, ok := extended.Param("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = base.Param("b")
	assert.False(t, ok, "params must not leak into the original query")

	_, ok = Build().Param("a")
	assert.False(t, ok)
}
