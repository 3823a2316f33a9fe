package database

import (
	"github.com/helixml/modelsearch/domain/repository"
	"gorm.io/gorm"
)

// Scope modifies a GORM statement. It has the signature gorm.DB.Scopes expects.
type Scope = func(*gorm.DB) *gorm.DB

// ApplyOptions builds a repository.Query from the given options and applies it to a GORM session.
func ApplyOptions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	q := repository.Build(options...)

	db = applyConditions(db, q)

	for _, ord := range q.Orders() {
		db = db.Order(ord.SQL())
	}

	if q.LimitValue() > 0 {
		db = db.Limit(q.LimitValue())
	}

	if q.OffsetValue() > 0 {
		db = db.Offset(q.OffsetValue())
	}

	return db
}

// ApplyConditions applies only WHERE conditions (no limit/offset/order) for COUNT queries.
func ApplyConditions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	return applyConditions(db, repository.Build(options...))
}

func applyConditions(db *gorm.DB, q repository.Query) *gorm.DB {
	for _, cond := range q.Conditions() {
		db = db.Where(cond.SQL(), cond.Vars()...)
	}
	return db
}
