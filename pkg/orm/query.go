// Package orm is a thin chainable layer over the shared *gorm.DB handle with
// helpers for cached reads, offset pagination and substring search.
package orm

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shashiranjanraj/medicore/pkg/cache"
	"github.com/shashiranjanraj/medicore/pkg/database"
	"gorm.io/gorm"
)

// DefaultPerPage is the page size used when the caller does not ask for one.
const DefaultPerPage = 15

// Pagination is the envelope metadata returned alongside every listed page.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
}

type Query struct {
	db *gorm.DB
}

// DB returns a Query bound to the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// With returns a Query bound to an explicit handle, e.g. a transaction.
func With(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

// Search appends a case-insensitive substring match over one or more text
// columns, combined with OR: WHERE col1 LIKE %term% OR col2 LIKE %term%.
func (q *Query) Search(term string, columns ...string) *Query {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}

	pattern := "%" + term + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = col + " LIKE ?"
		args[i] = pattern
	}
	return &Query{db: q.db.Where(strings.Join(clauses, " OR "), args...)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

func (q *Query) Updates(values interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes matching rows and reports how many were deleted.
func (q *Query) Delete(value interface{}) (int64, error) {
	res := q.db.Delete(value)
	return res.RowsAffected, res.Error
}

// GetWithPagination fills dest with one page of rows and returns the envelope
// metadata. Pages are 1-based; out-of-range values are clamped.
func (q *Query) GetWithPagination(dest interface{}, page, perPage int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage < 1 {
		lastPage = 1
	}

	offset := (page - 1) * perPage
	if err := q.db.Offset(offset).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		CurrentPage: page,
		LastPage:    lastPage,
		Total:       total,
		PerPage:     perPage,
	}, nil
}

// Cache fills dest from the cache when the key is present, otherwise runs
// the query and stores the result under key for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	err := q.db.Find(dest).Error
	if err != nil {
		return err
	}

	cache.Set(key, dest, ttl)
	return nil
}

// IsNotFound reports whether err is GORM's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
