package pagebook

import (
	"fmt"
	"math"
	"strings"

	"github.com/iancoleman/strcase"
	"gorm.io/gorm"
)

// Pager is a builder that builds a GORM scope selecting the records of one
// page. Page is zero-based.
type Pager struct {
	Page uint `json:"page" query:"page"`
	Size uint `json:"size" query:"size"`
}

// NewPager returns a Pager pointing at the first page with a default size.
func NewPager() *Pager {
	return &Pager{
		Page: 0,
		Size: 10,
	}
}

// Validate returns an error when the window selected by the Pager cannot be
// expressed as non-negative limit and offset values.
func (pager *Pager) Validate() error {
	if pager.Size > math.MaxInt {
		return NewInvalidValueError("size '%d' exceeds the maximum record limit", pager.Size)
	}
	if pager.Size != 0 && pager.Page > math.MaxInt/pager.Size {
		return NewInvalidValueError(
			"page '%d' with size '%d' overflows the record offset", pager.Page, pager.Size)
	}
	return nil
}

// Scope returns a GORM scope restricting the query to this Pager's window.
// Values rejected by Validate saturate to the last expressible offset and
// select no rows instead of wrapping around.
func (pager *Pager) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(pager.offset()).Limit(pager.limit())
	}
}

func (pager *Pager) offset() int {
	if pager.Size != 0 && pager.Page > math.MaxInt/pager.Size {
		return math.MaxInt
	}
	return int(pager.Page * pager.Size)
}

func (pager *Pager) limit() int {
	return int(min(pager.Size, math.MaxInt))
}

// Paginate executes the query held by db twice, first counting the full
// result set and then fetching the window selected by pager, and assembles
// the rows into a validated Page of S. Conditions already present on db are
// kept for both round-trips; the two queries observe one snapshot only when
// db is already inside a transaction. A Pager rejected by Validate fails
// with a KindInvalidValue error; GORM execution failures are reported as
// KindDatabase errors.
func Paginate[S any](db *gorm.DB, pager *Pager) (*Page[S], error) {
	if err := pager.Validate(); err != nil {
		return nil, err
	}

	var total int64
	counter := db.Session(&gorm.Session{}).Limit(-1).Offset(-1).Model(new(S))
	if err := counter.Count(&total).Error; err != nil {
		return nil, NewDatabaseError(err)
	}

	items := make([]S, 0, min(pager.Size, 64))
	finder := db.Session(&gorm.Session{}).Scopes(pager.Scope())
	if err := finder.Find(&items).Error; err != nil {
		return nil, NewDatabaseError(err)
	}

	return NewPage(items, pager.Page, pager.Size, uint(total))
}

// Order is a sort direction used by OrderBy.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// OrderBy returns an order clause builder for the given struct field names.
//
// Example:
//
//	OrderBy("CreatedAt", "ID")(DESC, ASC)
func OrderBy(columns ...string) func(orders ...Order) string {
	return func(orders ...Order) string {
		if len(columns) != len(orders) {
			panic("columns and orders must have the same length")
		}

		parts := make([]string, len(columns))
		for i, column := range columns {
			parts[i] = fmt.Sprintf("%s %s", strcase.ToSnake(column), strings.ToUpper(string(orders[i])))
		}
		return strings.Join(parts, ", ")
	}
}
