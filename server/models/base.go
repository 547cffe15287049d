package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	MAX_PAGE_SIZE     = 100
	DEFAULT_PAGE_SIZE = 10
)

type BaseModel struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ContactPage is the envelope returned by list/search queries - a page of
// hydrated contacts plus pagination metadata.
type ContactPage struct {
	Contacts   []Contact `json:"contacts"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int64     `json:"total_pages"`
}

// Columns contacts can be sorted by. Whitelisted to keep user provided
// values out of the ORDER BY clause.
var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
	"id":         "id",
}

// ---------------------------------------------------------------------------------//
// Scopes
// --------------------------------------------------------------------------------//

// paginate expects page & pageSize to have passed through normalizePageArgs.
func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// normalizePageArgs maps out-of-range page args to the first page of the
// default size. The HTTP layer rejects such values with a 400 before they
// reach the model layer; this keeps direct callers on the same envelope
// math (a pageSize of 0 would otherwise make total_pages overflow).
func normalizePageArgs(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}

	switch {
	case pageSize > MAX_PAGE_SIZE:
		pageSize = MAX_PAGE_SIZE
	case pageSize <= 0:
		pageSize = DEFAULT_PAGE_SIZE
	}

	return page, pageSize
}

func newContactPage(contacts []Contact, total int64, page, pageSize int) *ContactPage {
	return &ContactPage{
		Contacts:   contacts,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int64(math.Ceil(float64(total) / float64(pageSize))),
	}
}

// orderClause builds the ORDER BY for list/search queries. Rows with equal
// sort-key values fall back to 'id asc', so pages stay stable.
func orderClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "name"
	}

	if sortOrder != "desc" {
		sortOrder = "asc"
	}

	if column == "id" {
		return "contacts.id " + sortOrder
	}

	return "contacts." + column + " " + sortOrder + ", contacts.id asc"
}
