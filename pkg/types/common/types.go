// Package common defines the shared primitive types used across the
// HomeAudit-Intelligence platform: identifiers, pagination, and the generic
// API response envelope.  No behaviour beyond construction and serialization
// lives here.
package common

import (
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for a UUID v4 entity identifier.
type ID string

// NewID generates a fresh random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID validates that s is a well-formed UUID and returns it as an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return ID(u.String()), nil
}

// Metadata is an open-ended key-value bag attached to entities and events.
type Metadata map[string]interface{}

// Pagination defines parameters for paginated requests and responses.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// DefaultPageSize bounds unset or absurd page sizes.
const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Limit returns the bounded page size for SQL LIMIT clauses.
func (p Pagination) Limit() int {
	switch {
	case p.PageSize <= 0:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return p.PageSize
	}
}

// Offset returns the row offset for SQL OFFSET clauses.  Pages are 1-based.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// APIResponse is the generic wrapper for all API responses.
type APIResponse[T any] struct {
	Success    bool         `json:"success"`
	Data       T            `json:"data,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// OK builds a successful APIResponse around data.
func OK[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Fail builds a failed APIResponse carrying an error detail.
func Fail[T any](code, message string) APIResponse[T] {
	return APIResponse[T]{
		Success:   false,
		Error:     &ErrorDetail{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	}
}
