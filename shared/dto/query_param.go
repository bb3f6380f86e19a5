package dto

import (
	"net/http"
	"shareit/shared/constant"
	"strconv"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams describes a window over an ordered result set.
// SortBy is always set by the service layer and never taken from the request.
type QueryParams struct {
	Offset  int    `json:"from"     validate:"gte=0"`
	Limit   int    `json:"size"     validate:"omitempty,gt=0"`
	SortBy  string `json:"-"`
	SortDir string `json:"-"        validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates Offset and Limit from the `from` and `size` query parameters.
// Values that fail to parse or are out of range are ignored.
// Example:
//
//	q := &dto.QueryParams{}
//	q.FromRequest(req, true)
//
// With `defaultRequest` set to true a missing size falls back to constant.DefaultValueSize.
// With `defaultRequest` set to false a missing size leaves the window unbounded.
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	queryParams := r.URL.Query()

	if from := queryParams.Get(constant.RequestParamFrom); from != "" {
		if fromInt, err := strconv.Atoi(from); err == nil && fromInt >= 0 {
			q.Offset = fromInt
		}
	}

	if size := queryParams.Get(constant.RequestParamSize); size != "" {
		if sizeInt, err := strconv.Atoi(size); err == nil && sizeInt > 0 {
			q.Limit = sizeInt
		}
	}

	if defaultRequest && q.Limit == 0 {
		q.Limit = constant.DefaultValueSize
	}
}

// Sorted returns a copy of q ordered by the given column.
func (q QueryParams) Sorted(column, direction string) QueryParams {
	q.SortBy = column
	q.SortDir = direction

	return q
}
