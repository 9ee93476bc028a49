// Package listing turns operator listing parameters into the filter, ordering
// and offset/limit pair handed to a submission store.
package listing

import (
	"errors"
	"math"
	"math/big"
	"net/url"
	"strings"
	"unicode"

	apperrors "github.com/NomadCrew/contact-intake/errors"
	"github.com/NomadCrew/contact-intake/types"
)

// Query parameter names accepted by the listing endpoint.
const (
	QueryParamPage          = "page"
	QueryParamPageSize      = "pageSize"
	QueryParamSearchTerm    = "searchTerm"
	QueryParamSortField     = "sortField"
	QueryParamSortDirection = "sortDirection"
)

const (
	DefaultPage          = 1
	DefaultPageSize      = 10
	DefaultSortField     = FieldSubmissionDate
	DefaultSortDirection = SortDesc
)

// Submission attributes that can be sorted on.
const (
	FieldID             = "id"
	FieldName           = "name"
	FieldEmail          = "email"
	FieldPhoneNumber    = "phoneNumber"
	FieldSubmissionDate = "submissionDate"
)

// SortDirection is either asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

var (
	ErrUnsupportedSortField     = errors.New("unsupported sort field")
	ErrUnsupportedSortDirection = errors.New("unsupported sort direction")
)

var sortableFields = map[string]struct{}{
	FieldID:             {},
	FieldName:           {},
	FieldEmail:          {},
	FieldPhoneNumber:    {},
	FieldSubmissionDate: {},
}

// Params holds the raw, optional query parameters exactly as received.
type Params struct {
	Page          string
	PageSize      string
	SearchTerm    string
	SortField     string
	SortDirection string
}

// Order names the attribute and direction a page is sorted by.
type Order struct {
	Field     string
	Direction SortDirection
}

// Query is the resolved listing request.
type Query struct {
	Filter Filter
	Order  Order
	// Skip may be negative when page < 1; stores decide how to handle it.
	Skip int
	Take int

	Page     int
	PageSize int
	// Normalized echoes the search and sort that were actually applied.
	Normalized types.ListingFilters
}

// ParseParams reads listing parameters from a URL query.
func ParseParams(values url.Values) Params {
	return Params{
		Page:          values.Get(QueryParamPage),
		PageSize:      values.Get(QueryParamPageSize),
		SearchTerm:    values.Get(QueryParamSearchTerm),
		SortField:     values.Get(QueryParamSortField),
		SortDirection: values.Get(QueryParamSortDirection),
	}
}

// BuildQuery resolves defaults and computes the page window. Page values
// without a leading integer fall back to their defaults; sort values outside
// the known set are rejected with an UNSUPPORTED_SORT_* AppError.
func BuildQuery(p Params) (Query, error) {
	page := parseIntOrDefault(p.Page, DefaultPage)
	pageSize := parseIntOrDefault(p.PageSize, DefaultPageSize)

	sortField := p.SortField
	if sortField == "" {
		sortField = DefaultSortField
	}
	if _, ok := sortableFields[sortField]; !ok {
		appErr := apperrors.UnsupportedSortField(sortField)
		appErr.Raw = ErrUnsupportedSortField
		return Query{}, appErr
	}

	direction := SortDirection(p.SortDirection)
	if direction == "" {
		direction = DefaultSortDirection
	}
	if direction != SortAsc && direction != SortDesc {
		appErr := apperrors.UnsupportedSortDirection(p.SortDirection)
		appErr.Raw = ErrUnsupportedSortDirection
		return Query{}, appErr
	}

	return Query{
		Filter:   Filter{SearchTerm: p.SearchTerm},
		Order:    Order{Field: sortField, Direction: direction},
		Skip:     windowStart(page, pageSize),
		Take:     pageSize,
		Page:     page,
		PageSize: pageSize,
		Normalized: types.ListingFilters{
			SearchTerm:    p.SearchTerm,
			SortField:     sortField,
			SortDirection: string(direction),
		},
	}, nil
}

// DefaultFilters is the filter echo used when a listing could not be served.
func DefaultFilters() types.ListingFilters {
	return types.ListingFilters{
		SearchTerm:    "",
		SortField:     DefaultSortField,
		SortDirection: string(DefaultSortDirection),
	}
}

// TotalPages is ceil(totalCount / pageSize), or 0 for a non-positive page size.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	pages := totalCount / pageSize
	if totalCount%pageSize != 0 {
		pages++
	}
	return pages
}

// IsSortable reports whether field is one of the sortable submission attributes.
func IsSortable(field string) bool {
	_, ok := sortableFields[field]
	return ok
}

// parseIntOrDefault reads the leading integer of raw the way a browser's
// parseInt does: leading whitespace, an optional sign, then digits up to the
// first non-digit. Without digits it returns def. Values beyond the int range
// saturate.
func parseIntOrDefault(raw string, def int) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		d := int(s[digits] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + d
	}
	if digits == 0 {
		return def
	}
	if neg {
		return -n
	}
	return n
}

// windowStart is (page-1)*pageSize clamped to the int range.
func windowStart(page, pageSize int) int {
	skip := new(big.Int).Sub(big.NewInt(int64(page)), big.NewInt(1))
	skip.Mul(skip, big.NewInt(int64(pageSize)))
	switch {
	case skip.Cmp(big.NewInt(math.MaxInt)) > 0:
		return math.MaxInt
	case skip.Cmp(big.NewInt(math.MinInt)) < 0:
		return math.MinInt
	default:
		return int(skip.Int64())
	}
}
