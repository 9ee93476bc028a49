package listing

import (
	"math"
	"net/url"
	"testing"
	"time"

	apperrors "github.com/NomadCrew/contact-intake/errors"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery_Defaults(t *testing.T) {
	q, err := BuildQuery(Params{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, 0, q.Skip)
	assert.Equal(t, 10, q.Take)
	assert.True(t, q.Filter.MatchesAll())
	assert.Equal(t, Order{Field: FieldSubmissionDate, Direction: SortDesc}, q.Order)
	assert.Equal(t, types.ListingFilters{
		SearchTerm:    "",
		SortField:     "submissionDate",
		SortDirection: "desc",
	}, q.Normalized)
}

func TestBuildQuery_Pagination(t *testing.T) {
	tests := []struct {
		name         string
		page         string
		pageSize     string
		expectedSkip int
		expectedTake int
		expectedPage int
	}{
		{"first page", "1", "10", 0, 10, 1},
		{"third page", "3", "10", 20, 10, 3},
		{"custom page size", "2", "25", 25, 25, 2},
		{"non-numeric page falls back", "abc", "10", 0, 10, 1},
		{"non-numeric page size falls back", "2", "lots", 10, 10, 2},
		{"decimal keeps its integer part", "2.5", "10", 10, 10, 2},
		{"trailing garbage is ignored", "3abc", "10", 20, 10, 3},
		{"explicit plus sign", "+2", "10", 10, 10, 2},
		{"sign without digits falls back", "-", "10", 0, 10, 1},
		{"leading letters fall back", "abc3", "10", 0, 10, 1},
		{"page size reads leading digits", "1", "25rows", 0, 25, 1},
		{"surrounding spaces are tolerated", " 4 ", "5", 15, 5, 4},
		{"page zero is not clamped", "0", "10", -10, 10, 0},
		{"negative page is not clamped", "-2", "10", -30, 10, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := BuildQuery(Params{Page: tt.page, PageSize: tt.pageSize})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSkip, q.Skip)
			assert.Equal(t, tt.expectedTake, q.Take)
			assert.Equal(t, tt.expectedPage, q.Page)
		})
	}
}

func TestBuildQuery_WindowSaturates(t *testing.T) {
	tests := []struct {
		name         string
		page         string
		pageSize     string
		expectedSkip int
		expectedTake int
	}{
		{"huge page size", "1", "10000000000000", 0, 10000000000000},
		{"page size beyond int range", "1", "99999999999999999999999", 0, math.MaxInt},
		{"skip beyond int range", "3", "9223372036854775807", math.MaxInt, math.MaxInt},
		{"negative page with max page size", "-1", "9223372036854775807", math.MinInt, math.MaxInt},
		{"negative page beyond int range", "-99999999999999999999", "10", math.MinInt, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := BuildQuery(Params{Page: tt.page, PageSize: tt.pageSize})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSkip, q.Skip)
			assert.Equal(t, tt.expectedTake, q.Take)
		})
	}
}

func TestBuildQuery_SortSelection(t *testing.T) {
	for _, field := range []string{"id", "name", "email", "phoneNumber", "submissionDate"} {
		for _, dir := range []string{"asc", "desc"} {
			q, err := BuildQuery(Params{SortField: field, SortDirection: dir})
			require.NoError(t, err)
			assert.Equal(t, field, q.Order.Field)
			assert.Equal(t, SortDirection(dir), q.Order.Direction)
			assert.Equal(t, field, q.Normalized.SortField)
			assert.Equal(t, dir, q.Normalized.SortDirection)
		}
	}
}

func TestBuildQuery_UnsupportedSortField(t *testing.T) {
	_, err := BuildQuery(Params{SortField: "password"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSortField)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.UnsupportedSortFieldError, appErr.Type)
}

func TestBuildQuery_UnsupportedSortDirection(t *testing.T) {
	_, err := BuildQuery(Params{SortDirection: "DESC"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSortDirection)
}

func TestBuildQuery_SearchTermEcho(t *testing.T) {
	q, err := BuildQuery(Params{SearchTerm: "ada", SortField: "name", SortDirection: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "ada", q.Filter.SearchTerm)
	assert.Equal(t, "ada", q.Normalized.SearchTerm)
}

func TestParseParams(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("pageSize", "20")
	values.Set("searchTerm", "ada")
	values.Set("sortField", "email")
	values.Set("sortDirection", "asc")

	assert.Equal(t, Params{
		Page:          "2",
		PageSize:      "20",
		SearchTerm:    "ada",
		SortField:     "email",
		SortDirection: "asc",
	}, ParseParams(values))
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, expected int
	}{
		{25, 10, 3},
		{20, 10, 2},
		{0, 10, 0},
		{1, 10, 1},
		{7, 1, 7},
		{5, 0, 0},
		{5, -3, 0},
		{3, math.MaxInt, 1},
		{math.MaxInt, 2, math.MaxInt/2 + 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TotalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestFilter_Matches(t *testing.T) {
	s := &types.Submission{Name: "Ada Lovelace", Email: "ada@example.com", PhoneNumber: "555-123-4567"}

	tests := []struct {
		term     string
		expected bool
	}{
		{"", true},
		{"Ada", true},
		{"ada", true},
		{"example.com", true},
		{"123-45", true},
		{"ADA", false},
		{"lovelace", false},
		{"grace", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Filter{SearchTerm: tt.term}.Matches(s), "term %q", tt.term)
	}
}

func TestOrder_Less(t *testing.T) {
	now := time.Now()
	older := &types.Submission{ID: "b", Name: "Zed", SubmissionDate: now.Add(-time.Hour)}
	newer := &types.Submission{ID: "a", Name: "Amy", SubmissionDate: now}

	assert.True(t, Order{Field: FieldSubmissionDate, Direction: SortDesc}.Less(newer, older))
	assert.True(t, Order{Field: FieldSubmissionDate, Direction: SortAsc}.Less(older, newer))
	assert.True(t, Order{Field: FieldName, Direction: SortAsc}.Less(newer, older))

	tieA := &types.Submission{ID: "1", Name: "Same"}
	tieB := &types.Submission{ID: "2", Name: "Same"}
	assert.True(t, Order{Field: FieldName, Direction: SortAsc}.Less(tieA, tieB))
	assert.False(t, Order{Field: FieldName, Direction: SortAsc}.Less(tieB, tieA))
}
