package handlers

import (
	"net/http"

	apperrors "github.com/NomadCrew/contact-intake/errors"
	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/gin-gonic/gin"
)

// ListingHandler serves the operator view of stored submissions.
type ListingHandler struct {
	store   store.SubmissionStore
	metrics *Metrics
}

func NewListingHandler(st store.SubmissionStore, metrics *Metrics) *ListingHandler {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &ListingHandler{store: st, metrics: metrics}
}

// ListSubmissions godoc
// @Summary      List submissions
// @Description  Returns one page of submissions filtered by a case-sensitive search term. Store failures produce an empty page with an error string.
// @Tags         submissions
// @Produce      json
// @Param        page           query     int     false  "Page number"  default(1)
// @Param        pageSize       query     int     false  "Page size"    default(10)
// @Param        searchTerm     query     string  false  "Substring matched against name, email and phone number"
// @Param        sortField      query     string  false  "Sort attribute"  Enums(id, name, email, phoneNumber, submissionDate)  default(submissionDate)
// @Param        sortDirection  query     string  false  "Sort direction"  Enums(asc, desc)  default(desc)
// @Success      200            {object}  types.ListSubmissionsResponse
// @Failure      400            {object}  middleware.ErrorResponse
// @Failure      401            {object}  middleware.ErrorResponse
// @Security     BearerAuth
// @Router       /api/submissions [get]
func (h *ListingHandler) ListSubmissions(c *gin.Context) {
	q, err := listing.BuildQuery(listing.ParseParams(c.Request.URL.Query()))
	if err != nil {
		h.metrics.listings.WithLabelValues(resultInvalid).Inc()
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	submissions, err := h.store.FindMany(ctx, q)
	if err != nil {
		h.degraded(c, q, err)
		return
	}
	total, err := h.store.Count(ctx, q.Filter)
	if err != nil {
		h.degraded(c, q, err)
		return
	}
	if submissions == nil {
		submissions = []*types.Submission{}
	}

	h.metrics.listings.WithLabelValues(resultOK).Inc()
	c.JSON(http.StatusOK, types.ListSubmissionsResponse{
		Submissions: submissions,
		Pagination: types.Pagination{
			TotalCount:  total,
			CurrentPage: q.Page,
			PageSize:    q.PageSize,
			TotalPages:  listing.TotalPages(total, q.PageSize),
		},
		Filters: q.Normalized,
	})
}

// degraded answers a store failure with an empty, renderable page.
func (h *ListingHandler) degraded(c *gin.Context, q listing.Query, err error) {
	h.metrics.listings.WithLabelValues(resultDegraded).Inc()
	appErr := apperrors.StoreQueryFailed(err)
	logger.LogHTTPError(c, err, appErr.GetHTTPStatus(), "Error fetching submissions")

	c.JSON(appErr.GetHTTPStatus(), types.ListSubmissionsResponse{
		Submissions: []*types.Submission{},
		Pagination: types.Pagination{
			TotalCount:  0,
			CurrentPage: listing.DefaultPage,
			PageSize:    q.PageSize,
			TotalPages:  0,
		},
		Filters: listing.DefaultFilters(),
		Error:   appErr.Message,
	})
}
