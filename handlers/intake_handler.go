package handlers

import (
	"net/http"

	apperrors "github.com/NomadCrew/contact-intake/errors"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/internal/validation"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/gin-gonic/gin"
)

const (
	submitSuccessMessage = "Form submission successful"
	submitFailureMessage = "An error occurred while processing your submission"
)

// IntakeHandler accepts public contact-form submissions.
type IntakeHandler struct {
	store    store.SubmissionStore
	notifier SubmissionNotifier
	metrics  *Metrics
}

// NewIntakeHandler creates an IntakeHandler. notifier may be nil.
func NewIntakeHandler(st store.SubmissionStore, notifier SubmissionNotifier, metrics *Metrics) *IntakeHandler {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &IntakeHandler{store: st, notifier: notifier, metrics: metrics}
}

// SubmitForm godoc
// @Summary      Submit the contact form
// @Description  Validates and stores a contact-form submission
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        body  body      types.SubmissionInput  true  "Submission"
// @Success      200   {object}  types.SubmitResponse
// @Failure      400   {object}  types.IntakeErrorResponse
// @Failure      405   {object}  types.IntakeErrorResponse
// @Failure      500   {object}  types.IntakeErrorResponse
// @Router       /api/submit-form [post]
func (h *IntakeHandler) SubmitForm(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.writeError(c, apperrors.MethodNotAllowed())
		return
	}

	var in types.SubmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, err)
		return
	}

	if appErr := validation.ValidateSubmission(in); appErr != nil {
		h.metrics.submissions.WithLabelValues(resultRejected).Inc()
		h.writeError(c, appErr)
		return
	}

	sub, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.metrics.submissions.WithLabelValues(resultAccepted).Inc()
	if h.notifier != nil {
		h.notifier.NotifySubmissionCreated(sub)
	}

	c.JSON(http.StatusOK, types.SubmitResponse{
		Success:      true,
		Message:      submitSuccessMessage,
		SubmissionID: sub.ID,
	})
}

// fail logs an unexpected failure and answers 500 with the raw message as details.
func (h *IntakeHandler) fail(c *gin.Context, err error) {
	h.metrics.submissions.WithLabelValues(resultFailed).Inc()
	logger.LogHTTPError(c, err, http.StatusInternalServerError, "Error processing form submission")
	h.writeError(c, apperrors.InternalFailure(err, submitFailureMessage))
}

func (h *IntakeHandler) writeError(c *gin.Context, appErr *apperrors.AppError) {
	var details interface{}
	switch {
	case appErr.Fields != nil:
		details = appErr.Fields
	case appErr.Detail != "":
		details = appErr.Detail
	}
	c.JSON(appErr.GetHTTPStatus(), types.IntakeErrorResponse{
		Error:   appErr.Message,
		Details: details,
	})
}
