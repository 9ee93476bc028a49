package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/NomadCrew/contact-intake/middleware"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifySubmissionCreated(sub *types.Submission) bool {
	return m.Called(sub).Bool(0)
}

// setupRouter mounts the handlers the same way the production router does,
// minus operator authentication.
func setupRouter(intake *IntakeHandler, list *ListingHandler) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")

	public := api.Group("")
	public.Use(middleware.PublicCORS())
	public.Any("/submit-form", intake.SubmitForm)

	operator := api.Group("")
	operator.Use(middleware.ErrorHandler())
	operator.GET("/submissions", list.ListSubmissions)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func jsonUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func urlEscape(s string) string {
	return url.QueryEscape(s)
}
