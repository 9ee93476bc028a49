package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/store/memory"
	"github.com/NomadCrew/contact-intake/internal/store/mocks"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUploader struct {
	mock.Mock
	body []byte
}

func (m *mockUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func seed(t *testing.T, n int) *memory.SubmissionStore {
	t.Helper()
	st := memory.NewSubmissionStore()
	for i := 0; i < n; i++ {
		_, err := st.Create(context.Background(), types.SubmissionInput{
			Name:        fmt.Sprintf("Person %03d", i),
			Email:       fmt.Sprintf("person%03d@example.com", i),
			PhoneNumber: fmt.Sprintf("555-123-%04d", i),
		})
		require.NoError(t, err)
	}
	return st
}

func TestExporter_Key(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		prefix   string
		expected string
	}{
		{"exports", "exports/submissions-20240501T123000Z.csv"},
		{"/archive/contact/", "archive/contact/submissions-20240501T123000Z.csv"},
		{"", "submissions-20240501T123000Z.csv"},
	}
	for _, tt := range tests {
		e := NewExporter(nil, nil, &config.ExportConfig{Prefix: tt.prefix})
		assert.Equal(t, tt.expected, e.Key(at))
	}
}

func TestExporter_Export(t *testing.T) {
	st := seed(t, 3)
	uploader := &mockUploader{}
	uploader.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "archive" &&
			aws.ToString(in.Key) == "exports/submissions-20240501T120000Z.csv" &&
			aws.ToString(in.ContentType) == "text/csv"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	e := NewExporter(st, uploader, &config.ExportConfig{Bucket: "archive", Prefix: "exports"})
	e.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	res, err := e.Export(context.Background(), "Person 00")
	require.NoError(t, err)
	assert.Equal(t, Result{Bucket: "archive", Key: "exports/submissions-20240501T120000Z.csv", Rows: 3}, res)

	records, err := csv.NewReader(bytes.NewReader(uploader.body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, csvHeader, records[0])
	emails := []string{records[1][2], records[2][2], records[3][2]}
	assert.ElementsMatch(t, []string{"person000@example.com", "person001@example.com", "person002@example.com"}, emails)
	uploader.AssertExpectations(t)
}

func TestExporter_UploadError(t *testing.T) {
	uploader := &mockUploader{}
	uploader.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied")).Once()

	e := NewExporter(seed(t, 1), uploader, &config.ExportConfig{Bucket: "archive"})
	_, err := e.Export(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestExporter_WriteCSVPagesThroughStore(t *testing.T) {
	st := seed(t, batchSize+7)
	e := NewExporter(st, nil, &config.ExportConfig{})

	var buf bytes.Buffer
	rows, err := e.WriteCSV(context.Background(), &buf, "")
	require.NoError(t, err)
	assert.Equal(t, batchSize+7, rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, batchSize+8)

	seen := make(map[string]bool, rows)
	for _, r := range records[1:] {
		assert.False(t, seen[r[0]], "duplicate row %s", r[0])
		seen[r[0]] = true
	}
}

func TestExporter_WriteCSVStoreError(t *testing.T) {
	st := new(mocks.SubmissionStore)
	st.On("FindMany", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
	e := NewExporter(st, nil, &config.ExportConfig{})

	_, err := e.WriteCSV(context.Background(), io.Discard, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read submissions")
}
