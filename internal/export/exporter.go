// Package export writes matching submissions to CSV and archives them in an
// S3 compatible bucket.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	// batchSize is the page size used while walking the store.
	batchSize   = 500
	contentType = "text/csv"
	timeLayout  = "20060102T150405Z"
)

var csvHeader = []string{"id", "name", "email", "phoneNumber", "submissionDate"}

// Uploader is the part of *s3.Client the exporter needs.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result describes a finished export.
type Result struct {
	Bucket string
	Key    string
	Rows   int
}

// Exporter archives submissions as CSV objects.
type Exporter struct {
	store    store.SubmissionStore
	uploader Uploader
	bucket   string
	prefix   string
	now      func() time.Time
}

func NewExporter(st store.SubmissionStore, uploader Uploader, cfg *config.ExportConfig) *Exporter {
	return &Exporter{
		store:    st,
		uploader: uploader,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		now:      time.Now,
	}
}

// NewS3Client builds an S3 client from cfg. A custom endpoint switches to
// path-style addressing so R2 and MinIO work.
func NewS3Client(ctx context.Context, cfg *config.ExportConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Key returns the object key for an export taken at t.
func (e *Exporter) Key(t time.Time) string {
	name := "submissions-" + t.UTC().Format(timeLayout) + ".csv"
	if e.prefix == "" {
		return name
	}
	return e.prefix + "/" + name
}

// Export uploads every submission matching searchTerm, oldest first.
func (e *Exporter) Export(ctx context.Context, searchTerm string) (Result, error) {
	var buf bytes.Buffer
	rows, err := e.WriteCSV(ctx, &buf, searchTerm)
	if err != nil {
		return Result{}, err
	}

	key := e.Key(e.now())
	_, err = e.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(e.bucket),
		Key:               aws.String(key),
		Body:              bytes.NewReader(buf.Bytes()),
		ContentType:       aws.String(contentType),
		ChecksumAlgorithm: s3types.ChecksumAlgorithmCrc32,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	logger.GetLogger().Infow("Exported submissions", "bucket", e.bucket, "key", key, "rows", rows)
	return Result{Bucket: e.bucket, Key: key, Rows: rows}, nil
}

// WriteCSV streams matching submissions to w and returns how many rows were written.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer, searchTerm string) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	rows := 0
	for page := 1; ; page++ {
		q, err := listing.BuildQuery(listing.Params{
			Page:          strconv.Itoa(page),
			PageSize:      strconv.Itoa(batchSize),
			SearchTerm:    searchTerm,
			SortField:     listing.FieldSubmissionDate,
			SortDirection: string(listing.SortAsc),
		})
		if err != nil {
			return rows, err
		}

		batch, err := e.store.FindMany(ctx, q)
		if err != nil {
			return rows, fmt.Errorf("failed to read submissions: %w", err)
		}
		for _, sub := range batch {
			if err := cw.Write(record(sub)); err != nil {
				return rows, err
			}
			rows++
		}
		if len(batch) < batchSize {
			break
		}
	}

	cw.Flush()
	return rows, cw.Error()
}

func record(sub *types.Submission) []string {
	return []string{
		sub.ID,
		sub.Name,
		sub.Email,
		sub.PhoneNumber,
		sub.SubmissionDate.UTC().Format(time.RFC3339),
	}
}
