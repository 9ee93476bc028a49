// Package sqlite stores submissions in a single-file SQLite database. It backs
// local development and the contactctl tool when no PostgreSQL is available.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// dateLayout is fixed width so that text ordering matches time ordering.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `CREATE TABLE IF NOT EXISTS form_submissions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	submission_date TEXT NOT NULL
)`

const selectColumns = `id, name, email, phone_number, submission_date`

var _ store.SubmissionStore = (*SubmissionStore)(nil)

var columns = map[string]string{
	listing.FieldID:             "id",
	listing.FieldName:           "name",
	listing.FieldEmail:          "email",
	listing.FieldPhoneNumber:    "phone_number",
	listing.FieldSubmissionDate: "submission_date",
}

// SubmissionStore implements store.SubmissionStore on database/sql with the
// modernc sqlite driver.
type SubmissionStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database file at path and ensures the
// form_submissions table exists.
func Open(ctx context.Context, path string) (*SubmissionStore, error) {
	if path == "" {
		path = "contact-intake.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := NewSubmissionStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSubmissionStore wraps an already opened database.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db, now: time.Now}
}

// EnsureSchema creates the submissions table if it does not exist.
func (s *SubmissionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create form_submissions table: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Create(ctx context.Context, in types.SubmissionInput) (*types.Submission, error) {
	sub := &types.Submission{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		SubmissionDate: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO form_submissions (`+selectColumns+`) VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.PhoneNumber, sub.SubmissionDate.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission: %w", err)
	}

	logger.GetLogger().Infow("Stored submission", "submissionID", sub.ID, "email", logger.MaskEmail(sub.Email))
	return sub, nil
}

func (s *SubmissionStore) FindMany(ctx context.Context, q listing.Query) ([]*types.Submission, error) {
	if err := store.CheckWindow(q.Skip, q.Take); err != nil {
		return nil, err
	}
	orderBy, err := orderClause(q.Order)
	if err != nil {
		return nil, err
	}

	where, args := whereClause(q.Filter)
	args = append(args, q.Take, q.Skip)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM form_submissions`+where+orderBy+` LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	submissions := make([]*types.Submission, 0, store.PageCapacity(q.Take))
	for rows.Next() {
		var (
			sub  types.Submission
			date string
		)
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.PhoneNumber, &date); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if sub.SubmissionDate, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse submission date %q: %w", date, err)
		}
		submissions = append(submissions, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionStore) Count(ctx context.Context, filter listing.Filter) (int, error) {
	where, args := whereClause(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM form_submissions`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return total, nil
}

func (s *SubmissionStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *SubmissionStore) Close() error {
	return s.db.Close()
}

// whereClause uses instr, which is case-sensitive, unlike LIKE in SQLite.
func whereClause(filter listing.Filter) (string, []any) {
	if filter.MatchesAll() {
		return "", nil
	}

	conds := make([]string, 0, len(listing.SearchFields))
	args := make([]any, 0, len(listing.SearchFields))
	for _, field := range listing.SearchFields {
		conds = append(conds, "instr("+columns[field]+", ?) > 0")
		args = append(args, filter.SearchTerm)
	}
	return " WHERE " + strings.Join(conds, " OR "), args
}

func orderClause(o listing.Order) (string, error) {
	col, ok := columns[o.Field]
	if !ok {
		return "", fmt.Errorf("%w: %q", store.ErrUnknownSortField, o.Field)
	}
	dir := "DESC"
	if o.Direction == listing.SortAsc {
		dir = "ASC"
	}
	clause := " ORDER BY " + col + " " + dir
	if col != "id" {
		clause += ", id " + dir
	}
	return clause, nil
}
