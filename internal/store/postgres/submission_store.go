package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/logger"
	"github.com/NomadCrew/contact-intake/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool used by the store. pgxmock pools satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var _ store.SubmissionStore = (*SubmissionStore)(nil)

// columns maps sortable attribute names to form_submissions columns.
var columns = map[string]string{
	listing.FieldID:             "id",
	listing.FieldName:           "name",
	listing.FieldEmail:          "email",
	listing.FieldPhoneNumber:    "phone_number",
	listing.FieldSubmissionDate: "submission_date",
}

const selectColumns = `id::text, name, email, phone_number, submission_date`

// SubmissionStore implements store.SubmissionStore on PostgreSQL.
type SubmissionStore struct {
	db DBTX
}

// NewSubmissionStore creates a store over a pgx pool or anything shaped like one.
func NewSubmissionStore(db DBTX) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Create inserts a submission; id and submission_date come from column defaults.
func (s *SubmissionStore) Create(ctx context.Context, in types.SubmissionInput) (*types.Submission, error) {
	query := `
		INSERT INTO form_submissions (name, email, phone_number)
		VALUES ($1, $2, $3)
		RETURNING ` + selectColumns

	sub := &types.Submission{}
	err := s.db.QueryRow(ctx, query, in.Name, in.Email, in.PhoneNumber).Scan(
		&sub.ID,
		&sub.Name,
		&sub.Email,
		&sub.PhoneNumber,
		&sub.SubmissionDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission: %w", err)
	}

	logger.GetLogger().Infow("Stored submission", "submissionID", sub.ID, "email", logger.MaskEmail(sub.Email))
	return sub, nil
}

// FindMany returns one page of matching submissions.
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
	query := `SELECT ` + selectColumns + ` FROM form_submissions` + where +
		orderBy +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*types.Submission, 0, store.PageCapacity(q.Take))
	for rows.Next() {
		sub := &types.Submission{}
		if err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Email,
			&sub.PhoneNumber,
			&sub.SubmissionDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return submissions, nil
}

// Count returns how many submissions match filter.
func (s *SubmissionStore) Count(ctx context.Context, filter listing.Filter) (int, error) {
	where, args := whereClause(filter)

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM form_submissions`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return int(total), nil
}

func (s *SubmissionStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// whereClause builds the search predicate. strpos keeps matching
// case-sensitive and avoids LIKE wildcard escaping.
func whereClause(filter listing.Filter) (string, []any) {
	if filter.MatchesAll() {
		return "", nil
	}

	conds := make([]string, 0, len(listing.SearchFields))
	for _, field := range listing.SearchFields {
		conds = append(conds, "strpos("+columns[field]+", $1) > 0")
	}
	return " WHERE " + strings.Join(conds, " OR "), []any{filter.SearchTerm}
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
