package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ValidTableName reports whether name can be used as an unqualified table name.
func ValidTableName(name string) bool {
	return tableNameRe.MatchString(name)
}

// EnsureSchema creates the assessments table and its index if missing.
func EnsureSchema(ctx context.Context, db queryable, table string) error {
	if !ValidTableName(table) {
		return fmt.Errorf("%w: %q", ErrBadTable, table)
	}
	sql := strings.NewReplacer(
		"{{table}}", pgx.Identifier{table}.Sanitize(),
		"{{index}}", pgx.Identifier{table + "_created_at_idx"}.Sanitize(),
	).Replace(schemaSQL)
	if _, err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}

type assessmentRepoPG struct {
	db    queryable
	table string
}

// NewAssessmentRepoPG returns a repository writing to table. The pool is any
// pgx connection, pool or transaction.
func NewAssessmentRepoPG(db queryable, table string) (AssessmentRepository, error) {
	if !ValidTableName(table) {
		return nil, fmt.Errorf("%w: %q", ErrBadTable, table)
	}
	return &assessmentRepoPG{db: db, table: pgx.Identifier{table}.Sanitize()}, nil
}

func (r *assessmentRepoPG) Save(ctx context.Context, rec *Record) error {
	a := &rec.Assessment
	if a.RiskScore == nil || a.HeartAge == nil {
		return ErrNotScored
	}
	answers, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	var insights any
	if len(rec.Insights) > 0 {
		insights = []byte(rec.Insights)
	}
	var userID any
	if rec.UserID != "" {
		userID = rec.UserID
	}

	rec.ID = uuid.New()
	err = r.db.QueryRow(ctx, `
		INSERT INTO `+r.table+` (id, user_id, name, mobile, email, age, gender, bmi,
			systolic, diastolic, risk_score, heart_age, answers, insights)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at`,
		rec.ID, userID, a.Name, a.Mobile, a.Email, a.Age, a.Gender, a.BMI,
		a.Systolic, a.Diastolic, *a.RiskScore, *a.HeartAge, answers, insights,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

const recordCols = `id, user_id, answers, insights, created_at`

func (r *assessmentRepoPG) scan(row pgx.Row) (*Record, error) {
	var (
		rec      Record
		userID   *string
		answers  []byte
		insights []byte
	)
	if err := row.Scan(&rec.ID, &userID, &answers, &insights, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if userID != nil {
		rec.UserID = *userID
	}
	if err := json.Unmarshal(answers, &rec.Assessment); err != nil {
		return nil, fmt.Errorf("decode answers of %s: %w", rec.ID, err)
	}
	if len(insights) > 0 {
		rec.Insights = json.RawMessage(insights)
	}
	return &rec, nil
}

func (r *assessmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := r.scan(r.db.QueryRow(ctx, `SELECT `+recordCols+` FROM `+r.table+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return rec, nil
}

func (r *assessmentRepoPG) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recordCols+` FROM `+r.table+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	out := []*Record{}
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
