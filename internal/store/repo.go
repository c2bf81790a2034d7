package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/heartcheck/internal/assessment"
)

var (
	ErrNotFound  = errors.New("assessment not found")
	ErrNotScored = errors.New("assessment has no risk score or heart age")
	ErrBadTable  = errors.New("invalid table name")
)

// Record is one persisted assessment.
type Record struct {
	ID         uuid.UUID                    `json:"id"`
	UserID     string                       `json:"user_id,omitempty"`
	Assessment assessment.PatientAssessment `json:"data"`
	Insights   json.RawMessage              `json:"insights,omitempty"`
	CreatedAt  time.Time                    `json:"created_at"`
}

// AssessmentRepository persists scored assessments.
type AssessmentRepository interface {
	Save(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
