// Package gaps records knowledge gaps: questions that got no documented
// answer and documents that failed to index. Without this record, a
// troubleshooting question that finds nothing disappears silently.
package gaps

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldserve/fieldassist/internal/db"
)

// Kind classifies a knowledge gap.
type Kind string

const (
	KindNoDocumentation         Kind = "no_documentation"
	KindIndexingFailed          Kind = "indexing_failed"
	KindUnresolvedClarification Kind = "unresolved_clarification"
)

// Status tracks whether a gap has been addressed.
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
	StatusIgnored  Status = "ignored"
)

// Gap is one recorded knowledge gap.
type Gap struct {
	ID              string    `json:"id"`
	Kind            Kind      `json:"kind"`
	UserID          string    `json:"user_id,omitempty"`
	ConversationID  string    `json:"conversation_id,omitempty"`
	ComponentFamily string    `json:"component_family,omitempty"`
	Manufacturer    string    `json:"manufacturer,omitempty"`
	FaultCode       string    `json:"fault_code,omitempty"`
	Question        string    `json:"question,omitempty"`
	Detail          string    `json:"detail,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store provides operations on recorded gaps.
type Store struct {
	db *db.DB
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Record inserts a new gap.
func (s *Store) Record(ctx context.Context, g *Gap) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = StatusOpen
	}
	g.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_gaps (id, kind, user_id, conversation_id, component_family, manufacturer, fault_code, question, detail, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Kind, g.UserID, g.ConversationID, g.ComponentFamily,
		g.Manufacturer, g.FaultCode, g.Question, g.Detail, g.Status, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording knowledge gap: %w", err)
	}
	return nil
}

// ListOpen returns open gaps, newest first, capped by limit.
func (s *Store) ListOpen(ctx context.Context, limit int) ([]Gap, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, user_id, conversation_id, component_family, manufacturer, fault_code, question, detail, status, created_at
		 FROM knowledge_gaps WHERE status = 'open' ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge gaps: %w", err)
	}
	defer rows.Close()

	var gaps []Gap
	for rows.Next() {
		var g Gap
		if err := rows.Scan(&g.ID, &g.Kind, &g.UserID, &g.ConversationID, &g.ComponentFamily,
			&g.Manufacturer, &g.FaultCode, &g.Question, &g.Detail, &g.Status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning knowledge gap: %w", err)
		}
		gaps = append(gaps, g)
	}
	return gaps, rows.Err()
}

// SetStatus marks a gap resolved or ignored.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE knowledge_gaps SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating knowledge gap: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
