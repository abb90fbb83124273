package shared

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Audit actions.
const (
	AuditActionSoftDelete = "soft_delete"
)

// AuditEvent describes a mutation worth keeping in audit_events.
type AuditEvent struct {
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate checks the mandatory fields.
func (e AuditEvent) Validate() error {
	if e.Entity == "" || e.EntityID == "" || e.Action == "" {
		return errors.New("audit event requires entity/entity_id/action")
	}
	if e.ActorID == "" || e.ActorRole == "" {
		return errors.New("audit event requires actor")
	}
	return nil
}

// AuditPublisher hands audit events to the background pipeline.
type AuditPublisher interface {
	PublishAudit(ctx context.Context, event AuditEvent) error
}

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditLogger writes records into audit_events.
type AuditLogger struct {
	db Execer
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(db Execer) *AuditLogger {
	return &AuditLogger{db: db}
}

// Record persists the event.
func (l *AuditLogger) Record(ctx context.Context, event AuditEvent) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	if err := event.Validate(); err != nil {
		return err
	}
	_, err := l.db.Exec(ctx,
		`INSERT INTO audit_events (entity, entity_id, action, actor_id, actor_role, occurred_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		event.Entity, event.EntityID, event.Action, event.ActorID, event.ActorRole, event.OccurredAt)
	return err
}
