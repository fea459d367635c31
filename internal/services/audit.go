package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
)

// AuditLog records administrative actions.
type AuditLog interface {
	Record(ctx context.Context, e models.AuditEntry) error
	List(ctx context.Context, page, limit int) (*query.Page[models.AuditEntry], error)
}

// PostgresAudit stores entries in the admin_audit_log table.
type PostgresAudit struct {
	db *sql.DB
}

func NewPostgresAudit(db *sql.DB) *PostgresAudit {
	return &PostgresAudit{db: db}
}

func (a *PostgresAudit) Record(ctx context.Context, e models.AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO admin_audit_log (id, created_at, actor_uid, action, target_type, target_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.CreatedAt, e.ActorUID, string(e.Action), e.TargetType, e.TargetID, e.Detail)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (a *PostgresAudit) List(ctx context.Context, page, limit int) (*query.Page[models.AuditEntry], error) {
	req := query.Request{Page: page, Limit: limit}.Normalize()

	var total int64
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_audit_log`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, created_at, actor_uid, action, target_type, target_id, COALESCE(detail, '')
		FROM admin_audit_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, req.Limit, req.Skip())
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var action string
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.ActorUID, &action, &e.TargetType, &e.TargetID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = models.AuditAction(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return query.NewPage(entries, req, total), nil
}

// NopAudit is used when no audit database is configured. List always
// returns an empty page.
type NopAudit struct{}

func (NopAudit) Record(context.Context, models.AuditEntry) error { return nil }

func (NopAudit) List(_ context.Context, page, limit int) (*query.Page[models.AuditEntry], error) {
	return query.NewPage[models.AuditEntry](nil, query.Request{Page: page, Limit: limit}.Normalize(), 0), nil
}

// recordAudit is best-effort: failures are logged and swallowed.
func recordAudit(ctx context.Context, audit AuditLog, e models.AuditEntry) {
	if audit == nil {
		return
	}
	if err := audit.Record(ctx, e); err != nil {
		log.Printf("⚠️  Failed to record audit entry %s %s/%s: %v", e.Action, e.TargetType, e.TargetID, err)
	}
}
