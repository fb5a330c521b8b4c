package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	payloadJSON, err := json.Marshal(n.Payload)
	if err != nil {
		return errors.NewQueryExecutionFailedError("marshal notification payload", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notifications
		 (id, target_user, triggered_by, type, booking_id, application_id, payload, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.TargetUser, n.TriggeredBy, n.Type,
		nullable(n.BookingID), nullable(n.ApplicationID),
		payloadJSON, n.Read, n.CreatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("insert notification", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
