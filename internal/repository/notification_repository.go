package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/database"
)

// NotificationRepository reads the append-only outreach history owned by
// the outbound-messaging collaborator. The matching engine never writes
// to it.
type NotificationRepository interface {
	RecentRecipients(ctx context.Context, candidateIDs []uuid.UUID, since time.Time) (map[uuid.UUID]struct{}, error)
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) RecentRecipients(ctx context.Context, candidateIDs []uuid.UUID, since time.Time) (map[uuid.UUID]struct{}, error) {
	out := make(map[uuid.UUID]struct{})
	if len(candidateIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT candidate_id
		 FROM notifications
		 WHERE candidate_id = ANY($1) AND sent_at >= $2`,
		candidateIDs, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
