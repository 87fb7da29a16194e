package sqlite

import (
	"context"
	"fmt"
	"time"
)

// AddConnection subscribes a WebSocket connection to a campaign's progress.
func (s *Store) AddConnection(ctx context.Context, connectionID, campaignID string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO connections (connection_id, campaign_id, connected_at) VALUES (?, ?, ?)
		 ON CONFLICT (connection_id) DO UPDATE SET campaign_id = excluded.campaign_id`,
		connectionID, campaignID, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("add connection: %w", err)
	}
	return nil
}

// RemoveConnection deletes a WebSocket connection.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM connections WHERE connection_id = ?`, connectionID); err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	return nil
}

// ListConnections returns the connections subscribed to campaignID.
func (s *Store) ListConnections(ctx context.Context, campaignID string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT connection_id FROM connections WHERE campaign_id = ?`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
