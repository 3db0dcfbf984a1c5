package db

import (
	"time"
)

// Activity is one journaled reconciliation outcome
type Activity struct {
	ID        int64
	Op        string
	GoalID    string
	Outcome   string
	Status    int
	Detail    string
	CreatedAt time.Time
}

// RecordActivity appends an entry to the activity journal
func (db *DB) RecordActivity(a Activity) error {
	_, err := db.Exec(`
		INSERT INTO activity (op, goal_id, outcome, status, detail) VALUES (?, ?, ?, ?, ?)
	`, a.Op, a.GoalID, a.Outcome, a.Status, a.Detail)
	return err
}

// ListActivity returns the most recent entries, newest first
func (db *DB) ListActivity(limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, op, goal_id, outcome, status, detail, created_at
		FROM activity
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Op, &a.GoalID, &a.Outcome, &a.Status, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// PruneActivity keeps only the newest keep entries
func (db *DB) PruneActivity(keep int) error {
	_, err := db.Exec(`
		DELETE FROM activity WHERE id NOT IN (
			SELECT id FROM activity ORDER BY id DESC LIMIT ?
		)
	`, keep)
	return err
}
