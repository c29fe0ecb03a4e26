package storage

import (
	"context"
	"time"
)

// SystemIssuer marks a warning issued by the bot itself rather than an
// admin. Stored as NULL issued_by.
var SystemIssuer *int64

type Warning struct {
	ID        int64
	UserID    int64
	Reason    string
	IssuedBy  *int64
	CreatedAt time.Time
}

// AddWarning appends a warning and bumps the user's warning count in one
// transaction. When the count reaches maxWarnings the user is banned in the
// same transaction; autoBanned reports true only on the crossing write, so
// a later warning never re-bans.
func (s *Store) AddWarning(ctx context.Context, userID int64, reason string, issuedBy *int64, maxWarnings int) (count int, autoBanned bool, err error) {
	now := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var issuer any
	if issuedBy != nil {
		issuer = *issuedBy
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO warnings (user_id, reason, issued_by, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, reason, issuer, now.Unix())
	if err != nil {
		return 0, false, err
	}

	var banned int
	row := tx.QueryRowContext(ctx, `SELECT warning_count, is_banned FROM users WHERE id = ?`, userID)
	if err = row.Scan(&count, &banned); err != nil {
		return 0, false, err
	}
	count++

	if maxWarnings > 0 && count >= maxWarnings && banned == 0 {
		autoBanned = true
		_, err = tx.ExecContext(ctx, `UPDATE users SET warning_count = ?, is_banned = 1 WHERE id = ?`, count, userID)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE users SET warning_count = ? WHERE id = ?`, count, userID)
	}
	if err != nil {
		return 0, false, err
	}

	if err = tx.Commit(); err != nil {
		return 0, false, err
	}
	return count, autoBanned, nil
}

func (s *Store) ListWarnings(ctx context.Context, userID int64) ([]Warning, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, reason, issued_by, created_at
		FROM warnings WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []Warning
	for rows.Next() {
		var w Warning
		var issuer *int64
		var created int64
		if err := rows.Scan(&w.ID, &w.UserID, &w.Reason, &issuer, &created); err != nil {
			return nil, err
		}
		w.IssuedBy = issuer
		w.CreatedAt = time.Unix(created, 0)
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}
