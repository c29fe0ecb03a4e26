package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const (
	RaidActive = "active"
	RaidClosed = "closed"

	ProofPending  = "pending"
	ProofApproved = "approved"
	ProofRejected = "rejected"
)

type Raid struct {
	ID           int64
	Title        string
	URL          string
	Description  string
	PointsReward int
	CreatedBy    int64
	Status       string
	CreatedAt    time.Time
}

type Participation struct {
	ID         int64
	RaidID     int64
	UserID     int64
	ProofURL   string
	Status     string
	CreatedAt  time.Time
	ReviewedAt *time.Time
}

// PendingReview joins a pending participation with its raid and user for
// the admin review flow.
type PendingReview struct {
	Participation Participation
	RaidTitle     string
	RaidReward    int
	Username      string
	FirstName     string
}

func (s *Store) CreateRaid(ctx context.Context, title, url, description string, createdBy int64, pointsReward int) (Raid, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO raids (title, url, description, points_reward, created_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, title, url, description, pointsReward, createdBy, RaidActive, now.Unix())
	if err != nil {
		return Raid{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Raid{}, err
	}
	return Raid{
		ID:           id,
		Title:        title,
		URL:          url,
		Description:  description,
		PointsReward: pointsReward,
		CreatedBy:    createdBy,
		Status:       RaidActive,
		CreatedAt:    now,
	}, nil
}

func (s *Store) ActiveRaids(ctx context.Context) ([]Raid, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, description, points_reward, created_by, status, created_at
		FROM raids WHERE status = ? ORDER BY created_at DESC
	`, RaidActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raids []Raid
	for rows.Next() {
		var raid Raid
		var created int64
		if err := rows.Scan(&raid.ID, &raid.Title, &raid.URL, &raid.Description, &raid.PointsReward, &raid.CreatedBy, &raid.Status, &created); err != nil {
			return nil, err
		}
		raid.CreatedAt = time.Unix(created, 0)
		raids = append(raids, raid)
	}
	return raids, rows.Err()
}

func (s *Store) GetRaid(ctx context.Context, id int64) (Raid, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, url, description, points_reward, created_by, status, created_at
		FROM raids WHERE id = ?`, id)
	var raid Raid
	var created int64
	err := row.Scan(&raid.ID, &raid.Title, &raid.URL, &raid.Description, &raid.PointsReward, &raid.CreatedBy, &raid.Status, &created)
	if err != nil {
		return Raid{}, err
	}
	raid.CreatedAt = time.Unix(created, 0)
	return raid, nil
}

// SubmitProof records one pending participation per {raid, user}. A second
// submission returns ErrAlreadySubmitted and leaves the first untouched.
func (s *Store) SubmitProof(ctx context.Context, raidID, userID int64, proofURL string) (Participation, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO raid_participants (raid_id, user_id, proof_url, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, raidID, userID, proofURL, ProofPending, now.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return Participation{}, ErrAlreadySubmitted
		}
		return Participation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Participation{}, err
	}
	return Participation{ID: id, RaidID: raidID, UserID: userID, ProofURL: proofURL, Status: ProofPending, CreatedAt: now}, nil
}

func (s *Store) PendingReviews(ctx context.Context, limit int) ([]PendingReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.raid_id, p.user_id, p.proof_url, p.status, p.created_at,
		r.title, r.points_reward, u.username, u.first_name
		FROM raid_participants p
		JOIN raids r ON r.id = p.raid_id
		JOIN users u ON u.id = p.user_id
		WHERE p.status = ?
		ORDER BY p.created_at ASC LIMIT ?
	`, ProofPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []PendingReview
	for rows.Next() {
		var review PendingReview
		var created int64
		err := rows.Scan(
			&review.Participation.ID,
			&review.Participation.RaidID,
			&review.Participation.UserID,
			&review.Participation.ProofURL,
			&review.Participation.Status,
			&created,
			&review.RaidTitle,
			&review.RaidReward,
			&review.Username,
			&review.FirstName,
		)
		if err != nil {
			return nil, err
		}
		review.Participation.CreatedAt = time.Unix(created, 0)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// ApproveParticipation moves a pending participation to approved and
// credits the raid's reward plus one completed raid to the participant.
// Only a pending row transitions, so a repeated approval is a no-op.
func (s *Store) ApproveParticipation(ctx context.Context, participationID int64) (credited bool, err error) {
	now := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var raidID, userID int64
	row := tx.QueryRowContext(ctx, `
		SELECT raid_id, user_id FROM raid_participants WHERE id = ? AND status = ?
	`, participationID, ProofPending)
	if scanErr := row.Scan(&raidID, &userID); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			_ = tx.Rollback()
			return false, nil
		}
		err = scanErr
		return false, err
	}

	var reward int
	row = tx.QueryRowContext(ctx, `SELECT points_reward FROM raids WHERE id = ?`, raidID)
	if err = row.Scan(&reward); err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE raid_participants SET status = ?, reviewed_at = ? WHERE id = ?
	`, ProofApproved, now.Unix(), participationID)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET sun_points = sun_points + ?, raids_completed = raids_completed + 1 WHERE id = ?
	`, reward, userID)
	if err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) RejectParticipation(ctx context.Context, participationID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE raid_participants SET status = ?, reviewed_at = ? WHERE id = ? AND status = ?
	`, ProofRejected, time.Now().Unix(), participationID, ProofPending)
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
