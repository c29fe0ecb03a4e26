package storage

import (
	"context"
	"encoding/json"
	"time"
)

type Poll struct {
	ID        int64
	Question  string
	Options   []string
	CreatedBy int64
	CreatedAt time.Time
	EndsAt    *time.Time
}

type Vote struct {
	PollID      int64
	UserID      int64
	OptionIndex int
	CreatedAt   time.Time
}

func (s *Store) CreatePoll(ctx context.Context, question string, options []string, createdBy int64, endsAt *time.Time) (Poll, error) {
	encoded, err := json.Marshal(options)
	if err != nil {
		return Poll{}, err
	}
	now := time.Now()
	var ends any
	if endsAt != nil {
		ends = endsAt.Unix()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO polls (question, options, created_by, created_at, ends_at)
		VALUES (?, ?, ?, ?, ?)
	`, question, string(encoded), createdBy, now.Unix(), ends)
	if err != nil {
		return Poll{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Poll{}, err
	}
	return Poll{ID: id, Question: question, Options: options, CreatedBy: createdBy, CreatedAt: now, EndsAt: endsAt}, nil
}

func (s *Store) GetPoll(ctx context.Context, id int64) (Poll, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, options, created_by, created_at, ends_at FROM polls WHERE id = ?`, id)
	var poll Poll
	var encoded string
	var created int64
	var ends *int64
	if err := row.Scan(&poll.ID, &poll.Question, &encoded, &poll.CreatedBy, &created, &ends); err != nil {
		return Poll{}, err
	}
	if err := json.Unmarshal([]byte(encoded), &poll.Options); err != nil {
		return Poll{}, err
	}
	poll.CreatedAt = time.Unix(created, 0)
	if ends != nil {
		value := time.Unix(*ends, 0)
		poll.EndsAt = &value
	}
	return poll, nil
}

// Vote records one vote per {poll, user}. A second vote returns
// ErrAlreadyVoted and leaves the first untouched.
func (s *Store) Vote(ctx context.Context, pollID, userID int64, optionIndex int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_votes (poll_id, user_id, option_index, created_at)
		VALUES (?, ?, ?, ?)
	`, pollID, userID, optionIndex, time.Now().Unix())
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyVoted
	}
	return err
}

func (s *Store) VotesByPoll(ctx context.Context, pollID int64) ([]Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT poll_id, user_id, option_index, created_at FROM poll_votes WHERE poll_id = ?
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []Vote
	for rows.Next() {
		var vote Vote
		var created int64
		if err := rows.Scan(&vote.PollID, &vote.UserID, &vote.OptionIndex, &created); err != nil {
			return nil, err
		}
		vote.CreatedAt = time.Unix(created, 0)
		votes = append(votes, vote)
	}
	return votes, rows.Err()
}
