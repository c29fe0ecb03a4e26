package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type User struct {
	ID             int64
	Username       string
	FirstName      string
	SunPoints      int
	WarningCount   int
	RaidsCompleted int
	IsAdmin        bool
	IsBanned       bool
	IsMuted        bool
	JoinedAt       time.Time
	LastActive     time.Time
}

type LeaderboardMetric string

const (
	MetricPoints LeaderboardMetric = "points"
	MetricRaids  LeaderboardMetric = "raids"
)

func (s *Store) GetOrCreateUser(ctx context.Context, id int64, username, firstName string) (User, error) {
	now := time.Now()
	user, err := s.GetUser(ctx, id)
	if err == nil {
		_, err = s.db.ExecContext(ctx, `UPDATE users SET last_active = ? WHERE id = ?`, now.Unix(), id)
		return user, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	if firstName == "" {
		firstName = "User"
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, joined_at, last_active)
		VALUES (?, ?, ?, ?, ?)
	`, id, username, firstName, now.Unix(), now.Unix())
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Username: username, FirstName: firstName, JoinedAt: now, LastActive: now}, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, first_name, sun_points, warning_count, raids_completed,
		is_admin, is_banned, is_muted, joined_at, last_active
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) IsAdmin(ctx context.Context, id int64) (bool, error) {
	return s.userFlag(ctx, id, "is_admin")
}

func (s *Store) IsBanned(ctx context.Context, id int64) (bool, error) {
	return s.userFlag(ctx, id, "is_banned")
}

func (s *Store) IsMuted(ctx context.Context, id int64) (bool, error) {
	return s.userFlag(ctx, id, "is_muted")
}

func (s *Store) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return s.setUserFlag(ctx, id, "is_admin", admin)
}

func (s *Store) SetBanned(ctx context.Context, id int64, banned bool) error {
	return s.setUserFlag(ctx, id, "is_banned", banned)
}

func (s *Store) SetMuted(ctx context.Context, id int64, muted bool) error {
	return s.setUserFlag(ctx, id, "is_muted", muted)
}

func (s *Store) AddSunPoints(ctx context.Context, id int64, points int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET sun_points = sun_points + ? WHERE id = ?`, points, id)
	return err
}

func (s *Store) Leaderboard(ctx context.Context, metric LeaderboardMetric, limit int) ([]User, error) {
	orderBy := "sun_points"
	if metric == MetricRaids {
		orderBy = "raids_completed"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, first_name, sun_points, warning_count, raids_completed,
		is_admin, is_banned, is_muted, joined_at, last_active
		FROM users ORDER BY `+orderBy+` DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) userFlag(ctx context.Context, id int64, column string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+column+` FROM users WHERE id = ?`, id)
	var value int
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return value == 1, nil
}

func (s *Store) setUserFlag(ctx context.Context, id int64, column string, value bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET `+column+` = ? WHERE id = ?`, boolToInt(value), id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var admin, banned, muted int
	var joined, active int64
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.SunPoints,
		&user.WarningCount,
		&user.RaidsCompleted,
		&admin,
		&banned,
		&muted,
		&joined,
		&active,
	)
	if err != nil {
		return User{}, err
	}
	user.IsAdmin = admin == 1
	user.IsBanned = banned == 1
	user.IsMuted = muted == 1
	user.JoinedAt = time.Unix(joined, 0)
	user.LastActive = time.Unix(active, 0)
	return user, nil
}
