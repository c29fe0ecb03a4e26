package gate

import (
	"context"

	"go.uber.org/zap"
)

type Action int

const (
	Allow Action = iota
	MuteSpam
	DeleteScam
	DeleteBanned
	DeleteMuted
)

const ScamWarningReason = "Potential scam message detected"

// Verdict separates the committed state mutation from the platform side
// effects the caller still has to attempt (delete, restrict, notify).
type Verdict struct {
	Action       Action
	MessageCount int
	WarningCount int
	AutoBanned   bool
}

// Directory is the persisted user record the gate consults on every
// message. Flags are re-read each call; nothing is cached.
type Directory interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	IsBanned(ctx context.Context, userID int64) (bool, error)
	IsMuted(ctx context.Context, userID int64) (bool, error)
	SetMuted(ctx context.Context, userID int64, muted bool) error
	AddWarning(ctx context.Context, userID int64, reason string, issuedBy *int64, maxWarnings int) (count int, autoBanned bool, err error)
}

type Gate struct {
	tracker     *Tracker
	filter      *Filter
	directory   Directory
	logger      *zap.Logger
	maxWarnings int
}

func New(tracker *Tracker, filter *Filter, directory Directory, logger *zap.Logger, maxWarnings int) *Gate {
	return &Gate{
		tracker:     tracker,
		filter:      filter,
		directory:   directory,
		logger:      logger,
		maxWarnings: maxWarnings,
	}
}

// Evaluate runs the moderation checks in fixed order, first match wins:
// rate burst, scam phrase, stale ban, stale mute. Admins are exempt from
// everything except the ban check; a flagged-banned admin is still removed.
// Directory read failures fall back to the permissive side so a storage
// outage never locks the chat.
func (g *Gate) Evaluate(ctx context.Context, userID int64, text string) Verdict {
	over, count := g.tracker.RecordAndCheck(userID)
	admin := g.readFlag(ctx, userID, g.directory.IsAdmin, "is_admin")

	if over && !admin {
		if err := g.directory.SetMuted(ctx, userID, true); err != nil {
			g.logger.Warn("mute flag update failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return Verdict{Action: MuteSpam, MessageCount: count}
	}

	if g.filter.Suspicious(text) && !admin {
		warnings, autoBanned, err := g.directory.AddWarning(ctx, userID, ScamWarningReason, nil, g.maxWarnings)
		if err != nil {
			g.logger.Warn("scam warning append failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return Verdict{Action: DeleteScam, MessageCount: count, WarningCount: warnings, AutoBanned: autoBanned}
	}

	if g.readFlag(ctx, userID, g.directory.IsBanned, "is_banned") {
		return Verdict{Action: DeleteBanned, MessageCount: count}
	}

	if g.readFlag(ctx, userID, g.directory.IsMuted, "is_muted") && !admin {
		return Verdict{Action: DeleteMuted, MessageCount: count}
	}

	return Verdict{Action: Allow, MessageCount: count}
}

func (g *Gate) readFlag(ctx context.Context, userID int64, read func(context.Context, int64) (bool, error), name string) bool {
	value, err := read(ctx, userID)
	if err != nil {
		g.logger.Warn("directory read failed", zap.String("flag", name), zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return value
}
