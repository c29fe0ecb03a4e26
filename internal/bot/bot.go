package bot

import (
	"context"
	"strings"
	"time"

	"sune-guardian/internal/config"
	"sune-guardian/internal/gate"
	"sune-guardian/internal/market"
	"sune-guardian/internal/session"
	"sune-guardian/internal/storage"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type Bot struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *storage.Store
	gate     *gate.Gate
	tracker  *gate.Tracker
	sessions *session.Store
	market   *market.Client
	bot      *tele.Bot
	stopCh   chan struct{}
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, moderationGate *gate.Gate, tracker *gate.Tracker, sessions *session.Store, marketClient *market.Client) (*Bot, error) {
	b := &Bot{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		gate:     moderationGate,
		tracker:  tracker,
		sessions: sessions,
		market:   marketClient,
		stopCh:   make(chan struct{}),
	}

	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("handler error", zap.Error(err))
			if c != nil {
				_ = c.Send("An unexpected error occurred. Please try again later.")
			}
		},
	})
	if err != nil {
		return nil, err
	}
	b.bot = tb
	return b, nil
}

func (b *Bot) Start() {
	b.bot.Use(b.directoryMiddleware)
	b.bot.Use(b.moderationMiddleware)

	b.registerHelpCommands()
	b.registerCryptoCommands()
	b.registerRaidCommands()
	b.registerCommunityCommands()
	b.registerModerationCommands()

	b.bot.Handle(tele.OnUserJoined, b.onUserJoined)
	b.bot.Handle(tele.OnText, b.onText)

	go b.sweepLoop()
	go b.bot.Start()
}

func (b *Bot) Stop() {
	close(b.stopCh)
	b.bot.Stop()
}

// directoryMiddleware upserts the sender's user record for every update.
func (b *Bot) directoryMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender != nil && !sender.IsBot {
			ctx := context.Background()
			if _, err := b.store.GetOrCreateUser(ctx, sender.ID, sender.Username, sender.FirstName); err != nil {
				b.logger.Warn("user upsert failed", zap.Int64("user_id", sender.ID), zap.Error(err))
			}
		}
		return next(c)
	}
}

// moderationMiddleware runs every non-command text message through the
// raid-mode check and the moderation gate before normal dispatch. Platform
// side effects are applied here from the verdict; all are best-effort.
func (b *Bot) moderationMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		msg := c.Message()
		sender := c.Sender()
		if msg == nil || sender == nil || sender.IsBot || c.Callback() != nil {
			return next(c)
		}
		if msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
			return next(c)
		}

		ctx := context.Background()

		if b.raidModeOn(ctx) && !b.isStoredAdmin(ctx, sender.ID) {
			b.deleteMessage(c)
			return nil
		}

		verdict := b.gate.Evaluate(ctx, sender.ID, msg.Text)
		switch verdict.Action {
		case gate.MuteSpam:
			b.restrictSender(c)
			b.deleteMessage(c)
			if err := c.Send("🚫 Spam detected. User has been muted."); err != nil {
				b.logger.Warn("spam notice failed", zap.Error(err))
			}
			return nil
		case gate.DeleteScam:
			// Silent removal; the warning is already recorded.
			b.deleteMessage(c)
			if verdict.AutoBanned {
				b.banSender(c)
			}
			return nil
		case gate.DeleteBanned:
			b.banSender(c)
			b.deleteMessage(c)
			return nil
		case gate.DeleteMuted:
			b.deleteMessage(c)
			return nil
		}

		return next(c)
	}
}

func (b *Bot) onText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if raidID, ok := b.sessions.TakeProof(sender.ID); ok {
		return b.handleProofSubmission(c, raidID)
	}
	return nil
}

func (b *Bot) onUserJoined(c tele.Context) error {
	ctx := context.Background()
	joined := c.Message().UsersJoined
	if len(joined) == 0 && c.Message().UserJoined != nil {
		joined = []tele.User{*c.Message().UserJoined}
	}

	welcome, err := b.store.GetSetting(ctx, "welcome_message", "Welcome to the SUNE community! ☀️")
	if err != nil {
		b.logger.Warn("welcome setting read failed", zap.Error(err))
		welcome = "Welcome to the SUNE community! ☀️"
	}

	for _, member := range joined {
		if member.IsBot {
			continue
		}
		if _, err := b.store.GetOrCreateUser(ctx, member.ID, member.Username, member.FirstName); err != nil {
			b.logger.Warn("joined user upsert failed", zap.Int64("user_id", member.ID), zap.Error(err))
		}
		if err := c.Send(welcomeMessage(member.FirstName, welcome), tele.ModeMarkdown); err != nil {
			b.logger.Warn("welcome send failed", zap.Error(err))
		}
	}
	return nil
}

// sweepLoop bounds the tracker and session maps in long deployments.
func (b *Bot) sweepLoop() {
	ttl := time.Duration(b.cfg.Moderation.TrackerTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			evicted := b.tracker.Sweep(ttl)
			evicted += b.sessions.Sweep(2 * time.Hour)
			if evicted > 0 {
				b.logger.Debug("swept idle state", zap.Int("evicted", evicted))
			}
		case <-b.stopCh:
			return
		}
	}
}

func (b *Bot) raidModeOn(ctx context.Context) bool {
	value, err := b.store.GetSetting(ctx, "raid_mode", "false")
	if err != nil {
		b.logger.Warn("raid mode read failed", zap.Error(err))
		return false
	}
	return value == "true"
}

func (b *Bot) isStoredAdmin(ctx context.Context, userID int64) bool {
	admin, err := b.store.IsAdmin(ctx, userID)
	if err != nil {
		b.logger.Warn("admin read failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return admin
}

func (b *Bot) deleteMessage(c tele.Context) {
	if err := c.Delete(); err != nil {
		b.logger.Warn("message delete failed", zap.Error(err))
	}
}

func (b *Bot) restrictSender(c tele.Context) {
	member := &tele.ChatMember{
		User:            c.Sender(),
		RestrictedUntil: tele.Forever(),
		Rights: tele.Rights{
			CanSendMessages: false,
			CanSendMedia:    false,
			CanSendPolls:    false,
			CanSendOther:    false,
			CanAddPreviews:  false,
		},
	}
	if err := b.bot.Restrict(c.Chat(), member); err != nil {
		b.logger.Warn("restrict failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
	}
}

func (b *Bot) banSender(c tele.Context) {
	b.banUser(c.Chat(), c.Sender().ID)
}

func (b *Bot) banUser(chat *tele.Chat, userID int64) {
	if chat == nil {
		return
	}
	member := &tele.ChatMember{User: &tele.User{ID: userID}}
	if err := b.bot.Ban(chat, member); err != nil {
		b.logger.Warn("platform ban failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (b *Bot) dm(userID int64, text string) {
	if _, err := b.bot.Send(&tele.User{ID: userID}, text); err != nil {
		b.logger.Debug("dm failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
