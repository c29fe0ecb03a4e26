package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (b *Bot) registerModerationCommands() {
	b.bot.Handle("/warn", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}
		target := replyTarget(c)
		if target == nil {
			return c.Send("Please reply to a message to warn the user.")
		}

		reason := c.Message().Payload
		if reason == "" {
			reason = "No reason provided"
		}

		ctx := context.Background()
		issuer := c.Sender().ID
		count, autoBanned, err := b.store.AddWarning(ctx, target.ID, reason, &issuer, b.cfg.Moderation.MaxWarnings)
		if err != nil {
			b.logger.Error("warning append failed", zap.Int64("user_id", target.ID), zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}

		message := fmt.Sprintf("⚠️ Warning issued to user.\n\nTotal warnings: %d/%d", count, b.cfg.Moderation.MaxWarnings)
		if autoBanned {
			message += "\n\n🚫 User has been automatically banned for reaching the warning limit."
			b.banUser(c.Chat(), target.ID)
		}
		if err := c.Send(message); err != nil {
			return err
		}

		chatTitle := ""
		if c.Chat() != nil {
			chatTitle = c.Chat().Title
		}
		b.dm(target.ID, fmt.Sprintf("⚠️ You have received a warning in %s.\n\nReason: %s\n\nWarnings: %d/%d",
			chatTitle, reason, count, b.cfg.Moderation.MaxWarnings))
		return nil
	})

	b.bot.Handle("/mute", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}
		target := replyTarget(c)
		if target == nil {
			return c.Send("Please reply to a message to mute the user.")
		}

		if err := b.store.SetMuted(context.Background(), target.ID, true); err != nil {
			b.logger.Error("mute flag update failed", zap.Int64("user_id", target.ID), zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		b.restrictUser(c.Chat(), target, false)
		return c.Send("🔇 User has been muted.")
	})

	b.bot.Handle("/unmute", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}
		target := replyTarget(c)
		if target == nil {
			return c.Send("Please reply to a message to unmute the user.")
		}

		if err := b.store.SetMuted(context.Background(), target.ID, false); err != nil {
			b.logger.Error("unmute flag update failed", zap.Int64("user_id", target.ID), zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		b.restrictUser(c.Chat(), target, true)
		return c.Send("🔊 User has been unmuted.")
	})

	b.bot.Handle("/ban", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}
		target := replyTarget(c)
		if target == nil {
			return c.Send("Please reply to a message to ban the user.")
		}

		if err := b.store.SetBanned(context.Background(), target.ID, true); err != nil {
			b.logger.Error("ban flag update failed", zap.Int64("user_id", target.ID), zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		b.banUser(c.Chat(), target.ID)
		return c.Send("🚫 User has been banned.")
	})

	b.bot.Handle("/setadmin", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}
		target := replyTarget(c)
		if target == nil {
			return c.Send("Please reply to a message to set the user as admin.")
		}

		if err := b.store.SetAdmin(context.Background(), target.ID, true); err != nil {
			b.logger.Error("admin flag update failed", zap.Int64("user_id", target.ID), zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		return c.Send("✅ User has been set as admin.")
	})

	b.bot.Handle("/raidmode", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}

		ctx := context.Background()
		current, err := b.store.GetSetting(ctx, "raid_mode", "false")
		if err != nil {
			b.logger.Error("raid mode read failed", zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}

		next := "true"
		status := "enabled"
		detail := "Chat is now locked for non-admins."
		if current == "true" {
			next = "false"
			status = "disabled"
			detail = "Chat restrictions lifted."
		}
		if err := b.store.SetSetting(ctx, "raid_mode", next); err != nil {
			b.logger.Error("raid mode update failed", zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		return c.Send(fmt.Sprintf("🛡️ Raid mode %s.\n\n%s", status, detail))
	})
}

func (b *Bot) requireAdmin(c tele.Context) bool {
	if b.isStoredAdmin(context.Background(), c.Sender().ID) {
		return true
	}
	_ = c.Send("This command is only available to admins.")
	return false
}

func replyTarget(c tele.Context) *tele.User {
	msg := c.Message()
	if msg == nil || msg.ReplyTo == nil {
		return nil
	}
	return msg.ReplyTo.Sender
}

func (b *Bot) restrictUser(chat *tele.Chat, user *tele.User, allow bool) {
	if chat == nil {
		return
	}
	member := &tele.ChatMember{
		User:            user,
		RestrictedUntil: tele.Forever(),
		Rights: tele.Rights{
			CanSendMessages: allow,
			CanSendMedia:    allow,
			CanSendPolls:    allow,
			CanSendOther:    allow,
			CanAddPreviews:  allow,
		},
	}
	if err := b.bot.Restrict(chat, member); err != nil {
		b.logger.Warn("restrict failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}
