package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sune-guardian/internal/storage"
	"sune-guardian/internal/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const defaultRaidReward = 10

func (b *Bot) registerRaidCommands() {
	b.bot.Handle("/raid", func(c tele.Context) error {
		raids, err := b.store.ActiveRaids(context.Background())
		if err != nil {
			b.logger.Error("active raids read failed", zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		if len(raids) == 0 {
			return c.Send("No active raids at the moment! Check back soon. ☀️")
		}

		raid := raids[0]
		markup := &tele.ReplyMarkup{}
		join := markup.URL("Join Raid", raid.URL)
		proof := markup.Data("Submit Proof", "submit_proof", strconv.FormatInt(raid.ID, 10))
		markup.Inline(markup.Row(join), markup.Row(proof))
		return c.Send(raidMessage(raid), markup, tele.ModeMarkdown)
	})

	b.bot.Handle(&tele.Btn{Unique: "submit_proof"}, func(c tele.Context) error {
		args := c.Args()
		if len(args) < 1 {
			return c.Respond(&tele.CallbackResponse{Text: "This raid is no longer valid."})
		}
		raidID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "This raid is no longer valid."})
		}

		b.sessions.AwaitProof(c.Sender().ID, raidID)
		if err := c.Respond(&tele.CallbackResponse{}); err != nil {
			b.logger.Debug("callback respond failed", zap.Error(err))
		}
		return c.Send("Great! Please send your proof (screenshot URL or tweet link) for this raid.\n\nSend it as a message now:")
	})

	b.bot.Handle("/createraid", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}

		title, url, description, points, err := parseCreateRaidArgs(c.Message().Text)
		if err != nil {
			return c.Send("Usage:\n/createraid\nTitle\nURL\nDescription (optional)\nPoints (optional, default 10)")
		}

		raid, err := b.store.CreateRaid(context.Background(), title, url, description, c.Sender().ID, points)
		if err != nil {
			b.logger.Error("raid create failed", zap.Error(err))
			return c.Send("Failed to create raid. Please try again.")
		}
		return c.Send(fmt.Sprintf("✅ Raid created successfully!\n\n**%s**\nReward: %d Sun Points ☀️", raid.Title, raid.PointsReward), tele.ModeMarkdown)
	})

	b.bot.Handle("/leaderboard", func(c tele.Context) error {
		return b.sendLeaderboard(c, storage.MetricPoints)
	})

	b.bot.Handle("/raidleaderboard", func(c tele.Context) error {
		return b.sendLeaderboard(c, storage.MetricRaids)
	})

	b.bot.Handle("/approveraid", func(c tele.Context) error {
		if !b.requireAdmin(c) {
			return nil
		}

		reviews, err := b.store.PendingReviews(context.Background(), 10)
		if err != nil {
			b.logger.Error("pending reviews read failed", zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		if len(reviews) == 0 {
			return c.Send("No pending raid submissions to review.")
		}

		for _, review := range reviews {
			markup := &tele.ReplyMarkup{}
			approve := markup.Data("✅ Approve", "raid_approve",
				strconv.FormatInt(review.Participation.ID, 10),
				strconv.FormatInt(review.Participation.UserID, 10))
			reject := markup.Data("❌ Reject", "raid_reject",
				strconv.FormatInt(review.Participation.ID, 10))
			markup.Inline(markup.Row(approve, reject))

			if err := c.Send(reviewMessage(review), markup, tele.ModeMarkdown); err != nil {
				return err
			}
		}
		return nil
	})

	b.bot.Handle(&tele.Btn{Unique: "raid_approve"}, func(c tele.Context) error {
		if !b.isStoredAdmin(context.Background(), c.Sender().ID) {
			return c.Respond(&tele.CallbackResponse{Text: "Only admins can approve raids."})
		}
		args := c.Args()
		if len(args) < 2 {
			return c.Respond(&tele.CallbackResponse{Text: "This review is no longer valid."})
		}
		participationID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "This review is no longer valid."})
		}
		userID, _ := strconv.ParseInt(args[1], 10, 64)

		credited, err := b.store.ApproveParticipation(context.Background(), participationID)
		if err != nil {
			b.logger.Error("raid approval failed", zap.Int64("participation_id", participationID), zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: "An error occurred."})
		}
		if !credited {
			return c.Respond(&tele.CallbackResponse{Text: "Already reviewed."})
		}

		if err := c.Respond(&tele.CallbackResponse{Text: "✅ Raid approved!"}); err != nil {
			b.logger.Debug("callback respond failed", zap.Error(err))
		}
		if err := c.Edit(c.Message().Text+"\n\n✅ **APPROVED**", tele.ModeMarkdown); err != nil {
			b.logger.Debug("review edit failed", zap.Error(err))
		}
		b.dm(userID, "🎉 Your raid submission was approved! Sun Points have been added to your account. ☀️")
		return nil
	})

	b.bot.Handle(&tele.Btn{Unique: "raid_reject"}, func(c tele.Context) error {
		if !b.isStoredAdmin(context.Background(), c.Sender().ID) {
			return c.Respond(&tele.CallbackResponse{Text: "Only admins can reject raids."})
		}
		args := c.Args()
		if len(args) < 1 {
			return c.Respond(&tele.CallbackResponse{Text: "This review is no longer valid."})
		}
		participationID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "This review is no longer valid."})
		}

		if err := b.store.RejectParticipation(context.Background(), participationID); err != nil {
			b.logger.Error("raid rejection failed", zap.Int64("participation_id", participationID), zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: "An error occurred."})
		}

		if err := c.Respond(&tele.CallbackResponse{Text: "❌ Raid rejected"}); err != nil {
			b.logger.Debug("callback respond failed", zap.Error(err))
		}
		if err := c.Edit(c.Message().Text+"\n\n❌ **REJECTED**", tele.ModeMarkdown); err != nil {
			b.logger.Debug("review edit failed", zap.Error(err))
		}
		return nil
	})
}

func (b *Bot) handleProofSubmission(c tele.Context, raidID int64) error {
	proof := strings.TrimSpace(c.Message().Text)
	if proof == "" {
		return c.Send("Please send a screenshot URL or tweet link as your proof.")
	}
	if normalized, _, err := utils.NormalizeURL(proof); err == nil {
		proof = normalized
	}

	_, err := b.store.SubmitProof(context.Background(), raidID, c.Sender().ID, proof)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadySubmitted) {
			return c.Send("❌ Failed to submit proof. You may have already submitted for this raid.")
		}
		b.logger.Error("proof submit failed", zap.Int64("raid_id", raidID), zap.Error(err))
		return c.Send("An error occurred. Please try again later.")
	}
	return c.Send("✅ Proof submitted successfully! An admin will review it soon.\n\nKeep shining! ☀️")
}

func (b *Bot) sendLeaderboard(c tele.Context, metric storage.LeaderboardMetric) error {
	leaders, err := b.store.Leaderboard(context.Background(), metric, 10)
	if err != nil {
		b.logger.Error("leaderboard read failed", zap.Error(err))
		return c.Send("An error occurred. Please try again later.")
	}
	if len(leaders) == 0 {
		if metric == storage.MetricRaids {
			return c.Send("No raid data yet. Be the first to raid! ☀️")
		}
		return c.Send("No leaderboard data yet. Start raiding to earn points! ☀️")
	}
	return c.Send(leaderboardMessage(leaders, metric), tele.ModeMarkdown)
}

func raidMessage(raid storage.Raid) string {
	description := raid.Description
	if description == "" {
		description = "Help us grow the SUNE community!"
	}
	return fmt.Sprintf(`🚀 **ACTIVE RAID** 🚀

**%s**

%s

**Target:** %s

**Reward:** %d Sun Points ☀️

**Instructions:**
1. Click "Join Raid" below
2. Go to the link and engage (like, retweet, comment)
3. Click "Submit Proof" and send screenshot or tweet URL
4. Earn your Sun Points!

Let's shine together! ☀️`, raid.Title, description, raid.URL, raid.PointsReward)
}

func reviewMessage(review storage.PendingReview) string {
	proof := review.Participation.ProofURL
	if proof == "" {
		proof = "No proof provided"
	}
	return fmt.Sprintf("**Raid Submission Review**\n\nUser: %s\nRaid: %s\nProof: %s",
		displayName(review.Username, review.FirstName), review.RaidTitle, proof)
}

func leaderboardMessage(leaders []storage.User, metric storage.LeaderboardMetric) string {
	var sb strings.Builder
	if metric == storage.MetricRaids {
		sb.WriteString("🚀 **RAID LEADERBOARD** 🚀\n\n")
	} else {
		sb.WriteString("🏆 **SUN POINTS LEADERBOARD** ☀️\n\n")
	}

	for i, user := range leaders {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		if metric == storage.MetricRaids {
			sb.WriteString(fmt.Sprintf("%s %s: **%d** raids\n", medal, displayName(user.Username, user.FirstName), user.RaidsCompleted))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s: **%d** points\n", medal, displayName(user.Username, user.FirstName), user.SunPoints))
		}
	}

	if metric == storage.MetricRaids {
		sb.WriteString("\n_Keep raiding, sun warriors!_ ☀️")
	} else {
		sb.WriteString("\n_Keep shining, sun fam!_ ☀️")
	}
	return sb.String()
}

func displayName(username, firstName string) string {
	if username != "" {
		return "@" + username
	}
	return firstName
}

// parseCreateRaidArgs reads the multiline /createraid form: title and URL
// required, description and points optional.
func parseCreateRaidArgs(text string) (title, url, description string, points int, err error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return "", "", "", 0, errors.New("title and url required")
	}

	title = strings.TrimSpace(lines[1])
	rawURL := strings.TrimSpace(lines[2])
	if title == "" || rawURL == "" {
		return "", "", "", 0, errors.New("title and url required")
	}
	url, _, err = utils.NormalizeURL(rawURL)
	if err != nil {
		return "", "", "", 0, err
	}

	if len(lines) > 3 {
		description = strings.TrimSpace(lines[3])
	}
	points = defaultRaidReward
	if len(lines) > 4 {
		if parsed, parseErr := strconv.Atoi(strings.TrimSpace(lines[4])); parseErr == nil && parsed > 0 {
			points = parsed
		}
	}
	return title, url, description, points, nil
}
