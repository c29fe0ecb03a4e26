package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"sune-guardian/internal/storage"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var gmReplies = []string{
	"GM sunshine! ☀️ Rise and shine!",
	"GM! Another beautiful day in the SUNE fam! 🌅",
	"Good morning, sun warrior! ☀️ Let's make today bright!",
	"GM GM! The sun never sets on SUNE! 🌞",
	"Rise and grind, sun fam! ☀️",
}

var shineReplies = []string{
	"✨ You're absolutely glowing today! ✨",
	"☀️ Shine bright like the SUNE you are! ☀️",
	"🌟 The whole chain can see your light! 🌟",
	"💛 Keep that golden energy flowing! 💛",
	"🌞 Radiating pure sunshine vibes! 🌞",
}

type spinOutcome struct {
	points int
	weight float64
}

// spinTable holds the wheel in order; weights sum to 1.
var spinTable = []spinOutcome{
	{points: 50, weight: 0.05},
	{points: 25, weight: 0.10},
	{points: 10, weight: 0.20},
	{points: 5, weight: 0.30},
	{points: 0, weight: 0.35},
}

type triviaQuestion struct {
	question string
	options  []string
	correct  int
}

var triviaQuestions = []triviaQuestion{
	{
		question: "Which blockchain is SUNE built on?",
		options:  []string{"Ethereum", "Solana", "BNB Chain", "Polygon"},
		correct:  1,
	},
	{
		question: "What do you earn for completing raids?",
		options:  []string{"Moon Tokens", "Star Dust", "Sun Points", "Light Coins"},
		correct:  2,
	},
	{
		question: "What will an admin NEVER do?",
		options:  []string{"Post memes", "DM you first", "Run raids", "Answer questions"},
		correct:  1,
	},
}

func (b *Bot) registerCommunityCommands() {
	b.bot.Handle("/gm", func(c tele.Context) error {
		return c.Send(gmReplies[rand.Intn(len(gmReplies))])
	})

	b.bot.Handle("/shine", func(c tele.Context) error {
		return c.Send(shineReplies[rand.Intn(len(shineReplies))])
	})

	b.bot.Handle("/mystats", func(c tele.Context) error {
		user, err := b.store.GetUser(context.Background(), c.Sender().ID)
		if err != nil {
			b.logger.Error("stats read failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
			return c.Send("An error occurred. Please try again later.")
		}
		return c.Send(statsMessage(user, b.cfg.Moderation.MaxWarnings), tele.ModeMarkdown)
	})

	b.bot.Handle("/poll", func(c tele.Context) error {
		question, options, err := parsePollArgs(c.Message().Text)
		if err != nil {
			return c.Send("Usage:\n/poll\nQuestion\nOption 1\nOption 2\n...")
		}

		poll, err := b.store.CreatePoll(context.Background(), question, options, c.Sender().ID, nil)
		if err != nil {
			b.logger.Error("poll create failed", zap.Error(err))
			return c.Send("Failed to create poll. Please try again.")
		}

		markup := &tele.ReplyMarkup{}
		rows := make([]tele.Row, 0, len(options))
		for i, option := range options {
			btn := markup.Data(option, "poll_vote",
				strconv.FormatInt(poll.ID, 10), strconv.Itoa(i))
			rows = append(rows, markup.Row(btn))
		}
		markup.Inline(rows...)
		return c.Send(fmt.Sprintf("📊 **POLL**\n\n%s\n\nVote below! 👇", question), markup, tele.ModeMarkdown)
	})

	b.bot.Handle(&tele.Btn{Unique: "poll_vote"}, func(c tele.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Respond(&tele.CallbackResponse{Text: "This poll is no longer valid."})
		}
		pollID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "This poll is no longer valid."})
		}
		optionIndex, err := strconv.Atoi(args[1])
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "This poll is no longer valid."})
		}

		ctx := context.Background()
		if err := b.store.Vote(ctx, pollID, c.Sender().ID, optionIndex); err != nil {
			if errors.Is(err, storage.ErrAlreadyVoted) {
				return c.Respond(&tele.CallbackResponse{Text: "You have already voted in this poll!"})
			}
			b.logger.Error("poll vote failed", zap.Int64("poll_id", pollID), zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: "An error occurred."})
		}

		if err := c.Respond(&tele.CallbackResponse{Text: "Vote recorded! ✅"}); err != nil {
			b.logger.Debug("callback respond failed", zap.Error(err))
		}

		poll, err := b.store.GetPoll(ctx, pollID)
		if err != nil {
			b.logger.Warn("poll read failed", zap.Int64("poll_id", pollID), zap.Error(err))
			return nil
		}
		votes, err := b.store.VotesByPoll(ctx, pollID)
		if err != nil {
			b.logger.Warn("poll votes read failed", zap.Int64("poll_id", pollID), zap.Error(err))
			return nil
		}
		if err := c.Edit(pollResultsMessage(poll.Question, poll.Options, votes), tele.ModeMarkdown); err != nil {
			b.logger.Debug("poll edit failed", zap.Error(err))
		}
		return nil
	})

	b.bot.Handle("/spin", func(c tele.Context) error {
		cooldown := time.Duration(b.cfg.Games.SpinCooldownMinutes) * time.Minute
		if last, ok := b.sessions.LastSpin(c.Sender().ID); ok {
			remaining := cooldown - time.Since(last)
			if remaining > 0 {
				minutes := int(remaining.Minutes()) + 1
				return c.Send(fmt.Sprintf("⏳ The wheel needs to recharge! Try again in %d minutes.", minutes))
			}
		}

		points := pickSpinOutcome(rand.Float64())
		b.sessions.MarkSpin(c.Sender().ID)

		if points > 0 {
			if err := b.store.AddSunPoints(context.Background(), c.Sender().ID, points); err != nil {
				b.logger.Error("spin credit failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
				return c.Send("An error occurred. Please try again later.")
			}
			return c.Send(fmt.Sprintf("🎰 The wheel spins... ☀️\n\nYou won **%d Sun Points**! 🎉", points), tele.ModeMarkdown)
		}
		return c.Send("🎰 The wheel spins... 🌑\n\nNo luck this time! Come back in an hour. ☀️")
	})

	b.bot.Handle("/trivia", func(c tele.Context) error {
		q := triviaQuestions[rand.Intn(len(triviaQuestions))]
		b.sessions.SetTrivia(c.Sender().ID, q.correct)

		markup := &tele.ReplyMarkup{}
		rows := make([]tele.Row, 0, len(q.options))
		for i, option := range q.options {
			btn := markup.Data(option, "trivia_answer", strconv.Itoa(i))
			rows = append(rows, markup.Row(btn))
		}
		markup.Inline(rows...)
		return c.Send(fmt.Sprintf("🧠 **SUNE TRIVIA**\n\n%s\n\nReward: %d Sun Points ☀️", q.question, b.cfg.Games.TriviaReward), markup, tele.ModeMarkdown)
	})

	b.bot.Handle(&tele.Btn{Unique: "trivia_answer"}, func(c tele.Context) error {
		args := c.Args()
		if len(args) < 1 {
			return c.Respond(&tele.CallbackResponse{Text: "This trivia is no longer valid."})
		}
		answer, err := strconv.Atoi(args[0])
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "This trivia is no longer valid."})
		}

		correct, ok := b.sessions.TakeTrivia(c.Sender().ID)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "This trivia has expired. Try /trivia again!"})
		}

		if answer != correct {
			if err := c.Respond(&tele.CallbackResponse{Text: "❌ Not quite! Try another /trivia."}); err != nil {
				b.logger.Debug("callback respond failed", zap.Error(err))
			}
			return c.Edit(c.Message().Text+"\n\n❌ Wrong answer!", tele.ModeMarkdown)
		}

		if err := b.store.AddSunPoints(context.Background(), c.Sender().ID, b.cfg.Games.TriviaReward); err != nil {
			b.logger.Error("trivia credit failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: "An error occurred."})
		}
		if err := c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("✅ Correct! +%d Sun Points!", b.cfg.Games.TriviaReward)}); err != nil {
			b.logger.Debug("callback respond failed", zap.Error(err))
		}
		return c.Edit(c.Message().Text+fmt.Sprintf("\n\n✅ Answered correctly! +%d Sun Points ☀️", b.cfg.Games.TriviaReward), tele.ModeMarkdown)
	})
}

// pickSpinOutcome maps a uniform roll in [0,1) onto the weighted wheel.
func pickSpinOutcome(roll float64) int {
	cumulative := 0.0
	for _, outcome := range spinTable {
		cumulative += outcome.weight
		if roll < cumulative {
			return outcome.points
		}
	}
	return spinTable[len(spinTable)-1].points
}

func statsMessage(user storage.User, maxWarnings int) string {
	return fmt.Sprintf(`📊 **Your SUNE Stats** ☀️

**Sun Points:** %d
**Raids Completed:** %d
**Warnings:** %d/%d
**Member Since:** %s

Keep shining! 🌞`,
		user.SunPoints, user.RaidsCompleted, user.WarningCount, maxWarnings,
		user.JoinedAt.Format("Jan 2, 2006"))
}

func parsePollArgs(text string) (question string, options []string, err error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 4 {
		return "", nil, errors.New("question and at least two options required")
	}
	question = strings.TrimSpace(lines[1])
	if question == "" {
		return "", nil, errors.New("question required")
	}
	for _, line := range lines[2:] {
		if option := strings.TrimSpace(line); option != "" {
			options = append(options, option)
		}
	}
	if len(options) < 2 {
		return "", nil, errors.New("at least two options required")
	}
	return question, options, nil
}

// pollResultsMessage renders live results with 20-segment bars.
func pollResultsMessage(question string, options []string, votes []storage.Vote) string {
	counts := make([]int, len(options))
	total := 0
	for _, vote := range votes {
		if vote.OptionIndex >= 0 && vote.OptionIndex < len(options) {
			counts[vote.OptionIndex]++
			total++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 **POLL**\n\n%s\n\n", question))
	for i, option := range options {
		percent := 0.0
		if total > 0 {
			percent = float64(counts[i]) / float64(total) * 100
		}
		filled := int(percent / 5)
		bar := strings.Repeat("▓", filled) + strings.Repeat("░", 20-filled)
		sb.WriteString(fmt.Sprintf("%s\n%s %.0f%% (%d)\n\n", option, bar, percent, counts[i]))
	}
	sb.WriteString(fmt.Sprintf("Total votes: %d", total))
	return sb.String()
}
