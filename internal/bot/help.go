package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v3"
)

const commandList = `**Crypto & Info:**
/price - Check $SUNE price
/chart - View live charts
/contract - Get contract details
/buy - Buy $SUNE
/holders - View holder count

**Raids & Rewards:**
/raid - View active raids
/leaderboard - Sun Points leaderboard
/raidleaderboard - Raid completion leaderboard
/mystats - Your personal stats

**Community & Fun:**
/gm - Morning greeting
/shine - Get encouraged
/poll - Create a poll
/spin - Spin for Sun Points (1hr cooldown)
/trivia - Answer trivia for points

**Admin Commands:**
/createraid - Create a new raid
/approveraid - Review raid submissions
/warn - Warn a user (reply to message)
/mute - Mute a user (reply to message)
/unmute - Unmute a user (reply to message)
/ban - Ban a user (reply to message)
/setadmin - Set a user as admin (reply to message)
/raidmode - Toggle raid protection mode`

func (b *Bot) registerHelpCommands() {
	b.bot.Handle("/start", func(c tele.Context) error {
		message := fmt.Sprintf(`👋 **Welcome to SUNE Guardian Bot!** ☀️

I'm here to help grow and protect the SUNE community with positivity and fun!

**📋 Available Commands:**

%s

**About $SUNE:**
Contract: `+"`%s`"+`
Twitter: %s
Telegram: %s

Let's keep it positive and shine together! ☀️`,
			commandList, b.cfg.Token.ContractAddress, b.cfg.Token.Twitter, b.cfg.Token.Telegram)
		return c.Send(message, tele.ModeMarkdown)
	})

	b.bot.Handle("/help", func(c tele.Context) error {
		message := fmt.Sprintf("📋 **SUNE Guardian Bot Commands** ☀️\n\n%s\n\nStay positive, stay shining! ☀️", commandList)
		return c.Send(message, tele.ModeMarkdown)
	})
}

func welcomeMessage(firstName, welcome string) string {
	return fmt.Sprintf(`Welcome %s! ☀️

%s

**About $SUNE:**
$SUNE is a community-driven token built on positivity, honesty, and fun. We're here for the long term!

**Get Started:**
/help - See all commands
/price - Check $SUNE price
/raid - Join active raids

Stay positive, stay shining! ☀️`, firstName, welcome)
}
