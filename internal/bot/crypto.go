package bot

import (
	"context"
	"fmt"

	"sune-guardian/internal/market"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (b *Bot) registerCryptoCommands() {
	b.bot.Handle("/price", func(c tele.Context) error {
		quote, err := b.market.Price(context.Background())
		if err != nil {
			b.logger.Warn("price fetch failed", zap.Error(err))
			return c.Send("Unable to fetch price at the moment. Please try again later.")
		}

		mood := "📊 Stay positive!"
		if quote.Change24h > 0 {
			mood = "📈 Keep shining!"
		}
		message := fmt.Sprintf(`💰 **$SUNE Price** ☀️

**Price:** $%.8f
**Market Cap:** $%s
**24h Volume:** $%s
**24h Change:** %.2f%%

%s`,
			quote.PriceUSD,
			market.FormatNumber(quote.MarketCap),
			market.FormatNumber(quote.Volume24h),
			quote.Change24h,
			mood)
		return c.Send(message, tele.ModeMarkdown)
	})

	b.bot.Handle("/chart", func(c tele.Context) error {
		address := b.cfg.Token.ContractAddress
		markup := &tele.ReplyMarkup{}
		dex := markup.URL("📈 DexScreener", "https://dexscreener.com/solana/"+address)
		bird := markup.URL("🦅 Birdeye", "https://birdeye.so/token/"+address+"?chain=solana")
		markup.Inline(markup.Row(dex), markup.Row(bird))
		return c.Send("📊 **$SUNE Charts** ☀️\n\nView live charts on:", markup, tele.ModeMarkdown)
	})

	b.bot.Handle("/contract", func(c tele.Context) error {
		address := b.cfg.Token.ContractAddress
		message := fmt.Sprintf(`📜 **$SUNE Contract Information** ☀️

**Contract Address:**
`+"`%s`"+`

**Network:** Solana
**Token:** $SUNE

**Official Links:**
🐦 Twitter: %s
💬 Telegram: %s

_Always verify the contract address before trading!_`,
			address, b.cfg.Token.Twitter, b.cfg.Token.Telegram)

		markup := &tele.ReplyMarkup{}
		solscan := markup.URL("🔍 View on Solscan", "https://solscan.io/token/"+address)
		bird := markup.URL("🦅 View on Birdeye", "https://birdeye.so/token/"+address+"?chain=solana")
		markup.Inline(markup.Row(solscan), markup.Row(bird))
		return c.Send(message, markup, tele.ModeMarkdown)
	})

	b.bot.Handle("/buy", func(c tele.Context) error {
		address := b.cfg.Token.ContractAddress
		markup := &tele.ReplyMarkup{}
		jupiter := markup.URL("🪐 Jupiter", "https://jup.ag/swap/SOL-"+address)
		raydium := markup.URL("⚡ Raydium", "https://raydium.io/swap/?inputCurrency=sol&outputCurrency="+address)
		markup.Inline(markup.Row(jupiter), markup.Row(raydium))
		return c.Send("🛒 **Buy $SUNE** ☀️\n\nGet your $SUNE tokens on these platforms:", markup, tele.ModeMarkdown)
	})

	b.bot.Handle("/holders", func(c tele.Context) error {
		holders, ok, err := b.market.Holders(context.Background())
		if err != nil {
			b.logger.Warn("holders fetch failed", zap.Error(err))
			return c.Send("Unable to fetch holder data at the moment. Please try again later.")
		}
		value := "N/A"
		if ok {
			value = fmt.Sprintf("%d", holders)
		}
		message := fmt.Sprintf("👥 **$SUNE Holders** ☀️\n\n**Total Holders:** %s\n\nJoin the sun fam! ☀️", value)
		return c.Send(message, tele.ModeMarkdown)
	})
}
