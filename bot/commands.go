package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"arcadebot/models"
	"arcadebot/service"
)

func displayName(from *tgbotapi.User) string {
	if from.UserName != "" {
		return from.UserName
	}
	return from.FirstName
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.showWelcome(ctx, chatID, msg.From)
	case "help":
		b.showHelp(ctx, chatID, userID)
	case "credits":
		b.showCredits(ctx, chatID, msg.From)
	case "games":
		b.showGames(ctx, chatID, msg.From)
	case "daily":
		b.claimDaily(ctx, chatID, msg.From)
	case "stats":
		b.showStats(ctx, chatID, msg.From)
	case "cancel":
		b.cancelGame(ctx, chatID, userID)

	case "dice", "number", "quiz", "rps", "slots", "blackjack":
		b.startGame(ctx, chatID, msg.From, models.GameKind(msg.Command()))

	case "givepremium":
		b.adminGivePremium(ctx, chatID, userID, msg.CommandArguments())
	case "revokepremium":
		b.adminRevokePremium(ctx, chatID, userID, msg.CommandArguments())
	case "addcredits":
		b.adminAddCredits(ctx, chatID, userID, msg.CommandArguments())
	case "stats_global":
		b.adminGlobalStats(ctx, chatID, userID)

	default:
		b.sendText(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) showWelcome(ctx context.Context, chatID int64, from *tgbotapi.User) {
	user, err := b.services.Ledger.GetOrCreate(ctx, from.ID, displayName(from))
	if err != nil {
		log.WithError(err).Error("Failed to load user")
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendWithKeyboard(chatID, renderWelcome(from.FirstName, user.Credits), menuKeyboard())
}

func (b *Bot) showHelp(ctx context.Context, chatID, userID int64) {
	premium, err := b.services.Ledger.IsPremiumActive(ctx, userID)
	if err != nil {
		premium = false
	}
	b.sendText(chatID, renderHelp(premium, b.services.Admin.IsAdmin(userID)))
}

func (b *Bot) showCredits(ctx context.Context, chatID int64, from *tgbotapi.User) {
	user, err := b.services.Ledger.GetOrCreate(ctx, from.ID, displayName(from))
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	premium, err := b.services.Ledger.IsPremiumActive(ctx, from.ID)
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendWithKeyboard(chatID, renderCredits(user, premium), creditsKeyboard())
}

func (b *Bot) showGames(ctx context.Context, chatID int64, from *tgbotapi.User) {
	user, err := b.services.Ledger.GetOrCreate(ctx, from.ID, displayName(from))
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	premium, err := b.services.Ledger.IsPremiumActive(ctx, from.ID)
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendWithKeyboard(chatID, renderGames(user, premium), gamesKeyboard(premium))
}

func (b *Bot) claimDaily(ctx context.Context, chatID int64, from *tgbotapi.User) {
	if _, err := b.services.Ledger.GetOrCreate(ctx, from.ID, displayName(from)); err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}

	reward, user, err := b.services.Daily.Claim(ctx, from.ID)
	if err != nil {
		b.sendWithKeyboard(chatID, friendlyError(err), backToMenuKeyboard())
		return
	}
	premium, _ := b.services.Ledger.IsPremiumActive(ctx, from.ID)
	b.sendWithKeyboard(chatID, renderDailyClaim(reward, user.Credits, premium), creditsKeyboard())
}

func (b *Bot) showStats(ctx context.Context, chatID int64, from *tgbotapi.User) {
	if _, err := b.services.Ledger.GetOrCreate(ctx, from.ID, displayName(from)); err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}

	stats, err := b.services.Stats.UserStats(ctx, from.ID)
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendWithKeyboard(chatID, renderStats(stats, stats.User.IsPremium), backToMenuKeyboard())
}

func (b *Bot) cancelGame(ctx context.Context, chatID, userID int64) {
	if err := b.services.Games.Cancel(ctx, userID); err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendWithKeyboard(chatID, "Game abandoned. Your stake is forfeit.", gamesKeyboard(false))
}

// startGame begins a session and sends the opening prompt, or the final
// result for games that settle on the spot.
func (b *Bot) startGame(ctx context.Context, chatID int64, from *tgbotapi.User, kind models.GameKind) {
	res, err := b.services.Games.Start(ctx, from.ID, displayName(from), kind)
	if err != nil {
		b.sendWithKeyboard(chatID, friendlyError(err), dailyHintKeyboard())
		return
	}

	if res.Settlement != nil {
		b.sendWithKeyboard(chatID, renderSettlement(res.Settlement), playAgainKeyboard(kind))
		return
	}

	sess := res.Session
	switch sess.Kind {
	case models.GameDice:
		b.sendWithKeyboard(chatID,
			fmt.Sprintf("🎲 Dice Game started! (-%d credits)\n\nI rolled a die. Guess the number, you have %d attempts.",
				sess.CostPaid, sess.MaxAttempts),
			diceKeyboard())
	case models.GameNumber:
		b.sendText(chatID,
			fmt.Sprintf("🔢 Number Game started! (-%d credits)\n\nI'm thinking of a number between %d and %d. Type your guess, you have %d attempts.",
				sess.CostPaid, sess.Guess.Min, sess.Guess.Max, sess.MaxAttempts))
	case models.GameQuiz:
		b.sendWithKeyboard(chatID,
			fmt.Sprintf("❓ Quiz time! (-%d credits)\n\n%s", sess.CostPaid, sess.Quiz.Question),
			quizKeyboard(sess.Quiz.Options))
	case models.GameRPS:
		b.sendWithKeyboard(chatID,
			fmt.Sprintf("✂️ Rock Paper Scissors! (-%d credits)\n\nMake your choice:", sess.CostPaid),
			rpsKeyboard())
	case models.GameBlackjack:
		state := sess.Blackjack
		b.sendWithKeyboard(chatID,
			fmt.Sprintf("♠️ Blackjack! (-%d credits)\n\nYour hand: %s\nDealer shows: %s ?",
				sess.CostPaid, joinHand(state.PlayerHand), state.DealerHand[0]),
			blackjackKeyboard())
	}
}

// sendSettlementUpdate renders an Advance result: either a mid-game prompt
// or the final settlement.
func (b *Bot) sendSettlementUpdate(chatID int64, kind models.GameKind, settlement *service.Settlement) {
	if !settlement.Outcome.Terminal() {
		switch kind {
		case models.GameDice:
			b.sendWithKeyboard(chatID, settlement.Outcome.Message, diceKeyboard())
		case models.GameBlackjack:
			b.sendWithKeyboard(chatID, settlement.Outcome.Message, blackjackKeyboard())
		default:
			b.sendText(chatID, settlement.Outcome.Message)
		}
		return
	}
	b.sendWithKeyboard(chatID, renderSettlement(settlement), playAgainKeyboard(kind))
}

// --- admin commands ---

func (b *Bot) adminGivePremium(ctx context.Context, chatID, callerID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.sendText(chatID, "Usage: /givepremium <username> <days>")
		return
	}
	days, err := strconv.Atoi(fields[1])
	if err != nil || days <= 0 {
		b.sendText(chatID, "Days must be a positive number.")
		return
	}

	user, err := b.services.Admin.GrantPremium(ctx, callerID, fields[0], days)
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ Gave premium status to %s for %d days.", user.Username, days))
}

func (b *Bot) adminRevokePremium(ctx context.Context, chatID, callerID int64, args string) {
	target := strings.TrimSpace(args)
	if target == "" {
		b.sendText(chatID, "Usage: /revokepremium <username>")
		return
	}

	if err := b.services.Admin.RevokePremium(ctx, callerID, target); err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ Revoked premium status from %s.", target))
}

func (b *Bot) adminAddCredits(ctx context.Context, chatID, callerID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.sendText(chatID, "Usage: /addcredits <username> <amount>")
		return
	}
	amount, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || amount <= 0 {
		b.sendText(chatID, "Amount must be a positive number.")
		return
	}

	user, err := b.services.Admin.AddCredits(ctx, callerID, fields[0], amount)
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ Added %d credits to %s. New balance: %d.", amount, user.Username, user.Credits))
}

func (b *Bot) adminGlobalStats(ctx context.Context, chatID, callerID int64) {
	stats, err := b.services.Admin.GlobalStats(ctx, callerID)
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendText(chatID, fmt.Sprintf(
		"🌍 Global Statistics\n\n"+
			"Total Users: %d\n"+
			"Premium Users: %d\n"+
			"Total Credits: %d\n"+
			"Average Credits: %d\n"+
			"Total Games Played: %d\n",
		stats.TotalUsers, stats.PremiumUsers, stats.TotalCredits,
		stats.AverageCredits, stats.TotalGamesPlayed,
	))
}

func joinHand(hand []models.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}
