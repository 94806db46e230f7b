package bot

import (
	"errors"
	"fmt"
	"strings"

	"arcadebot/games"
	"arcadebot/models"
	"arcadebot/service"
)

// friendlyError maps domain errors to user-facing guidance.
func friendlyError(err error) string {
	var insufficient *models.InsufficientCreditsError
	var wrongKind *models.WrongGameKindError

	switch {
	case errors.As(err, &insufficient):
		return fmt.Sprintf("You don't have enough credits. You need %d but have %d.\nClaim your daily reward with /daily!",
			insufficient.Required, insufficient.Available)
	case errors.As(err, &wrongKind):
		return fmt.Sprintf("That move belongs to %s, but your active game is %s. Finish it first!",
			wrongKind.Want, wrongKind.Have)
	case errors.Is(err, models.ErrSessionAlreadyActive):
		return "You already have a game in progress. Finish it before starting another one."
	case errors.Is(err, models.ErrNoActiveSession):
		return "No game in progress. Use /games to start one."
	case errors.Is(err, models.ErrAlreadyClaimed):
		return "You've already claimed your daily reward today. Come back tomorrow!"
	case errors.Is(err, models.ErrPremiumRequired):
		return "This game is for premium users only. Win games to earn premium status!"
	case errors.Is(err, models.ErrAdminUnauthorized):
		return "⚠️ You are not authorized to use admin commands."
	case errors.Is(err, models.ErrUserNotFound):
		return "User not found."
	default:
		return "Something went wrong, please try again later."
	}
}

func renderWelcome(firstName string, credits int64) string {
	return fmt.Sprintf(
		"🎮 Welcome to the Game Bot, %s!\n\n"+
			"You have %d credits to start.\n"+
			"Use /help to see available commands.\n\n"+
			"💎 Premium Features:\n"+
			"- Double credits rewards\n"+
			"- Exclusive games\n"+
			"- Reduced game costs\n"+
			"- Priority support\n\n"+
			"Win games to earn premium status!",
		firstName, credits,
	)
}

func renderHelp(premium, admin bool) string {
	var sb strings.Builder
	sb.WriteString(
		"📚 Game Bot Commands\n\n" +
			"Basic Commands:\n" +
			"/start - Initialize the bot\n" +
			"/games - Show available games\n" +
			"/credits - Check your credit balance\n" +
			"/daily - Claim daily reward\n" +
			"/stats - View your statistics\n" +
			"/cancel - Abandon the current game\n" +
			"/help - Show this help message\n\n" +
			"Game Commands:\n" +
			"/dice - Roll the dice game\n" +
			"/number - Number guessing game\n" +
			"/quiz - Trivia quiz game\n" +
			"/rps - Rock Paper Scissors\n")

	if premium {
		sb.WriteString(
			"\nPremium Games:\n" +
				"/slots - Premium slots game\n" +
				"/blackjack - Premium blackjack game\n")
	}
	if admin {
		sb.WriteString(
			"\n🔑 Admin Commands:\n" +
				"/givepremium <username> <days> - Give premium status\n" +
				"/revokepremium <username> - Revoke premium status\n" +
				"/addcredits <username> <amount> - Add credits\n" +
				"/stats_global - View bot statistics\n")
	}
	return sb.String()
}

func renderCredits(user *models.User, premium bool) string {
	status := "Free"
	if premium {
		status = "💎 Premium"
	}

	expiry := ""
	if premium && user.PremiumExpiry != nil {
		expiry = fmt.Sprintf("\nPremium expires: %s", user.PremiumExpiry.Format("2006-01-02 15:04"))
	}

	return fmt.Sprintf(
		"💰 Your Credits: %d\n"+
			"🎯 Status: %s%s\n\n"+
			"Daily Rewards:\n"+
			"- Free users: 50 credits\n"+
			"- Premium users: 100 credits\n\n"+
			"Use /games to start earning more credits!",
		user.Credits, status, expiry,
	)
}

// gameOrder fixes the listing order of the catalog map.
var gameOrder = []models.GameKind{
	models.GameDice,
	models.GameNumber,
	models.GameQuiz,
	models.GameRPS,
	models.GameSlots,
	models.GameBlackjack,
}

func renderGames(user *models.User, premium bool) string {
	var sb strings.Builder
	sb.WriteString("🎮 Available Games:\n\nFree Games:\n")
	for _, kind := range gameOrder {
		if games.Catalog[kind].PremiumOnly {
			continue
		}
		sb.WriteString(fmt.Sprintf("/%s - Cost: %d credits\n", kind, games.CostFor(kind, premium)))
	}

	if premium {
		sb.WriteString("\n💎 Premium Games:\n")
		for _, kind := range gameOrder {
			if games.Catalog[kind].PremiumOnly {
				sb.WriteString(fmt.Sprintf("/%s - Cost: %d credits\n", kind, games.CostFor(kind, true)))
			}
		}
	} else {
		sb.WriteString("\n💎 Premium Games (unlock with premium status):\n")
		for _, kind := range gameOrder {
			if games.Catalog[kind].PremiumOnly {
				sb.WriteString(fmt.Sprintf("/%s - Requires premium\n", kind))
			}
		}
	}

	sb.WriteString(fmt.Sprintf("\n💰 Your Credits: %d", user.Credits))
	return sb.String()
}

func renderStats(stats *models.UserStats, premium bool) string {
	status := "Free"
	if premium {
		status = "💎 Premium"
	}
	return fmt.Sprintf(
		"📊 Your Statistics\n\n"+
			"Games Played: %d\n"+
			"Games Won: %d\n"+
			"Win Rate: %.1f%%\n"+
			"Total Earnings: %d credits\n"+
			"Current Balance: %d credits\n"+
			"Status: %s\n",
		stats.User.GamesPlayed, stats.User.GamesWon, stats.WinRate,
		stats.User.TotalEarnings, stats.User.Credits, status,
	)
}

func renderDailyClaim(reward, balance int64, premium bool) string {
	tip := "💡 Tip: Premium users get double daily rewards!"
	if premium {
		tip = "💎 Premium bonus applied!"
	}
	return fmt.Sprintf(
		"✅ Daily reward claimed!\n\nYou received %d credits.\nCurrent balance: %d credits.\n\n%s",
		reward, balance, tip,
	)
}

// renderSettlement builds the final message for a terminal outcome,
// appending the win bonus and any premium upgrade announcement.
func renderSettlement(settlement *service.Settlement) string {
	var sb strings.Builder
	sb.WriteString(settlement.Outcome.Message)

	if settlement.BonusAwarded > 0 {
		sb.WriteString(fmt.Sprintf("\n\n🎁 Win bonus: +%d credits!", settlement.BonusAwarded))
		if settlement.BonusExtras != "" {
			sb.WriteString(settlement.BonusExtras)
		}
	}
	if settlement.PremiumGranted {
		sb.WriteString("\n\n🌟 Amazing win streak! You've been upgraded to Premium for 3 days!")
	}
	sb.WriteString(fmt.Sprintf("\n\n💰 Balance: %d credits", settlement.Balance))
	return sb.String()
}
