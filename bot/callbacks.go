package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"arcadebot/models"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		return
	}
	// Ack immediately so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.WithError(err).Debug("Failed to ack callback")
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == "menu":
		b.showWelcome(ctx, chatID, cb.From)
	case data == "games":
		b.showGames(ctx, chatID, cb.From)
	case data == "credits":
		b.showCredits(ctx, chatID, cb.From)
	case data == "daily":
		b.claimDaily(ctx, chatID, cb.From)
	case data == "stats":
		b.showStats(ctx, chatID, cb.From)

	case strings.HasPrefix(data, "play_"):
		kind := models.GameKind(strings.TrimPrefix(data, "play_"))
		b.startGame(ctx, chatID, cb.From, kind)

	case strings.HasPrefix(data, "guess_"):
		b.advanceGuess(ctx, chatID, cb.From.ID, strings.TrimPrefix(data, "guess_"))

	case strings.HasPrefix(data, "answer_"):
		b.advanceQuiz(ctx, chatID, cb.From.ID, strings.TrimPrefix(data, "answer_"))

	case strings.HasPrefix(data, "rps_"):
		b.advanceRPS(ctx, chatID, cb.From.ID, strings.TrimPrefix(data, "rps_"))

	case strings.HasPrefix(data, "bj_"):
		b.advanceBlackjack(ctx, chatID, cb.From.ID, strings.TrimPrefix(data, "bj_"))

	default:
		log.WithField("data", data).Debug("Unknown callback data")
	}
}

func (b *Bot) advanceGuess(ctx context.Context, chatID, userID int64, arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return
	}

	// The inline guess keyboard belongs to the dice game; the number game is
	// driven by typed input. Tagging the action lets the registry reject a
	// stale keyboard tap against whatever game is actually live.
	settlement, err := b.services.Games.Advance(ctx, userID, models.GuessAction{Game: models.GameDice, N: n})
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendSettlementUpdate(chatID, models.GameDice, settlement)
}

func (b *Bot) advanceQuiz(ctx context.Context, chatID, userID int64, arg string) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return
	}

	settlement, err := b.services.Games.Advance(ctx, userID, models.AnswerAction{Index: index})
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendSettlementUpdate(chatID, models.GameQuiz, settlement)
}

func (b *Bot) advanceRPS(ctx context.Context, chatID, userID int64, arg string) {
	choice := models.RPSChoice(arg)
	switch choice {
	case models.RPSRock, models.RPSPaper, models.RPSScissors:
	default:
		return
	}

	settlement, err := b.services.Games.Advance(ctx, userID, models.RPSAction{Choice: choice})
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendSettlementUpdate(chatID, models.GameRPS, settlement)
}

func (b *Bot) advanceBlackjack(ctx context.Context, chatID, userID int64, arg string) {
	move := models.BlackjackMove(arg)
	switch move {
	case models.BlackjackHit, models.BlackjackStand:
	default:
		return
	}

	settlement, err := b.services.Games.Advance(ctx, userID, models.BlackjackAction{Move: move})
	if err != nil {
		b.sendText(chatID, friendlyError(err))
		return
	}
	b.sendSettlementUpdate(chatID, models.GameBlackjack, settlement)
}
