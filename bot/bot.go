package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"arcadebot/events"
	"arcadebot/models"
	"arcadebot/service"
)

// Bot drives the Telegram front end: long-polled updates in, game and
// ledger calls out.
type Bot struct {
	api      *tgbotapi.BotAPI
	services *service.Services
	bus      *events.Bus
}

// New creates the bot over an authorized Telegram API client.
func New(api *tgbotapi.BotAPI, services *service.Services, bus *events.Bus) *Bot {
	b := &Bot{
		api:      api,
		services: services,
		bus:      bus,
	}
	b.subscribeNotifications()
	return b
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.WithField("username", b.api.Self.UserName).Info("Telegram bot started")

	for {
		select {
		case update := <-updates:
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
			}
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleTextInput(ctx, msg)
}

// handleTextInput feeds plain numeric messages into a live guessing game.
func (b *Bot) handleTextInput(ctx context.Context, msg *tgbotapi.Message) {
	sess := b.services.Games.ActiveSession(msg.From.ID)
	if sess == nil {
		return
	}
	if sess.Kind != models.GameDice && sess.Kind != models.GameNumber {
		return
	}

	n, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil {
		b.sendText(msg.Chat.ID, "Please send a number.")
		return
	}

	settlement, err := b.services.Games.Advance(ctx, msg.From.ID, models.GuessAction{Game: sess.Kind, N: n})
	if err != nil {
		b.sendText(msg.Chat.ID, friendlyError(err))
		return
	}
	b.sendSettlementUpdate(msg.Chat.ID, sess.Kind, settlement)
}

// subscribeNotifications wires best-effort user notifications onto the event
// bus. Handlers run async; a failed send is logged and dropped.
func (b *Bot) subscribeNotifications() {
	b.bus.Subscribe(events.EventTypePremiumGranted, func(ctx context.Context, event events.Event) {
		granted, ok := event.(events.PremiumGrantedEvent)
		if !ok || granted.GrantedBy != "admin" {
			return
		}
		// Private chat IDs equal user IDs on Telegram.
		b.sendText(granted.UserID, "💎 You've been granted Premium status! Enjoy discounted games and double daily rewards.")
	})

	b.bus.Subscribe(events.EventTypePremiumRevoked, func(ctx context.Context, event events.Event) {
		revoked, ok := event.(events.PremiumRevokedEvent)
		if !ok {
			return
		}
		b.sendText(revoked.UserID, "Your Premium status has ended.")
	})
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithField("chatID", chatID).WithError(err).Error("Failed to send message")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.WithField("chatID", chatID).WithError(err).Error("Failed to send message")
	}
}
