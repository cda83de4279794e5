package controller

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pdk-keningau/temujanji-bot/internal/controller/session"
	"github.com/pdk-keningau/temujanji-bot/internal/conversation"
)

// BotController is the Telegram shim around the conversation machine: it
// translates updates into machine calls and replies into messages with
// the right keyboard. All dialogue logic lives in the machine.
type BotController struct {
	bot      *bot.Bot
	machine  *conversation.Machine
	sessions *session.Store
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	machine *conversation.Machine,
	sessions *session.Store,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:      botInstance,
		machine:  machine,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterHandlers registers the command handlers and the catch-all text
// handler that feeds the dialogue.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handleCancel)

	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handleText)

	return c.setCommands(ctx)
}

func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🏛️ Mula menggunakan bot"},
		{Command: "book", Description: "📅 Tempah janji temu"},
		{Command: "cancel", Description: "❌ Batal tempahan semasa"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start runs the long-polling loop until ctx is cancelled.
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

func (c *BotController) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.send(ctx, b, update.Message.Chat.ID, c.machine.Welcome())
}

func (c *BotController) handleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	c.sessions.Update(userID, func(sess conversation.Session) conversation.Session {
		next, reply := c.machine.Start(userID)
		c.send(ctx, b, update.Message.Chat.ID, reply)
		return next
	})
}

func (c *BotController) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	c.sessions.Update(userID, func(sess conversation.Session) conversation.Session {
		next, reply := c.machine.Cancel(userID, sess)
		c.send(ctx, b, update.Message.Chat.ID, reply)
		return next
	})
}

func (c *BotController) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	text := update.Message.Text
	// Commands have their own handlers; the catch-all must not feed them
	// into the dialogue as answers.
	if strings.HasPrefix(text, "/") {
		return
	}

	userID := update.Message.From.ID

	c.sessions.Update(userID, func(sess conversation.Session) conversation.Session {
		next, reply := c.machine.Handle(ctx, userID, sess, text)
		c.send(ctx, b, update.Message.Chat.ID, reply)
		return next
	})
}

func (c *BotController) send(ctx context.Context, b *bot.Bot, chatID int64, reply conversation.Reply) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   reply.Text,
	}

	switch {
	case len(reply.Options) > 0:
		keyboard := make([][]models.KeyboardButton, 0, len(reply.Options))
		for _, opt := range reply.Options {
			keyboard = append(keyboard, []models.KeyboardButton{{Text: opt}})
		}
		params.ReplyMarkup = &models.ReplyKeyboardMarkup{
			Keyboard:        keyboard,
			OneTimeKeyboard: true,
			ResizeKeyboard:  true,
		}
	case reply.RemoveKeyboard:
		params.ReplyMarkup = &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
