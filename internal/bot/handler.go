// Package bot is the operator's Telegram console.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"allmarket/internal/config"
	"allmarket/internal/leadstore"
	"allmarket/internal/research"
)

var commands = []string{
	"/start", "/help", "/products", "/sync", "/leads", "/setlink",
	"/prefix", "/autoapply", "/settings", "/share", "/analyze",
}

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot            *tgbot.Bot
	store          *leadstore.Store
	research       *research.Service
	operatorChatID int64
	log            logrus.FieldLogger
	now            func() time.Time
}

// NewHandler creates a new bot handler instance.
func NewHandler(cfg config.TelegramConfig, store *leadstore.Store, rs *research.Service, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := &Handler{
		store:          store,
		research:       rs,
		operatorChatID: cfg.OperatorChatID,
		log:            log,
		now:            time.Now,
	}

	b, err := tgbot.New(cfg.BotToken,
		tgbot.WithMiddlewares(h.operatorOnly),
		tgbot.WithDefaultHandler(h.defaultHandler),
	)
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b

	h.registerHandlers()

	log.WithField("operator_chat_id", cfg.OperatorChatID).Info("Telegram bot handler initialized")
	return h, nil
}

// registerHandlers sets up the command handlers.
func (h *Handler) registerHandlers() {
	for _, cmd := range commands {
		h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, cmd, tgbot.MatchTypePrefix, h.commandHandler)
	}
	h.log.WithField("commands", len(commands)).Info("Registered command handlers")
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

// allowed reports whether updates from chatID are handled. With no operator
// chat configured every chat is.
func (h *Handler) allowed(chatID int64) bool {
	return h.operatorChatID == 0 || chatID == h.operatorChatID
}

func (h *Handler) operatorOnly(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if !h.allowed(update.Message.Chat.ID) {
			h.log.WithField("chat_id", update.Message.Chat.ID).Debug("Ignoring update from non-operator chat")
			return
		}
		next(ctx, b, update)
	}
}

func (h *Handler) commandHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	cmd, _ := parseCommand(update.Message.Text)
	log := h.log.WithFields(logrus.Fields{
		"chat_id": chatID,
		"command": cmd,
	})
	log.Info("Received command")

	h.send(ctx, b, chatID, h.dispatch(ctx, update.Message.Text), log)
}

func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.log.WithFields(logrus.Fields{
		"chat_id": update.Message.Chat.ID,
		"text":    update.Message.Text,
	}).Debug("Received unhandled message (default handler)")

	h.send(ctx, b, update.Message.Chat.ID, text(helpText), h.log)
}

func (h *Handler) send(ctx context.Context, b *tgbot.Bot, chatID int64, r reply, log logrus.FieldLogger) {
	for _, msg := range r.Messages {
		if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: chatID,
			Text:   msg,
		}); err != nil {
			log.WithError(err).Error("Failed to send message")
			return
		}
	}

	if r.Document == nil {
		return
	}
	_, err := b.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: r.Document.Name,
			Data:     bytes.NewReader(r.Document.Data),
		},
	})
	if err != nil {
		log.WithError(err).WithField("file", r.Document.Name).Error("Failed to send document")
	}
}
