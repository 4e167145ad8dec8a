package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kirillm/hedge-bot/internal/metrics"
	"github.com/kirillm/hedge-bot/pkg/utils"
)

// Callback-данные inline-кнопок
const (
	callbackMonitor = "monitor"
	callbackHedge   = "hedge_now_clicked"
)

// Bot принимает апдейты Telegram и раздает их обработчикам
type Bot struct {
	api       *tgbotapi.BotAPI
	logger    *utils.Logger
	handlers  *Handlers
	formatter *Formatter
}

// NewBot создает и авторизует бота
func NewBot(token string, logger *utils.Logger, handlers *Handlers, formatter *Formatter) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram bot authorized: @%s", api.Self.UserName)

	return &Bot{
		api:       api,
		logger:    logger,
		handlers:  handlers,
		formatter: formatter,
	}, nil
}

// Start запускает обработку сообщений до отмены контекста
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.logger.Info("Stopping Telegram bot...")
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			go b.handleCallback(ctx, update.CallbackQuery)
		case update.Message != nil:
			go b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}

	chatID := message.Chat.ID
	b.logger.Info("Received command from chat %d: %s", chatID, message.Text)

	args, err := ParseCommand(message.Text)
	if err != nil {
		b.SendMessage(chatID, b.formatter.FormatError(err))
		return
	}

	metrics.CommandsTotal.WithLabelValues(args.Command).Inc()

	switch args.Command {
	case CmdStart:
		b.sendWelcome(chatID)
	case CmdHelp:
		b.SendMessage(chatID, b.formatter.FormatHelp())
	case CmdMonitor:
		b.monitorWithButton(chatID, args)
	case CmdConfigure:
		text, err := b.handlers.HandleConfigure(chatID, args)
		b.reply(chatID, text, err)
	case CmdHedge:
		text, err := b.handlers.HandleHedge(ctx, chatID)
		b.reply(chatID, text, err)
	case CmdStatus:
		text, err := b.handlers.HandleStatus(chatID)
		b.reply(chatID, text, err)
	case CmdAutoHedge:
		text, err := b.handlers.HandleAutoHedge(chatID, args)
		b.reply(chatID, text, err)
	case CmdHistory:
		text, err := b.handlers.HandleHistory(chatID)
		b.reply(chatID, text, err)
	case CmdPnL:
		text, err := b.handlers.HandlePnL(ctx, chatID)
		b.reply(chatID, text, err)
	case CmdStress:
		text, err := b.handlers.HandleStress(ctx, chatID)
		b.reply(chatID, text, err)
	case CmdPortfolio:
		text, err := b.handlers.HandleAnalytics(ctx, chatID)
		b.reply(chatID, text, err)
	case CmdRiskChart:
		png, name, err := b.handlers.HandleRiskChart(ctx, chatID)
		b.replyPhoto(chatID, png, name, err)
	case CmdGreeks:
		png, name, err := b.handlers.HandleGreeksChart(ctx, chatID)
		b.replyPhoto(chatID, png, name, err)
	case CmdPnLChart:
		png, name, err := b.handlers.HandlePnLChart(ctx, chatID)
		b.replyPhoto(chatID, png, name, err)
	}
}

// handleCallback обрабатывает нажатия inline-кнопок
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Убираем "часики" на кнопке
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Error("Failed to answer callback: %v", err)
	}

	chatID := query.Message.Chat.ID

	switch query.Data {
	case callbackMonitor:
		b.SendMessage(chatID, "Usage: /monitor_risk <asset> <size> <threshold> [venue]")

	case callbackHedge:
		metrics.CommandsTotal.WithLabelValues(CmdHedge).Inc()
		text, err := b.handlers.HandleHedge(ctx, chatID)
		if err != nil {
			text = b.formatter.FormatError(err)
		}
		// Редактируем сообщение с кнопкой вместо отправки нового
		edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, text)
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Error("Failed to edit message in chat %d: %v", chatID, err)
		}
	}
}

// sendWelcome шлет приветствие с кнопкой мониторинга
func (b *Bot) sendWelcome(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Monitor Risk", callbackMonitor),
		),
	)
	msg := tgbotapi.NewMessage(chatID, b.formatter.FormatWelcome())
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send welcome to chat %d: %v", chatID, err)
	}
}

// monitorWithButton запускает мониторинг и вешает кнопку хеджа на ответ
func (b *Bot) monitorWithButton(chatID int64, args *CommandArgs) {
	text, err := b.handlers.HandleMonitor(chatID, args)
	if err != nil {
		b.SendMessage(chatID, b.formatter.FormatError(err))
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛡️ Hedge Now", callbackHedge),
		),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message to chat %d: %v", chatID, err)
	}
}

// reply отправляет результат обработчика либо сообщение об ошибке
func (b *Bot) reply(chatID int64, text string, err error) {
	if err != nil {
		b.SendMessage(chatID, b.formatter.FormatError(err))
		return
	}
	b.SendMessage(chatID, text)
}

// replyPhoto отправляет PNG либо сообщение об ошибке
func (b *Bot) replyPhoto(chatID int64, png []byte, filename string, err error) {
	if err != nil {
		b.SendMessage(chatID, b.formatter.FormatError(err))
		return
	}
	if len(png) == 0 {
		b.SendMessage(chatID, b.formatter.T("no_pnl"))
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: filename, Bytes: png})
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("Failed to send photo to chat %d: %v", chatID, err)
	}
}

// SendMessage отправляет сообщение, разбивая длинный текст на части
func (b *Bot) SendMessage(chatID int64, text string) {
	if text == "" {
		return
	}

	const maxLength = 4096
	for _, msg := range splitMessage(text, maxLength) {
		message := tgbotapi.NewMessage(chatID, msg)
		if _, err := b.api.Send(message); err != nil {
			b.logger.Error("Failed to send telegram message to chat %d: %v", chatID, err)
		}
	}
}

// splitMessage разбивает длинное сообщение на части
func splitMessage(text string, maxLength int) []string {
	if len(text) <= maxLength {
		return []string{text}
	}

	var messages []string
	lines := strings.Split(text, "\n")
	currentMessage := ""

	for _, line := range lines {
		if len(currentMessage)+len(line)+1 > maxLength {
			messages = append(messages, currentMessage)
			currentMessage = line
		} else {
			if currentMessage != "" {
				currentMessage += "\n"
			}
			currentMessage += line
		}
	}

	if currentMessage != "" {
		messages = append(messages, currentMessage)
	}

	return messages
}
