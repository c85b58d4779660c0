package bot

import (
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	mu         sync.Mutex
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}),
		name:       name,
	}, nil
}

// Start begins processing updates with custom handler
func (b *Bot) Start(
	commandHandlers map[string]func(b *Bot, update tgbotapi.Update) error,
	messageHandlers []func(b *Bot, update tgbotapi.Update) error,
	callbackHandlers map[string]func(b *Bot, update tgbotapi.Update) error,
) {
	log.Printf("[%s] authorized on account %s", b.name, b.Client.Self.UserName)

	for {
		select {
		case update := <-b.updateChan:
			go b.processUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
		case <-b.stopChan:
			return
		}
	}
}

// processUpdate handles incoming updates with custom handlers
func (b *Bot) processUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]func(b *Bot, update tgbotapi.Update) error,
	messageHandlers []func(b *Bot, update tgbotapi.Update) error,
	callbackHandlers map[string]func(b *Bot, update tgbotapi.Update) error,
) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] command handler error: %v", b.name, err)
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		if handler, exists := callbackHandlers[update.CallbackQuery.Data]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] callback handler error: %v", b.name, err)
			}
			return
		}
	}

	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			log.Printf("[%s] message handler error: %v", b.name, err)
		}
	}
}

// Stop halts the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopChan <- struct{}{}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = disableLinks
	_, err := b.Client.Send(msg)
	return err
}

// SendPage sends a rendered song page with its navigation keyboard and
// returns the sent message so the caller can edit it in place later.
func (b *Bot) SendPage(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = markup
	return b.Client.Send(msg)
}

// EditPage replaces a previously sent page in place.
func (b *Bot) EditPage(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	msg.ParseMode = "Markdown"
	_, err := b.Client.Send(msg)
	return err
}

// AnswerCallback acknowledges a button press so the client stops showing
// the progress spinner.
func (b *Bot) AnswerCallback(callbackID, text string) error {
	_, err := b.Client.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}
