package bot

import (
	"context"
	"fmt"
	"time"

	"core/internal/config"
	"core/internal/conversation"
	"core/internal/model"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Callback uniques for the listing navigation buttons.
const (
	uniqueNext    = "nav_next"
	uniqueLike    = "nav_like"
	uniqueDislike = "nav_dislike"
)

const (
	msgWelcome = "👋 Welcome! Use /real_estate to start searching for listings."
	msgHelp    = "🏡 I turn plain-language requests into real estate searches.\n\n" +
		"/real_estate - start a search dialogue\n" +
		"/cancel - exit the current dialogue\n" +
		"/help - show this message"
	msgAlreadyActive = "🔎 A search is already in progress. Type /cancel to exit it first."
	msgNotActive     = "ℹ️ No active search. Use /real_estate to start one."
)

// Bot is the Telegram transport. It translates updates into dialogue
// events and dialogue output into Telegram messages; all conversation
// state lives in the manager.
type Bot struct {
	bot     *tele.Bot
	manager *conversation.Manager
	logger  *zap.Logger

	runCtx context.Context
}

// New connects to the Telegram API and registers the handlers.
func New(cfg *config.TelegramConfig, manager *conversation.Manager, logger *zap.Logger) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: time.Duration(cfg.PollTimeout) * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	b := &Bot{
		bot:     tb,
		manager: manager,
		logger:  logger,
	}
	b.register()
	return b, nil
}

func (b *Bot) register() {
	b.bot.Handle("/start", func(c tele.Context) error {
		return c.Send(msgWelcome)
	})
	b.bot.Handle("/help", func(c tele.Context) error {
		return c.Send(msgHelp)
	})
	b.bot.Handle("/real_estate", b.onRealEstate)
	b.bot.Handle("/cancel", b.onCancel)
	b.bot.Handle(tele.OnText, b.onText)

	b.bot.Handle(&tele.Btn{Unique: uniqueNext}, b.navHandler(model.NavNext))
	b.bot.Handle(&tele.Btn{Unique: uniqueLike}, b.navHandler(model.NavLike))
	b.bot.Handle(&tele.Btn{Unique: uniqueDislike}, b.navHandler(model.NavDislike))

	if err := b.bot.SetCommands([]tele.Command{
		{Text: "real_estate", Description: "Search for real estate listings"},
		{Text: "cancel", Description: "Exit the current search"},
		{Text: "help", Description: "How to use the bot"},
	}); err != nil {
		b.logger.Warn("failed to set bot commands", zap.Error(err))
	}
}

func (b *Bot) onRealEstate(c tele.Context) error {
	chatID := c.Chat().ID
	outbox := &chatOutbox{bot: b.bot, chat: c.Chat()}
	if !b.manager.Start(b.runCtx, chatID, outbox) {
		return c.Send(msgAlreadyActive)
	}
	return nil
}

func (b *Bot) onCancel(c tele.Context) error {
	if !b.manager.Dispatch(c.Chat().ID, model.Cancel()) {
		return c.Send(msgNotActive)
	}
	return nil
}

func (b *Bot) onText(c tele.Context) error {
	if !b.manager.Dispatch(c.Chat().ID, model.FreeText(c.Text())) {
		return c.Send(msgNotActive)
	}
	return nil
}

func (b *Bot) navHandler(action model.NavAction) tele.HandlerFunc {
	return func(c tele.Context) error {
		b.manager.Dispatch(c.Chat().ID, model.Navigation(action))
		return c.Respond(&tele.CallbackResponse{})
	}
}

// Start begins long polling and blocks until Stop is triggered by the
// context.
func (b *Bot) Start(ctx context.Context) {
	b.runCtx = ctx
	go func() {
		<-ctx.Done()
		b.manager.Shutdown()
		b.bot.Stop()
	}()
	b.logger.Info("telegram bot started")
	b.bot.Start()
}

// chatOutbox delivers dialogue output to one chat.
type chatOutbox struct {
	bot  *tele.Bot
	chat *tele.Chat
}

func (o *chatOutbox) SendText(text string) error {
	_, err := o.bot.Send(o.chat, text, &tele.SendOptions{ParseMode: tele.ModeHTML})
	return err
}

// SendListing sends the listing images as an album followed by the
// text with the navigation keyboard.
func (o *chatOutbox) SendListing(payload *model.DisplayPayload) error {
	if len(payload.ImageURLs) > 0 {
		album := make(tele.Album, 0, len(payload.ImageURLs))
		for _, u := range payload.ImageURLs {
			album = append(album, &tele.Photo{File: tele.FromURL(u)})
		}
		if _, err := o.bot.SendAlbum(o.chat, album); err != nil {
			return err
		}
	}

	markup := &tele.ReplyMarkup{}
	next := markup.Data(payload.Controls.NextLabel, uniqueNext)
	like := markup.Data(payload.Controls.LikeLabel, uniqueLike)
	dislike := markup.Data(payload.Controls.DislikeLabel, uniqueDislike)
	view := markup.URL(payload.Controls.ViewLabel, payload.Controls.ListingURL)
	markup.Inline(
		markup.Row(next, view),
		markup.Row(like, dislike),
	)

	_, err := o.bot.Send(o.chat, payload.Text, &tele.SendOptions{ParseMode: tele.ModeHTML}, markup)
	return err
}
