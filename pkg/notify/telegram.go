package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramLimit is the maximum message length accepted by the bot api
const telegramLimit = 4096

// Telegram sends messages to a chat or channel through the bot api.
// The bot client is created on first use, so a wrong token doesn't block startup.
type Telegram struct {
	token    string
	chatID   int64
	channel  string // @name of a public channel, used when chatID is 0
	endpoint string
	client   *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// newTelegram parses telegram://<token>@<chat-id> or telegram://<token>@telegram?chat=@channel
func newTelegram(u *url.URL, opts Options) (*Telegram, error) {
	if u.User == nil || u.User.Username() == "" {
		return nil, errors.New("telegram destination needs a bot token")
	}
	token := u.User.Username()
	if pass, ok := u.User.Password(); ok {
		token += ":" + pass
	}

	res := &Telegram{token: token, endpoint: tgbotapi.APIEndpoint, client: &http.Client{Timeout: opts.Timeout}}
	chat := u.Query().Get("chat")
	if chat == "" {
		chat = u.Hostname()
	}
	if strings.HasPrefix(chat, "@") {
		res.channel = chat
		return res, nil
	}
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("telegram destination needs a numeric chat id or @channel, got %q", chat)
	}
	res.chatID = id
	return res, nil
}

// Send posts the message, split into parts fitting the telegram limit
func (t *Telegram) Send(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := t.botAPI()
	if err != nil {
		return err
	}

	text := title
	if body != "" {
		text += "\n\n" + body
	}
	for _, part := range splitMessage(text, telegramLimit) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, part)
		if t.chatID == 0 {
			msg = tgbotapi.NewMessageToChannel(t.channel, part)
		}
		msg.DisableWebPagePreview = true
		if _, err := bot.Send(msg); err != nil {
			return fmt.Errorf("telegram send: %s", strings.ReplaceAll(err.Error(), t.token, "***"))
		}
	}
	return nil
}

// botAPI returns the bot client, creating it if an earlier attempt failed or didn't happen
func (t *Telegram) botAPI() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.token, t.endpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %s", strings.ReplaceAll(err.Error(), t.token, "***"))
	}
	t.bot = bot
	return bot, nil
}

func (t *Telegram) String() string {
	if t.chatID == 0 {
		return "telegram " + t.channel
	}
	return "telegram " + strconv.FormatInt(t.chatID, 10)
}

// splitMessage cuts text into parts of at most limit runes, preferring line breaks
func splitMessage(text string, limit int) []string {
	var parts []string
	for utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		cut := string(runes[:limit])
		if idx := strings.LastIndex(cut, "\n"); idx > len(cut)/2 {
			cut = cut[:idx]
		}
		parts = append(parts, cut)
		text = strings.TrimLeft(text[len(cut):], "\n")
	}
	if text != "" || len(parts) == 0 {
		parts = append(parts, text)
	}
	return parts
}
