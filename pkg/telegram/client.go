package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mymmrac/telego"
	"github.com/sirupsen/logrus"
)

type Client interface {
	SendTextMessage(ctx context.Context, chatID int64, text string, replyTo *int64) (int64, error)
	SendTyping(ctx context.Context, chatID int64) error
	GetChatAdmins(ctx context.Context, chatID int64) ([]int64, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
	Updates(ctx context.Context) (<-chan telego.Update, error)
	Username() string
}

type TelegramClient struct {
	bot         *telego.Bot
	username    string
	pollTimeout int
	httpClient  *http.Client
	logger      *logrus.Logger
}

// NewClient authenticates against the Bot API and resolves the bot's own
// identity, which mention detection needs before the first update arrives.
func NewClient(ctx context.Context, token string, pollTimeoutSec int, logger *logrus.Logger) (*TelegramClient, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	bot, err := telego.NewBot(token, telego.WithDiscardLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	me, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate bot: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"bot_id":   me.ID,
		"username": me.Username,
	}).Info("Authenticated with Telegram")

	return &TelegramClient{
		bot:         bot,
		username:    me.Username,
		pollTimeout: pollTimeoutSec,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		logger:      logger,
	}, nil
}

func (c *TelegramClient) Username() string {
	return c.username
}

// Updates opens the long-polling update stream. The channel closes when ctx
// is cancelled.
func (c *TelegramClient) Updates(ctx context.Context) (<-chan telego.Update, error) {
	updates, err := c.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: c.pollTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start long polling: %w", err)
	}
	return updates, nil
}

func (c *TelegramClient) SendTextMessage(ctx context.Context, chatID int64, text string, replyTo *int64) (int64, error) {
	params := &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	}
	if replyTo != nil {
		params.ReplyParameters = &telego.ReplyParameters{
			MessageID: int(*replyTo),
		}
	}

	sent, err := c.bot.SendMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return int64(sent.MessageID), nil
}

func (c *TelegramClient) SendTyping(ctx context.Context, chatID int64) error {
	err := c.bot.SendChatAction(ctx, &telego.SendChatActionParams{
		ChatID: telego.ChatID{ID: chatID},
		Action: telego.ChatActionTyping,
	})
	if err != nil {
		return fmt.Errorf("failed to send typing action to chat %d: %w", chatID, err)
	}
	return nil
}

func (c *TelegramClient) GetChatAdmins(ctx context.Context, chatID int64) ([]int64, error) {
	members, err := c.bot.GetChatAdministrators(ctx, &telego.GetChatAdministratorsParams{
		ChatID: telego.ChatID{ID: chatID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list administrators of chat %d: %w", chatID, err)
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.MemberUser().ID)
	}
	return ids, nil
}

// DownloadFile resolves the file path through the Bot API and fetches the
// bytes over plain HTTP. Telegram's file URLs are short lived, so the two
// steps always happen together.
func (c *TelegramClient) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	url := c.bot.FileDownloadURL(file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"file_id": fileID,
		"size":    len(data),
	}).Debug("Downloaded file")

	return data, nil
}
