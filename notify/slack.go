package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ErrNotifyFailed вебхук не принял сообщение
var ErrNotifyFailed = errors.New("slack notification failed")

// Notifier получатель сообщений о необработанных ошибках
type Notifier interface {
	Notify(ctx context.Context, err error, trace string) error
}

// SlackNotifier отправляет ошибки в канал Slack через входящий вебхук
type SlackNotifier struct {
	webhookURL string
	appName    string
	httpClient *http.Client
	logger     *slog.Logger
}

type slackMessage struct {
	Text string `json:"text"`
}

// NewSlackNotifier создает уведомитель. Пустой URL отключает отправку.
func NewSlackNotifier(webhookURL, appName string, logger *slog.Logger) *SlackNotifier {
	if appName == "" {
		appName = "bostoninfo"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		appName:    appName,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

// Enabled true, если вебхук настроен
func (n *SlackNotifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

// Notify публикует ошибку и стек вызовов
func (n *SlackNotifier) Notify(ctx context.Context, err error, trace string) error {
	if !n.Enabled() || err == nil {
		return nil
	}

	text := fmt.Sprintf("*%s* unhandled error: `%v`", n.appName, err)
	if trace != "" {
		text += "\n```" + trace + "```"
	}

	body, marshalErr := json.Marshal(slackMessage{Text: text})
	if marshalErr != nil {
		return fmt.Errorf("failed to marshal slack message: %w", marshalErr)
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if reqErr != nil {
		return fmt.Errorf("failed to create slack request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := n.httpClient.Do(req)
	if doErr != nil {
		return fmt.Errorf("%w: %v", ErrNotifyFailed, doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrNotifyFailed, resp.StatusCode)
	}

	n.logger.Info("Error reported to Slack", "error", err)
	return nil
}
