// Package notify posts critical alert notices to Slack. The service works
// without it; an unconfigured webhook just means no notification channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/halcyon-labs/lookout/internal/signal"
)

type SlackPoster struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

func NewSlackPoster(webhookURL string, logger *slog.Logger) *SlackPoster {
	return &SlackPoster{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// CriticalAlert posts a one-line notice for an alert the engine classified
// critical.
func (p *SlackPoster) CriticalAlert(ctx context.Context, sig signal.Context, updates signal.Updates) error {
	text := formatCriticalAlert(sig, updates)

	body, err := json.Marshal(map[string]any{"text": text})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, string(respBody))
	}

	p.logger.Info("critical alert posted",
		"user_id", sig.UserID,
		"category", sig.Category,
	)
	return nil
}

func formatCriticalAlert(sig signal.Context, updates signal.Updates) string {
	var b strings.Builder
	b.WriteString(":rotating_light: *")
	b.WriteString(sig.Title)
	b.WriteString("*\n")
	b.WriteString(sig.Message)
	if updates.ActionHint != nil {
		b.WriteString("\nSuggested action: ")
		b.WriteString(*updates.ActionHint)
	}
	if updates.Rationale != nil {
		b.WriteString("\n_")
		b.WriteString(*updates.Rationale)
		b.WriteString("_")
	}
	return b.String()
}
