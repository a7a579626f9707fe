package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"repocast/internal/config"
	"repocast/internal/library"
)

const userAgent = "repocast/0.1.0"

// Service defines the notification surface exposed to the workflow.
type Service interface {
	NotifyGenerationReady(ctx context.Context, repo, language string, durationSeconds float64) error
	NotifyGenerationFailed(ctx context.Context, repo string, reason error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		readyEvents: cfg.Notifications.Ready,
		errorEvents: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	readyEvents bool
	errorEvents bool
}

var _ Service = (*ntfyService)(nil)

func (n *ntfyService) NotifyGenerationReady(ctx context.Context, repo, language string, durationSeconds float64) error {
	if !n.readyEvents {
		return nil
	}
	repo = strings.TrimSpace(repo)
	message := fmt.Sprintf("Podcast ready: %s (%s)", repo, language)
	if durationSeconds > 0 {
		message = fmt.Sprintf("%s, %s", message, library.FormatRuntime(durationSeconds))
	}
	data := payload{
		title:    "repocast - Episode Ready",
		message:  message,
		tags:     []string{"repocast", "generation", "ready"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyGenerationFailed(ctx context.Context, repo string, reason error) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Generation failed")
	if repo = strings.TrimSpace(repo); repo != "" {
		builder.WriteString(" for ")
		builder.WriteString(repo)
	}
	builder.WriteString(": ")
	if reason != nil {
		builder.WriteString(strings.TrimSpace(reason.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "repocast - Error",
		message:  builder.String(),
		tags:     []string{"repocast", "generation", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "repocast - Test",
		message:  "Notification system test",
		tags:     []string{"repocast", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyGenerationReady(context.Context, string, string, float64) error { return nil }
func (noopService) NotifyGenerationFailed(context.Context, string, error) error          { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
