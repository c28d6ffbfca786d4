package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"prospector/internal/config"
	"prospector/internal/services"
)

const userAgent = "Prospector/0.1.0"

// Run identifies which engine produced an outcome.
type Run string

const (
	RunLeads  Run = "leads"
	RunEmails Run = "emails"
)

// Outcome summarizes one finished run for delivery.
type Outcome struct {
	Run      Run
	List     string
	Summary  string
	Duration time.Duration
	Err      error
}

// Service delivers run outcomes to the operator.
type Service interface {
	NotifyRunFinished(ctx context.Context, outcome Outcome) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunFinished(ctx context.Context, outcome Outcome) error {
	return n.send(ctx, buildPayload(outcome))
}

func buildPayload(outcome Outcome) payload {
	list := strings.TrimSpace(outcome.List)
	summary := strings.TrimSpace(outcome.Summary)
	elapsed := outcome.Duration.Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	label := services.Label(outcome.Err)
	tags := []string{"prospector", string(outcome.Run), label}

	switch label {
	case "ok", "no_more_data":
		message := fmt.Sprintf("%s run for %s finished in %s", outcome.Run, list, elapsed)
		if summary != "" {
			message += "\n" + summary
		}
		return payload{
			title:   fmt.Sprintf("Prospector - %s done", titleCase(outcome.Run)),
			message: message,
			tags:    tags,
		}
	default:
		var builder strings.Builder
		fmt.Fprintf(&builder, "%s run for %s stopped after %s", outcome.Run, list, elapsed)
		if summary != "" {
			builder.WriteString("\n")
			builder.WriteString(summary)
		}
		if outcome.Err != nil {
			builder.WriteString("\nError: ")
			builder.WriteString(strings.TrimSpace(outcome.Err.Error()))
		}
		return payload{
			title:    fmt.Sprintf("Prospector - %s failed", titleCase(outcome.Run)),
			message:  builder.String(),
			tags:     append(tags, "alert"),
			priority: "high",
		}
	}
}

func titleCase(run Run) string {
	s := string(run)
	if s == "" {
		return "Run"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "Prospector - Test",
		message:  "Notification system test",
		tags:     []string{"prospector", "test"},
		priority: "low",
	})
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

func (noopService) NotifyRunFinished(context.Context, Outcome) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
