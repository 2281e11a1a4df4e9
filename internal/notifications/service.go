package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gazecap/internal/config"
)

const userAgent = "Gazecap-Go/0.1.0"

// Service defines the notification surface exposed to the daemon and
// sequencer.
type Service interface {
	NotifySessionStarted(ctx context.Context, mode string, points int) error
	NotifySessionCompleted(ctx context.Context, mode string, success, total int, duration time.Duration) error
	NotifySessionFailed(ctx context.Context, mode string, success, total int, failures []string) error
	NotifySessionCancelled(ctx context.Context, mode string) error
	NotifyCameraAttached(ctx context.Context, device string) error
	NotifyCameraDetached(ctx context.Context, device string) error
	NotifyError(ctx context.Context, err error, context string) error
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

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
		sessions: cfg.Notifications.Sessions,
		errors:   cfg.Notifications.Errors,
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
	sessions bool
	errors   bool
}

func (n *ntfyService) NotifySessionStarted(ctx context.Context, mode string, points int) error {
	if !n.sessions {
		return nil
	}
	data := payload{
		title:   "Gazecap - Session Started",
		message: fmt.Sprintf("Capture session started: %s (%d points)", strings.TrimSpace(mode), points),
		tags:    []string{"gazecap", "session", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionCompleted(ctx context.Context, mode string, success, total int, duration time.Duration) error {
	if !n.sessions {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if success == total {
		title = "Gazecap - Session Complete"
		message = fmt.Sprintf("Session complete: %d/%d points captured in %s", success, total, durationText)
	} else {
		title = "Gazecap - Session Complete (with failures)"
		message = fmt.Sprintf("Session complete: %d/%d points captured in %s", success, total, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"gazecap", "session", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionFailed(ctx context.Context, mode string, success, total int, failures []string) error {
	if !n.sessions {
		return nil
	}
	message := fmt.Sprintf("Session failed: %d/%d points captured (%s)", success, total, strings.TrimSpace(mode))
	if len(failures) > 0 {
		message += "\n" + strings.Join(failures, "\n")
	}
	data := payload{
		title:    "Gazecap - Session Failed",
		message:  message,
		tags:     []string{"gazecap", "session", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionCancelled(ctx context.Context, mode string) error {
	if !n.sessions {
		return nil
	}
	data := payload{
		title:   "Gazecap - Session Cancelled",
		message: fmt.Sprintf("Capture session cancelled: %s", strings.TrimSpace(mode)),
		tags:    []string{"gazecap", "session", "cancelled"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCameraAttached(ctx context.Context, device string) error {
	data := payload{
		title:   "Gazecap - Camera Attached",
		message: fmt.Sprintf("Camera attached: %s", strings.TrimSpace(device)),
		tags:    []string{"gazecap", "camera", "attached"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCameraDetached(ctx context.Context, device string) error {
	data := payload{
		title:   "Gazecap - Camera Detached",
		message: fmt.Sprintf("Camera detached: %s", strings.TrimSpace(device)),
		tags:    []string{"gazecap", "camera", "detached"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Gazecap - Error",
		message:  builder.String(),
		tags:     []string{"gazecap", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Gazecap - Test",
		message:  "Notification system test",
		tags:     []string{"gazecap", "test"},
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

func (noopService) NotifySessionStarted(context.Context, string, int) error { return nil }
func (noopService) NotifySessionCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifySessionFailed(context.Context, string, int, int, []string) error {
	return nil
}
func (noopService) NotifySessionCancelled(context.Context, string) error { return nil }
func (noopService) NotifyCameraAttached(context.Context, string) error   { return nil }
func (noopService) NotifyCameraDetached(context.Context, string) error   { return nil }
func (noopService) NotifyError(context.Context, error, string) error     { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
