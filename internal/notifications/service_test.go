package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gazecap/internal/config"
	"gazecap/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySessionCompleted(context.Background(), "single", 1, 1, time.Second); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "session started",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionStarted(context.Background(), "calibration_grid", 16)
			},
			expectTitle:   "Gazecap - Session Started",
			expectMessage: "Capture session started: calibration_grid (16 points)",
			expectTags:    "gazecap,session,started",
		},
		{
			name: "session completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionCompleted(context.Background(), "calibration_grid", 16, 16, 90*time.Second)
			},
			expectTitle:   "Gazecap - Session Complete",
			expectMessage: "Session complete: 16/16 points captured in 1m30s",
			expectTags:    "gazecap,session,completed",
		},
		{
			name: "session completed with failures",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionCompleted(context.Background(), "calibration_grid", 14, 16, time.Minute)
			},
			expectTitle:   "Gazecap - Session Complete (with failures)",
			expectMessage: "Session complete: 14/16 points captured in 1m0s",
			expectTags:    "gazecap,session,completed",
		},
		{
			name: "session failed",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionFailed(context.Background(), "single", 0, 1, []string{"point 1: persistence failed"})
			},
			expectTitle:    "Gazecap - Session Failed",
			expectMessage:  "Session failed: 0/1 points captured (single)\npoint 1: persistence failed",
			expectTags:     "gazecap,session,failed",
			expectPriority: "high",
		},
		{
			name: "session cancelled",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionCancelled(context.Background(), "single")
			},
			expectTitle:   "Gazecap - Session Cancelled",
			expectMessage: "Capture session cancelled: single",
			expectTags:    "gazecap,session,cancelled",
		},
		{
			name: "camera attached",
			notify: func(svc notifications.Service) error {
				return svc.NotifyCameraAttached(context.Background(), "/dev/video2")
			},
			expectTitle:   "Gazecap - Camera Attached",
			expectMessage: "Camera attached: /dev/video2",
			expectTags:    "gazecap,camera,attached",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("camera denied"), "capture")
			},
			expectTitle:    "Gazecap - Error",
			expectMessage:  "Error with capture: camera denied",
			expectTags:     "gazecap,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.Sessions = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceRespectsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Sessions = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifySessionStarted(context.Background(), "single", 1); err != nil {
		t.Fatalf("suppressed session notification returned error: %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "capture"); err != nil {
		t.Fatalf("suppressed error notification returned error: %v", err)
	}
}
