package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/domain/workshop"
)

func TestSubject(t *testing.T) {
	cases := map[string]string{
		"":            "workshop.ready",
		"acme":        "acme.workshop.ready",
		" acme.svc. ": "acme.svc.workshop.ready",
	}
	for prefix, want := range cases {
		if got := Subject(prefix, workshop.EventReady); got != want {
			t.Fatalf("Subject(%q) = %q, want %q", prefix, got, want)
		}
	}
}

func TestLogNotifierWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := logging.WithLogger(context.Background(), logger)

	err := NewLogNotifier().Notify(ctx, workshop.Notification{
		Event:   workshop.EventIntake,
		JobID:   "job-1",
		Status:  workshop.StatusReceived,
		Message: "received",
	})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"event=workshop.intake", "job_id=job-1", "component=notify.log"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}
