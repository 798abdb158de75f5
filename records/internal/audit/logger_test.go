package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

type captureSink struct {
	entries []*models.AuditEntry
	err     error
}

func (s *captureSink) LogAudit(_ context.Context, entry *models.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

type capturePublisher struct {
	subjects []string
	err      error
}

func (p *capturePublisher) PublishJSON(subject string, _ any) error {
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	return nil
}

func newTestLogger(sink Sink) *Logger {
	log := logging.NewWithWriter(io.Discard, slog.LevelError, "json")
	return NewLogger("test-audit-secret", sink, log)
}

func TestLogSignsEntries(t *testing.T) {
	sink := &captureSink{}
	l := newTestLogger(sink)

	l.Log(context.Background(), "user-1", "alice", "login", "session", "sess-1", "198.51.100.7", "success", "", nil)

	if len(sink.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.ID == "" || entry.Timestamp.IsZero() {
		t.Error("entry missing ID or timestamp")
	}
	if entry.Signature == "" {
		t.Fatal("entry is unsigned")
	}
	if !l.Verify(entry) {
		t.Error("signature does not verify")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	sink := &captureSink{}
	l := newTestLogger(sink)

	l.Log(context.Background(), "user-1", "alice", "login", "session", "sess-1", "", "success", "", nil)
	entry := sink.entries[0]

	entry.ActorID = "user-2"
	if l.Verify(entry) {
		t.Error("tampered entry should not verify")
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	sink := &captureSink{}
	l := newTestLogger(sink)
	l.Log(context.Background(), "user-1", "alice", "login", "session", "", "", "success", "", nil)

	other := NewLogger("different-secret", sink, logging.NewWithWriter(io.Discard, slog.LevelError, "json"))
	if other.Verify(sink.entries[0]) {
		t.Error("entry signed with another key should not verify")
	}
}

func TestLogSinkFailureDoesNotPanic(t *testing.T) {
	l := newTestLogger(&captureSink{err: errors.New("db down")})

	// Must not panic or propagate; audit failures never fail the request.
	l.Log(context.Background(), "user-1", "alice", "login", "session", "", "", "failure", "bad password", nil)
}

func TestLogPublishes(t *testing.T) {
	sink := &captureSink{}
	pub := &capturePublisher{}
	l := newTestLogger(sink).WithPublisher(pub)

	l.Log(context.Background(), "user-1", "alice", "office.create", "office", "office-1", "", "success", "", map[string]interface{}{"name": "downtown"})

	if len(pub.subjects) != 1 || pub.subjects[0] != "dialdesk.audit.events" {
		t.Errorf("published subjects = %v", pub.subjects)
	}
}

func TestLogPublishFailureStillPersists(t *testing.T) {
	sink := &captureSink{}
	l := newTestLogger(sink).WithPublisher(&capturePublisher{err: errors.New("bus down")})

	l.Log(context.Background(), "user-1", "alice", "login", "session", "", "", "success", "", nil)

	if len(sink.entries) != 1 {
		t.Fatalf("entry not persisted when publish fails")
	}
}
