package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/dialdesk-systems/dialdesk-stack/common/middleware"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo, "json")

	log.Info("office created", OfficeID("office-1"))

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "office created" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record[FieldOfficeID] != "office-1" {
		t.Errorf("office_id = %v, want office-1", record[FieldOfficeID])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelWarn, "json")

	log.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info record emitted below warn level: %s", buf.String())
	}

	log.Warn("should be kept")
	if buf.Len() == 0 {
		t.Error("warn record missing")
	}
}

func TestWithContextAttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo, "json")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	log.InfoContext(ctx, "handled")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", record["request_id"])
	}
}

func TestWithContextNoRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo, "json")

	log.InfoContext(context.Background(), "handled")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := record["request_id"]; ok {
		t.Error("request_id should be absent without middleware context")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo, "text")

	log.Info("hello", Service("records"))

	out := buf.String()
	if out == "" {
		t.Fatal("no output")
	}
	if json.Valid(buf.Bytes()) {
		t.Error("text format should not emit JSON")
	}
}
