package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestHistoryItemKind(t *testing.T) {
	tests := []struct {
		name string
		item HistoryItem
		want RecordKind
	}{
		{"call", NewHistoryCall(&CallRecord{ID: "c1"}), KindCall},
		{"message", NewHistoryMessage(&MessageRecord{ID: "m1"}), KindMessage},
		{"call session", NewHistoryCallV2(&CallSession{ID: "cs1"}), KindCallV2},
		{"message session", NewHistoryMessageV2(&MessageSession{ID: "ms1"}), KindMessageV2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := tt.item.Kind()
			if err != nil {
				t.Fatalf("Kind() returned error: %v", err)
			}
			if kind != tt.want {
				t.Errorf("Kind() = %q, want %q", kind, tt.want)
			}
		})
	}
}

func TestHistoryItemKindEmpty(t *testing.T) {
	_, err := HistoryItem{}.Kind()
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("Kind() on empty item = %v, want ErrUnknownKind", err)
	}
}

func TestHistoryItemWrap(t *testing.T) {
	item := NewHistoryMessage(&MessageRecord{
		ID:        "msg-1",
		Sender:    "+15550100",
		Recipient: "+15550200",
		Body:      "hello",
	})

	wrapped, err := item.Wrap()
	if err != nil {
		t.Fatalf("Wrap() returned error: %v", err)
	}
	if len(wrapped) != 1 {
		t.Fatalf("Wrap() produced %d keys, want exactly 1", len(wrapped))
	}
	if _, ok := wrapped["message"]; !ok {
		t.Errorf("Wrap() missing %q key, got %v", "message", wrapped)
	}
}

func TestHistoryItemMarshalJSON(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	item := NewHistoryCall(&CallRecord{
		ID:              "call-1",
		EnterpriseID:    "ent-1",
		Caller:          "+15550100",
		Callee:          "+15550200",
		DurationSeconds: 120,
		Status:          "completed",
		CreatedAt:       created,
	})

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var decoded map[string]map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not a wrapper object: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("wrapper has %d keys, want 1: %s", len(decoded), data)
	}
	call, ok := decoded["call"]
	if !ok {
		t.Fatalf("wrapper key missing, got %s", data)
	}
	if call["id"] != "call-1" {
		t.Errorf("call id = %v, want call-1", call["id"])
	}
	if call["duration_seconds"] != float64(120) {
		t.Errorf("duration = %v, want 120", call["duration_seconds"])
	}
}

func TestHistoryItemMarshalEmptyFails(t *testing.T) {
	_, err := json.Marshal(HistoryItem{})
	if err == nil {
		t.Fatal("marshaling an empty item should fail, not produce null")
	}
	if !errors.Is(err, ErrUnknownKind) {
		// json wraps marshaler errors; the cause must still be visible.
		var jsonErr *json.MarshalerError
		if !errors.As(err, &jsonErr) || !errors.Is(jsonErr.Err, ErrUnknownKind) {
			t.Errorf("error should carry ErrUnknownKind, got %v", err)
		}
	}
}

func TestHistoryItemOrderingAccessors(t *testing.T) {
	created := time.Date(2024, 5, 4, 9, 30, 0, 0, time.UTC)
	item := NewHistoryCallV2(&CallSession{ID: "cs-9", SessionID: "sess-1", CreatedAt: created})

	if got := item.CreatedAt(); !got.Equal(created) {
		t.Errorf("CreatedAt() = %v, want %v", got, created)
	}
	if got := item.RecordID(); got != "cs-9" {
		t.Errorf("RecordID() = %q, want cs-9", got)
	}

	var empty HistoryItem
	if !empty.CreatedAt().IsZero() {
		t.Error("empty item CreatedAt() should be zero")
	}
	if empty.RecordID() != "" {
		t.Error("empty item RecordID() should be empty")
	}
}

func TestUserCan(t *testing.T) {
	viewer := &User{Roles: []string{string(RoleViewer)}}
	if !viewer.Can("lines:read") {
		t.Error("viewer should hold lines:read")
	}
	if viewer.Can("lines:create") {
		t.Error("viewer should not hold lines:create")
	}

	super := &User{Superuser: true}
	if !super.Can("users:create") {
		t.Error("superuser should hold every permission")
	}

	disabled := time.Now()
	u := &User{DisabledAt: &disabled}
	if u.IsActive() {
		t.Error("disabled user should not be active")
	}
}
