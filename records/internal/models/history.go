package models

import (
	"encoding/json"
	"errors"
	"time"
)

// RecordKind identifies which of the four history sources an item came from.
// The string value doubles as the wrapper key on the wire.
type RecordKind string

const (
	KindCall      RecordKind = "call"
	KindMessage   RecordKind = "message"
	KindCallV2    RecordKind = "call_v2"
	KindMessageV2 RecordKind = "message_v2"
)

// ErrUnknownKind is returned when a history item carries none of the four
// known record kinds. Callers log the item and drop it rather than emitting
// a null representation.
var ErrUnknownKind = errors.New("unknown history record kind")

// CallRecord is a completed v1 call tied to an enterprise.
type CallRecord struct {
	ID              string    `json:"id"`
	EnterpriseID    string    `json:"enterprise_id"`
	Caller          string    `json:"caller"`
	Callee          string    `json:"callee"`
	DurationSeconds int       `json:"duration_seconds"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// MessageRecord is a v1 text message tied to an enterprise.
type MessageRecord struct {
	ID           string    `json:"id"`
	EnterpriseID string    `json:"enterprise_id"`
	Sender       string    `json:"sender"`
	Recipient    string    `json:"recipient"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// CallSession is a v2 call leg. Multiple rows can share a session ID; the
// history feed keeps one row per session.
type CallSession struct {
	ID           string    `json:"id"`
	EnterpriseID string    `json:"enterprise_id"`
	SessionID    string    `json:"session_id"`
	Caller       string    `json:"caller"`
	Callee       string    `json:"callee"`
	Direction    string    `json:"direction"`
	CreatedAt    time.Time `json:"created_at"`
	ArrivedAt    time.Time `json:"arrived_at"`
}

// MessageSession is a v2 message delivery. Like CallSession, rows sharing a
// session ID collapse to one history item.
type MessageSession struct {
	ID           string    `json:"id"`
	EnterpriseID string    `json:"enterprise_id"`
	SessionID    string    `json:"session_id"`
	Sender       string    `json:"sender"`
	Recipient    string    `json:"recipient"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	ArrivedAt    time.Time `json:"arrived_at"`
}

// HistoryItem is a tagged union over the four record kinds. Exactly one field
// is non-nil for a valid item; construction goes through the NewHistory*
// helpers so the invariant holds everywhere downstream.
type HistoryItem struct {
	Call      *CallRecord
	Message   *MessageRecord
	CallV2    *CallSession
	MessageV2 *MessageSession
}

// NewHistoryCall wraps a v1 call record.
func NewHistoryCall(r *CallRecord) HistoryItem { return HistoryItem{Call: r} }

// NewHistoryMessage wraps a v1 message record.
func NewHistoryMessage(r *MessageRecord) HistoryItem { return HistoryItem{Message: r} }

// NewHistoryCallV2 wraps a v2 call session.
func NewHistoryCallV2(r *CallSession) HistoryItem { return HistoryItem{CallV2: r} }

// NewHistoryMessageV2 wraps a v2 message session.
func NewHistoryMessageV2(r *MessageSession) HistoryItem { return HistoryItem{MessageV2: r} }

// Kind returns the record kind of the item, or ErrUnknownKind when the item
// carries no record.
func (it HistoryItem) Kind() (RecordKind, error) {
	switch {
	case it.Call != nil:
		return KindCall, nil
	case it.Message != nil:
		return KindMessage, nil
	case it.CallV2 != nil:
		return KindCallV2, nil
	case it.MessageV2 != nil:
		return KindMessageV2, nil
	default:
		return "", ErrUnknownKind
	}
}

// CreatedAt returns the creation timestamp used for merge ordering.
// Zero for an empty item.
func (it HistoryItem) CreatedAt() time.Time {
	switch {
	case it.Call != nil:
		return it.Call.CreatedAt
	case it.Message != nil:
		return it.Message.CreatedAt
	case it.CallV2 != nil:
		return it.CallV2.CreatedAt
	case it.MessageV2 != nil:
		return it.MessageV2.CreatedAt
	default:
		return time.Time{}
	}
}

// RecordID returns the originating record's ID, used as the final ordering
// tie-break. Empty for an empty item.
func (it HistoryItem) RecordID() string {
	switch {
	case it.Call != nil:
		return it.Call.ID
	case it.Message != nil:
		return it.Message.ID
	case it.CallV2 != nil:
		return it.CallV2.ID
	case it.MessageV2 != nil:
		return it.MessageV2.ID
	default:
		return ""
	}
}

// Wrap renders the item as its wire representation: a single-key object
// whose key is the kind tag and whose value is the kind-specific record.
func (it HistoryItem) Wrap() (map[string]interface{}, error) {
	kind, err := it.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindCall:
		return map[string]interface{}{string(KindCall): it.Call}, nil
	case KindMessage:
		return map[string]interface{}{string(KindMessage): it.Message}, nil
	case KindCallV2:
		return map[string]interface{}{string(KindCallV2): it.CallV2}, nil
	case KindMessageV2:
		return map[string]interface{}{string(KindMessageV2): it.MessageV2}, nil
	}
	return nil, ErrUnknownKind
}

// MarshalJSON emits the single-key wrapper form. Marshaling an empty item
// fails with ErrUnknownKind instead of producing null.
func (it HistoryItem) MarshalJSON() ([]byte, error) {
	wrapped, err := it.Wrap()
	if err != nil {
		return nil, err
	}
	return json.Marshal(wrapped)
}
