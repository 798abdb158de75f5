package audit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

// Sink persists signed audit entries.
type Sink interface {
	LogAudit(ctx context.Context, entry *models.AuditEntry) error
}

// Publisher fans audit entries out to a message bus. Optional.
type Publisher interface {
	PublishJSON(subject string, v any) error
}

const auditSubject = "dialdesk.audit.events"

type Logger struct {
	secretKey []byte
	sink      Sink
	publisher Publisher
	log       *logging.Logger
}

func NewLogger(secretKey string, sink Sink, log *logging.Logger) *Logger {
	return &Logger{
		secretKey: []byte(secretKey),
		sink:      sink,
		log:       log,
	}
}

// WithPublisher attaches a bus publisher; entries are published after being
// persisted.
func (l *Logger) WithPublisher(p Publisher) *Logger {
	l.publisher = p
	return l
}

func (l *Logger) Log(ctx context.Context, actorID, actorName, action, resourceType, resourceID, ipAddress, result, errMsg string, metadata map[string]interface{}) {
	entry := &models.AuditEntry{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		ActorID:      actorID,
		ActorName:    actorName,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Result:       result,
		ErrorMessage: errMsg,
		Metadata:     metadata,
	}
	entry.Signature = l.sign(entry)

	if err := l.sink.LogAudit(ctx, entry); err != nil {
		// Audit failures must not fail the request.
		l.log.ErrorContext(ctx, "failed to persist audit entry",
			logging.Error(err),
			"action", action,
		)
	}

	if l.publisher != nil {
		if err := l.publisher.PublishJSON(auditSubject, entry); err != nil {
			l.log.WarnContext(ctx, "failed to publish audit entry",
				logging.Error(err),
				"action", action,
			)
		}
	}
}

func (l *Logger) sign(entry *models.AuditEntry) string {
	data := []byte(entry.ID + entry.Timestamp.Format(time.RFC3339Nano) + entry.ActorID + entry.Action + entry.ResourceType + entry.Result)
	h := hmac.New(sha256.New, l.secretKey)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes an entry's signature and compares it in constant time.
func (l *Logger) Verify(entry *models.AuditEntry) bool {
	expected := l.sign(entry)
	return hmac.Equal([]byte(expected), []byte(entry.Signature))
}
