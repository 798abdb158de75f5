package models

import "time"

// AuditEntry is one row in the append-only audit log. Entries are HMAC-signed
// at write time so tampering is detectable offline.
type AuditEntry struct {
	ID           string                 `json:"id"`
	Timestamp    time.Time              `json:"timestamp"`
	ActorID      string                 `json:"actor_id"`
	ActorName    string                 `json:"actor_name"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	IPAddress    string                 `json:"ip_address"`
	Result       string                 `json:"result"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Signature    string                 `json:"signature"`
}

// Audit actions.
const (
	ActionLogin            = "auth.login"
	ActionRefresh          = "auth.refresh"
	ActionUserCreate       = "user.create"
	ActionOfficeCreate     = "office.create"
	ActionLineCreate       = "line.create"
	ActionLineList         = "line.list"
	ActionGrantCreate      = "grant.create"
	ActionEnterpriseCreate = "enterprise.create"
	ActionRecordIngest     = "record.ingest"
	ActionHistoryRead      = "history.read"
	ActionDenied           = "access.denied"
)

// Audit results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
