package models

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ValidateRequest struct {
	Token string `json:"token"`
}

type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

type CreateUserRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Superuser bool     `json:"superuser"`
	Roles     []string `json:"roles"`
}

type CreateOfficeRequest struct {
	Name    string `json:"name"`
	AdminID string `json:"admin_id"`
}

type CreateLineRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type CreateGrantRequest struct {
	UserID       string `json:"user_id"`
	ResourceKind string `json:"resource_kind"`
	ResourceID   string `json:"resource_id"`
	Level        int    `json:"level"`
}

type CreateEnterpriseRequest struct {
	OfficeID string `json:"office_id"`
	Name     string `json:"name"`
}

// IngestRecordRequest carries one history record of any kind in the same
// single-key wrapper form the history feed emits.
type IngestRecordRequest struct {
	Call      *CallRecord     `json:"call,omitempty"`
	Message   *MessageRecord  `json:"message,omitempty"`
	CallV2    *CallSession    `json:"call_v2,omitempty"`
	MessageV2 *MessageSession `json:"message_v2,omitempty"`
}

type LineListResponse struct {
	OfficeID string  `json:"office_id"`
	Lines    []*Line `json:"lines"`
}

type HistoryResponse struct {
	EnterpriseID string                   `json:"enterprise_id"`
	Count        int                      `json:"count"`
	History      []map[string]interface{} `json:"history"`
}
