package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrOfficeNotFound     = errors.New("office not found")
	ErrOfficeExists       = errors.New("office already exists")
	ErrLineExists         = errors.New("line already exists")
	ErrEnterpriseNotFound = errors.New("enterprise not found")
)

// HistoryFilter bounds history source queries by creation time. Filtering is
// applied only when BOTH bounds are present; a single bound leaves every
// source unfiltered.
type HistoryFilter struct {
	DateStart *time.Time
	DateEnd   *time.Time
}

// Bounded reports whether the filter constrains creation time.
func (f HistoryFilter) Bounded() bool {
	return f.DateStart != nil && f.DateEnd != nil
}

// Repository is the storage contract for the records service. Postgres backs
// production; the in-memory implementation backs tests and development.
type Repository interface {
	// Users and sessions
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, refreshToken string) (*models.Session, error)
	RevokeSession(ctx context.Context, refreshToken string) error

	// Offices, lines, grants
	CreateOffice(ctx context.Context, office *models.Office) error
	GetOffice(ctx context.Context, id string) (*models.Office, error)
	CreateLine(ctx context.Context, line *models.Line) error
	ListLinesByOffice(ctx context.Context, officeID string) ([]*models.Line, error)
	ListLinesByIDs(ctx context.Context, officeID string, ids []string) ([]*models.Line, error)
	CreateGrant(ctx context.Context, grant *models.AccessGrant) error
	ListActiveGrants(ctx context.Context, userID, officeID, resourceKind string) ([]*models.AccessGrant, error)

	// Enterprises and history sources
	CreateEnterprise(ctx context.Context, enterprise *models.Enterprise) error
	GetEnterprise(ctx context.Context, id string) (*models.Enterprise, error)
	InsertCallRecord(ctx context.Context, rec *models.CallRecord) error
	InsertMessageRecord(ctx context.Context, rec *models.MessageRecord) error
	InsertCallSession(ctx context.Context, rec *models.CallSession) error
	InsertMessageSession(ctx context.Context, rec *models.MessageSession) error
	ListCallRecords(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.CallRecord, error)
	ListMessageRecords(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.MessageRecord, error)
	ListCallSessions(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.CallSession, error)
	ListMessageSessions(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.MessageSession, error)

	// Audit
	LogAudit(ctx context.Context, entry *models.AuditEntry) error

	Close()
}
