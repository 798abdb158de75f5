package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

// MemoryRepository is an in-memory Repository used for development and tests.
type MemoryRepository struct {
	mu              sync.RWMutex
	users           map[string]*models.User
	usersByName     map[string]string
	sessions        map[string]*models.Session
	offices         map[string]*models.Office
	lines           map[string]*models.Line
	grants          []*models.AccessGrant
	enterprises     map[string]*models.Enterprise
	callRecords     []*models.CallRecord
	messageRecords  []*models.MessageRecord
	callSessions    []*models.CallSession
	messageSessions []*models.MessageSession
	auditEntries    []*models.AuditEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[string]*models.User),
		usersByName: make(map[string]string),
		sessions:    make(map[string]*models.Session),
		offices:     make(map[string]*models.Office),
		lines:       make(map[string]*models.Line),
		enterprises: make(map[string]*models.Enterprise),
	}
}

func (r *MemoryRepository) Close() {}

func (r *MemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByName[user.Username]; exists {
		return ErrUserExists
	}

	u := *user
	r.users[u.ID] = &u
	r.usersByName[u.Username] = u.ID
	return nil
}

func (r *MemoryRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usersByName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *r.users[id]
	return &u, nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (r *MemoryRepository) CreateSession(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *session
	r.sessions[s.RefreshToken] = &s
	return nil
}

func (r *MemoryRepository) GetSession(_ context.Context, refreshToken string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[refreshToken]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := *session
	return &s, nil
}

func (r *MemoryRepository) RevokeSession(_ context.Context, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[refreshToken]
	if !ok || session.RevokedAt != nil {
		return ErrSessionNotFound
	}
	now := time.Now().UTC()
	session.RevokedAt = &now
	return nil
}

func (r *MemoryRepository) CreateOffice(_ context.Context, office *models.Office) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.offices {
		if existing.Name == office.Name {
			return ErrOfficeExists
		}
	}

	o := *office
	r.offices[o.ID] = &o
	return nil
}

func (r *MemoryRepository) GetOffice(_ context.Context, id string) (*models.Office, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	office, ok := r.offices[id]
	if !ok {
		return nil, ErrOfficeNotFound
	}
	o := *office
	return &o, nil
}

func (r *MemoryRepository) CreateLine(_ context.Context, line *models.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.lines {
		if existing.OfficeID == line.OfficeID && existing.Number == line.Number {
			return ErrLineExists
		}
	}

	l := *line
	r.lines[l.ID] = &l
	return nil
}

func sortLines(lines []*models.Line) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].ID < lines[j].ID
	})
}

func (r *MemoryRepository) ListLinesByOffice(_ context.Context, officeID string) ([]*models.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lines []*models.Line
	for _, line := range r.lines {
		if line.OfficeID == officeID {
			l := *line
			lines = append(lines, &l)
		}
	}
	sortLines(lines)
	return lines, nil
}

func (r *MemoryRepository) ListLinesByIDs(_ context.Context, officeID string, ids []string) ([]*models.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var lines []*models.Line
	for _, line := range r.lines {
		if line.OfficeID == officeID && wanted[line.ID] {
			l := *line
			lines = append(lines, &l)
		}
	}
	sortLines(lines)
	return lines, nil
}

func (r *MemoryRepository) CreateGrant(_ context.Context, grant *models.AccessGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := *grant
	r.grants = append(r.grants, &g)
	return nil
}

func (r *MemoryRepository) ListActiveGrants(_ context.Context, userID, officeID, resourceKind string) ([]*models.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var grants []*models.AccessGrant
	for _, grant := range r.grants {
		if grant.UserID == userID && grant.OfficeID == officeID &&
			grant.ResourceKind == resourceKind && grant.Level != 0 {
			g := *grant
			grants = append(grants, &g)
		}
	}
	return grants, nil
}

func (r *MemoryRepository) CreateEnterprise(_ context.Context, enterprise *models.Enterprise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := *enterprise
	r.enterprises[e.ID] = &e
	return nil
}

func (r *MemoryRepository) GetEnterprise(_ context.Context, id string) (*models.Enterprise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enterprise, ok := r.enterprises[id]
	if !ok {
		return nil, ErrEnterpriseNotFound
	}
	e := *enterprise
	return &e, nil
}

func (r *MemoryRepository) InsertCallRecord(_ context.Context, rec *models.CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *rec
	r.callRecords = append(r.callRecords, &c)
	return nil
}

func (r *MemoryRepository) InsertMessageRecord(_ context.Context, rec *models.MessageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := *rec
	r.messageRecords = append(r.messageRecords, &m)
	return nil
}

func (r *MemoryRepository) InsertCallSession(_ context.Context, rec *models.CallSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *rec
	r.callSessions = append(r.callSessions, &c)
	return nil
}

func (r *MemoryRepository) InsertMessageSession(_ context.Context, rec *models.MessageSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := *rec
	r.messageSessions = append(r.messageSessions, &m)
	return nil
}

func inRange(createdAt time.Time, f HistoryFilter) bool {
	if !f.Bounded() {
		return true
	}
	return !createdAt.Before(*f.DateStart) && !createdAt.After(*f.DateEnd)
}

func (r *MemoryRepository) ListCallRecords(_ context.Context, enterpriseID string, f HistoryFilter) ([]*models.CallRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*models.CallRecord
	for _, rec := range r.callRecords {
		if rec.EnterpriseID == enterpriseID && inRange(rec.CreatedAt, f) {
			c := *rec
			records = append(records, &c)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (r *MemoryRepository) ListMessageRecords(_ context.Context, enterpriseID string, f HistoryFilter) ([]*models.MessageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*models.MessageRecord
	for _, rec := range r.messageRecords {
		if rec.EnterpriseID == enterpriseID && inRange(rec.CreatedAt, f) {
			m := *rec
			records = append(records, &m)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (r *MemoryRepository) ListCallSessions(_ context.Context, enterpriseID string, f HistoryFilter) ([]*models.CallSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*models.CallSession
	for _, rec := range r.callSessions {
		if rec.EnterpriseID == enterpriseID && inRange(rec.CreatedAt, f) {
			c := *rec
			records = append(records, &c)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (r *MemoryRepository) ListMessageSessions(_ context.Context, enterpriseID string, f HistoryFilter) ([]*models.MessageSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*models.MessageSession
	for _, rec := range r.messageSessions {
		if rec.EnterpriseID == enterpriseID && inRange(rec.CreatedAt, f) {
			m := *rec
			records = append(records, &m)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (r *MemoryRepository) LogAudit(_ context.Context, entry *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := *entry
	r.auditEntries = append(r.auditEntries, &e)
	return nil
}

// AuditEntries returns a copy of the recorded audit log, newest last.
func (r *MemoryRepository) AuditEntries() []*models.AuditEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*models.AuditEntry, len(r.auditEntries))
	copy(entries, r.auditEntries)
	return entries
}
