package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

func (s *Service) CreateOffice(ctx context.Context, req *models.CreateOfficeRequest, actorID, ipAddress string) (*models.Office, error) {
	officeID, _ := uuid.NewV7()
	office := &models.Office{
		ID:        officeID.String(),
		Name:      req.Name,
		AdminID:   req.AdminID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateOffice(ctx, office); err != nil {
		s.auditLog.Log(ctx, actorID, "", models.ActionOfficeCreate, "office", office.ID,
			ipAddress, models.ResultFailure, err.Error(), nil)
		return nil, err
	}

	s.auditLog.Log(ctx, actorID, "", models.ActionOfficeCreate, "office", office.ID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"name": office.Name})

	return office, nil
}

func (s *Service) CreateLine(ctx context.Context, officeID string, req *models.CreateLineRequest, actorID, ipAddress string) (*models.Line, error) {
	// The office must exist before a line can be attached to it.
	if _, err := s.repo.GetOffice(ctx, officeID); err != nil {
		return nil, err
	}

	lineID, _ := uuid.NewV7()
	line := &models.Line{
		ID:        lineID.String(),
		OfficeID:  officeID,
		Name:      req.Name,
		Number:    req.Number,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateLine(ctx, line); err != nil {
		s.auditLog.Log(ctx, actorID, "", models.ActionLineCreate, "line", line.ID,
			ipAddress, models.ResultFailure, err.Error(), nil)
		return nil, err
	}

	s.auditLog.Log(ctx, actorID, "", models.ActionLineCreate, "line", line.ID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"office_id": officeID, "name": line.Name})

	return line, nil
}

// ListOfficeLines returns the lines in an office visible to the given user,
// ordered by name. Superusers and the office admin see every line; anyone
// else sees only the lines covered by an active access grant. A user with no
// active grants gets an empty list, not an error.
func (s *Service) ListOfficeLines(ctx context.Context, user *models.User, officeID, ipAddress string) ([]*models.Line, error) {
	lines, err := s.visibleLines(ctx, user, officeID)
	if err != nil {
		return nil, err
	}

	s.auditLog.Log(ctx, user.ID, user.Username, models.ActionLineList, "office", officeID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"count": len(lines)})

	return lines, nil
}

func (s *Service) visibleLines(ctx context.Context, user *models.User, officeID string) ([]*models.Line, error) {
	office, err := s.repo.GetOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}

	if user.Superuser || office.AdminID == user.ID {
		return s.repo.ListLinesByOffice(ctx, officeID)
	}

	grants, err := s.repo.ListActiveGrants(ctx, user.ID, officeID, models.ResourceKindLine)
	if err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		s.log.DebugContext(ctx, "no active grants for user in office",
			logging.UserID(user.ID),
			logging.OfficeID(officeID),
		)
		return []*models.Line{}, nil
	}

	ids := make([]string, 0, len(grants))
	for _, grant := range grants {
		ids = append(ids, grant.ResourceID)
	}

	lines, err := s.repo.ListLinesByIDs(ctx, officeID, ids)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []*models.Line{}
	}
	return lines, nil
}

// LogDenied records a rejected request in the audit trail. The user may be
// nil when the denial fired before authentication resolved.
func (s *Service) LogDenied(ctx context.Context, user *models.User, path, reason, ipAddress string) {
	var actorID, actorName string
	if user != nil {
		actorID, actorName = user.ID, user.Username
	}
	s.auditLog.Log(ctx, actorID, actorName, models.ActionDenied, "route", path,
		ipAddress, models.ResultFailure, reason, nil)
}

// IsOfficeMember reports whether the user has any access relationship to the
// office: superusers and the office administrator are members, as is anyone
// holding at least one active grant there. A missing office surfaces as
// ErrOfficeNotFound so callers can answer 404 instead of 403.
func (s *Service) IsOfficeMember(ctx context.Context, user *models.User, officeID string) (bool, error) {
	if user.Superuser {
		return true, nil
	}

	office, err := s.repo.GetOffice(ctx, officeID)
	if err != nil {
		return false, err
	}
	if office.AdminID == user.ID {
		return true, nil
	}

	grants, err := s.repo.ListActiveGrants(ctx, user.ID, officeID, models.ResourceKindLine)
	if err != nil {
		return false, err
	}
	return len(grants) > 0, nil
}

func (s *Service) CreateGrant(ctx context.Context, officeID string, req *models.CreateGrantRequest, actorID, ipAddress string) (*models.AccessGrant, error) {
	if _, err := s.repo.GetOffice(ctx, officeID); err != nil {
		return nil, err
	}

	grantID, _ := uuid.NewV7()
	grant := &models.AccessGrant{
		ID:           grantID.String(),
		UserID:       req.UserID,
		OfficeID:     officeID,
		ResourceKind: req.ResourceKind,
		ResourceID:   req.ResourceID,
		Level:        req.Level,
		CreatedAt:    time.Now(),
	}
	if grant.ResourceKind == "" {
		grant.ResourceKind = models.ResourceKindLine
	}

	if err := s.repo.CreateGrant(ctx, grant); err != nil {
		s.auditLog.Log(ctx, actorID, "", models.ActionGrantCreate, "grant", grant.ID,
			ipAddress, models.ResultFailure, err.Error(), nil)
		return nil, err
	}

	s.auditLog.Log(ctx, actorID, "", models.ActionGrantCreate, "grant", grant.ID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{
			"user_id":     req.UserID,
			"office_id":   officeID,
			"resource_id": req.ResourceID,
			"level":       req.Level,
		})

	return grant, nil
}
