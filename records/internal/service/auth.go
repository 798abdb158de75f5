package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/metrics"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

func (s *Service) Login(ctx context.Context, req *models.LoginRequest, ipAddress string) (*models.LoginResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.auditLog.Log(ctx, "", req.Username, models.ActionLogin, "session", "",
			ipAddress, models.ResultFailure, "user not found", nil)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.auditLog.Log(ctx, user.ID, user.Username, models.ActionLogin, "session", "",
			ipAddress, models.ResultFailure, "account disabled", nil)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.auditLog.Log(ctx, user.ID, user.Username, models.ActionLogin, "session", "",
			ipAddress, models.ResultFailure, "invalid password", nil)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(user.ID, user.Roles, user.Superuser)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenGen.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	sessionID, _ := uuid.NewV7()
	session := &models.Session{
		ID:           sessionID.String(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.tokenGen.RefreshTTL()),
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.auditLog.Log(ctx, user.ID, user.Username, models.ActionLogin, "session", session.ID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"roles": user.Roles})

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.tokenGen.AccessTTL()),
		User:         user,
	}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken, ipAddress string) (*models.LoginResponse, error) {
	session, err := s.repo.GetSession(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if session.IsRevoked() || time.Now().After(session.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !user.IsActive() {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.tokenGen.GenerateAccessToken(user.ID, user.Roles, user.Superuser)
	if err != nil {
		return nil, err
	}

	s.auditLog.Log(ctx, user.ID, user.Username, models.ActionRefresh, "session", session.ID,
		ipAddress, models.ResultSuccess, "", nil)

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.tokenGen.AccessTTL()),
		User:         user,
	}, nil
}

func (s *Service) Validate(_ context.Context, token string) *models.ValidateResponse {
	claims, err := s.tokenGen.ValidateAccessToken(token)
	if err != nil {
		return &models.ValidateResponse{Valid: false}
	}

	return &models.ValidateResponse{
		Valid:  true,
		UserID: claims.UserID,
		Roles:  claims.Roles,
	}
}

func (s *Service) CreateUser(ctx context.Context, req *models.CreateUserRequest, actorID, ipAddress string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID, _ := uuid.NewV7()
	user := &models.User{
		ID:           userID.String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Superuser:    req.Superuser,
		Roles:        req.Roles,
		CreatedAt:    time.Now(),
	}

	if len(user.Roles) == 0 {
		user.Roles = []string{string(models.RoleViewer)}
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.auditLog.Log(ctx, actorID, "", models.ActionUserCreate, "user", user.ID,
			ipAddress, models.ResultFailure, err.Error(), nil)
		return nil, err
	}

	s.auditLog.Log(ctx, actorID, "", models.ActionUserCreate, "user", user.ID,
		ipAddress, models.ResultSuccess, "",
		map[string]interface{}{"username": user.Username, "roles": user.Roles})

	s.log.InfoContext(ctx, "user created",
		logging.UserID(user.ID),
		logging.Username(user.Username),
	)

	return user, nil
}

// GetUser looks up a user by ID. Used by the auth middleware after token
// validation.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
