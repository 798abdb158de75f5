// Package service implements the DialDesk records business logic on top of
// the repository layer.
package service

import (
	"errors"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/audit"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/repository"
	"github.com/dialdesk-systems/dialdesk-stack/records/pkg/tokens"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	repo     repository.Repository
	tokenGen *tokens.TokenGenerator
	auditLog *audit.Logger
	log      *logging.Logger
}

func New(repo repository.Repository, tokenGen *tokens.TokenGenerator, auditLog *audit.Logger, log *logging.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenGen: tokenGen,
		auditLog: auditLog,
		log:      log,
	}
}

// TokenGenerator exposes the generator so callers can inspect issued tokens
// directly; request validation goes through Validate.
func (s *Service) TokenGenerator() *tokens.TokenGenerator {
	return s.tokenGen
}
