package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/audit"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/repository"
	"github.com/dialdesk-systems/dialdesk-stack/records/pkg/tokens"
)

func newTestService(t *testing.T) (*Service, *repository.MemoryRepository) {
	t.Helper()

	repo := repository.NewMemoryRepository()
	log := logging.NewWithWriter(io.Discard, slog.LevelError, "text")
	tokenGen := tokens.NewTokenGenerator("test-secret-key-that-is-long-enough", 15*time.Minute, 24*time.Hour)
	auditLog := audit.NewLogger("test-audit-secret", repo, log)

	return New(repo, tokenGen, auditLog, log), repo
}

func seedUser(t *testing.T, repo *repository.MemoryRepository, username, password string, superuser bool, roles ...string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           "user-" + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Superuser:    superuser,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
