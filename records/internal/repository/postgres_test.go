package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

// setupTestDatabase creates a PostgreSQL testcontainer and runs migrations.
func setupTestDatabase(t *testing.T) *PostgresRepository {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("dialdesk_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("Skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	if err := runMigrations(connStr); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	repo, err := NewPostgresRepository(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	return repo
}

func runMigrations(connStr string) error {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	migrationPath := filepath.Join("..", "..", "migrations", "000001_init.up.sql")
	migrationSQL, err := os.ReadFile(migrationPath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	if _, err := db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	return nil
}

func newID() string {
	id, _ := uuid.NewV7()
	return id.String()
}

func seedPGUser(t *testing.T, repo *PostgresRepository, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           newID(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		Roles:        []string{"viewer"},
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedPGOffice(t *testing.T, repo *PostgresRepository, adminID, name string) *models.Office {
	t.Helper()

	office := &models.Office{
		ID:        newID(),
		Name:      name,
		AdminID:   adminID,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateOffice(context.Background(), office); err != nil {
		t.Fatalf("Failed to seed office: %v", err)
	}
	return office
}

func TestPostgresUsers(t *testing.T) {
	repo := setupTestDatabase(t)
	ctx := context.Background()

	user := seedPGUser(t, repo, "pguser")

	t.Run("get by username", func(t *testing.T) {
		got, err := repo.GetUserByUsername(ctx, "pguser")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("Expected ID %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.Username != "pguser" {
			t.Errorf("Expected username pguser, got %s", got.Username)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := repo.GetUserByUsername(ctx, "nobody"); err != ErrUserNotFound {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := &models.User{
			ID:           newID(),
			Username:     "pguser",
			Email:        "other@example.com",
			PasswordHash: "hashed",
			CreatedAt:    time.Now().UTC(),
		}
		if err := repo.CreateUser(ctx, dup); err != ErrUserExists {
			t.Errorf("Expected ErrUserExists, got %v", err)
		}
	})
}

func TestPostgresLinesAndGrants(t *testing.T) {
	repo := setupTestDatabase(t)
	ctx := context.Background()

	admin := seedPGUser(t, repo, "line-admin")
	viewer := seedPGUser(t, repo, "line-viewer")
	office := seedPGOffice(t, repo, admin.ID, "HQ")

	lineIDs := make(map[string]string)
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		line := &models.Line{
			ID:        newID(),
			OfficeID:  office.ID,
			Name:      name,
			Number:    "+1555" + name,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.CreateLine(ctx, line); err != nil {
			t.Fatalf("Failed to create line: %v", err)
		}
		lineIDs[name] = line.ID
	}

	t.Run("list orders by name", func(t *testing.T) {
		lines, err := repo.ListLinesByOffice(ctx, office.ID)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(lines) != 3 {
			t.Fatalf("Expected 3 lines, got %d", len(lines))
		}
		for i, want := range []string{"alpha", "bravo", "charlie"} {
			if lines[i].Name != want {
				t.Errorf("Expected line %d to be %s, got %s", i, want, lines[i].Name)
			}
		}
	})

	t.Run("list by ids filters to office", func(t *testing.T) {
		lines, err := repo.ListLinesByIDs(ctx, office.ID, []string{lineIDs["bravo"], lineIDs["charlie"]})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(lines) != 2 {
			t.Fatalf("Expected 2 lines, got %d", len(lines))
		}
		if lines[0].Name != "bravo" || lines[1].Name != "charlie" {
			t.Errorf("Unexpected order: %s, %s", lines[0].Name, lines[1].Name)
		}
	})

	t.Run("empty id list", func(t *testing.T) {
		lines, err := repo.ListLinesByIDs(ctx, office.ID, nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(lines) != 0 {
			t.Errorf("Expected no lines, got %d", len(lines))
		}
	})

	t.Run("active grants exclude level zero", func(t *testing.T) {
		for name, level := range map[string]int{"alpha": 1, "bravo": 0} {
			grant := &models.AccessGrant{
				ID:           newID(),
				UserID:       viewer.ID,
				OfficeID:     office.ID,
				ResourceKind: models.ResourceKindLine,
				ResourceID:   lineIDs[name],
				Level:        level,
				CreatedAt:    time.Now().UTC(),
			}
			if err := repo.CreateGrant(ctx, grant); err != nil {
				t.Fatalf("Failed to create grant: %v", err)
			}
		}

		grants, err := repo.ListActiveGrants(ctx, viewer.ID, office.ID, models.ResourceKindLine)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(grants) != 1 {
			t.Fatalf("Expected 1 active grant, got %d", len(grants))
		}
		if grants[0].ResourceID != lineIDs["alpha"] {
			t.Errorf("Expected grant for alpha, got %s", grants[0].ResourceID)
		}
	})
}

func TestPostgresHistorySources(t *testing.T) {
	repo := setupTestDatabase(t)
	ctx := context.Background()

	admin := seedPGUser(t, repo, "hist-admin")
	office := seedPGOffice(t, repo, admin.ID, "History HQ")
	enterprise := &models.Enterprise{
		ID:        newID(),
		OfficeID:  office.ID,
		Name:      "Acme",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateEnterprise(ctx, enterprise); err != nil {
		t.Fatalf("Failed to create enterprise: %v", err)
	}

	jan := func(d int) time.Time {
		return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC)
	}

	for _, at := range []time.Time{jan(3), jan(10), jan(20)} {
		rec := &models.CallRecord{
			ID:           newID(),
			EnterpriseID: enterprise.ID,
			Caller:       "+15550001",
			Callee:       "+15550002",
			CreatedAt:    at,
		}
		if err := repo.InsertCallRecord(ctx, rec); err != nil {
			t.Fatalf("Failed to insert call record: %v", err)
		}
	}
	outside := &models.CallRecord{
		ID:           newID(),
		EnterpriseID: enterprise.ID,
		Caller:       "+15550001",
		Callee:       "+15550002",
		CreatedAt:    time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.InsertCallRecord(ctx, outside); err != nil {
		t.Fatalf("Failed to insert call record: %v", err)
	}

	t.Run("unbounded filter returns all newest first", func(t *testing.T) {
		recs, err := repo.ListCallRecords(ctx, enterprise.ID, HistoryFilter{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(recs) != 4 {
			t.Fatalf("Expected 4 records, got %d", len(recs))
		}
		for i := 1; i < len(recs); i++ {
			if recs[i].CreatedAt.After(recs[i-1].CreatedAt) {
				t.Errorf("Records out of order at index %d", i)
			}
		}
	})

	t.Run("bounded filter is inclusive", func(t *testing.T) {
		start := jan(3)
		end := jan(20)
		recs, err := repo.ListCallRecords(ctx, enterprise.ID, HistoryFilter{DateStart: &start, DateEnd: &end})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("Expected 3 records in window, got %d", len(recs))
		}
	})

	t.Run("sessions come back newest first for dedupe", func(t *testing.T) {
		for i, at := range []time.Time{jan(1), jan(2)} {
			rec := &models.CallSession{
				ID:           newID(),
				EnterpriseID: enterprise.ID,
				SessionID:    "sess-shared",
				Caller:       "+15550003",
				Callee:       "+15550004",
				Direction:    "inbound",
				CreatedAt:    at,
				ArrivedAt:    at.Add(time.Duration(i) * time.Second),
			}
			if err := repo.InsertCallSession(ctx, rec); err != nil {
				t.Fatalf("Failed to insert call session: %v", err)
			}
		}

		recs, err := repo.ListCallSessions(ctx, enterprise.ID, HistoryFilter{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("Expected 2 session rows, got %d", len(recs))
		}
		if !recs[0].CreatedAt.After(recs[1].CreatedAt) {
			t.Error("Expected newest session row first")
		}
	})
}

func TestPostgresAuditLog(t *testing.T) {
	repo := setupTestDatabase(t)
	ctx := context.Background()

	entry := &models.AuditEntry{
		ID:        newID(),
		Timestamp: time.Now().UTC(),
		ActorID:   "actor-1",
		ActorName: "root",
		Action:    models.ActionLogin,
		Result:    models.ResultSuccess,
		Metadata:  map[string]interface{}{"roles": []string{"admin"}},
		Signature: "sig",
	}
	if err := repo.LogAudit(ctx, entry); err != nil {
		t.Fatalf("Failed to log audit entry: %v", err)
	}
}
