package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

const queryTimeout = 5 * time.Second

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO users (id, username, email, password_hash, superuser, roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.Superuser, user.Roles, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, "username = $1", username)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, "id = $1", id)
}

func (r *PostgresRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, username, email, password_hash, superuser, roles, created_at, disabled_at
		FROM users
		WHERE ` + where

	var user models.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Superuser, &user.Roles, &user.CreatedAt, &user.DisabledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO sessions (id, user_id, access_token, refresh_token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID, session.UserID, session.AccessToken, session.RefreshToken,
		session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, access_token, refresh_token, expires_at, created_at, revoked_at
		FROM sessions
		WHERE refresh_token = $1
	`

	var session models.Session
	err := r.pool.QueryRow(ctx, query, refreshToken).Scan(
		&session.ID, &session.UserID, &session.AccessToken, &session.RefreshToken,
		&session.ExpiresAt, &session.CreatedAt, &session.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

func (r *PostgresRepository) RevokeSession(ctx context.Context, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `UPDATE sessions SET revoked_at = NOW() WHERE refresh_token = $1 AND revoked_at IS NULL`

	result, err := r.pool.Exec(ctx, query, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *PostgresRepository) CreateOffice(ctx context.Context, office *models.Office) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO offices (id, name, admin_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, office.ID, office.Name, office.AdminID, office.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrOfficeExists
		}
		return fmt.Errorf("failed to create office: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetOffice(ctx context.Context, id string) (*models.Office, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT id, name, admin_id, created_at FROM offices WHERE id = $1`

	var office models.Office
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&office.ID, &office.Name, &office.AdminID, &office.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfficeNotFound
		}
		return nil, fmt.Errorf("failed to get office: %w", err)
	}

	return &office, nil
}

func (r *PostgresRepository) CreateLine(ctx context.Context, line *models.Line) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO lines (id, office_id, name, number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, line.ID, line.OfficeID, line.Name, line.Number, line.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrLineExists
		}
		return fmt.Errorf("failed to create line: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListLinesByOffice(ctx context.Context, officeID string) ([]*models.Line, error) {
	query := `
		SELECT id, office_id, name, number, created_at
		FROM lines
		WHERE office_id = $1
		ORDER BY name, id
	`
	return r.queryLines(ctx, query, officeID)
}

func (r *PostgresRepository) ListLinesByIDs(ctx context.Context, officeID string, ids []string) ([]*models.Line, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, office_id, name, number, created_at
		FROM lines
		WHERE office_id = $1 AND id = ANY($2)
		ORDER BY name, id
	`
	return r.queryLines(ctx, query, officeID, ids)
}

func (r *PostgresRepository) queryLines(ctx context.Context, query string, args ...any) ([]*models.Line, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.Line
	for rows.Next() {
		var line models.Line
		if err := rows.Scan(&line.ID, &line.OfficeID, &line.Name, &line.Number, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		lines = append(lines, &line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lines: %w", err)
	}

	return lines, nil
}

func (r *PostgresRepository) CreateGrant(ctx context.Context, grant *models.AccessGrant) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO access_grants (id, user_id, office_id, resource_kind, resource_id, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		grant.ID, grant.UserID, grant.OfficeID, grant.ResourceKind,
		grant.ResourceID, grant.Level, grant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create grant: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListActiveGrants(ctx context.Context, userID, officeID, resourceKind string) ([]*models.AccessGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, office_id, resource_kind, resource_id, level, created_at
		FROM access_grants
		WHERE user_id = $1 AND office_id = $2 AND resource_kind = $3 AND level <> 0
	`

	rows, err := r.pool.Query(ctx, query, userID, officeID, resourceKind)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var grants []*models.AccessGrant
	for rows.Next() {
		var grant models.AccessGrant
		err := rows.Scan(
			&grant.ID, &grant.UserID, &grant.OfficeID, &grant.ResourceKind,
			&grant.ResourceID, &grant.Level, &grant.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, &grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grants: %w", err)
	}

	return grants, nil
}

func (r *PostgresRepository) CreateEnterprise(ctx context.Context, enterprise *models.Enterprise) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO enterprises (id, office_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, enterprise.ID, enterprise.OfficeID, enterprise.Name, enterprise.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create enterprise: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetEnterprise(ctx context.Context, id string) (*models.Enterprise, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT id, office_id, name, created_at FROM enterprises WHERE id = $1`

	var enterprise models.Enterprise
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&enterprise.ID, &enterprise.OfficeID, &enterprise.Name, &enterprise.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnterpriseNotFound
		}
		return nil, fmt.Errorf("failed to get enterprise: %w", err)
	}

	return &enterprise, nil
}

func (r *PostgresRepository) InsertCallRecord(ctx context.Context, rec *models.CallRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO call_records (id, enterprise_id, caller, callee, duration_seconds, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.EnterpriseID, rec.Caller, rec.Callee,
		rec.DurationSeconds, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call record: %w", err)
	}

	return nil
}

func (r *PostgresRepository) InsertMessageRecord(ctx context.Context, rec *models.MessageRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO message_records (id, enterprise_id, sender, recipient, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.EnterpriseID, rec.Sender, rec.Recipient, rec.Body, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message record: %w", err)
	}

	return nil
}

func (r *PostgresRepository) InsertCallSession(ctx context.Context, rec *models.CallSession) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO call_sessions (id, enterprise_id, session_id, caller, callee, direction, created_at, arrived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.EnterpriseID, rec.SessionID, rec.Caller, rec.Callee,
		rec.Direction, rec.CreatedAt, rec.ArrivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call session: %w", err)
	}

	return nil
}

func (r *PostgresRepository) InsertMessageSession(ctx context.Context, rec *models.MessageSession) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO message_sessions (id, enterprise_id, session_id, sender, recipient, body, created_at, arrived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.EnterpriseID, rec.SessionID, rec.Sender, rec.Recipient,
		rec.Body, rec.CreatedAt, rec.ArrivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message session: %w", err)
	}

	return nil
}

// historyWhere appends the inclusive created_at range when the filter has
// both bounds, matching the feed contract.
func historyWhere(f HistoryFilter, args []any) (string, []any) {
	if !f.Bounded() {
		return "", args
	}
	n := len(args)
	args = append(args, *f.DateStart, *f.DateEnd)
	return fmt.Sprintf(" AND created_at >= $%d AND created_at <= $%d", n+1, n+2), args
}

func (r *PostgresRepository) ListCallRecords(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.CallRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args := []any{enterpriseID}
	where, args := historyWhere(f, args)
	query := `
		SELECT id, enterprise_id, caller, callee, duration_seconds, status, created_at
		FROM call_records
		WHERE enterprise_id = $1` + where + `
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list call records: %w", err)
	}
	defer rows.Close()

	var records []*models.CallRecord
	for rows.Next() {
		var rec models.CallRecord
		err := rows.Scan(
			&rec.ID, &rec.EnterpriseID, &rec.Caller, &rec.Callee,
			&rec.DurationSeconds, &rec.Status, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating call records: %w", err)
	}

	return records, nil
}

func (r *PostgresRepository) ListMessageRecords(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.MessageRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args := []any{enterpriseID}
	where, args := historyWhere(f, args)
	query := `
		SELECT id, enterprise_id, sender, recipient, body, created_at
		FROM message_records
		WHERE enterprise_id = $1` + where + `
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list message records: %w", err)
	}
	defer rows.Close()

	var records []*models.MessageRecord
	for rows.Next() {
		var rec models.MessageRecord
		err := rows.Scan(
			&rec.ID, &rec.EnterpriseID, &rec.Sender, &rec.Recipient, &rec.Body, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message records: %w", err)
	}

	return records, nil
}

func (r *PostgresRepository) ListCallSessions(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.CallSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args := []any{enterpriseID}
	where, args := historyWhere(f, args)
	// Newest first so session de-duplication keeps the latest row.
	query := `
		SELECT id, enterprise_id, session_id, caller, callee, direction, created_at, arrived_at
		FROM call_sessions
		WHERE enterprise_id = $1` + where + `
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list call sessions: %w", err)
	}
	defer rows.Close()

	var records []*models.CallSession
	for rows.Next() {
		var rec models.CallSession
		err := rows.Scan(
			&rec.ID, &rec.EnterpriseID, &rec.SessionID, &rec.Caller, &rec.Callee,
			&rec.Direction, &rec.CreatedAt, &rec.ArrivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call session: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating call sessions: %w", err)
	}

	return records, nil
}

func (r *PostgresRepository) ListMessageSessions(ctx context.Context, enterpriseID string, f HistoryFilter) ([]*models.MessageSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args := []any{enterpriseID}
	where, args := historyWhere(f, args)
	query := `
		SELECT id, enterprise_id, session_id, sender, recipient, body, created_at, arrived_at
		FROM message_sessions
		WHERE enterprise_id = $1` + where + `
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list message sessions: %w", err)
	}
	defer rows.Close()

	var records []*models.MessageSession
	for rows.Next() {
		var rec models.MessageSession
		err := rows.Scan(
			&rec.ID, &rec.EnterpriseID, &rec.SessionID, &rec.Sender, &rec.Recipient,
			&rec.Body, &rec.CreatedAt, &rec.ArrivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message session: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message sessions: %w", err)
	}

	return records, nil
}

func (r *PostgresRepository) LogAudit(ctx context.Context, entry *models.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_log (
			id, timestamp, actor_id, actor_name, action,
			resource_type, resource_id, ip_address,
			result, error_message, metadata, signature
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		entry.ID, entry.Timestamp, entry.ActorID, entry.ActorName,
		entry.Action, entry.ResourceType, entry.ResourceID, entry.IPAddress,
		entry.Result, entry.ErrorMessage, metadataJSON, entry.Signature,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit entry: %w", err)
	}

	return nil
}
