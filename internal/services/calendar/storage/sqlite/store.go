// Package sqlite provides a SQLite-backed calendar storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/calshare/calshare/internal/platform/storage/sqlitemigrate"
	"github.com/calshare/calshare/internal/services/calendar/storage"
	"github.com/calshare/calshare/internal/services/calendar/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists calendar state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// Open opens a SQLite calendar store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// PutUser persists one user row.
func (s *Store) PutUser(ctx context.Context, record storage.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID := strings.TrimSpace(record.ID)
	email := strings.TrimSpace(record.Email)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if email == "" {
		return fmt.Errorf("user email is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, email, full_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email = excluded.email,
		   full_name = excluded.full_name,
		   updated_at = excluded.updated_at`,
		userID,
		email,
		record.FullName,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser returns one user row by id.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.UserRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.UserRecord{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.UserRecord{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, full_name, created_at, updated_at FROM users WHERE id = ?`,
		userID,
	)
	return scanUser(row)
}

// ListUsers returns all users ordered by email.
func (s *Store) ListUsers(ctx context.Context) ([]storage.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, email, full_name, created_at, updated_at FROM users ORDER BY email`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []storage.UserRecord
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (storage.UserRecord, error) {
	var record storage.UserRecord
	var createdAt, updatedAt int64
	if err := row.Scan(&record.ID, &record.Email, &record.FullName, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.UserRecord{}, storage.ErrNotFound
		}
		return storage.UserRecord{}, fmt.Errorf("scan user: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// PutCalendar persists one new calendar row.
func (s *Store) PutCalendar(ctx context.Context, record storage.CalendarRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	calendarID := strings.TrimSpace(record.ID)
	ownerUserID := strings.TrimSpace(record.OwnerUserID)
	if calendarID == "" {
		return fmt.Errorf("calendar id is required")
	}
	if ownerUserID == "" {
		return fmt.Errorf("owner user id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO calendars (id, owner_user_id, title, description, start_date, end_date, external_calendar_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calendarID,
		ownerUserID,
		record.Title,
		toNullString(record.Description),
		toMillis(record.StartDate),
		toMillis(record.EndDate),
		toNullString(record.ExternalCalendarID),
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put calendar: %w", err)
	}
	return nil
}

// GetCalendar returns one calendar row by id.
func (s *Store) GetCalendar(ctx context.Context, calendarID string) (storage.CalendarRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CalendarRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CalendarRecord{}, fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return storage.CalendarRecord{}, fmt.Errorf("calendar id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_user_id, title, description, start_date, end_date, external_calendar_id, created_at, updated_at
		 FROM calendars WHERE id = ?`,
		calendarID,
	)
	return scanCalendar(row)
}

// UpdateCalendar overwrites the mutable fields of one calendar row.
func (s *Store) UpdateCalendar(ctx context.Context, record storage.CalendarRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	calendarID := strings.TrimSpace(record.ID)
	if calendarID == "" {
		return fmt.Errorf("calendar id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE calendars
		 SET title = ?, description = ?, start_date = ?, end_date = ?, updated_at = ?
		 WHERE id = ?`,
		record.Title,
		toNullString(record.Description),
		toMillis(record.StartDate),
		toMillis(record.EndDate),
		toMillis(record.UpdatedAt),
		calendarID,
	)
	if err != nil {
		return fmt.Errorf("update calendar: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update calendar rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCalendar removes one calendar row and its cascaded children in one
// transaction. A non-nil preCommit callback runs after the delete and before
// the commit; its error aborts the transaction.
func (s *Store) DeleteCalendar(ctx context.Context, calendarID string, preCommit func(storage.CalendarRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return fmt.Errorf("calendar id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin calendar delete: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback calendar delete: %v", cause, rollbackErr)
		}
		return cause
	}

	row := tx.QueryRowContext(
		ctx,
		`SELECT id, owner_user_id, title, description, start_date, end_date, external_calendar_id, created_at, updated_at
		 FROM calendars WHERE id = ?`,
		calendarID,
	)
	record, err := scanCalendar(row)
	if err != nil {
		return rollbackWith(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, calendarID); err != nil {
		return rollbackWith(fmt.Errorf("delete calendar: %w", err))
	}

	if preCommit != nil {
		if err := preCommit(record); err != nil {
			return rollbackWith(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit calendar delete: %w", err)
	}
	return nil
}

// ListCalendarsByOwner returns all calendars owned by one user.
func (s *Store) ListCalendarsByOwner(ctx context.Context, ownerUserID string) ([]storage.CalendarRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, fmt.Errorf("owner user id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, owner_user_id, title, description, start_date, end_date, external_calendar_id, created_at, updated_at
		 FROM calendars WHERE owner_user_id = ? ORDER BY created_at, id`,
		ownerUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("list calendars by owner: %w", err)
	}
	defer rows.Close()
	return collectCalendars(rows)
}

// ListCalendarsByHelper returns all calendars one user helps with.
func (s *Store) ListCalendarsByHelper(ctx context.Context, userID string) ([]storage.CalendarRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT c.id, c.owner_user_id, c.title, c.description, c.start_date, c.end_date, c.external_calendar_id, c.created_at, c.updated_at
		 FROM calendars c
		 JOIN calendar_helpers h ON h.calendar_id = c.id
		 WHERE h.user_id = ? ORDER BY c.created_at, c.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list calendars by helper: %w", err)
	}
	defer rows.Close()
	return collectCalendars(rows)
}

func collectCalendars(rows *sql.Rows) ([]storage.CalendarRecord, error) {
	var calendars []storage.CalendarRecord
	for rows.Next() {
		record, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendars: %w", err)
	}
	return calendars, nil
}

func scanCalendar(row rowScanner) (storage.CalendarRecord, error) {
	var record storage.CalendarRecord
	var description, externalID sql.NullString
	var startDate, endDate, createdAt, updatedAt int64
	err := row.Scan(
		&record.ID,
		&record.OwnerUserID,
		&record.Title,
		&description,
		&startDate,
		&endDate,
		&externalID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CalendarRecord{}, storage.ErrNotFound
		}
		return storage.CalendarRecord{}, fmt.Errorf("scan calendar: %w", err)
	}
	record.Description = description.String
	record.ExternalCalendarID = externalID.String
	record.StartDate = fromMillis(startDate)
	record.EndDate = fromMillis(endDate)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// AttachHelper adds one helper association; attaching twice is a no-op.
func (s *Store) AttachHelper(ctx context.Context, calendarID string, userID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	userID = strings.TrimSpace(userID)
	if calendarID == "" {
		return fmt.Errorf("calendar id is required")
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO calendar_helpers (calendar_id, user_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(calendar_id, user_id) DO NOTHING`,
		calendarID,
		userID,
		toMillis(at),
	)
	if err != nil {
		return fmt.Errorf("attach helper: %w", err)
	}
	return nil
}

// DetachHelper removes one helper association; detaching a missing
// association is a no-op.
func (s *Store) DetachHelper(ctx context.Context, calendarID string, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	userID = strings.TrimSpace(userID)
	if calendarID == "" {
		return fmt.Errorf("calendar id is required")
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM calendar_helpers WHERE calendar_id = ? AND user_id = ?`,
		calendarID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("detach helper: %w", err)
	}
	return nil
}

// IsHelper reports whether one user helps with one calendar.
func (s *Store) IsHelper(ctx context.Context, calendarID string, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	userID = strings.TrimSpace(userID)
	if calendarID == "" {
		return false, fmt.Errorf("calendar id is required")
	}
	if userID == "" {
		return false, fmt.Errorf("user id is required")
	}

	var found int
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT 1 FROM calendar_helpers WHERE calendar_id = ? AND user_id = ?`,
		calendarID,
		userID,
	)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check helper: %w", err)
	}
	return true, nil
}

// ListHelpers returns all helper users of one calendar ordered by email.
func (s *Store) ListHelpers(ctx context.Context, calendarID string) ([]storage.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return nil, fmt.Errorf("calendar id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT u.id, u.email, u.full_name, u.created_at, u.updated_at
		 FROM users u
		 JOIN calendar_helpers h ON h.user_id = u.id
		 WHERE h.calendar_id = ? ORDER BY u.email`,
		calendarID,
	)
	if err != nil {
		return nil, fmt.Errorf("list helpers: %w", err)
	}
	defer rows.Close()

	var helpers []storage.UserRecord
	for rows.Next() {
		helper, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		helpers = append(helpers, helper)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate helpers: %w", err)
	}
	return helpers, nil
}

// UpsertTargets inserts the given target rows in one transaction, skipping
// existing (calendar, email) keys. A non-nil preCommit callback runs after
// the upserts and before the commit; its error aborts the whole batch.
func (s *Store) UpsertTargets(ctx context.Context, calendarID string, records []storage.TargetRecord, preCommit func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return fmt.Errorf("calendar id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin target upsert: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback target upsert: %v", cause, rollbackErr)
		}
		return cause
	}

	for _, record := range records {
		email := strings.TrimSpace(record.Email)
		if email == "" {
			return rollbackWith(fmt.Errorf("target email is required"))
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO targets (id, calendar_id, email, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(calendar_id, email) DO NOTHING`,
			record.ID,
			calendarID,
			email,
			toMillis(record.CreatedAt),
		); err != nil {
			return rollbackWith(fmt.Errorf("upsert target %s: %w", email, err))
		}
	}

	if preCommit != nil {
		if err := preCommit(); err != nil {
			return rollbackWith(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit target upsert: %w", err)
	}
	return nil
}

// ListTargets returns all targets of one calendar ordered by email.
func (s *Store) ListTargets(ctx context.Context, calendarID string) ([]storage.TargetRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return nil, fmt.Errorf("calendar id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, calendar_id, email, created_at FROM targets WHERE calendar_id = ? ORDER BY email`,
		calendarID,
	)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []storage.TargetRecord
	for rows.Next() {
		var record storage.TargetRecord
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.CalendarID, &record.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		targets = append(targets, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	return targets, nil
}

// PutEvent persists one event row.
func (s *Store) PutEvent(ctx context.Context, record storage.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	eventID := strings.TrimSpace(record.ID)
	calendarID := strings.TrimSpace(record.CalendarID)
	userID := strings.TrimSpace(record.UserID)
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}
	if calendarID == "" {
		return fmt.Errorf("calendar id is required")
	}
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (id, calendar_id, user_id, title, description, starts_at, ends_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   description = excluded.description,
		   starts_at = excluded.starts_at,
		   ends_at = excluded.ends_at,
		   updated_at = excluded.updated_at`,
		eventID,
		calendarID,
		userID,
		record.Title,
		toNullString(record.Description),
		toMillis(record.StartsAt),
		toMillis(record.EndsAt),
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// ListEventsByCalendar returns events of one calendar in [from, to), joined
// with each creating user's email. Zero bounds disable the respective limit.
func (s *Store) ListEventsByCalendar(ctx context.Context, calendarID string, from, to time.Time) ([]storage.EventWithUserEmail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return nil, fmt.Errorf("calendar id is required")
	}

	query := `SELECT e.id, e.calendar_id, e.user_id, e.title, e.description, e.starts_at, e.ends_at, e.created_at, e.updated_at, u.email
		 FROM events e
		 JOIN users u ON u.id = e.user_id
		 WHERE e.calendar_id = ?`
	args := []any{calendarID}
	if !from.IsZero() {
		query += " AND e.starts_at >= ?"
		args = append(args, toMillis(from))
	}
	if !to.IsZero() {
		query += " AND e.starts_at < ?"
		args = append(args, toMillis(to))
	}
	query += " ORDER BY e.starts_at, e.id"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []storage.EventWithUserEmail
	for rows.Next() {
		var record storage.EventWithUserEmail
		var description sql.NullString
		var startsAt, endsAt, createdAt, updatedAt int64
		err := rows.Scan(
			&record.ID,
			&record.CalendarID,
			&record.UserID,
			&record.Title,
			&description,
			&startsAt,
			&endsAt,
			&createdAt,
			&updatedAt,
			&record.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.Description = description.String
		record.StartsAt = fromMillis(startsAt)
		record.EndsAt = fromMillis(endsAt)
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		events = append(events, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
