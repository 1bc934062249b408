package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface.
// A single database file holds the account table; WAL mode keeps
// concurrent readers cheap while writes serialize through the driver.
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the account database at path and brings the
// schema up to date.
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return s, nil
}

// Close releases the underlying database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// migrate creates the account table and applies the one-time upgrade for
// databases written before linked identities existed. Adding the missing
// columns is idempotent and loses no data; this is the full extent of
// schema evolution supported here.
func (s *Storage) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		handle TEXT UNIQUE NOT NULL,
		secret_hash TEXT NOT NULL,
		balance INTEGER NOT NULL DEFAULT 1000,
		linked_identity_hash TEXT,
		linked_display_name TEXT,
		linked_profile_ref TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		return err
	}

	rows, err := s.db.Query(`PRAGMA table_info(accounts)`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return err
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, column := range []string{"linked_identity_hash", "linked_display_name", "linked_profile_ref"} {
		if existing[column] {
			continue
		}
		if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE accounts ADD COLUMN %s TEXT", column)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	var linkHash, linkName, linkRef sql.NullString
	if account.Linked != nil {
		linkHash = sql.NullString{String: account.Linked.SecretHash, Valid: true}
		linkName = sql.NullString{String: account.Linked.DisplayName, Valid: true}
		linkRef = sql.NullString{String: account.Linked.ProfileRef, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO accounts (id, handle, secret_hash, balance, linked_identity_hash, linked_display_name, linked_profile_ref, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(account.ID),
		model.NormalizeHandle(account.Handle),
		account.SecretHash,
		account.Balance,
		linkHash,
		linkName,
		linkRef,
		toMillis(account.CreatedAt),
		toMillis(account.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrHandleTaken
		}
		return err
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, selectAccount+` WHERE id = ?`, string(id))
	return scanAccount(row)
}

func (s *Storage) GetAccountByHandle(ctx context.Context, handle string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, selectAccount+` WHERE handle = ?`, model.NormalizeHandle(handle))
	return scanAccount(row)
}

func (s *Storage) UpdateLinkedIdentity(ctx context.Context, id model.AccountID, link model.LinkedIdentity) error {
	result, err := s.db.ExecContext(ctx, `
	UPDATE accounts
	SET linked_identity_hash = ?, linked_display_name = ?, linked_profile_ref = ?, updated_at = ?
	WHERE id = ?`,
		link.SecretHash, link.DisplayName, link.ProfileRef, toMillis(time.Now()), string(id),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) LinkedAccounts(ctx context.Context) ([]*model.Account, error) {
	rows, err := s.db.QueryContext(ctx, selectAccount+` WHERE linked_identity_hash IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []*model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *Storage) AdjustBalance(ctx context.Context, id model.AccountID, delta int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	UPDATE accounts SET balance = MAX(balance + ?, 0), updated_at = ? WHERE id = ?`,
		delta, toMillis(time.Now()), string(id),
	)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, model.ErrAccountNotFound
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id = ?`, string(id)).Scan(&balance); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

const selectAccount = `
	SELECT id, handle, secret_hash, balance, linked_identity_hash, linked_display_name, linked_profile_ref, created_at, updated_at
	FROM accounts`

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		id, handle, secretHash string
		balance                int64
		linkHash, linkName     sql.NullString
		linkRef                sql.NullString
		createdAt, updatedAt   int64
	)
	err := row.Scan(&id, &handle, &secretHash, &balance, &linkHash, &linkName, &linkRef, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	account := &model.Account{
		ID:         model.AccountID(id),
		Handle:     handle,
		SecretHash: secretHash,
		Balance:    balance,
		CreatedAt:  fromMillis(createdAt),
		UpdatedAt:  fromMillis(updatedAt),
	}
	if linkHash.Valid {
		account.Linked = &model.LinkedIdentity{
			SecretHash:  linkHash.String,
			DisplayName: linkName.String,
			ProfileRef:  linkRef.String,
		}
	}
	return account, nil
}

// isUniqueViolation detects SQLite unique-constraint failures on insert
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// toMillis normalizes timestamps into millisecond precision for storage
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
