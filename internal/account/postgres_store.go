package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ferdiebergado/susi/internal/platform/db"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

const (
	codeStoreFailed = "ACCOUNT_STORE_FAILED"

	accountColumns = `id, email, password_hash, is_verified,
	verification_code, verification_code_expires_at,
	reset_code, reset_code_expires_at,
	version, created_at, updated_at`
)

// PostgresStore keeps accounts in the accounts table.
type PostgresStore struct {
	db db.Conn
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(conn db.Conn) *PostgresStore {
	return &PostgresStore{db: conn}
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	const query = "SELECT " + accountColumns + " FROM accounts WHERE email = $1"

	email = NormalizeEmail(email)
	acct, err := scanAccount(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, fmt.Errorf("find account: %w", ErrNotFound)
		}
		return Account{}, oops.Code(codeStoreFailed).With("op", "find").Wrapf(err, "find account")
	}

	return acct, nil
}

func (s *PostgresStore) Create(ctx context.Context, acct Account) (Account, error) {
	const query = `INSERT INTO accounts (email, password_hash, is_verified,
	verification_code, verification_code_expires_at, reset_code, reset_code_expires_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, version, created_at, updated_at`

	acct.Email = NormalizeEmail(acct.Email)
	verifyCode, verifyExpiry := codeArgs(acct.VerificationCode)
	resetCode, resetExpiry := codeArgs(acct.ResetCode)

	row := s.db.QueryRowContext(ctx, query, acct.Email, acct.PasswordHash, acct.Verified,
		verifyCode, verifyExpiry, resetCode, resetExpiry)
	if err := row.Scan(&acct.ID, &acct.Version, &acct.CreatedAt, &acct.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return Account{}, fmt.Errorf("create account: %w", ErrDuplicateKey)
		}
		return Account{}, oops.Code(codeStoreFailed).With("op", "create").Wrapf(err, "create account")
	}

	return acct, nil
}

func (s *PostgresStore) Save(ctx context.Context, acct Account) (Account, error) {
	const query = `UPDATE accounts SET password_hash = $2, is_verified = $3,
	verification_code = $4, verification_code_expires_at = $5,
	reset_code = $6, reset_code_expires_at = $7,
	version = version + 1, updated_at = NOW()
	WHERE email = $1 AND version = $8
	RETURNING version, updated_at`

	acct.Email = NormalizeEmail(acct.Email)
	verifyCode, verifyExpiry := codeArgs(acct.VerificationCode)
	resetCode, resetExpiry := codeArgs(acct.ResetCode)

	row := s.db.QueryRowContext(ctx, query, acct.Email, acct.PasswordHash, acct.Verified,
		verifyCode, verifyExpiry, resetCode, resetExpiry, acct.Version)
	if err := row.Scan(&acct.Version, &acct.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, s.missOrConflict(ctx, acct.Email)
		}
		return Account{}, oops.Code(codeStoreFailed).With("op", "save").Wrapf(err, "save account")
	}

	return acct, nil
}

// missOrConflict tells apart an update that matched no row because the account is gone
// from one that lost the version race.
func (s *PostgresStore) missOrConflict(ctx context.Context, email string) error {
	const query = "SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)"

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return oops.Code(codeStoreFailed).With("op", "save").Wrapf(err, "check account")
	}

	if !exists {
		return fmt.Errorf("save account: %w", ErrNotFound)
	}
	return fmt.Errorf("save account: %w", ErrConflict)
}

func (s *PostgresStore) DeleteByEmail(ctx context.Context, email string) error {
	const query = "DELETE FROM accounts WHERE email = $1"

	res, err := s.db.ExecContext(ctx, query, NormalizeEmail(email))
	if err != nil {
		return oops.Code(codeStoreFailed).With("op", "delete").Wrapf(err, "delete account")
	}

	numRows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if numRows == 0 {
		return fmt.Errorf("delete account: %w", ErrNotFound)
	}

	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanAccount(row *sql.Row) (Account, error) {
	var (
		acct                      Account
		verifyCode, resetCode     sql.NullString
		verifyExpiry, resetExpiry sql.NullTime
	)

	err := row.Scan(&acct.ID, &acct.Email, &acct.PasswordHash, &acct.Verified,
		&verifyCode, &verifyExpiry, &resetCode, &resetExpiry,
		&acct.Version, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		return Account{}, err
	}

	acct.VerificationCode = codeFromColumns(verifyCode, verifyExpiry)
	acct.ResetCode = codeFromColumns(resetCode, resetExpiry)
	return acct, nil
}

func codeArgs(c *Code) (sql.NullString, sql.NullTime) {
	if c == nil {
		return sql.NullString{}, sql.NullTime{}
	}
	return sql.NullString{String: c.Value, Valid: true}, sql.NullTime{Time: c.ExpiresAt, Valid: true}
}

func codeFromColumns(value sql.NullString, expiresAt sql.NullTime) *Code {
	if !value.Valid || !expiresAt.Valid {
		return nil
	}
	return &Code{Value: value.String, ExpiresAt: expiresAt.Time.In(time.UTC)}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
