package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const (
	fieldID                  = "id"
	fieldEmail               = "email"
	fieldPasswordHash        = "password_hash"
	fieldVerified            = "verified"
	fieldVerificationCode    = "verification_code"
	fieldVerificationExpires = "verification_code_expires_at"
	fieldResetCode           = "reset_code"
	fieldResetExpires        = "reset_code_expires_at"
	fieldVersion             = "version"
	fieldCreatedAt           = "created_at"
	fieldUpdatedAt           = "updated_at"
)

// RedisStore keeps each account in a hash under "<prefix>:account:<email>".
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(email string) string {
	return s.prefix + ":account:" + NormalizeEmail(email)
}

func (s *RedisStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	fields, err := s.client.HGetAll(ctx, s.key(email)).Result()
	if err != nil {
		return Account{}, oops.Code(codeStoreFailed).With("op", "find").Wrapf(err, "find account")
	}

	if len(fields) == 0 {
		return Account{}, fmt.Errorf("find account: %w", ErrNotFound)
	}

	return decodeHash(fields)
}

func (s *RedisStore) Create(ctx context.Context, acct Account) (Account, error) {
	acct.Email = NormalizeEmail(acct.Email)
	key := s.key(acct.Email)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateKey
		}

		now := s.now().UTC()
		acct.ID = uuid.NewString()
		acct.Version = 1
		acct.CreatedAt = now
		acct.UpdatedAt = now

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, encodeHash(acct))
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return acct, nil
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, redis.TxFailedErr):
		return Account{}, fmt.Errorf("create account: %w", ErrDuplicateKey)
	default:
		return Account{}, oops.Code(codeStoreFailed).With("op", "create").Wrapf(err, "create account")
	}
}

func (s *RedisStore) Save(ctx context.Context, acct Account) (Account, error) {
	acct.Email = NormalizeEmail(acct.Email)
	key := s.key(acct.Email)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, key, fieldVersion).Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		version, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("parse version: %w", err)
		}
		if version != acct.Version {
			return ErrConflict
		}

		acct.Version++
		acct.UpdatedAt = s.now().UTC()

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, encodeHash(acct))
			if cleared := clearedFields(acct); len(cleared) > 0 {
				pipe.HDel(ctx, key, cleared...)
			}
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return acct, nil
	case errors.Is(err, ErrNotFound):
		return Account{}, fmt.Errorf("save account: %w", ErrNotFound)
	case errors.Is(err, ErrConflict), errors.Is(err, redis.TxFailedErr):
		return Account{}, fmt.Errorf("save account: %w", ErrConflict)
	default:
		return Account{}, oops.Code(codeStoreFailed).With("op", "save").Wrapf(err, "save account")
	}
}

func (s *RedisStore) DeleteByEmail(ctx context.Context, email string) error {
	n, err := s.client.Del(ctx, s.key(email)).Result()
	if err != nil {
		return oops.Code(codeStoreFailed).With("op", "delete").Wrapf(err, "delete account")
	}

	if n == 0 {
		return fmt.Errorf("delete account: %w", ErrNotFound)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func encodeHash(acct Account) map[string]any {
	fields := map[string]any{
		fieldID:           acct.ID,
		fieldEmail:        acct.Email,
		fieldPasswordHash: acct.PasswordHash,
		fieldVerified:     strconv.FormatBool(acct.Verified),
		fieldVersion:      strconv.FormatInt(acct.Version, 10),
		fieldCreatedAt:    acct.CreatedAt.Format(time.RFC3339Nano),
		fieldUpdatedAt:    acct.UpdatedAt.Format(time.RFC3339Nano),
	}

	if c := acct.VerificationCode; c != nil {
		fields[fieldVerificationCode] = c.Value
		fields[fieldVerificationExpires] = c.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	if c := acct.ResetCode; c != nil {
		fields[fieldResetCode] = c.Value
		fields[fieldResetExpires] = c.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	return fields
}

func clearedFields(acct Account) []string {
	var fields []string
	if acct.VerificationCode == nil {
		fields = append(fields, fieldVerificationCode, fieldVerificationExpires)
	}
	if acct.ResetCode == nil {
		fields = append(fields, fieldResetCode, fieldResetExpires)
	}
	return fields
}

func decodeHash(fields map[string]string) (Account, error) {
	acct := Account{
		ID:           fields[fieldID],
		Email:        fields[fieldEmail],
		PasswordHash: fields[fieldPasswordHash],
	}

	var err error
	if acct.Verified, err = strconv.ParseBool(fields[fieldVerified]); err != nil {
		return Account{}, fmt.Errorf("decode %s: %w", fieldVerified, err)
	}
	if acct.Version, err = strconv.ParseInt(fields[fieldVersion], 10, 64); err != nil {
		return Account{}, fmt.Errorf("decode %s: %w", fieldVersion, err)
	}
	if acct.CreatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldCreatedAt]); err != nil {
		return Account{}, fmt.Errorf("decode %s: %w", fieldCreatedAt, err)
	}
	if acct.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt]); err != nil {
		return Account{}, fmt.Errorf("decode %s: %w", fieldUpdatedAt, err)
	}
	if acct.VerificationCode, err = decodeCode(fields, fieldVerificationCode, fieldVerificationExpires); err != nil {
		return Account{}, err
	}
	if acct.ResetCode, err = decodeCode(fields, fieldResetCode, fieldResetExpires); err != nil {
		return Account{}, err
	}

	return acct, nil
}

func decodeCode(fields map[string]string, valueField, expiryField string) (*Code, error) {
	value, hasValue := fields[valueField]
	rawExpiry, hasExpiry := fields[expiryField]
	if !hasValue || !hasExpiry {
		return nil, nil
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, rawExpiry)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", expiryField, err)
	}
	return &Code{Value: value, ExpiresAt: expiresAt}, nil
}
