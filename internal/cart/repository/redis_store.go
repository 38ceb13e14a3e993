package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

// RedisStore is the primary Store implementation. Records are kept as JSON
// values under prefixed email keys with no TTL; record removal goes through
// Delete and the maintenance cleanup.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	timeout   time.Duration
	scanBatch int
	logger    *slog.Logger
}

// RedisStoreConfig holds the Redis store settings.
type RedisStoreConfig struct {
	// KeyPrefix namespaces record keys in shared keyspaces.
	KeyPrefix string
	// OperationTimeout bounds every single store call.
	OperationTimeout time.Duration
	// ScanBatchSize is the page size for SCAN and MGET during enumeration.
	ScanBatchSize int
	// Logger reports pages skipped during best-effort enumeration.
	Logger *slog.Logger
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) (*RedisStore, error) {
	if client == nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "redis client is required")
	}
	if cfg.ScanBatchSize <= 0 {
		cfg.ScanBatchSize = 100
	}
	return &RedisStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		timeout:   cfg.OperationTimeout,
		scanBatch: cfg.ScanBatchSize,
		logger:    cfg.Logger,
	}, nil
}

var _ usecase.Store = (*RedisStore)(nil)

// Upsert writes the full record under its email key.
func (s *RedisStore) Upsert(ctx context.Context, record *domain.CartActivityRecord) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal record")
	}

	if err := s.client.Set(ctx, s.recordKey(record.Email), data, 0).Err(); err != nil {
		return transientErr(err, "redis set failed")
	}
	return nil
}

// Get performs a point lookup by email.
func (s *RedisStore) Get(ctx context.Context, email string) (*domain.CartActivityRecord, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.recordKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, transientErr(err, "redis get failed")
	}

	var record domain.CartActivityRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal record")
	}
	return &record, nil
}

// ListActive enumerates records whose status is non-terminal.
func (s *RedisStore) ListActive(ctx context.Context) ([]*domain.CartActivityRecord, error) {
	return s.list(ctx, false)
}

// ListAll enumerates every record, terminal included.
func (s *RedisStore) ListAll(ctx context.Context) ([]*domain.CartActivityRecord, error) {
	return s.list(ctx, true)
}

// list walks the prefixed keyspace with SCAN and loads record pages with
// MGET. Enumeration is best effort: a page that fails to load is logged and
// skipped, a scan failure mid-walk returns what was read so far, and records
// deleted between the scan and the load (or values that no longer unmarshal)
// are skipped. Skipped records surface again on the next enumeration.
func (s *RedisStore) list(ctx context.Context, includeTerminal bool) ([]*domain.CartActivityRecord, error) {
	var records []*domain.CartActivityRecord

	var cursor uint64
	for {
		scanCtx, cancel := opContext(ctx, s.timeout)
		keys, next, err := s.client.Scan(scanCtx, cursor, s.keyPrefix+"*", int64(s.scanBatch)).Result()
		cancel()
		if err != nil {
			if len(records) == 0 {
				return nil, transientErr(err, "redis scan failed")
			}
			s.logPageSkip("redis scan failed, returning partial enumeration", err)
			return records, nil
		}

		if len(keys) > 0 {
			page, err := s.loadPage(ctx, keys)
			if err != nil {
				s.logPageSkip("redis page load failed, skipping page", err)
			}
			for _, record := range page {
				if !includeTerminal && record.IsTerminal() {
					continue
				}
				records = append(records, record)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return records, nil
}

func (s *RedisStore) logPageSkip(message string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(message, slog.Any("error", err))
}

// loadPage fetches one page of scanned keys.
func (s *RedisStore) loadPage(ctx context.Context, keys []string) ([]*domain.CartActivityRecord, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, transientErr(err, "redis mget failed")
	}

	records := make([]*domain.CartActivityRecord, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Key deleted between scan and load.
			continue
		}

		var record domain.CartActivityRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records, nil
}

// Delete removes the record. Deleting an absent key is not an error.
func (s *RedisStore) Delete(ctx context.Context, email string) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.recordKey(email)).Err(); err != nil {
		return transientErr(err, "redis delete failed")
	}
	return nil
}

func (s *RedisStore) recordKey(email string) string {
	return s.keyPrefix + email
}
