package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/trialdash/patient-api/internal/model"
	apperrors "github.com/trialdash/patient-api/pkg/errors"
	"github.com/trialdash/patient-api/pkg/metrics"
)

// KVStore is the minimal key-value contract UI preferences need. Keeping
// it explicit keeps the service testable without a Redis instance.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ErrKeyNotFound is returned by a KVStore when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) KVStore {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	// Preferences persist indefinitely; last write wins.
	return s.client.Set(ctx, key, value, 0).Err()
}

type Service struct {
	store   KVStore
	metrics *metrics.Metrics
}

func NewService(store KVStore, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

func columnKey(userID string) string {
	return fmt.Sprintf("prefs:%s:columns", userID)
}

// GetColumns loads a user's column-visibility flags, falling back to the
// defaults when nothing has been stored yet.
func (s *Service) GetColumns(ctx context.Context, userID string) (model.ColumnPreferences, error) {
	raw, err := s.store.Get(ctx, columnKey(userID))
	if errors.Is(err, ErrKeyNotFound) {
		s.metrics.PreferenceOperations.WithLabelValues("get", "default").Inc()
		return model.DefaultColumnPreferences(), nil
	}
	if err != nil {
		s.metrics.PreferenceOperations.WithLabelValues("get", "error").Inc()
		return nil, apperrors.NewUnavailable("preference store", err)
	}

	var prefs model.ColumnPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		// A corrupt blob falls back to defaults rather than breaking
		// the table.
		s.metrics.PreferenceOperations.WithLabelValues("get", "corrupt").Inc()
		return model.DefaultColumnPreferences(), nil
	}

	s.metrics.PreferenceOperations.WithLabelValues("get", "success").Inc()
	return prefs, nil
}

// SetColumns stores the full flag set, overwriting any previous value.
func (s *Service) SetColumns(ctx context.Context, userID string, prefs model.ColumnPreferences) error {
	if len(prefs) == 0 {
		return apperrors.BadRequest("column preferences must not be empty", nil)
	}

	raw, err := json.Marshal(prefs)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to encode preferences: %w", err))
	}

	if err := s.store.Set(ctx, columnKey(userID), string(raw)); err != nil {
		s.metrics.PreferenceOperations.WithLabelValues("set", "error").Inc()
		return apperrors.NewUnavailable("preference store", err)
	}

	s.metrics.PreferenceOperations.WithLabelValues("set", "success").Inc()
	return nil
}
