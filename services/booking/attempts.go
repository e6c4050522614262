package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"glowhub/models"
	"glowhub/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAttemptNotFound is returned for unknown or expired attempts.
var ErrAttemptNotFound = errors.New("booking attempt not found or expired")

// AttemptStore keeps the latest snapshot of each booking attempt.
type AttemptStore interface {
	Save(ctx context.Context, attempt models.BookingAttempt) error
	Get(ctx context.Context, id string) (*models.BookingAttempt, error)
}

// RedisAttemptStore stores attempt snapshots as JSON with a TTL.
type RedisAttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAttemptStore(client *redis.Client, ttl time.Duration) *RedisAttemptStore {
	return &RedisAttemptStore{client: client, ttl: ttl}
}

func (s *RedisAttemptStore) Save(ctx context.Context, attempt models.BookingAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, utils.AttemptPrefix+attempt.ID, data, s.ttl).Err()
}

func (s *RedisAttemptStore) Get(ctx context.Context, id string) (*models.BookingAttempt, error) {
	data, err := s.client.Get(ctx, utils.AttemptPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	var attempt models.BookingAttempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// AttemptManager runs booking attempts in the background so HTTP callers
// can start one, poll its snapshot and cancel it.
type AttemptManager struct {
	orchestrator BookingOrchestrator
	store        AttemptStore
	logger       *zap.Logger

	baseCtx context.Context
	mu      sync.Mutex
	running map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewAttemptManager builds a manager whose attempts are cancelled when baseCtx is.
func NewAttemptManager(baseCtx context.Context, orchestrator BookingOrchestrator, store AttemptStore, logger *zap.Logger) *AttemptManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptManager{
		orchestrator: orchestrator,
		store:        store,
		logger:       logger,
		baseCtx:      baseCtx,
		running:      make(map[string]context.CancelFunc),
	}
}

// Start records a new attempt and runs it in the background.
func (m *AttemptManager) Start(ctx context.Context, req models.BookingRequest) (*models.BookingAttempt, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	attempt := models.BookingAttempt{
		ID:        uuid.NewString(),
		State:     models.StateSelecting,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, attempt); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(m.baseCtx)
	m.mu.Lock()
	m.running[attempt.ID] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.finish(attempt.ID)

		_, _ = m.orchestrator.Run(runCtx, attempt.ID, req, func(snapshot models.BookingAttempt) {
			snapshot.CreatedAt = attempt.CreatedAt
			// Snapshots must land even after the attempt itself is cancelled.
			sctx, scancel := context.WithTimeout(context.WithoutCancel(runCtx), 2*time.Second)
			defer scancel()
			if err := m.store.Save(sctx, snapshot); err != nil {
				m.logger.Warn("failed to store attempt snapshot",
					zap.String("attemptId", snapshot.ID), zap.String("state", string(snapshot.State)), zap.Error(err))
			}
		})
	}()

	return &attempt, nil
}

func (m *AttemptManager) finish(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.running[id]; ok {
		cancel()
		delete(m.running, id)
	}
}

// Get returns the latest snapshot of an attempt.
func (m *AttemptManager) Get(ctx context.Context, id string) (*models.BookingAttempt, error) {
	return m.store.Get(ctx, id)
}

// Cancel aborts a running attempt. It reports false when the attempt is
// unknown to this process or has already finished.
func (m *AttemptManager) Cancel(id string) bool {
	m.mu.Lock()
	cancel, ok := m.running[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	m.logger.Info("booking attempt cancelled by user", zap.String("attemptId", id))
	return true
}

// Wait blocks until every running attempt has finished.
func (m *AttemptManager) Wait() {
	m.wg.Wait()
}
