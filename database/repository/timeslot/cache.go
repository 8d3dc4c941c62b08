// File: database/repository/timeslot/cache.go
package timeslotRepo

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"keyscal/models"
	"keyscal/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// cachedTimeSlotRepo serves exact-date queries from Redis and invalidates the
// affected dates on every write. Redis failures degrade to the inner store.
type cachedTimeSlotRepo struct {
	inner  TimeSlotRepository
	client *redis.Client
	ttl    time.Duration

	// pending collects dates touched inside a transaction; they are
	// invalidated once the transaction has finished.
	mu      sync.Mutex
	pending map[string]struct{}
}

// cachedTxTimeSlotRepo is returned when the inner store supports transactions.
type cachedTxTimeSlotRepo struct {
	*cachedTimeSlotRepo
}

// NewCachedTimeSlotRepo wraps inner with a Redis read cache.
func NewCachedTimeSlotRepo(inner TimeSlotRepository, client *redis.Client, ttl time.Duration) TimeSlotRepository {
	c := &cachedTimeSlotRepo{inner: inner, client: client, ttl: ttl}
	if _, ok := inner.(Transactor); ok {
		return &cachedTxTimeSlotRepo{c}
	}
	return c
}

func dateKey(date string) string { return utils.SlotCachePrefix + date }

func generationKey(date string) string { return utils.SlotGenerationPrefix + date }

// errStaleFill aborts a cache fill whose date was invalidated mid-read.
var errStaleFill = errors.New("timeslot cache fill is stale")

func (c *cachedTimeSlotRepo) Find(ctx context.Context, f Filter) ([]models.TimeSlot, error) {
	if !f.OnlyDate() || c.inTransaction() {
		return c.inner.Find(ctx, f)
	}

	raw, err := c.client.Get(ctx, dateKey(f.Date)).Bytes()
	if err == nil {
		var slots []models.TimeSlot
		if err := json.Unmarshal(raw, &slots); err == nil {
			return slots, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		zap.L().Debug("timeslot cache read failed", zap.String("date", f.Date), zap.Error(err))
		return c.inner.Find(ctx, f)
	}

	// The generation must be read before the store so a write landing in
	// between is detected at fill time.
	gen, err := c.generation(ctx, c.client, f.Date)
	if err != nil {
		zap.L().Debug("timeslot cache generation read failed", zap.String("date", f.Date), zap.Error(err))
		return c.inner.Find(ctx, f)
	}

	slots, err := c.inner.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := c.fill(ctx, f.Date, gen, slots); err != nil && !errors.Is(err, errStaleFill) {
		zap.L().Debug("timeslot cache write failed", zap.String("date", f.Date), zap.Error(err))
	}
	return slots, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *cachedTimeSlotRepo) generation(ctx context.Context, r getter, date string) (int64, error) {
	gen, err := r.Get(ctx, generationKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// fill stores slots for date only if no invalidation happened since gen was
// read. WATCH makes an invalidation racing the SET abort the fill.
func (c *cachedTimeSlotRepo) fill(ctx context.Context, date string, gen int64, slots []models.TimeSlot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, date)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dateKey(date), payload, c.ttl)
			return nil
		})
		return err
	}, generationKey(date))
	if errors.Is(err, redis.TxFailedErr) {
		return errStaleFill
	}
	return err
}

func (c *cachedTimeSlotRepo) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	return c.inner.GetByID(ctx, id)
}

func (c *cachedTimeSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) error {
	if err := c.inner.Create(ctx, slot); err != nil {
		return err
	}
	c.invalidate(ctx, slot.Date)
	return nil
}

func (c *cachedTimeSlotRepo) InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	stored, err := c.inner.InsertMany(ctx, slots)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(stored))
	for _, s := range stored {
		dates = append(dates, s.Date)
	}
	c.invalidate(ctx, dates...)
	return stored, nil
}

func (c *cachedTimeSlotRepo) UpdateTimes(ctx context.Context, id, startTime, endTime string) (*models.TimeSlot, error) {
	slot, err := c.inner.UpdateTimes(ctx, id, startTime, endTime)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, slot.Date)
	return slot, nil
}

func (c *cachedTimeSlotRepo) DeleteByID(ctx context.Context, id string) error {
	existing, lookupErr := c.inner.GetByID(ctx, id)
	if err := c.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	if lookupErr == nil {
		c.invalidate(ctx, existing.Date)
	}
	return nil
}

func (c *cachedTimeSlotRepo) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

func (c *cachedTimeSlotRepo) inTransaction() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

func (c *cachedTimeSlotRepo) invalidate(ctx context.Context, dates ...string) {
	if len(dates) == 0 {
		return
	}
	c.mu.Lock()
	if c.pending != nil {
		for _, d := range dates {
			c.pending[d] = struct{}{}
		}
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	seen := make(map[string]struct{}, len(dates))
	keys := make([]string, 0, len(dates))
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			keys = append(keys, dateKey(d))
			pipe.Incr(ctx, generationKey(d))
			pipe.Expire(ctx, generationKey(d), utils.SlotGenerationTTL)
			pipe.Del(ctx, dateKey(d))
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("timeslot cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// WithTransaction delegates to the inner store and invalidates every date the
// transaction touched after it finishes, committed or not.
func (c *cachedTxTimeSlotRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TimeSlotRepository) error) error {
	tx := c.inner.(Transactor)
	scoped := &cachedTimeSlotRepo{client: c.client, ttl: c.ttl, pending: map[string]struct{}{}}

	err := tx.WithTransaction(ctx, func(ctx context.Context, repo TimeSlotRepository) error {
		scoped.inner = repo
		return fn(ctx, scoped)
	})

	scoped.mu.Lock()
	dates := make([]string, 0, len(scoped.pending))
	for d := range scoped.pending {
		dates = append(dates, d)
	}
	scoped.mu.Unlock()
	c.invalidate(ctx, dates...)
	return err
}
