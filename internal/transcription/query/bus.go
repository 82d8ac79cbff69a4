package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoHandler means no handler was registered for a query name.
var ErrNoHandler = errors.New("no handler registered")

// ErrDuplicateHandler means two handlers claimed the same query name.
var ErrDuplicateHandler = errors.New("duplicate handler registration")

// Handler services one or more query types. NewResult returns a pointer to
// an empty result of the right concrete type, so cached payloads decode to
// the same type a fresh dispatch returns.
type Handler interface {
	QueryNames() []string
	NewResult(name string) any
	Handle(ctx context.Context, q Query) (any, error)
}

// Bus routes queries through the cache and on to their handler. Cache
// backend failures always fail open: a broken cache degrades to a miss,
// never to a failed query.
type Bus struct {
	handlers map[string]Handler
	cache    Cache
	logger   zerolog.Logger
}

func NewBus(cache Cache, logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string]Handler),
		cache:    cache,
		logger:   logger.With().Str("component", "query_bus").Logger(),
	}
}

func (b *Bus) Register(h Handler) error {
	for _, name := range h.QueryNames() {
		if _, exists := b.handlers[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
		}
		b.handlers[name] = h
		b.logger.Debug().Str("query", name).Msg("handler registered")
	}
	return nil
}

func (b *Bus) Dispatch(ctx context.Context, q Query) (any, error) {
	name := q.QueryName()
	cacheKey := q.CacheKey()
	log := b.logger.With().
		Str("query", name).
		Str("query_id", q.QueryID().String()).
		Str("cache_key", cacheKey).
		Logger()

	if err := q.Validate(); err != nil {
		log.Error().Err(err).Msg("query rejected")
		return nil, err
	}

	h, ok := b.handlers[name]
	if !ok {
		err := fmt.Errorf("%w for query: %s", ErrNoHandler, name)
		log.Error().Err(err).Msg("query unrouted")
		return nil, err
	}

	if b.cache != nil {
		payload, hit, err := b.cache.Get(ctx, cacheKey)
		if err != nil {
			log.Warn().Err(err).Msg("cache get failed, treating as miss")
		} else if hit {
			result := h.NewResult(name)
			if err := json.Unmarshal(payload, result); err != nil {
				log.Warn().Err(err).Msg("cache payload corrupt, treating as miss")
			} else {
				log.Info().Msg("cache hit")
				return result, nil
			}
		}
	}

	log.Info().Fields(q.ToMap()).Msg("query started")

	result, err := h.Handle(ctx, q)
	if err != nil {
		log.Error().Err(err).Msg("query failed")
		return nil, err
	}

	if b.cache != nil && result != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			log.Warn().Err(err).Msg("result not cacheable")
		} else if err := b.cache.Set(ctx, cacheKey, payload); err != nil {
			log.Warn().Err(err).Msg("cache set failed")
		}
	}

	log.Info().Msg("query completed")
	return result, nil
}

// ClearCache drops all cached results. Invalidation is the caller's call,
// typically after a burst of writes.
func (b *Bus) ClearCache(ctx context.Context) error {
	if b.cache == nil {
		return nil
	}
	if err := b.cache.Clear(ctx); err != nil {
		b.logger.Warn().Err(err).Msg("cache clear failed")
		return err
	}
	b.logger.Info().Msg("cache cleared")
	return nil
}

func (b *Bus) HasHandler(name string) bool {
	_, ok := b.handlers[name]
	return ok
}
