package graph

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/observability"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

const breakerName = "graph-store"

type BreakerSettings struct {
	FailureThreshold uint32
	Timeout          time.Duration
	Interval         time.Duration
}

// FallbackStore serves reads from primary and switches to the static catalogue when primary
// errors or its circuit breaker is open. ErrCourseNotFound from primary is an answer, not a failure.
// With a nil primary every read goes to the catalogue.
type FallbackStore struct {
	primary  Store
	fallback *SnapshotStore
	cb       *gobreaker.CircuitBreaker[any]
	log      *logger.Logger
	lastFell atomic.Bool
}

func NewFallbackStore(primary Store, fallback *SnapshotStore, settings BreakerSettings, log *logger.Logger) *FallbackStore {
	if log == nil {
		log = logger.NewNop()
	}
	f := &FallbackStore{
		primary:  primary,
		fallback: fallback,
		log:      log.With("store", "FallbackStore"),
	}
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 3
	}
	observability.BreakerState.WithLabelValues(breakerName).Set(0)
	f.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCourseNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.log.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			observability.BreakerState.WithLabelValues(name).Set(stateValue(to))
			observability.BreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return f
}

// Degraded reports whether reads are currently being served by the static catalogue.
func (f *FallbackStore) Degraded() bool {
	if f.primary == nil {
		return true
	}
	return f.cb.State() == gobreaker.StateOpen || f.lastFell.Load()
}

func (f *FallbackStore) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	return call(f, ctx, "ListCourses", func(s Store) ([]catalog.Course, error) { return s.ListCourses(ctx) })
}

func (f *FallbackStore) GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
	return call(f, ctx, "GetCourse", func(s Store) (*catalog.CourseDetail, error) { return s.GetCourse(ctx, id) })
}

func (f *FallbackStore) HasCourse(ctx context.Context, id int64) (bool, error) {
	return call(f, ctx, "HasCourse", func(s Store) (bool, error) { return s.HasCourse(ctx, id) })
}

func (f *FallbackStore) DirectPrerequisites(ctx context.Context, id int64) ([]int64, error) {
	return call(f, ctx, "DirectPrerequisites", func(s Store) ([]int64, error) { return s.DirectPrerequisites(ctx, id) })
}

func (f *FallbackStore) Search(ctx context.Context, keyword string, mode SearchMode) ([]catalog.Course, error) {
	return call(f, ctx, "Search", func(s Store) ([]catalog.Course, error) { return s.Search(ctx, keyword, mode) })
}

func (f *FallbackStore) Stats(ctx context.Context) (catalog.Stats, error) {
	return call(f, ctx, "Stats", func(s Store) (catalog.Stats, error) { return s.Stats(ctx) })
}

func (f *FallbackStore) Edges(ctx context.Context) ([]catalog.PrerequisiteEdge, error) {
	return call(f, ctx, "Edges", func(s Store) ([]catalog.PrerequisiteEdge, error) { return s.Edges(ctx) })
}

func call[T any](f *FallbackStore, ctx context.Context, op string, fn func(Store) (T, error)) (T, error) {
	if f.primary == nil {
		return fn(f.fallback)
	}
	res, err := f.cb.Execute(func() (any, error) {
		return fn(f.primary)
	})
	if err == nil {
		f.lastFell.Store(false)
		v, _ := res.(T)
		return v, nil
	}
	if errors.Is(err, ErrCourseNotFound) {
		f.lastFell.Store(false)
		var zero T
		return zero, err
	}
	if ctx != nil && ctx.Err() != nil {
		var zero T
		return zero, ctx.Err()
	}

	reason := "error"
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		reason = "breaker_open"
	} else {
		f.log.Warn("graph store failed, serving static catalogue", "op", op, "error", err)
	}
	f.lastFell.Store(true)
	observability.StoreFallbacks.WithLabelValues(op, reason).Inc()
	return fn(f.fallback)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
