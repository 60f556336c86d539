package nbrb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// cachingSource decorates a RateSource with an expiring LRU cache. Concurrent misses
// for the same key share one upstream call.
type cachingSource struct {
	next    portssvc.RateSource
	cache   *expirable.LRU[string, domain.OfficialRate]
	group   singleflight.Group
	timeout time.Duration
}

// NewCachingSource returns a RateSource that caches up to size quotes for ttl.
// The shared upstream call is bounded by timeout instead of any single caller's context.
func NewCachingSource(size int, ttl, timeout time.Duration, next portssvc.RateSource) portssvc.RateSource {
	if size <= 0 {
		size = 256
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &cachingSource{
		next:    next,
		cache:   expirable.NewLRU[string, domain.OfficialRate](size, nil, ttl),
		timeout: timeout,
	}
}

func cacheKey(currencyCode string, onDate time.Time) string {
	day := "today"
	if !onDate.IsZero() {
		day = onDate.Format(dateLayout)
	}
	return strings.ToUpper(currencyCode) + "|" + day
}

func (s *cachingSource) GetOfficialRate(ctx context.Context, currencyCode string, onDate time.Time) (*domain.OfficialRate, error) {
	key := cacheKey(currencyCode, onDate)
	if cached, ok := s.cache.Get(key); ok {
		return &cached, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		// Other callers may be waiting on this result, so the first caller
		// cancelling must not abort the fetch.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		rate, err := s.next.GetOfficialRate(fetchCtx, currencyCode, onDate)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, *rate)
		return *rate, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("refreshing rate cache [%s]: %w", key, res.Err)
		}
		rate := res.Val.(domain.OfficialRate)
		return &rate, nil
	}
}
