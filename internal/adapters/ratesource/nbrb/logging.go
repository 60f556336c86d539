package nbrb

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
)

// loggingSource decorates a RateSource with structured logging.
type loggingSource struct {
	next   portssvc.RateSource
	logger *slog.Logger
}

// NewLoggingSource returns a RateSource that logs every lookup.
func NewLoggingSource(logger *slog.Logger, next portssvc.RateSource) portssvc.RateSource {
	return &loggingSource{next: next, logger: logger}
}

func (s *loggingSource) GetOfficialRate(ctx context.Context, currencyCode string, onDate time.Time) (rate *domain.OfficialRate, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			slog.String("method", "get_official_rate"),
			slog.String("currency", currencyCode),
			slog.Duration("took", time.Since(begin)),
		}
		if !onDate.IsZero() {
			attrs = append(attrs, slog.String("on_date", onDate.Format(dateLayout)))
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Rate source lookup failed", append(attrs, slog.String("error", err.Error()))...)
			return
		}
		s.logger.DebugContext(ctx, "Rate source lookup", append(attrs, slog.String("rate", rate.OfficialRate.String()))...)
	}(time.Now())
	return s.next.GetOfficialRate(ctx, currencyCode, onDate)
}
