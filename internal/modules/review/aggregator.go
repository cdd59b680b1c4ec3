package review

import (
	"context"

	"taxibooking/internal/domain"
	"taxibooking/internal/events"
)

type RatingSource interface {
	Summarize(ctx context.Context, taxiID int64) (domain.RatingSummary, error)
}

type RatingSink interface {
	UpdateRating(ctx context.Context, s domain.RatingSummary) error
}

// RatingAggregator recomputes a taxi's average rating and review count from
// its reviews. It is the only writer of those two columns.
func RatingAggregator(reviews RatingSource, taxis RatingSink) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		if e.TaxiID == 0 {
			return nil
		}
		summary, err := reviews.Summarize(ctx, e.TaxiID)
		if err != nil {
			return err
		}
		return taxis.UpdateRating(ctx, summary)
	}
}
