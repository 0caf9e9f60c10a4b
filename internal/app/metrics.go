package app

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

const storedRoomsTimeout = 2 * time.Second

type roomLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// storedRooms counts rooms through the store, so rooms removed by TTL drop out on their own.
func storedRooms(ctx context.Context, rooms roomLister, logger *slog.Logger) func() float64 {
	return func() float64 {
		ctx, cancel := context.WithTimeout(ctx, storedRoomsTimeout)
		defer cancel()

		codes, err := rooms.ListCodes(ctx)
		if err != nil {
			logger.Warn("failed to count stored rooms", "error", err)
			return 0
		}
		// SCAN may return a key twice.
		slices.Sort(codes)
		return float64(len(slices.Compact(codes)))
	}
}
