package app

import (
	"time"

	"github.com/KpG782/qr-registration/internal/clock"
	"github.com/google/uuid"
)

func newUUID() string {
	return uuid.NewString()
}

// stamp returns the current time at the precision both backends persist.
func stamp(clk clock.Clock) time.Time {
	return clk.Now().Truncate(time.Second)
}
