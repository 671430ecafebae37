package cli

import (
	"context"
	"errors"

	"github.com/aretw0/advisor"
	"github.com/aretw0/advisor/pkg/domain"
)

// WatchDatasets logs dataset reloads until ctx is done. The file loader
// drops its cached copy before emitting, so the next request reads the new
// file. It returns false when the datasets cannot be watched.
func (a *App) WatchDatasets(ctx context.Context) bool {
	events, err := a.Engine.Watch(ctx)
	if err != nil {
		if errors.Is(err, advisor.ErrNotWatchable) {
			a.Logger.Warn("data.watch is set but datasets are embedded; set data.dir to watch a directory")
		} else {
			a.Logger.Error("dataset watcher failed", "error", err)
		}
		return false
	}

	go func() {
		for brand := range events {
			a.Logger.Info("dataset reloaded", "brand", brand)
			report, err := a.Engine.Validate(domain.Brand(brand))
			if err != nil {
				a.Logger.Error("reloaded dataset cannot be loaded", "brand", brand, "error", err)
				continue
			}
			if !report.Valid() {
				a.Logger.Warn("reloaded dataset is invalid", "brand", brand, "error", report.Err())
			}
		}
	}()
	return true
}
