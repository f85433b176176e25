package reminder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Watch calls run on the cron schedule spec until ctx is cancelled. spec uses the
// standard five-field syntax or a descriptor such as "@hourly" or "@every 30m".
// Runs never overlap; a run still in progress when the next tick fires delays it.
func Watch(ctx context.Context, log *slog.Logger, spec string, run func(ctx context.Context)) error {
	const op = "reminder.Watch"

	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%s: invalid schedule %q: %w", op, spec, err)
	}

	c := cron.New(cron.WithChain(cron.DelayIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { run(ctx) }); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("reminder watcher started", slog.String("schedule", spec))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()

	log.Info("reminder watcher stopped")
	return nil
}
