package report

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// registerRun starts the export run once the app is up and shuts the app
// down when the run finishes. Exit code 1 is reserved for an error escaping
// every per-pipeline guard; recoverable pipeline failures still exit 0.
func registerRun(lc fx.Lifecycle, sh fx.Shutdowner, log *zap.SugaredLogger, r *Runner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := r.RunAll(context.Background()); err != nil {
					log.Errorf("export run failed: %v", err)
					code = 1
				}
				_ = sh.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewRunner),
	fx.Invoke(registerRun),
)
