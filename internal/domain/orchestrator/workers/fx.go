package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the poller for fx DI
var Module = fx.Module("orchestrator-workers",
	fx.Provide(NewPoller),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle registers the poller with fx.Lifecycle
func registerLifecycle(lc fx.Lifecycle, w *Poller) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return w.Start()
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			return nil
		},
	})
}
