package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/config"
	"github.com/Conte777/newsrelay/internal/infrastructure/http/server"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
	fx.Invoke(func(*server.Server) {}),
)

// ServerParams holds the HTTP server dependencies
type ServerParams struct {
	fx.In

	LC         fx.Lifecycle
	ServiceCfg *config.ServiceConfig
	Logger     zerolog.Logger
	Checkers   []server.NamedChecker `group:"health"`
}

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(p ServerParams) *server.Server {
	log := p.Logger.With().Str("component", "http-server").Logger()
	srv := server.NewServer(p.ServiceCfg.Name, p.ServiceCfg.Port, log)

	srv.RegisterMetrics()
	srv.RegisterHealth(server.NewHealthHandler(p.Checkers, log))

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, p.ServiceCfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
