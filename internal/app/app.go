package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/config"
	"github.com/Conte777/newsrelay/internal/domain"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/workers"
	"github.com/Conte777/newsrelay/internal/infrastructure"
	"github.com/Conte777/newsrelay/internal/infrastructure/database"
	"github.com/Conte777/newsrelay/internal/infrastructure/http/server"
)

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		infrastructure.Module,
		domain.Module,
		healthCheckers,
	)
}

// healthCheckers feeds the components reported by GET /health
var healthCheckers = fx.Provide(
	fx.Annotate(
		func(p *database.Pinger) server.NamedChecker {
			return server.NamedChecker{Name: "database", Checker: p}
		},
		fx.ResultTags(`group:"health"`),
	),
	fx.Annotate(
		func(p *workers.Poller) server.NamedChecker {
			return server.NamedChecker{Name: "poller", Checker: p}
		},
		fx.ResultTags(`group:"health"`),
	),
)
