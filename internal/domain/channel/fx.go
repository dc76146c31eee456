package channel

import (
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/internal/domain/channel/repository/postgres"
	"github.com/Conte777/newsrelay/internal/domain/channel/usecase/business"
)

// Module provides channel identity components for fx DI
var Module = fx.Module("channel",
	fx.Provide(
		postgres.NewIdentityRepository,
		business.NewUseCase,
	),
)
