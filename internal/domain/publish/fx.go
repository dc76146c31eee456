package publish

import (
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/internal/domain/publish/usecase/business"
)

// Module provides the publish pipeline for fx DI
var Module = fx.Module("publish",
	fx.Provide(
		business.NewUseCase,
	),
)
