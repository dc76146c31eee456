package orchestrator

import (
	"go.uber.org/fx"

	channelbusiness "github.com/Conte777/newsrelay/internal/domain/channel/usecase/business"
	itembusiness "github.com/Conte777/newsrelay/internal/domain/item/usecase/business"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/deps"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/usecase/business"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/workers"
	publishbusiness "github.com/Conte777/newsrelay/internal/domain/publish/usecase/business"
)

// Module provides orchestrator components for fx DI
var Module = fx.Module("orchestrator",
	fx.Provide(
		business.NewUseCase,
		func(uc *channelbusiness.UseCase) deps.IdentityManager {
			return uc
		},
		func(uc *itembusiness.UseCase) deps.Ledger {
			return uc
		},
		func(uc *publishbusiness.UseCase) deps.Publisher {
			return uc
		},
	),
	workers.Module,
)
