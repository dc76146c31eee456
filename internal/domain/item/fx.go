package item

import (
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/internal/domain/item/repository/postgres"
	"github.com/Conte777/newsrelay/internal/domain/item/usecase/business"
)

// Module provides ingestion ledger components for fx DI
var Module = fx.Module("item",
	fx.Provide(
		postgres.NewItemRepository,
		business.NewUseCase,
	),
)
