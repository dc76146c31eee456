package domain

import (
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/internal/domain/channel"
	"github.com/Conte777/newsrelay/internal/domain/item"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator"
	"github.com/Conte777/newsrelay/internal/domain/publish"
)

// Module aggregates all domain modules
var Module = fx.Module(
	"domain",
	channel.Module,
	item.Module,
	publish.Module,
	orchestrator.Module,
)
