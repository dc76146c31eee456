package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/internal/infrastructure/database"
	httpfx "github.com/Conte777/newsrelay/internal/infrastructure/http"
	"github.com/Conte777/newsrelay/internal/infrastructure/kafka"
	"github.com/Conte777/newsrelay/internal/infrastructure/logger"
	"github.com/Conte777/newsrelay/internal/infrastructure/metrics"
	"github.com/Conte777/newsrelay/internal/infrastructure/nostr"
	"github.com/Conte777/newsrelay/internal/infrastructure/s3"
	"github.com/Conte777/newsrelay/internal/infrastructure/youtube"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	metrics.Module,
	youtube.Module,
	nostr.Module,
	kafka.Module,
	s3.Module,
	httpfx.Module,
)
