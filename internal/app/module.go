package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/siteexport/internal/app/service/report"
	"github.com/fatflowers/siteexport/internal/platform/wix"
	"github.com/fatflowers/siteexport/pkg/config"
	"github.com/fatflowers/siteexport/pkg/logger"
	"github.com/fatflowers/siteexport/pkg/tabular"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	wix.Module,
	fx.Provide(
		func(c *wix.Client) report.Provider { return c },
		func() report.Sink { return tabular.NewFileSink() },
	),
	report.Module,
)
