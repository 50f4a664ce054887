package quote

import (
	"github.com/fenceworks/quotegen/internal/quote/export"
	"github.com/fenceworks/quotegen/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote.service",
	fx.Provide(export.NewService),
	fx.Provide(service.NewService),
)
