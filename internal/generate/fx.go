package generate

import (
	"github.com/mocksmith/mocksmith/internal/generate/service"
	"github.com/mocksmith/mocksmith/internal/provider"
	"go.uber.org/fx"
)

var Module = fx.Module("generate.service",
	fx.Provide(func(d *provider.Dispatcher) service.Dispatcher { return d }),
	fx.Provide(service.New),
)
