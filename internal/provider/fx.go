package provider

import (
	"go.uber.org/fx"
)

var Module = fx.Module("provider.dispatcher",
	fx.Provide(NewDispatcher),
)
