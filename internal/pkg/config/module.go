package config

import "go.uber.org/fx"

// Module exports the config module for FX. The including app must supply a ServiceName.
var Module = fx.Module("config",
	fx.Provide(NewConfig),
)
