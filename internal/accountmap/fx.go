package accountmap

import (
	"github.com/stayware/foliopost/internal/accountmap/repository"
	"github.com/stayware/foliopost/internal/accountmap/service"
	"go.uber.org/fx"
)

var Module = fx.Module("accountmap.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
