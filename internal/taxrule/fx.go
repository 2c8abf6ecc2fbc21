package taxrule

import (
	"github.com/stayware/foliopost/internal/taxrule/repository"
	"github.com/stayware/foliopost/internal/taxrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxrule.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
