package transfer

import (
	"github.com/stayware/foliopost/internal/transfer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transfer.service",
	fx.Provide(service.NewService),
)
