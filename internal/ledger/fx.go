package ledger

import (
	"github.com/stayware/foliopost/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.builder",
	fx.Provide(service.NewBuilder),
)
