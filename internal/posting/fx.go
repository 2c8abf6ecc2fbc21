package posting

import (
	"github.com/stayware/foliopost/internal/config"
	"github.com/stayware/foliopost/internal/posting/domain"
	"github.com/stayware/foliopost/internal/posting/repository"
	"github.com/stayware/foliopost/internal/posting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("posting.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(func(h *config.PostingPolicyHolder) domain.PolicySource { return h }),
	fx.Provide(service.NewService),
)
