package glclient

import (
	"time"

	"github.com/stayware/foliopost/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newFromConfig(cfg config.Config, log *zap.Logger) Submitter {
	return New(Config{
		BaseURL: cfg.GL.BaseURL,
		APIKey:  cfg.GL.APIKey,
		Timeout: time.Duration(cfg.GL.TimeoutSeconds) * time.Second,
	}, log)
}

var Module = fx.Module("glclient",
	fx.Provide(newFromConfig),
)
