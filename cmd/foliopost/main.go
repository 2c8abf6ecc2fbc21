package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/stayware/foliopost/internal/accountmap"
	"github.com/stayware/foliopost/internal/clock"
	"github.com/stayware/foliopost/internal/config"
	"github.com/stayware/foliopost/internal/glclient"
	"github.com/stayware/foliopost/internal/ledger"
	"github.com/stayware/foliopost/internal/migration"
	"github.com/stayware/foliopost/internal/observability"
	"github.com/stayware/foliopost/internal/posting"
	"github.com/stayware/foliopost/internal/server"
	"github.com/stayware/foliopost/internal/taxrule"
	"github.com/stayware/foliopost/internal/transfer"
	"github.com/stayware/foliopost/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		taxrule.Module,
		accountmap.Module,
		ledger.Module,
		glclient.Module,
		posting.Module,
		transfer.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
