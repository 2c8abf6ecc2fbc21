package migration

import (
	"strings"

	accountmapdomain "github.com/stayware/foliopost/internal/accountmap/domain"
	"github.com/stayware/foliopost/internal/config"
	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL is postgres-only; other dialects (sqlite
		// for local runs, mysql) fall back to schema sync.
		if !strings.EqualFold(cfg.DBType, "postgres") {
			return conn.AutoMigrate(
				&taxruledomain.TaxRuleRow{},
				&accountmapdomain.OutletAccountMap{},
				&postingdomain.PostingRun{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
