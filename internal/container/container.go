package container

import (
	"database/sql"

	auditLogRepo "github.com/sangphomma/Siriwong-Inventory-App/internal/auditlog"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/catalog"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/ledger"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/locations"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/reaper"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/repository"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/requests"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/sites"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/auditlog"

	"go.uber.org/zap"
)

type Container struct {
	Repository      *repository.Repository
	AuditLog        *auditlog.Auditlog
	Reaper          *reaper.Reaper
	ProductHandler  *catalog.ProductHandler
	LocationHandler *locations.LocationHandler
	SiteHandler     *sites.SiteHandler
	LedgerHandler   *ledger.LedgerHandler
	RequestHandler  *requests.RequestHandler
	ReaperHandler   *reaper.ReaperHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	productRepo := catalog.NewProductRepository(repo)
	productHandler := catalog.NewProductHandler(productRepo)

	locationRepo := locations.NewLocationRepository(repo)
	locationHandler := locations.NewLocationHandler(locationRepo)

	siteRepo := sites.NewSiteRepository(repo)
	siteHandler := sites.NewSiteHandler(siteRepo)

	ledgerRepo := ledger.NewRepository(repo)
	ledgerService := ledger.NewService(repo, ledgerRepo, log)
	ledgerHandler := ledger.NewHandler(ledgerService, auditLog)

	requestRepo := requests.NewRepository(repo)
	requestService := requests.NewService(repo, requestRepo, ledgerRepo, productRepo, log)
	requestHandler := requests.NewHandler(requestService, requestRepo, auditLog)

	requestReaper := reaper.New(requestRepo, log)
	reaperHandler := reaper.NewHandler(requestReaper)

	return &Container{
		Repository:      repo,
		AuditLog:        auditLog,
		Reaper:          requestReaper,
		ProductHandler:  productHandler,
		LocationHandler: locationHandler,
		SiteHandler:     siteHandler,
		LedgerHandler:   ledgerHandler,
		RequestHandler:  requestHandler,
		ReaperHandler:   reaperHandler,
	}
}
