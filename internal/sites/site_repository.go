package sites

import (
	"fmt"

	"github.com/sangphomma/Siriwong-Inventory-App/internal/repository"
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type SiteRepository struct {
	Repository *repository.Repository
}

func NewSiteRepository(r *repository.Repository) *SiteRepository {
	return &SiteRepository{Repository: r}
}

func (r *SiteRepository) GetSites() ([]models.Site, error) {
	var sites = []models.Site{}
	query := r.Repository.GoquDBWrapper.Select("id", "name").From("project_sites").Order(goqu.C("name").Asc())
	if err := query.Executor().ScanStructs(&sites); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return sites, nil
}

func (r *SiteRepository) PersistSite(site *models.Site) error {
	query := r.Repository.GoquDBWrapper.Insert("project_sites").
		Rows(goqu.Record{"name": site.Name}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&site.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("for site "+site.Name, string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert site record: %w", err)
	}

	return nil
}

func (r *SiteRepository) RemoveSite(siteID int) error {
	result, err := r.Repository.GoquDBWrapper.Delete("project_sites").Where(goqu.Ex{"id": siteID}).Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(fmt.Sprintf("for site %d", siteID), string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete site: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("site %d: %w", siteID, custom_error.ErrNotFound)
	}

	return nil
}
