package store

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"repair-shop-backend/internal/apperr"
)

var ErrSearchQuery = apperr.Validation("Search query is required")

// Search runs one bounded substring query per selected entity kind, in
// parallel, and merges the hits. Kinds not selected stay empty.
func (s *gormStore) Search(ctx context.Context, query string, kind SearchKind) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQuery
	}
	like := likePattern(query)

	result := &SearchResult{
		Clients:  []SearchClientHit{},
		Machines: []SearchMachineHit{},
		Repairs:  []SearchRepairHit{},
		Parts:    []SearchPartHit{},
		Serials:  []SearchSerialHit{},
	}

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)
	selected := func(k SearchKind) bool { return kind == SearchAll || kind == k }

	if selected(SearchClients) {
		g.Go(func() error {
			return searchScan(db.Table("clients").
				Select("id, name, email, phone").
				Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?", like, like, like).
				Order("id ASC"), &result.Clients)
		})
	}
	if selected(SearchMachines) {
		g.Go(func() error {
			return searchScan(db.Table("machines").
				Select("id, model_name, catalog_number, url, date_of_adding, notes").
				Where("LOWER(model_name) LIKE ? OR LOWER(catalog_number) LIKE ?", like, like).
				Order("id ASC"), &result.Machines)
		})
	}
	if selected(SearchRepairs) {
		g.Go(func() error {
			return searchScan(db.Table("repairs r").
				Select("r.id, r.repair_name, r.description, r.repair_date, c.name AS client_name, m.model_name AS machine_name").
				Joins("JOIN clients c ON c.id = r.client_id").
				Joins("JOIN machines m ON m.id = r.repaired_machine").
				Where("LOWER(r.repair_name) LIKE ? OR LOWER(c.name) LIKE ? OR LOWER(m.model_name) LIKE ?", like, like, like).
				Order("r.id ASC"), &result.Repairs)
		})
	}
	if selected(SearchParts) {
		g.Go(func() error {
			return searchScan(db.Table("parts").
				Select("id, name, description, price").
				Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
				Order("id ASC"), &result.Parts)
		})
	}
	if selected(SearchSerials) {
		g.Go(func() error {
			return searchScan(db.Table("serial_numbers s").
				Select(`s.id, s.serial AS serial_number, s.date_of_sale, m.id AS machine_id,
					m.model_name AS machine_name, m.catalog_number, c.id AS client_id, c.name AS client_name`).
				Joins("JOIN machines m ON m.id = s.machine_id").
				Joins("LEFT JOIN clients c ON c.id = s.client_id").
				Where("LOWER(s.serial) LIKE ?", like).
				Order("s.id ASC"), &result.Serials)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, wrapDB("search", err)
	}
	return result, nil
}

func searchScan[T any](q *gorm.DB, dest *[]T) error {
	var rows []T
	if err := q.Limit(SearchLimit).Scan(&rows).Error; err != nil {
		return err
	}
	if rows != nil {
		*dest = rows
	}
	return nil
}
