package store

import (
	"gorm.io/gorm"
)

// Sort allow-lists map the public sort keys of each list to SQL columns.
var (
	clientSorts = map[string]string{
		"name":  "name",
		"email": "email",
		"city":  "city",
	}
	machineSorts = map[string]string{
		"model_name":     "model_name",
		"catalog_number": "catalog_number",
		"date_of_adding": "date_of_adding",
	}
	partSorts = map[string]string{
		"name":        "name",
		"description": "description",
		"price":       "price",
	}
	serialSorts = map[string]string{
		"serial":       "s.serial",
		"date_of_sale": "s.date_of_sale",
	}
	repairSorts = map[string]string{
		"repair_date": "r.repair_date",
		"repair_name": "r.repair_name",
		"client_name": "c.name",
	}
	admissionSorts = map[string]string{
		"admission_date": "a.admission_date",
		"admission_name": "a.admission_name",
	}
	profileSorts = map[string]string{
		"full_name": "p.full_name",
		"email":     "p.email",
	}
)

// orderBy returns "<column> ASC, <idColumn> ASC" for an allowed key and the
// identity order otherwise, so pages stay stable for a fixed sort key.
func orderBy(allowed map[string]string, key, idColumn string) string {
	if col, ok := allowed[key]; ok {
		return col + " ASC, " + idColumn + " ASC"
	}
	return idColumn + " ASC"
}

// paginate counts the rows matched by base and scans one page of them into
// dest using the given projection and order.
func paginate[T any](base func() *gorm.DB, p ListParams, selectSQL, order string) (*Page[T], error) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []T
	q := base()
	if selectSQL != "" {
		q = q.Select(selectSQL)
	}
	if err := q.Order(order).Limit(p.Limit).Offset(p.Offset()).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return newPage(p, total, rows), nil
}
