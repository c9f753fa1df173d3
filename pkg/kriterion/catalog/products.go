package catalog

import (
	"fmt"
	"strings"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

// ClassifySheets returns the product sheets: every sheet that is neither the
// template nor listed in excluded. Workbook order is kept.
func ClassifySheets(names []string, template string, excluded []string) []string {
	skip := make(map[string]struct{}, len(excluded)+1)
	for _, name := range append([]string{template}, excluded...) {
		skip[name] = struct{}{}
		skip[strings.TrimSpace(name)] = struct{}{}
	}

	var products []string
	for _, name := range names {
		if _, ok := skip[name]; ok {
			continue
		}
		if _, ok := skip[strings.TrimSpace(name)]; ok {
			continue
		}
		products = append(products, name)
	}
	return products
}

// ProductFromSheet derives the product record of a sheet title.
func ProductFromSheet(title string) models.Product {
	return models.Product{ID: parser.Slug(title), Name: title}
}

// DuplicateProducts warns about sheet titles that slug to the same product id.
func DuplicateProducts(products []models.Product) []models.Warning {
	byID := make(map[string][]string)
	var order []string
	for _, p := range products {
		if _, ok := byID[p.ID]; !ok {
			order = append(order, p.ID)
		}
		byID[p.ID] = append(byID[p.ID], p.Name)
	}

	var warnings []models.Warning
	for _, id := range order {
		names := byID[id]
		if len(names) < 2 {
			continue
		}
		warnings = append(warnings, models.Warning{
			Kind:    models.WarnDuplicateProduct,
			Message: fmt.Sprintf("sheets %q share product id %q", names, id),
		})
	}
	return warnings
}
