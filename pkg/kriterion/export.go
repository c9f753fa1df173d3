package kriterion

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/catalog"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

// Workbook is a sheet-addressable, already loaded workbook.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (parser.Sheet, bool)
}

// Export builds the tree from the template sheet and aligns every product sheet to it.
// Any fatal sheet error aborts the whole export; data-quality issues become warnings.
func Export(ctx context.Context, wb Workbook, opts Options) (*models.Catalog, error) {
	start := time.Now()
	cfg := opts.config()
	log := opts.logger()
	m := opts.Metrics
	layout := cfg.Layout()

	tmplSheet, ok := wb.Sheet(cfg.TemplateSheet)
	if !ok {
		return nil, NewSheetError(cfg.TemplateSheet, ErrTemplateNotFound)
	}
	tmpl, err := layout.Resolve(tmplSheet)
	if err != nil {
		return nil, NewSheetError(cfg.TemplateSheet, err)
	}
	log.Debug("template resolved",
		zap.String("sheet", cfg.TemplateSheet),
		zap.Int("header_row", tmpl.Header.Row),
		zap.Int("rows", len(tmpl.Records)))
	m.ObserveSheet("template", len(tmpl.Records))

	tree := catalog.BuildTree(slices.Values(tmpl.Records), layout.Domains.Order())
	warnings := catalog.CheckUniqueness(tree, cfg.TemplateSheet)

	names := catalog.ClassifySheets(wb.SheetNames(), cfg.TemplateSheet, cfg.ExcludedSheets)
	products := make([]models.Product, len(names))
	for i, name := range names {
		products[i] = catalog.ProductFromSheet(name)
	}
	warnings = append(warnings, catalog.DuplicateProducts(products)...)

	aligner := &catalog.Aligner{
		Template: tmpl.Records,
		Layout:   layout,
		Mode:     opts.Align,
		Strict:   opts.Strict,
		Evidence: cfg.EvidenceParser(),
	}

	results := make([]catalog.SheetScores, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency())
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sheet, ok := wb.Sheet(name)
			if !ok {
				return NewSheetError(name, ErrSheetNotFound)
			}
			res, err := aligner.Align(products[i].ID, sheet)
			if err != nil {
				return NewSheetError(name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := []models.Score{}
	for i, res := range results {
		log.Debug("product aligned",
			zap.String("sheet", names[i]),
			zap.String("product_id", products[i].ID),
			zap.Int("rows", res.Rows),
			zap.Int("scores", len(res.Scores)))
		m.ObserveSheet("product", res.Rows)
		scores = append(scores, res.Scores...)
		warnings = append(warnings, res.Warnings...)
	}

	for _, w := range warnings {
		log.Warn(w.Message, zap.String("kind", string(w.Kind)), zap.String("sheet", w.Sheet))
		m.IncrementWarning(string(w.Kind))
	}
	m.AddScores(len(scores))
	m.ObserveExport(start)

	log.Info("export complete",
		zap.Int("products", len(products)),
		zap.Int("subcriteria", len(tmpl.Records)),
		zap.Int("scores", len(scores)),
		zap.Int("warnings", len(warnings)))

	return &models.Catalog{
		Tree:     tree,
		Products: products,
		Scores:   scores,
		Warnings: warnings,
	}, nil
}
