package kriterion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

// Extract opens an xlsx workbook, reads it into memory and exports it.
func Extract(ctx context.Context, path string, opts Options) (*models.Catalog, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	wb, err := Load(path, opts.ShouldIncludeLinks())
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("workbook loaded",
		zap.String("workbook", wb.Name),
		zap.Int("sheets", len(wb.SheetNames())))

	return Export(ctx, wb, opts)
}

// Load reads every sheet of an xlsx workbook into memory.
func Load(path string, includeLinks bool) (*parser.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	return parser.LoadWorkbook(f, filepath.Base(path), includeLinks)
}
