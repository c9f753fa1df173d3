package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
)

// RunInfo identifies one export run in the SQLite output.
type RunInfo struct {
	ID         string
	Workbook   string
	ExportedAt time.Time
}

var schema = []string{
	`CREATE TABLE "export_runs" ("run_id" TEXT PRIMARY KEY, "workbook" TEXT, "exported_at" TEXT,
		"products" INTEGER, "subcriteria" INTEGER, "scores" INTEGER, "warnings" INTEGER)`,
	`CREATE TABLE "domains" ("id" TEXT, "name" TEXT, "position" INTEGER)`,
	`CREATE TABLE "criteria" ("id" TEXT, "domain_id" TEXT, "name" TEXT, "position" INTEGER)`,
	`CREATE TABLE "subcriteria" ("id" TEXT, "criterion_id" TEXT, "name" TEXT, "short_desc" TEXT,
		"chapter_ref" TEXT, "position" INTEGER)`,
	`CREATE TABLE "products" ("id" TEXT, "name" TEXT, "description" TEXT)`,
	`CREATE TABLE "scores" ("product_id" TEXT, "subcriterion_id" TEXT, "score" INTEGER, "audit_comment" TEXT)`,
	`CREATE TABLE "evidence_links" ("product_id" TEXT, "subcriterion_id" TEXT, "position" INTEGER,
		"label" TEXT, "url" TEXT)`,
	`CREATE TABLE "warnings" ("kind" TEXT, "sheet" TEXT, "message" TEXT)`,
	`CREATE INDEX idx_subcriteria_id ON subcriteria(id)`,
	`CREATE INDEX idx_scores_product ON scores(product_id)`,
	`CREATE INDEX idx_scores_subcriterion ON scores(subcriterion_id)`,
	`CREATE INDEX idx_evidence_links_score ON evidence_links(product_id, subcriterion_id)`,
}

// WriteSQLite replaces the database at path with the export result.
func WriteSQLite(ctx context.Context, path string, cat *models.Catalog, run RunInfo) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	w := &sqlWriter{ctx: ctx, tx: tx}
	w.exec(`INSERT INTO "export_runs" VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Workbook, run.ExportedAt.UTC().Format(time.RFC3339),
		len(cat.Products), len(cat.Tree.SubcriterionIDs()), len(cat.Scores), len(cat.Warnings))

	for di, d := range cat.Tree.Domains {
		w.exec(`INSERT INTO "domains" VALUES (?, ?, ?)`, d.ID, d.Name, di)
		for ci, c := range d.Criteria {
			w.exec(`INSERT INTO "criteria" VALUES (?, ?, ?, ?)`, c.ID, d.ID, c.Name, ci)
			for si, s := range c.Subcriteria {
				w.exec(`INSERT INTO "subcriteria" VALUES (?, ?, ?, ?, ?, ?)`,
					s.ID, c.ID, s.Name, s.ShortDesc, nullable(s.ChapterRef), si)
			}
		}
	}
	for _, p := range cat.Products {
		w.exec(`INSERT INTO "products" VALUES (?, ?, ?)`, p.ID, p.Name, p.Description)
	}
	for _, s := range cat.Scores {
		w.exec(`INSERT INTO "scores" VALUES (?, ?, ?, ?)`, s.ProductID, s.SubcriterionID, s.Score, s.AuditComment)
		for li, l := range s.EvidenzLinks {
			w.exec(`INSERT INTO "evidence_links" VALUES (?, ?, ?, ?, ?)`, s.ProductID, s.SubcriterionID, li, l.Label, l.URL)
		}
	}
	for _, wa := range cat.Warnings {
		w.exec(`INSERT INTO "warnings" VALUES (?, ?, ?)`, string(wa.Kind), wa.Sheet, wa.Message)
	}
	if w.err != nil {
		return w.err
	}
	return tx.Commit()
}

// sqlWriter keeps the first insert error and skips the rest.
type sqlWriter struct {
	ctx context.Context
	tx  *sql.Tx
	err error
}

func (w *sqlWriter) exec(query string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := w.tx.ExecContext(w.ctx, query, args...); err != nil {
		w.err = fmt.Errorf("insert: %w", err)
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
