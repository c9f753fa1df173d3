// Package catalog assembles the criteria tree and aligns product scores to it.
package catalog

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
)

// maxDuplicateSample caps the ids listed in a duplicate warning.
const maxDuplicateSample = 20

type domainNode struct {
	domain   models.Domain
	criteria []*criterionNode
	byID     map[string]*criterionNode
}

type criterionNode struct {
	criterion models.Criterion
	subIDs    map[string]struct{}
}

// BuildTree folds resolved template rows into the domain/criterion/sub-criterion tree.
// Nodes are created on first sight of their id; later rows with a known id are ignored.
// Domains follow domainOrder; domains missing from it follow in first-seen order.
func BuildTree(records iter.Seq[models.RowRecord], domainOrder []string) models.Tree {
	domains := make(map[string]*domainNode)
	var seen []string

	for rec := range records {
		dn, ok := domains[rec.DomainID]
		if !ok {
			dn = &domainNode{
				domain: models.Domain{ID: rec.DomainID, Name: rec.DomainName},
				byID:   make(map[string]*criterionNode),
			}
			domains[rec.DomainID] = dn
			seen = append(seen, rec.DomainID)
		}

		cn, ok := dn.byID[rec.CriterionID]
		if !ok {
			cn = &criterionNode{
				criterion: models.Criterion{ID: rec.CriterionID, Name: rec.CriterionName},
				subIDs:    make(map[string]struct{}),
			}
			dn.byID[rec.CriterionID] = cn
			dn.criteria = append(dn.criteria, cn)
		}

		if _, dup := cn.subIDs[rec.SubcriterionID]; dup {
			continue
		}
		cn.subIDs[rec.SubcriterionID] = struct{}{}
		cn.criterion.Subcriteria = append(cn.criterion.Subcriteria, models.Subcriterion{
			ID:         rec.SubcriterionID,
			Name:       rec.SubcriterionName,
			ShortDesc:  rec.ShortDesc,
			ChapterRef: rec.ChapterRef,
		})
	}

	tree := models.Tree{Domains: []models.Domain{}}
	emitted := make(map[string]struct{}, len(domains))
	emit := func(id string) {
		dn, ok := domains[id]
		if !ok {
			return
		}
		if _, done := emitted[id]; done {
			return
		}
		emitted[id] = struct{}{}
		d := dn.domain
		d.Criteria = make([]models.Criterion, 0, len(dn.criteria))
		for _, cn := range dn.criteria {
			d.Criteria = append(d.Criteria, cn.criterion)
		}
		tree.Domains = append(tree.Domains, d)
	}
	for _, id := range domainOrder {
		emit(id)
	}
	for _, id := range seen {
		emit(id)
	}
	return tree
}

// DuplicateIDs returns the sorted sub-criterion ids that occur more than once in the tree.
func DuplicateIDs(tree models.Tree) []string {
	counts := make(map[string]int)
	for _, id := range tree.SubcriterionIDs() {
		counts[id]++
	}
	var dups []string
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

// CheckUniqueness reports duplicate sub-criterion ids as a warning. It never fails:
// rows sharing a chapter reference under different criteria legitimately collide.
func CheckUniqueness(tree models.Tree, sheet string) []models.Warning {
	dups := DuplicateIDs(tree)
	if len(dups) == 0 {
		return nil
	}
	sample := dups
	if len(sample) > maxDuplicateSample {
		sample = sample[:maxDuplicateSample]
	}
	return []models.Warning{{
		Kind:    models.WarnDuplicateID,
		Sheet:   sheet,
		Message: fmt.Sprintf("%d duplicated subcriterion ids in tree (sample: %s)", len(dups), strings.Join(sample, ", ")),
	}}
}
