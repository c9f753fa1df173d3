package output

import (
	"fmt"
	"io"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
)

// WriteList prints the tree as a domain / criterion / sub-criterion listing.
func WriteList(w io.Writer, tree models.Tree) error {
	for _, d := range tree.Domains {
		if _, err := fmt.Fprintf(w, "\n=== %s (%s) ===\n", d.Name, d.ID); err != nil {
			return err
		}
		for _, c := range d.Criteria {
			if _, err := fmt.Fprintf(w, "\n- %s\n", c.Name); err != nil {
				return err
			}
			for _, s := range c.Subcriteria {
				if _, err := fmt.Fprintf(w, "  %s | %s\n", s.ID, s.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
