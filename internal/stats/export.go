package stats

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/ripah/internal/model"
)

type exportDoc struct {
	Sessions []model.SessionAggregate `yaml:"sessions"`
	Chars    []exportChar             `yaml:"chars,omitempty"`
}

type exportChar struct {
	Char      string  `yaml:"char"`
	Correct   int     `yaml:"correct"`
	Incorrect int     `yaml:"incorrect"`
	Accuracy  float64 `yaml:"accuracy"`
}

// ExportYAML writes the report as a YAML document.
func ExportYAML(w io.Writer, report Report) error {
	doc := exportDoc{Sessions: report.Sessions}
	if doc.Sessions == nil {
		doc.Sessions = []model.SessionAggregate{}
	}
	chars := make([]model.CharAggregate, len(report.CharAggsWindow))
	copy(chars, report.CharAggsWindow)
	sortByAccuracy(chars)
	for _, agg := range chars {
		doc.Chars = append(doc.Chars, exportChar{
			Char:      agg.Char,
			Correct:   agg.Correct,
			Incorrect: agg.Incorrect,
			Accuracy:  accuracy(agg),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
