package models

import (
	"fmt"
	"strings"
)

// Company is a tracked entity. Topic membership is a server-side relation.
type Company struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	URLs          []string          `json:"urls,omitempty" yaml:"urls,omitempty"`
	Documents     []CompanyDocument `json:"documents,omitempty" yaml:"documents,omitempty"`
	SelectedCount int               `json:"selected_count,omitempty" yaml:"selected_count,omitempty"`
}

// CompanyDocument is a source document attached to a company.
type CompanyDocument struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Validate checks that the company can be referenced by id.
func (c *Company) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(c.ID) == "" {
		validation.Add("id", ErrIDRequired)
	}
	for i, doc := range c.Documents {
		if strings.TrimSpace(doc.ID) == "" {
			validation.Add(fmt.Sprintf("documents[%d].id", i), ErrIDRequired)
		}
	}
	return validation.Err()
}
