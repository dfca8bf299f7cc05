package models

import (
	"fmt"
	"strings"

	e "github.com/gartstein/zoo/internal/zoo/errors"
)

// Section names one of the browsable record sections.
type Section string

const (
	SectionAnimals    Section = "animals"
	SectionEmployees  Section = "employees"
	SectionEnclosures Section = "enclosures"
	SectionFeeding    Section = "feeding"
	SectionHealth     Section = "health"
)

// Sections lists every section in display order.
var Sections = []Section{SectionAnimals, SectionEmployees, SectionEnclosures, SectionFeeding, SectionHealth}

// ParseSection converts a slug into a Section.
func ParseSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sections {
		if sec == known {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: unknown section %q", e.ErrInvalidInput, s)
}

// Title is the human readable section name.
func (s Section) Title() string {
	switch s {
	case SectionAnimals:
		return "Animals"
	case SectionEmployees:
		return "Employees"
	case SectionEnclosures:
		return "Enclosures"
	case SectionFeeding:
		return "Feeding"
	case SectionHealth:
		return "Health records"
	default:
		return string(s)
	}
}

// Row is one displayed table row. ID is captured when the row is rendered
// so edits and deletes never re-derive it from the row position.
type Row struct {
	ID    uint     `json:"id"`
	Cells []string `json:"cells"`
}

// Table is a rendered section listing.
type Table struct {
	Section Section  `json:"section"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// IDAt resolves a row index to the record ID bound to it.
func (t *Table) IDAt(index int) (uint, error) {
	if index < 0 || index >= len(t.Rows) {
		return 0, fmt.Errorf("%w: row %d", e.ErrNotFound, index)
	}
	return t.Rows[index].ID, nil
}

// OptionKind names a picker list used by the edit forms.
type OptionKind string

const (
	OptionSpecies    OptionKind = "species"
	OptionEnclosures OptionKind = "enclosures"
	OptionAnimals    OptionKind = "animals"
	OptionFeeds      OptionKind = "feeds"
)

// Option is one selectable reference in a form picker.
type Option struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// DeletePolicy decides what happens to dependents of a deleted record.
type DeletePolicy string

const (
	// DeleteKeep leaves dependents pointing at the removed id.
	DeleteKeep DeletePolicy = "keep"
	// DeleteRestrict refuses to delete records that still have dependents.
	DeleteRestrict DeletePolicy = "restrict"
	// DeleteNullify clears optional references of dependents.
	DeleteNullify DeletePolicy = "nullify"
)

// Valid reports whether p is a known policy.
func (p DeletePolicy) Valid() bool {
	switch p {
	case DeleteKeep, DeleteRestrict, DeleteNullify:
		return true
	}
	return false
}
