// Package report renders section listings as plain text reports and as
// display tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gartstein/zoo/internal/zoo/models"
)

// DefaultPlaceholder is shown for a missing or dangling reference.
const DefaultPlaceholder = "Not specified"

// Number prints v in its shortest form with at least one decimal digit.
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

type builder struct {
	strings.Builder
}

func newBuilder(header string) *builder {
	b := &builder{}
	b.WriteString(header)
	b.WriteByte('\n')
	return b
}

func (b *builder) line(format string, args ...any) {
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

func Animals(animals []models.AnimalView, placeholder string) string {
	b := newBuilder("Animals report:")
	for _, a := range animals {
		b.line("Name: %s, Species: %s, Enclosure: %s",
			a.Name,
			models.Label(a.SpeciesName, placeholder),
			models.Label(a.EnclosureName, placeholder))
	}
	return b.String()
}

func Employees(employees []models.Employee) string {
	b := newBuilder("Employees report:")
	for _, emp := range employees {
		b.line("Name: %s, Position: %s, Phone: %s", emp.Name, emp.Position, emp.Phone)
	}
	return b.String()
}

func Enclosures(enclosures []models.Enclosure) string {
	b := newBuilder("Enclosures report:")
	for _, enc := range enclosures {
		b.line("Name: %s, Size: %s m², Location: %s", enc.Name, Number(enc.Size), enc.Location)
	}
	return b.String()
}

func Feedings(feedings []models.AnimalFeedView, placeholder string) string {
	b := newBuilder("Feeding report:")
	for _, f := range feedings {
		b.line("Animal: %s, Feed: %s, Daily amount: %s kg",
			models.Label(f.AnimalName, placeholder),
			models.Label(f.FeedName, placeholder),
			Number(f.DailyAmount))
	}
	return b.String()
}

func HealthRecords(records []models.HealthRecordView, placeholder string) string {
	b := newBuilder("Health records report:")
	for _, h := range records {
		b.line("Animal: %s, Checkup date: %s, Notes: %s",
			models.Label(h.AnimalName, placeholder),
			h.CheckupDate.Format(models.DateLayout),
			h.Notes)
	}
	return b.String()
}
