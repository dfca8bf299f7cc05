package report

import (
	"github.com/gartstein/zoo/internal/zoo/models"
)

var headers = map[models.Section][]string{
	models.SectionAnimals:    {"Name", "Species", "Enclosure", "Date of birth", "Date of arrival", "Sex"},
	models.SectionEmployees:  {"Name", "Position", "Phone", "Hire date"},
	models.SectionEnclosures: {"Name", "Size (m²)", "Location", "Description"},
	models.SectionFeeding:    {"Animal", "Feed", "Daily amount (kg)"},
	models.SectionHealth:     {"Animal", "Checkup date", "Notes"},
}

// Headers returns the column titles of a section table.
func Headers(section models.Section) []string {
	return append([]string(nil), headers[section]...)
}

func newTable(section models.Section, capacity int) *models.Table {
	return &models.Table{
		Section: section,
		Headers: Headers(section),
		Rows:    make([]models.Row, 0, capacity),
	}
}

func date(v interface{ Format(string) string }) string {
	return v.Format(models.DateLayout)
}

// AnimalsTable binds each animal row to its id.
func AnimalsTable(animals []models.AnimalView, placeholder string) *models.Table {
	t := newTable(models.SectionAnimals, len(animals))
	for _, a := range animals {
		t.Rows = append(t.Rows, models.Row{ID: a.ID, Cells: []string{
			a.Name,
			models.Label(a.SpeciesName, placeholder),
			models.Label(a.EnclosureName, placeholder),
			date(a.DateOfBirth),
			date(a.DateOfArrival),
			string(a.Sex),
		}})
	}
	return t
}

func EmployeesTable(employees []models.Employee) *models.Table {
	t := newTable(models.SectionEmployees, len(employees))
	for _, emp := range employees {
		t.Rows = append(t.Rows, models.Row{ID: emp.ID, Cells: []string{
			emp.Name, emp.Position, emp.Phone, date(emp.HireDate),
		}})
	}
	return t
}

func EnclosuresTable(enclosures []models.Enclosure) *models.Table {
	t := newTable(models.SectionEnclosures, len(enclosures))
	for _, enc := range enclosures {
		t.Rows = append(t.Rows, models.Row{ID: enc.ID, Cells: []string{
			enc.Name, Number(enc.Size), enc.Location, enc.Description,
		}})
	}
	return t
}

func FeedingsTable(feedings []models.AnimalFeedView, placeholder string) *models.Table {
	t := newTable(models.SectionFeeding, len(feedings))
	for _, f := range feedings {
		t.Rows = append(t.Rows, models.Row{ID: f.ID, Cells: []string{
			models.Label(f.AnimalName, placeholder),
			models.Label(f.FeedName, placeholder),
			Number(f.DailyAmount),
		}})
	}
	return t
}

func HealthRecordsTable(records []models.HealthRecordView, placeholder string) *models.Table {
	t := newTable(models.SectionHealth, len(records))
	for _, h := range records {
		t.Rows = append(t.Rows, models.Row{ID: h.ID, Cells: []string{
			models.Label(h.AnimalName, placeholder),
			date(h.CheckupDate),
			h.Notes,
		}})
	}
	return t
}
