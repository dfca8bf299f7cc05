package report

import (
	"testing"
	"time"

	"github.com/gartstein/zoo/internal/pkg/utils"
	"github.com/gartstein/zoo/internal/zoo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50, "50.0"},
		{3.5, "3.5"},
		{0, "0.0"},
		{120.25, "120.25"},
		{-2, "-2.0"},
		{0.1, "0.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Number(tt.in))
	}
}

func TestAnimals(t *testing.T) {
	animals := []models.AnimalView{
		{Animal: models.Animal{ID: 1, Name: "Leo"}, SpeciesName: utils.Ptr("Lion"), EnclosureName: utils.Ptr("Pen A")},
		{Animal: models.Animal{ID: 2, Name: "Stray"}},
	}

	got := Animals(animals, DefaultPlaceholder)

	assert.Equal(t, "Animals report:\n"+
		"Name: Leo, Species: Lion, Enclosure: Pen A\n"+
		"Name: Stray, Species: Not specified, Enclosure: Not specified\n", got)
}

func TestEmptyReportHasOnlyHeader(t *testing.T) {
	assert.Equal(t, "Employees report:\n", Employees(nil))
	assert.Equal(t, "Health records report:\n", HealthRecords(nil, DefaultPlaceholder))
}

func TestEmployeesAndEnclosures(t *testing.T) {
	employees := []models.Employee{{Name: "Ann", Position: "Manager", Phone: "555-0100"}}
	assert.Equal(t, "Employees report:\nName: Ann, Position: Manager, Phone: 555-0100\n", Employees(employees))

	enclosures := []models.Enclosure{{Name: "Pen A", Size: 50, Location: "North"}}
	assert.Equal(t, "Enclosures report:\nName: Pen A, Size: 50.0 m², Location: North\n", Enclosures(enclosures))
}

func TestFeedings(t *testing.T) {
	feedings := []models.AnimalFeedView{
		{AnimalFeed: models.AnimalFeed{DailyAmount: 3.5}, AnimalName: utils.Ptr("Leo"), FeedName: utils.Ptr("Hay")},
		{AnimalFeed: models.AnimalFeed{DailyAmount: 2}, FeedName: utils.Ptr("Fish")},
	}

	got := Feedings(feedings, "n/a")

	assert.Equal(t, "Feeding report:\n"+
		"Animal: Leo, Feed: Hay, Daily amount: 3.5 kg\n"+
		"Animal: n/a, Feed: Fish, Daily amount: 2.0 kg\n", got)
}

func TestHealthRecords(t *testing.T) {
	records := []models.HealthRecordView{{
		HealthRecord: models.HealthRecord{CheckupDate: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), Notes: "Healthy"},
		AnimalName:   utils.Ptr("Leo"),
	}}

	assert.Equal(t, "Health records report:\nAnimal: Leo, Checkup date: 2024-05-02, Notes: Healthy\n",
		HealthRecords(records, DefaultPlaceholder))
}

func TestAnimalsTableBindsIDs(t *testing.T) {
	animals := []models.AnimalView{
		{Animal: models.Animal{ID: 11, Name: "Leo", Sex: models.Male,
			DateOfBirth:   time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
			DateOfArrival: time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC)},
			SpeciesName: utils.Ptr("Lion")},
		{Animal: models.Animal{ID: 4, Name: "Zed", Sex: models.Female}},
	}

	table := AnimalsTable(animals, DefaultPlaceholder)

	assert.Equal(t, models.SectionAnimals, table.Section)
	assert.Equal(t, Headers(models.SectionAnimals), table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Leo", "Lion", "Not specified", "2020-01-01", "2021-06-15", "Male"}, table.Rows[0].Cells)

	id, err := table.IDAt(1)
	require.NoError(t, err)
	assert.Equal(t, uint(4), id)
}

func TestHeadersAreCopies(t *testing.T) {
	h := Headers(models.SectionFeeding)
	h[0] = "changed"
	assert.Equal(t, "Animal", Headers(models.SectionFeeding)[0])
}
