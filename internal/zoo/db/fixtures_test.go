package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gartstein/zoo/internal/pkg/utils"
	"github.com/gartstein/zoo/internal/zoo/models"
	"github.com/qawatake/fixify"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// SetupTestDB initializes an in-memory SQLite repository for testing.
func SetupTestDB(t *testing.T, policy models.DeletePolicy) *Repository {
	t.Helper()
	repo, err := NewRepository(&Config{
		Driver:       DriverSQLite,
		SQLitePath:   ":memory:",
		DeletePolicy: policy,
		Logger:       zaptest.NewLogger(t),
	})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func speciesFixture(name string) *fixify.Model[models.Species] {
	return fixify.NewModel(&models.Species{Name: name})
}

func enclosureFixture(name string, size float64) *fixify.Model[models.Enclosure] {
	return fixify.NewModel(&models.Enclosure{Name: name, Size: size, Location: "North", Description: name + " pen"})
}

func feedFixture(name string) *fixify.Model[models.Feed] {
	return fixify.NewModel(&models.Feed{Name: name})
}

func animalFixture(name string) *fixify.Model[models.Animal] {
	return fixify.NewModel(
		&models.Animal{
			Name:          name,
			Sex:           models.Male,
			DateOfBirth:   day(2020, time.January, 1),
			DateOfArrival: day(2021, time.June, 15),
		},
		fixify.ConnectorFunc(func(_ testing.TB, a *models.Animal, s *models.Species) {
			a.SpeciesID = utils.Ptr(s.ID)
		}),
		fixify.ConnectorFunc(func(_ testing.TB, a *models.Animal, enc *models.Enclosure) {
			a.EnclosureID = utils.Ptr(enc.ID)
		}),
	)
}

func feedingFixture(amount float64) *fixify.Model[models.AnimalFeed] {
	return fixify.NewModel(
		&models.AnimalFeed{DailyAmount: amount},
		fixify.ConnectorFunc(func(_ testing.TB, af *models.AnimalFeed, a *models.Animal) {
			af.AnimalID = a.ID
		}),
		fixify.ConnectorFunc(func(_ testing.TB, af *models.AnimalFeed, f *models.Feed) {
			af.FeedID = f.ID
		}),
	)
}

func checkupFixture(notes string) *fixify.Model[models.HealthRecord] {
	return fixify.NewModel(
		&models.HealthRecord{CheckupDate: day(2022, time.March, 3), Notes: notes},
		fixify.ConnectorFunc(func(_ testing.TB, h *models.HealthRecord, a *models.Animal) {
			h.AnimalID = a.ID
		}),
	)
}

// persist inserts a fixture graph parents first.
func persist(t *testing.T, repo *Repository, graph ...fixify.IModel) {
	t.Helper()
	ctx := context.Background()
	fixify.New(t, graph...).Apply(func(v any) error {
		switch m := v.(type) {
		case *models.Species:
			return repo.CreateSpecies(ctx, m)
		case *models.Enclosure:
			return repo.CreateEnclosure(ctx, m)
		case *models.Feed:
			return repo.CreateFeed(ctx, m)
		case *models.Employee:
			return repo.CreateEmployee(ctx, m)
		case *models.Animal:
			return repo.CreateAnimal(ctx, m)
		case *models.AnimalFeed:
			return repo.CreateAnimalFeed(ctx, m)
		case *models.HealthRecord:
			return repo.CreateHealthRecord(ctx, m)
		default:
			return fmt.Errorf("unexpected fixture %T", v)
		}
	})
}
