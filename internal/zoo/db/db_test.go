package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gartstein/zoo/internal/pkg/utils"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateSpecies tests the creation of a species record.
func TestCreateSpecies(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	species := &models.Species{Name: "Lion"}
	require.NoError(t, repo.CreateSpecies(ctx, species))
	assert.NotZero(t, species.ID, "CreateSpecies should assign an id")

	retrieved, err := repo.GetSpecies(ctx, species.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lion", retrieved.Name)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	assert.ErrorIs(t, repo.CreateSpecies(ctx, &models.Species{Name: "  "}), e.ErrInvalidInput)
	assert.ErrorIs(t, repo.CreateEnclosure(ctx, &models.Enclosure{Name: "Pen", Size: -1}), e.ErrInvalidInput)
	assert.ErrorIs(t, repo.CreateAnimal(ctx, &models.Animal{Name: "Leo", Sex: "Other"}), e.ErrInvalidInput)
	assert.ErrorIs(t, repo.CreateAnimalFeed(ctx, &models.AnimalFeed{FeedID: 1}), e.ErrInvalidInput)

	all, err := repo.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rejected input must not be stored")
}

func TestAnimalRoundTrip(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	leo := animalFixture("Leo")
	persist(t, repo, speciesFixture("Lion").With(leo), enclosureFixture("Pen A", 50).With(leo))
	want := leo.Value()

	got, err := repo.GetAnimal(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.SpeciesID, got.SpeciesID)
	assert.Equal(t, want.EnclosureID, got.EnclosureID)
	assert.Equal(t, models.Male, got.Sex)
	assert.True(t, day(2020, time.January, 1).Equal(got.DateOfBirth))
	assert.True(t, day(2021, time.June, 15).Equal(got.DateOfArrival))
}

func TestGetNotFound(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	_, err := repo.GetSpecies(ctx, 42)
	assert.ErrorIs(t, err, e.ErrNotFound)
	_, err = repo.GetHealthRecord(ctx, 42)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

// TestUpdateAnimalReplacesEveryField verifies that an update overwrites the
// whole record, including clearing optional references.
func TestUpdateAnimalReplacesEveryField(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	leo := animalFixture("Leo")
	persist(t, repo, speciesFixture("Lion").With(leo), enclosureFixture("Pen A", 50).With(leo))

	updated := *leo.Value()
	updated.Name = "Leonard"
	updated.SpeciesID = nil
	updated.Sex = models.Female
	updated.DateOfArrival = day(2023, time.February, 2)
	require.NoError(t, repo.UpdateAnimal(ctx, &updated))

	got, err := repo.GetAnimal(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leonard", got.Name)
	assert.Nil(t, got.SpeciesID)
	assert.Equal(t, updated.EnclosureID, got.EnclosureID)
	assert.Equal(t, models.Female, got.Sex)
	assert.True(t, day(2023, time.February, 2).Equal(got.DateOfArrival))
}

func TestUpdateNotFound(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	err := repo.UpdateFeed(context.Background(), &models.Feed{ID: 7, Name: "Hay"})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDeleteTwice(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	hay := feedFixture("Hay")
	persist(t, repo, hay)

	require.NoError(t, repo.DeleteFeed(ctx, hay.Value().ID))
	assert.ErrorIs(t, repo.DeleteFeed(ctx, hay.Value().ID), e.ErrNotFound)
}

func TestListOrderedByID(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Antelope", "Moose"} {
		require.NoError(t, repo.CreateSpecies(ctx, &models.Species{Name: name}))
	}

	all, err := repo.ListSpecies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Zebra", all[0].Name)
	assert.Equal(t, "Antelope", all[1].Name)
	assert.Equal(t, "Moose", all[2].Name)
}

func TestSearchBlankEqualsList(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	persist(t, repo, enclosureFixture("Pen A", 50), enclosureFixture("Aviary", 120.5))

	listed, err := repo.ListEnclosures(ctx)
	require.NoError(t, err)
	for _, text := range []string{"", "   "} {
		found, err := repo.SearchEnclosures(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, listed, found)
	}
}

func TestSearchIgnoresCase(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	leo := animalFixture("Leo")
	persist(t, repo, speciesFixture("Lion").With(leo), enclosureFixture("Pen A", 50).With(leo))

	upper, err := repo.SearchAnimalViews(ctx, "LION")
	require.NoError(t, err)
	lower, err := repo.SearchAnimalViews(ctx, "lion")
	require.NoError(t, err)

	require.Len(t, upper, 1)
	assert.Equal(t, upper, lower)
	assert.Equal(t, "Leo", upper[0].Name)
	assert.Equal(t, "Lion", utils.Deref(upper[0].SpeciesName))
	assert.Equal(t, "Pen A", utils.Deref(upper[0].EnclosureName))
}

func TestSearchIgnoresCaseInCyrillic(t *testing.T) {
	for _, driver := range []string{SQLiteDriverCgo, SQLiteDriverPure} {
		t.Run(driver, func(t *testing.T) {
			repo, err := NewRepository(&Config{SQLitePath: ":memory:", SQLiteDriver: driver})
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })
			ctx := context.Background()

			require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{Name: "Иван", Position: "Менеджер", Phone: "555-0100"}))
			require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{Name: "Olga", Position: "Keeper", Phone: "555-0101"}))

			for _, text := range []string{"Менеджер", "менеджер", "МЕНЕДЖЕР", "Иван", "иван", "ива"} {
				found, err := repo.SearchEmployees(ctx, text)
				require.NoError(t, err)
				require.Len(t, found, 1, text)
				assert.Equal(t, "Иван", found[0].Name)
			}
		})
	}
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{Name: "Ann", Position: "Keeper", Phone: "555-0100"}))
	require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{Name: "Bob", Position: "Vet 100%", Phone: "555-0101"}))
	require.NoError(t, repo.CreateEmployee(ctx, &models.Employee{Name: "Cy_d", Position: "Guide", Phone: "555-0102"}))

	pct, err := repo.SearchEmployees(ctx, "%")
	require.NoError(t, err)
	require.Len(t, pct, 1)
	assert.Equal(t, "Bob", pct[0].Name)

	under, err := repo.SearchEmployees(ctx, "_")
	require.NoError(t, err)
	require.Len(t, under, 1)
	assert.Equal(t, "Cy_d", under[0].Name)

	byPhone, err := repo.SearchEmployees(ctx, "0101")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Bob", byPhone[0].Name)
}

func TestFeedingAndHealthViews(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	feeding := feedingFixture(3.5)
	leo := animalFixture("Leo").With(feeding, checkupFixture("Healthy, annual vaccination"))
	persist(t, repo,
		speciesFixture("Lion").With(leo),
		enclosureFixture("Pen A", 50).With(leo),
		feedFixture("Hay").With(feeding),
	)

	feedings, err := repo.SearchAnimalFeedViews(ctx, "hay")
	require.NoError(t, err)
	require.Len(t, feedings, 1)
	assert.Equal(t, "Leo", utils.Deref(feedings[0].AnimalName))
	assert.Equal(t, "Hay", utils.Deref(feedings[0].FeedName))
	assert.InDelta(t, 3.5, feedings[0].DailyAmount, 1e-9)

	records, err := repo.SearchHealthRecordViews(ctx, "VACCINATION")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Leo", utils.Deref(records[0].AnimalName))
	assert.True(t, day(2022, time.March, 3).Equal(records[0].CheckupDate))
}

func TestDeleteKeepLeavesDanglingReference(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	leo := animalFixture("Leo")
	lion := speciesFixture("Lion").With(leo)
	persist(t, repo, lion, enclosureFixture("Pen A", 50).With(leo))

	require.NoError(t, repo.DeleteSpecies(ctx, lion.Value().ID))

	got, err := repo.GetAnimal(ctx, leo.Value().ID)
	require.NoError(t, err)
	require.NotNil(t, got.SpeciesID, "keep policy must not touch dependents")
	assert.Equal(t, lion.Value().ID, *got.SpeciesID)

	views, err := repo.ListAnimalViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].SpeciesName, "dangling reference should have no label")
	assert.Equal(t, "Not specified", models.Label(views[0].SpeciesName, "Not specified"))
}

func TestDeleteRestrictRefusesReferencedRecords(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteRestrict)
	ctx := context.Background()

	leo := animalFixture("Leo")
	lion := speciesFixture("Lion").With(leo)
	pen := enclosureFixture("Pen A", 50).With(leo)
	persist(t, repo, lion, pen)

	err := repo.DeleteSpecies(ctx, lion.Value().ID)
	assert.ErrorIs(t, err, e.ErrReferenced)
	err = repo.DeleteEnclosure(ctx, pen.Value().ID)
	assert.ErrorIs(t, err, e.ErrReferenced)

	_, err = repo.GetSpecies(ctx, lion.Value().ID)
	assert.NoError(t, err, "refused delete must leave the record in place")

	require.NoError(t, repo.DeleteAnimal(ctx, leo.Value().ID))
	require.NoError(t, repo.DeleteSpecies(ctx, lion.Value().ID))
}

func TestDeleteRestrictChecksFeedings(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteRestrict)
	ctx := context.Background()

	leo := animalFixture("Leo")
	hay := feedFixture("Hay")
	feeding := feedingFixture(3.5)
	persist(t, repo, leo.With(feeding), hay.With(feeding))

	assert.ErrorIs(t, repo.DeleteFeed(ctx, hay.Value().ID), e.ErrReferenced)
	assert.ErrorIs(t, repo.DeleteAnimal(ctx, leo.Value().ID), e.ErrReferenced)

	require.NoError(t, repo.DeleteAnimalFeed(ctx, feeding.Value().ID))
	assert.NoError(t, repo.DeleteFeed(ctx, hay.Value().ID))
	assert.NoError(t, repo.DeleteAnimal(ctx, leo.Value().ID))
}

func TestDeleteNullifyClearsReferences(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteNullify)
	ctx := context.Background()

	leo := animalFixture("Leo")
	lion := speciesFixture("Lion").With(leo)
	pen := enclosureFixture("Pen A", 50).With(leo)
	persist(t, repo, lion, pen)

	require.NoError(t, repo.DeleteEnclosure(ctx, pen.Value().ID))

	got, err := repo.GetAnimal(ctx, leo.Value().ID)
	require.NoError(t, err)
	assert.Nil(t, got.EnclosureID)
	require.NotNil(t, got.SpeciesID)
	assert.Equal(t, lion.Value().ID, *got.SpeciesID)
}

func TestOptions(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()

	persist(t, repo, speciesFixture("Lion"), speciesFixture("Zebra"))

	opts, err := repo.Options(ctx, models.OptionSpecies)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Lion", opts[0].Label)
	assert.Equal(t, "Zebra", opts[1].Label)
	assert.NotZero(t, opts[0].ID)

	empty, err := repo.Options(ctx, models.OptionFeeds)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repo.Options(ctx, "keepers")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestWithTransactionRollsBack(t *testing.T) {
	repo := SetupTestDB(t, models.DeleteKeep)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.CreateSpecies(ctx, &models.Species{Name: "Lion"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := repo.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rolled back insert must not be visible")
}

func TestNewRepositoryRejectsBadConfig(t *testing.T) {
	_, err := NewRepository(&Config{Driver: "oracle"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = NewRepository(&Config{SQLitePath: ":memory:", SQLiteDriver: "sqlcipher"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = NewRepository(&Config{SQLitePath: ":memory:", DeletePolicy: "cascade"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestNewRepositoryChecksPolicyBeforeOpening(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoo.db")

	_, err := NewRepository(&Config{SQLitePath: path, DeletePolicy: "cascade"})

	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.NoFileExists(t, path)
}

func TestConnectDoesNotRetryInvalidConfig(t *testing.T) {
	_, err := Connect(context.Background(), &Config{Driver: "oracle", ConnectRetries: 5})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestWrapClassifiesErrors(t *testing.T) {
	assert.NoError(t, wrap("op", nil))
	assert.ErrorIs(t, wrap("op", e.ErrReferenced), e.ErrReferenced)

	err := wrap("create species", errors.New("disk I/O error"))
	assert.ErrorIs(t, err, e.ErrStore)
	assert.Contains(t, err.Error(), "create species")
}
