package db

import (
	"context"
	"fmt"

	dbmodels "github.com/gartstein/zoo/internal/zoo/db/models"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
	"gorm.io/gorm"
)

// animalViewRow is an animals row joined with its species and enclosure names.
type animalViewRow struct {
	dbmodels.Animal
	SpeciesName   *string
	EnclosureName *string
}

func (r *Repository) CreateAnimal(ctx context.Context, animal *models.Animal) error {
	if err := animal.Validate(); err != nil {
		return err
	}
	row := animalRow(animal)
	row.ID = 0
	if err := insert(ctx, r.db, "create animal", row); err != nil {
		return err
	}
	*animal = animalModel(row)
	return nil
}

func (r *Repository) GetAnimal(ctx context.Context, id uint) (*models.Animal, error) {
	row, err := first[dbmodels.Animal](ctx, r.db, "get animal", id)
	if err != nil {
		return nil, err
	}
	animal := animalModel(row)
	return &animal, nil
}

func (r *Repository) ListAnimals(ctx context.Context) ([]models.Animal, error) {
	rows, err := list[dbmodels.Animal](ctx, r.db, "list animals")
	if err != nil {
		return nil, err
	}
	return mapRows(rows, animalModel), nil
}

func (r *Repository) UpdateAnimal(ctx context.Context, animal *models.Animal) error {
	if err := animal.Validate(); err != nil {
		return err
	}
	return replace(ctx, r.db, "update animal", animal.ID, animalRow(animal))
}

// DeleteAnimal removes an animal. Its feeding assignments and health records
// keep the dangling id unless the restrict policy is active.
func (r *Repository) DeleteAnimal(ctx context.Context, id uint) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if tx.policy == models.DeleteRestrict {
			feedings, err := countWhere(ctx, tx.db, "count feedings", &dbmodels.AnimalFeed{}, "animal_id", id)
			if err != nil {
				return err
			}
			records, err := countWhere(ctx, tx.db, "count health records", &dbmodels.HealthRecord{}, "animal_id", id)
			if err != nil {
				return err
			}
			if feedings+records > 0 {
				return fmt.Errorf("%w: animal %d has %d feedings and %d health records",
					e.ErrReferenced, id, feedings, records)
			}
		}
		return remove[dbmodels.Animal](ctx, tx.db, "delete animal", id)
	})
}

func (r *Repository) AnimalExists(ctx context.Context, id uint) (bool, error) {
	return exists[dbmodels.Animal](ctx, r.db, "animal exists", id)
}

func (r *Repository) animalViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("animals").
		Select("animals.*, species.name AS species_name, enclosures.name AS enclosure_name").
		Joins("LEFT JOIN species ON species.id = animals.species_id").
		Joins("LEFT JOIN enclosures ON enclosures.id = animals.enclosure_id")
}

// ListAnimalViews lists animals with their species and enclosure names.
func (r *Repository) ListAnimalViews(ctx context.Context) ([]models.AnimalView, error) {
	var rows []animalViewRow
	if err := r.animalViews(ctx).Order("animals.id").Scan(&rows).Error; err != nil {
		return nil, wrap("list animals", err)
	}
	return mapRows(rows, animalView), nil
}

// SearchAnimalViews matches the animal name and the joined species and
// enclosure names.
func (r *Repository) SearchAnimalViews(ctx context.Context, text string) ([]models.AnimalView, error) {
	if blank(text) {
		return r.ListAnimalViews(ctx)
	}
	var rows []animalViewRow
	q := matchAny(r.animalViews(ctx), text, "animals.name", "species.name", "enclosures.name")
	if err := q.Order("animals.id").Scan(&rows).Error; err != nil {
		return nil, wrap("search animals", err)
	}
	return mapRows(rows, animalView), nil
}

func animalView(row *animalViewRow) models.AnimalView {
	return models.AnimalView{
		Animal:        animalModel(&row.Animal),
		SpeciesName:   row.SpeciesName,
		EnclosureName: row.EnclosureName,
	}
}
