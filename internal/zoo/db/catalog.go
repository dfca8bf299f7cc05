package db

import (
	"context"
	"fmt"

	dbmodels "github.com/gartstein/zoo/internal/zoo/db/models"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
)

func (r *Repository) CreateSpecies(ctx context.Context, species *models.Species) error {
	if err := species.Validate(); err != nil {
		return err
	}
	row := speciesRow(species)
	row.ID = 0
	if err := insert(ctx, r.db, "create species", row); err != nil {
		return err
	}
	*species = speciesModel(row)
	return nil
}

func (r *Repository) GetSpecies(ctx context.Context, id uint) (*models.Species, error) {
	row, err := first[dbmodels.Species](ctx, r.db, "get species", id)
	if err != nil {
		return nil, err
	}
	species := speciesModel(row)
	return &species, nil
}

func (r *Repository) ListSpecies(ctx context.Context) ([]models.Species, error) {
	rows, err := list[dbmodels.Species](ctx, r.db, "list species")
	if err != nil {
		return nil, err
	}
	return mapRows(rows, speciesModel), nil
}

func (r *Repository) SearchSpecies(ctx context.Context, text string) ([]models.Species, error) {
	if blank(text) {
		return r.ListSpecies(ctx)
	}
	var rows []dbmodels.Species
	q := matchAny(r.db.WithContext(ctx).Model(&dbmodels.Species{}), text, "species.name")
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("search species", err)
	}
	return mapRows(rows, speciesModel), nil
}

func (r *Repository) UpdateSpecies(ctx context.Context, species *models.Species) error {
	if err := species.Validate(); err != nil {
		return err
	}
	return replace(ctx, r.db, "update species", species.ID, speciesRow(species))
}

// DeleteSpecies removes a species. Animals of that species are handled
// according to the delete policy.
func (r *Repository) DeleteSpecies(ctx context.Context, id uint) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.releaseAnimals(ctx, "species_id", id); err != nil {
			return err
		}
		return remove[dbmodels.Species](ctx, tx.db, "delete species", id)
	})
}

func (r *Repository) SpeciesExists(ctx context.Context, id uint) (bool, error) {
	return exists[dbmodels.Species](ctx, r.db, "species exists", id)
}

func (r *Repository) CreateEnclosure(ctx context.Context, enclosure *models.Enclosure) error {
	if err := enclosure.Validate(); err != nil {
		return err
	}
	row := enclosureRow(enclosure)
	row.ID = 0
	if err := insert(ctx, r.db, "create enclosure", row); err != nil {
		return err
	}
	*enclosure = enclosureModel(row)
	return nil
}

func (r *Repository) GetEnclosure(ctx context.Context, id uint) (*models.Enclosure, error) {
	row, err := first[dbmodels.Enclosure](ctx, r.db, "get enclosure", id)
	if err != nil {
		return nil, err
	}
	enclosure := enclosureModel(row)
	return &enclosure, nil
}

func (r *Repository) ListEnclosures(ctx context.Context) ([]models.Enclosure, error) {
	rows, err := list[dbmodels.Enclosure](ctx, r.db, "list enclosures")
	if err != nil {
		return nil, err
	}
	return mapRows(rows, enclosureModel), nil
}

// SearchEnclosures matches name, location and description.
func (r *Repository) SearchEnclosures(ctx context.Context, text string) ([]models.Enclosure, error) {
	if blank(text) {
		return r.ListEnclosures(ctx)
	}
	var rows []dbmodels.Enclosure
	q := matchAny(r.db.WithContext(ctx).Model(&dbmodels.Enclosure{}), text,
		"enclosures.name", "enclosures.location", "enclosures.description")
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("search enclosures", err)
	}
	return mapRows(rows, enclosureModel), nil
}

func (r *Repository) UpdateEnclosure(ctx context.Context, enclosure *models.Enclosure) error {
	if err := enclosure.Validate(); err != nil {
		return err
	}
	return replace(ctx, r.db, "update enclosure", enclosure.ID, enclosureRow(enclosure))
}

func (r *Repository) DeleteEnclosure(ctx context.Context, id uint) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.releaseAnimals(ctx, "enclosure_id", id); err != nil {
			return err
		}
		return remove[dbmodels.Enclosure](ctx, tx.db, "delete enclosure", id)
	})
}

func (r *Repository) EnclosureExists(ctx context.Context, id uint) (bool, error) {
	return exists[dbmodels.Enclosure](ctx, r.db, "enclosure exists", id)
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	if err := employee.Validate(); err != nil {
		return err
	}
	row := employeeRow(employee)
	row.ID = 0
	if err := insert(ctx, r.db, "create employee", row); err != nil {
		return err
	}
	*employee = employeeModel(row)
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	row, err := first[dbmodels.Employee](ctx, r.db, "get employee", id)
	if err != nil {
		return nil, err
	}
	employee := employeeModel(row)
	return &employee, nil
}

func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := list[dbmodels.Employee](ctx, r.db, "list employees")
	if err != nil {
		return nil, err
	}
	return mapRows(rows, employeeModel), nil
}

// SearchEmployees matches name, position and phone.
func (r *Repository) SearchEmployees(ctx context.Context, text string) ([]models.Employee, error) {
	if blank(text) {
		return r.ListEmployees(ctx)
	}
	var rows []dbmodels.Employee
	q := matchAny(r.db.WithContext(ctx).Model(&dbmodels.Employee{}), text,
		"employees.name", "employees.position", "employees.phone")
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("search employees", err)
	}
	return mapRows(rows, employeeModel), nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	if err := employee.Validate(); err != nil {
		return err
	}
	return replace(ctx, r.db, "update employee", employee.ID, employeeRow(employee))
}

func (r *Repository) DeleteEmployee(ctx context.Context, id uint) error {
	return remove[dbmodels.Employee](ctx, r.db, "delete employee", id)
}

func (r *Repository) CreateFeed(ctx context.Context, feed *models.Feed) error {
	if err := feed.Validate(); err != nil {
		return err
	}
	row := feedRow(feed)
	row.ID = 0
	if err := insert(ctx, r.db, "create feed", row); err != nil {
		return err
	}
	*feed = feedModel(row)
	return nil
}

func (r *Repository) GetFeed(ctx context.Context, id uint) (*models.Feed, error) {
	row, err := first[dbmodels.Feed](ctx, r.db, "get feed", id)
	if err != nil {
		return nil, err
	}
	feed := feedModel(row)
	return &feed, nil
}

func (r *Repository) ListFeeds(ctx context.Context) ([]models.Feed, error) {
	rows, err := list[dbmodels.Feed](ctx, r.db, "list feeds")
	if err != nil {
		return nil, err
	}
	return mapRows(rows, feedModel), nil
}

func (r *Repository) SearchFeeds(ctx context.Context, text string) ([]models.Feed, error) {
	if blank(text) {
		return r.ListFeeds(ctx)
	}
	var rows []dbmodels.Feed
	q := matchAny(r.db.WithContext(ctx).Model(&dbmodels.Feed{}), text, "feeds.name")
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, wrap("search feeds", err)
	}
	return mapRows(rows, feedModel), nil
}

func (r *Repository) UpdateFeed(ctx context.Context, feed *models.Feed) error {
	if err := feed.Validate(); err != nil {
		return err
	}
	return replace(ctx, r.db, "update feed", feed.ID, feedRow(feed))
}

// DeleteFeed removes a feed. Feeding assignments are never nulled because
// their feed reference is required; restrict refuses, keep leaves them dangling.
func (r *Repository) DeleteFeed(ctx context.Context, id uint) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if tx.policy == models.DeleteRestrict {
			n, err := countWhere(ctx, tx.db, "count feedings", &dbmodels.AnimalFeed{}, "feed_id", id)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: feed %d has %d feedings", e.ErrReferenced, id, n)
			}
		}
		return remove[dbmodels.Feed](ctx, tx.db, "delete feed", id)
	})
}

func (r *Repository) FeedExists(ctx context.Context, id uint) (bool, error) {
	return exists[dbmodels.Feed](ctx, r.db, "feed exists", id)
}

// releaseAnimals applies the delete policy to animals whose column points at id.
func (r *Repository) releaseAnimals(ctx context.Context, column string, id uint) error {
	switch r.policy {
	case models.DeleteRestrict:
		n, err := countWhere(ctx, r.db, "count animals", &dbmodels.Animal{}, column, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d animals by %s", e.ErrReferenced, n, column)
		}
	case models.DeleteNullify:
		err := r.db.WithContext(ctx).Model(&dbmodels.Animal{}).
			Where(column+" = ?", id).
			Update(column, nil).Error
		if err != nil {
			return wrap("release animals", err)
		}
	}
	return nil
}
