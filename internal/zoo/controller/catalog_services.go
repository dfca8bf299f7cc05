package controller

import (
	"context"
	"fmt"
	"time"

	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/events"
	"github.com/gartstein/zoo/internal/zoo/models"
)

func requireID(id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: id is required", e.ErrInvalidInput)
	}
	return nil
}

// SpeciesService manages species.
type SpeciesService struct{ service }

func (s *SpeciesService) List(ctx context.Context) (_ []models.Species, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	list, err := s.repo.ListSpecies(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return list, nil
}

func (s *SpeciesService) Search(ctx context.Context, text string) (_ []models.Species, err error) {
	defer s.observe(ctx, "search", time.Now(), &err)
	list, err := s.repo.SearchSpecies(ctx, text)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return list, nil
}

func (s *SpeciesService) Get(ctx context.Context, id uint) (_ *models.Species, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	species, err := s.repo.GetSpecies(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	return species, nil
}

// Create stores a new species and returns it with its assigned id, so the
// animal form can select a species it just added.
func (s *SpeciesService) Create(ctx context.Context, species *models.Species) (_ *models.Species, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err = species.Validate(); err != nil {
		return nil, err
	}
	if err = s.repo.CreateSpecies(ctx, species); err != nil {
		return nil, s.fail("create", err)
	}
	s.emit(ctx, events.RecordCreated, species.ID, species)
	return species, nil
}

func (s *SpeciesService) Update(ctx context.Context, species *models.Species) (_ *models.Species, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	if err = requireID(species.ID); err != nil {
		return nil, err
	}
	if err = species.Validate(); err != nil {
		return nil, err
	}
	var updated *models.Species
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.UpdateSpecies(ctx, species); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetSpecies(ctx, species.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.emit(ctx, events.RecordUpdated, updated.ID, updated)
	return updated, nil
}

func (s *SpeciesService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	if err = s.repo.DeleteSpecies(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.emit(ctx, events.RecordDeleted, id, nil)
	return nil
}

// EnclosureService manages enclosures.
type EnclosureService struct{ service }

func (s *EnclosureService) List(ctx context.Context) (_ []models.Enclosure, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	list, err := s.repo.ListEnclosures(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return list, nil
}

func (s *EnclosureService) Search(ctx context.Context, text string) (_ []models.Enclosure, err error) {
	defer s.observe(ctx, "search", time.Now(), &err)
	list, err := s.repo.SearchEnclosures(ctx, text)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return list, nil
}

func (s *EnclosureService) Get(ctx context.Context, id uint) (_ *models.Enclosure, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	enclosure, err := s.repo.GetEnclosure(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	return enclosure, nil
}

func (s *EnclosureService) Create(ctx context.Context, enclosure *models.Enclosure) (_ *models.Enclosure, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err = enclosure.Validate(); err != nil {
		return nil, err
	}
	if err = s.repo.CreateEnclosure(ctx, enclosure); err != nil {
		return nil, s.fail("create", err)
	}
	s.emit(ctx, events.RecordCreated, enclosure.ID, enclosure)
	return enclosure, nil
}

func (s *EnclosureService) Update(ctx context.Context, enclosure *models.Enclosure) (_ *models.Enclosure, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	if err = requireID(enclosure.ID); err != nil {
		return nil, err
	}
	if err = enclosure.Validate(); err != nil {
		return nil, err
	}
	var updated *models.Enclosure
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.UpdateEnclosure(ctx, enclosure); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetEnclosure(ctx, enclosure.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.emit(ctx, events.RecordUpdated, updated.ID, updated)
	return updated, nil
}

func (s *EnclosureService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	if err = s.repo.DeleteEnclosure(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.emit(ctx, events.RecordDeleted, id, nil)
	return nil
}

// EmployeeService manages staff records.
type EmployeeService struct{ service }

func (s *EmployeeService) List(ctx context.Context) (_ []models.Employee, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	list, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return list, nil
}

func (s *EmployeeService) Search(ctx context.Context, text string) (_ []models.Employee, err error) {
	defer s.observe(ctx, "search", time.Now(), &err)
	list, err := s.repo.SearchEmployees(ctx, text)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return list, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (_ *models.Employee, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	return employee, nil
}

func (s *EmployeeService) Create(ctx context.Context, employee *models.Employee) (_ *models.Employee, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err = employee.Validate(); err != nil {
		return nil, err
	}
	if err = s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, s.fail("create", err)
	}
	s.emit(ctx, events.RecordCreated, employee.ID, employee)
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, employee *models.Employee) (_ *models.Employee, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	if err = requireID(employee.ID); err != nil {
		return nil, err
	}
	if err = employee.Validate(); err != nil {
		return nil, err
	}
	var updated *models.Employee
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.UpdateEmployee(ctx, employee); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetEmployee(ctx, employee.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.emit(ctx, events.RecordUpdated, updated.ID, updated)
	return updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	if err = s.repo.DeleteEmployee(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.emit(ctx, events.RecordDeleted, id, nil)
	return nil
}

// FeedService manages feed types.
type FeedService struct{ service }

func (s *FeedService) List(ctx context.Context) (_ []models.Feed, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	list, err := s.repo.ListFeeds(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return list, nil
}

func (s *FeedService) Search(ctx context.Context, text string) (_ []models.Feed, err error) {
	defer s.observe(ctx, "search", time.Now(), &err)
	list, err := s.repo.SearchFeeds(ctx, text)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return list, nil
}

func (s *FeedService) Get(ctx context.Context, id uint) (_ *models.Feed, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	feed, err := s.repo.GetFeed(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	return feed, nil
}

func (s *FeedService) Create(ctx context.Context, feed *models.Feed) (_ *models.Feed, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err = feed.Validate(); err != nil {
		return nil, err
	}
	if err = s.repo.CreateFeed(ctx, feed); err != nil {
		return nil, s.fail("create", err)
	}
	s.emit(ctx, events.RecordCreated, feed.ID, feed)
	return feed, nil
}

func (s *FeedService) Update(ctx context.Context, feed *models.Feed) (_ *models.Feed, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	if err = requireID(feed.ID); err != nil {
		return nil, err
	}
	if err = feed.Validate(); err != nil {
		return nil, err
	}
	var updated *models.Feed
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := tx.UpdateFeed(ctx, feed); err != nil {
			return err
		}
		var err error
		updated, err = tx.GetFeed(ctx, feed.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.emit(ctx, events.RecordUpdated, updated.ID, updated)
	return updated, nil
}

func (s *FeedService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	if err = s.repo.DeleteFeed(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.emit(ctx, events.RecordDeleted, id, nil)
	return nil
}
