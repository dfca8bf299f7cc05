package controller

import (
	"context"
	"time"

	"github.com/gartstein/zoo/internal/zoo/events"
	"github.com/gartstein/zoo/internal/zoo/models"
)

// AnimalService manages individual animals. Listings carry the species and
// enclosure names.
type AnimalService struct{ service }

func (s *AnimalService) List(ctx context.Context) (_ []models.AnimalView, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	list, err := s.repo.ListAnimalViews(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return list, nil
}

// Search matches the animal name and the names of its species and enclosure.
func (s *AnimalService) Search(ctx context.Context, text string) (_ []models.AnimalView, err error) {
	defer s.observe(ctx, "search", time.Now(), &err)
	list, err := s.repo.SearchAnimalViews(ctx, text)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return list, nil
}

func (s *AnimalService) Get(ctx context.Context, id uint) (_ *models.Animal, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	animal, err := s.repo.GetAnimal(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	return animal, nil
}

func (s *AnimalService) Create(ctx context.Context, animal *models.Animal) (_ *models.Animal, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err = animal.Validate(); err != nil {
		return nil, err
	}
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := checkAnimalRefs(ctx, tx, animal, nil); err != nil {
			return err
		}
		return tx.CreateAnimal(ctx, animal)
	})
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.emit(ctx, events.RecordCreated, animal.ID, animal)
	return animal, nil
}

// Update replaces every field of the animal. A nil species or enclosure
// clears the reference.
func (s *AnimalService) Update(ctx context.Context, animal *models.Animal) (_ *models.Animal, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	if err = requireID(animal.ID); err != nil {
		return nil, err
	}
	if err = animal.Validate(); err != nil {
		return nil, err
	}
	var updated *models.Animal
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		stored, err := tx.GetAnimal(ctx, animal.ID)
		if err != nil {
			return err
		}
		if err := checkAnimalRefs(ctx, tx, animal, stored); err != nil {
			return err
		}
		if err := tx.UpdateAnimal(ctx, animal); err != nil {
			return err
		}
		updated, err = tx.GetAnimal(ctx, animal.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.emit(ctx, events.RecordUpdated, updated.ID, updated)
	return updated, nil
}

func (s *AnimalService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	if err = s.repo.DeleteAnimal(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.emit(ctx, events.RecordDeleted, id, nil)
	return nil
}

// checkAnimalRefs verifies the references of animal. On update stored is
// the current row; references it already holds may dangle.
func checkAnimalRefs(ctx context.Context, tx Repository, animal, stored *models.Animal) error {
	var species, enclosure *uint
	if stored != nil {
		species, enclosure = stored.SpeciesID, stored.EnclosureID
	}
	if err := requireRef(ctx, "species", animal.SpeciesID, species, tx.SpeciesExists); err != nil {
		return err
	}
	return requireRef(ctx, "enclosure", animal.EnclosureID, enclosure, tx.EnclosureExists)
}

// FeedingService manages the daily feed assignments of animals.
type FeedingService struct{ service }

func (s *FeedingService) List(ctx context.Context) (_ []models.AnimalFeedView, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	list, err := s.repo.ListAnimalFeedViews(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return list, nil
}

// Search matches the animal and feed names.
func (s *FeedingService) Search(ctx context.Context, text string) (_ []models.AnimalFeedView, err error) {
	defer s.observe(ctx, "search", time.Now(), &err)
	list, err := s.repo.SearchAnimalFeedViews(ctx, text)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return list, nil
}

func (s *FeedingService) Get(ctx context.Context, id uint) (_ *models.AnimalFeed, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	feeding, err := s.repo.GetAnimalFeed(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	return feeding, nil
}

func (s *FeedingService) Create(ctx context.Context, feeding *models.AnimalFeed) (_ *models.AnimalFeed, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err = feeding.Validate(); err != nil {
		return nil, err
	}
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := checkFeedingRefs(ctx, tx, feeding, nil); err != nil {
			return err
		}
		return tx.CreateAnimalFeed(ctx, feeding)
	})
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.emit(ctx, events.RecordCreated, feeding.ID, feeding)
	return feeding, nil
}

func (s *FeedingService) Update(ctx context.Context, feeding *models.AnimalFeed) (_ *models.AnimalFeed, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	if err = requireID(feeding.ID); err != nil {
		return nil, err
	}
	if err = feeding.Validate(); err != nil {
		return nil, err
	}
	var updated *models.AnimalFeed
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		stored, err := tx.GetAnimalFeed(ctx, feeding.ID)
		if err != nil {
			return err
		}
		if err := checkFeedingRefs(ctx, tx, feeding, stored); err != nil {
			return err
		}
		if err := tx.UpdateAnimalFeed(ctx, feeding); err != nil {
			return err
		}
		updated, err = tx.GetAnimalFeed(ctx, feeding.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.emit(ctx, events.RecordUpdated, updated.ID, updated)
	return updated, nil
}

func (s *FeedingService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	if err = s.repo.DeleteAnimalFeed(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.emit(ctx, events.RecordDeleted, id, nil)
	return nil
}

func checkFeedingRefs(ctx context.Context, tx Repository, feeding, stored *models.AnimalFeed) error {
	var animal, feed *uint
	if stored != nil {
		animal, feed = &stored.AnimalID, &stored.FeedID
	}
	if err := requireRef(ctx, "animal", &feeding.AnimalID, animal, tx.AnimalExists); err != nil {
		return err
	}
	return requireRef(ctx, "feed", &feeding.FeedID, feed, tx.FeedExists)
}

// HealthService manages veterinary checkups.
type HealthService struct{ service }

func (s *HealthService) List(ctx context.Context) (_ []models.HealthRecordView, err error) {
	defer s.observe(ctx, "list", time.Now(), &err)
	list, err := s.repo.ListHealthRecordViews(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	return list, nil
}

// Search matches the animal name and the checkup notes.
func (s *HealthService) Search(ctx context.Context, text string) (_ []models.HealthRecordView, err error) {
	defer s.observe(ctx, "search", time.Now(), &err)
	list, err := s.repo.SearchHealthRecordViews(ctx, text)
	if err != nil {
		return nil, s.fail("search", err)
	}
	return list, nil
}

func (s *HealthService) Get(ctx context.Context, id uint) (_ *models.HealthRecord, err error) {
	defer s.observe(ctx, "get", time.Now(), &err)
	record, err := s.repo.GetHealthRecord(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	return record, nil
}

func (s *HealthService) Create(ctx context.Context, record *models.HealthRecord) (_ *models.HealthRecord, err error) {
	defer s.observe(ctx, "create", time.Now(), &err)
	if err = record.Validate(); err != nil {
		return nil, err
	}
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		if err := requireRef(ctx, "animal", &record.AnimalID, nil, tx.AnimalExists); err != nil {
			return err
		}
		return tx.CreateHealthRecord(ctx, record)
	})
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.emit(ctx, events.RecordCreated, record.ID, record)
	return record, nil
}

func (s *HealthService) Update(ctx context.Context, record *models.HealthRecord) (_ *models.HealthRecord, err error) {
	defer s.observe(ctx, "update", time.Now(), &err)
	if err = requireID(record.ID); err != nil {
		return nil, err
	}
	if err = record.Validate(); err != nil {
		return nil, err
	}
	var updated *models.HealthRecord
	err = s.repo.WithTransaction(ctx, func(tx Repository) error {
		stored, err := tx.GetHealthRecord(ctx, record.ID)
		if err != nil {
			return err
		}
		if err := requireRef(ctx, "animal", &record.AnimalID, &stored.AnimalID, tx.AnimalExists); err != nil {
			return err
		}
		if err := tx.UpdateHealthRecord(ctx, record); err != nil {
			return err
		}
		updated, err = tx.GetHealthRecord(ctx, record.ID)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.emit(ctx, events.RecordUpdated, updated.ID, updated)
	return updated, nil
}

func (s *HealthService) Delete(ctx context.Context, id uint) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)
	if err = s.repo.DeleteHealthRecord(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	s.emit(ctx, events.RecordDeleted, id, nil)
	return nil
}
