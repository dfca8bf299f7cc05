package db

import (
	"context"
	"fmt"

	dbmodels "github.com/gartstein/zoo/internal/zoo/db/models"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
	"gorm.io/gorm"
)

type animalFeedViewRow struct {
	dbmodels.AnimalFeed
	AnimalName *string
	FeedName   *string
}

type healthRecordViewRow struct {
	dbmodels.HealthRecord
	AnimalName *string
}

func (r *Repository) CreateAnimalFeed(ctx context.Context, feeding *models.AnimalFeed) error {
	if err := feeding.Validate(); err != nil {
		return err
	}
	row := animalFeedRow(feeding)
	row.ID = 0
	if err := insert(ctx, r.db, "create feeding", row); err != nil {
		return err
	}
	*feeding = animalFeedModel(row)
	return nil
}

func (r *Repository) GetAnimalFeed(ctx context.Context, id uint) (*models.AnimalFeed, error) {
	row, err := first[dbmodels.AnimalFeed](ctx, r.db, "get feeding", id)
	if err != nil {
		return nil, err
	}
	feeding := animalFeedModel(row)
	return &feeding, nil
}

func (r *Repository) ListAnimalFeeds(ctx context.Context) ([]models.AnimalFeed, error) {
	rows, err := list[dbmodels.AnimalFeed](ctx, r.db, "list feedings")
	if err != nil {
		return nil, err
	}
	return mapRows(rows, animalFeedModel), nil
}

func (r *Repository) UpdateAnimalFeed(ctx context.Context, feeding *models.AnimalFeed) error {
	if err := feeding.Validate(); err != nil {
		return err
	}
	return replace(ctx, r.db, "update feeding", feeding.ID, animalFeedRow(feeding))
}

func (r *Repository) DeleteAnimalFeed(ctx context.Context, id uint) error {
	return remove[dbmodels.AnimalFeed](ctx, r.db, "delete feeding", id)
}

func (r *Repository) animalFeedViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("animal_feeds").
		Select("animal_feeds.*, animals.name AS animal_name, feeds.name AS feed_name").
		Joins("LEFT JOIN animals ON animals.id = animal_feeds.animal_id").
		Joins("LEFT JOIN feeds ON feeds.id = animal_feeds.feed_id")
}

func (r *Repository) ListAnimalFeedViews(ctx context.Context) ([]models.AnimalFeedView, error) {
	var rows []animalFeedViewRow
	if err := r.animalFeedViews(ctx).Order("animal_feeds.id").Scan(&rows).Error; err != nil {
		return nil, wrap("list feedings", err)
	}
	return mapRows(rows, animalFeedView), nil
}

// SearchAnimalFeedViews matches the joined animal and feed names.
func (r *Repository) SearchAnimalFeedViews(ctx context.Context, text string) ([]models.AnimalFeedView, error) {
	if blank(text) {
		return r.ListAnimalFeedViews(ctx)
	}
	var rows []animalFeedViewRow
	q := matchAny(r.animalFeedViews(ctx), text, "animals.name", "feeds.name")
	if err := q.Order("animal_feeds.id").Scan(&rows).Error; err != nil {
		return nil, wrap("search feedings", err)
	}
	return mapRows(rows, animalFeedView), nil
}

func animalFeedView(row *animalFeedViewRow) models.AnimalFeedView {
	return models.AnimalFeedView{
		AnimalFeed: animalFeedModel(&row.AnimalFeed),
		AnimalName: row.AnimalName,
		FeedName:   row.FeedName,
	}
}

func (r *Repository) CreateHealthRecord(ctx context.Context, record *models.HealthRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	row := healthRecordRow(record)
	row.ID = 0
	if err := insert(ctx, r.db, "create health record", row); err != nil {
		return err
	}
	*record = healthRecordModel(row)
	return nil
}

func (r *Repository) GetHealthRecord(ctx context.Context, id uint) (*models.HealthRecord, error) {
	row, err := first[dbmodels.HealthRecord](ctx, r.db, "get health record", id)
	if err != nil {
		return nil, err
	}
	record := healthRecordModel(row)
	return &record, nil
}

func (r *Repository) ListHealthRecords(ctx context.Context) ([]models.HealthRecord, error) {
	rows, err := list[dbmodels.HealthRecord](ctx, r.db, "list health records")
	if err != nil {
		return nil, err
	}
	return mapRows(rows, healthRecordModel), nil
}

func (r *Repository) UpdateHealthRecord(ctx context.Context, record *models.HealthRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return replace(ctx, r.db, "update health record", record.ID, healthRecordRow(record))
}

func (r *Repository) DeleteHealthRecord(ctx context.Context, id uint) error {
	return remove[dbmodels.HealthRecord](ctx, r.db, "delete health record", id)
}

func (r *Repository) healthRecordViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("health_records").
		Select("health_records.*, animals.name AS animal_name").
		Joins("LEFT JOIN animals ON animals.id = health_records.animal_id")
}

func (r *Repository) ListHealthRecordViews(ctx context.Context) ([]models.HealthRecordView, error) {
	var rows []healthRecordViewRow
	if err := r.healthRecordViews(ctx).Order("health_records.id").Scan(&rows).Error; err != nil {
		return nil, wrap("list health records", err)
	}
	return mapRows(rows, healthRecordView), nil
}

// SearchHealthRecordViews matches the joined animal name and the notes.
func (r *Repository) SearchHealthRecordViews(ctx context.Context, text string) ([]models.HealthRecordView, error) {
	if blank(text) {
		return r.ListHealthRecordViews(ctx)
	}
	var rows []healthRecordViewRow
	q := matchAny(r.healthRecordViews(ctx), text, "animals.name", "health_records.notes")
	if err := q.Order("health_records.id").Scan(&rows).Error; err != nil {
		return nil, wrap("search health records", err)
	}
	return mapRows(rows, healthRecordView), nil
}

func healthRecordView(row *healthRecordViewRow) models.HealthRecordView {
	return models.HealthRecordView{
		HealthRecord: healthRecordModel(&row.HealthRecord),
		AnimalName:   row.AnimalName,
	}
}

// Options lists id and name pairs for a form picker.
func (r *Repository) Options(ctx context.Context, kind models.OptionKind) ([]models.Option, error) {
	var table string
	switch kind {
	case models.OptionSpecies:
		table = dbmodels.Species{}.TableName()
	case models.OptionEnclosures:
		table = dbmodels.Enclosure{}.TableName()
	case models.OptionAnimals:
		table = dbmodels.Animal{}.TableName()
	case models.OptionFeeds:
		table = dbmodels.Feed{}.TableName()
	default:
		return nil, fmt.Errorf("%w: unknown option list %q", e.ErrInvalidInput, kind)
	}
	opts := []models.Option{}
	err := r.db.WithContext(ctx).
		Table(table).
		Select("id, name AS label").
		Order("id").
		Scan(&opts).Error
	if err != nil {
		return nil, wrap("list options", err)
	}
	return opts, nil
}
