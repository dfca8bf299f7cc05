// Package controller implements the core business logic (service layer)
// of the zoo registry: validated CRUD and search for every record type,
// orchestrating repository transactions, change events and metrics.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/zoo/internal/zoo/auth"
	"github.com/gartstein/zoo/internal/zoo/db"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/events"
	"github.com/gartstein/zoo/internal/zoo/metrics"
	"github.com/gartstein/zoo/internal/zoo/models"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// MetricsRecorder receives the outcome of every service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Repository defines the storage used by the services.
type Repository interface {
	CreateSpecies(ctx context.Context, species *models.Species) error
	GetSpecies(ctx context.Context, id uint) (*models.Species, error)
	ListSpecies(ctx context.Context) ([]models.Species, error)
	SearchSpecies(ctx context.Context, text string) ([]models.Species, error)
	UpdateSpecies(ctx context.Context, species *models.Species) error
	DeleteSpecies(ctx context.Context, id uint) error
	SpeciesExists(ctx context.Context, id uint) (bool, error)

	CreateEnclosure(ctx context.Context, enclosure *models.Enclosure) error
	GetEnclosure(ctx context.Context, id uint) (*models.Enclosure, error)
	ListEnclosures(ctx context.Context) ([]models.Enclosure, error)
	SearchEnclosures(ctx context.Context, text string) ([]models.Enclosure, error)
	UpdateEnclosure(ctx context.Context, enclosure *models.Enclosure) error
	DeleteEnclosure(ctx context.Context, id uint) error
	EnclosureExists(ctx context.Context, id uint) (bool, error)

	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	SearchEmployees(ctx context.Context, text string) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id uint) error

	CreateFeed(ctx context.Context, feed *models.Feed) error
	GetFeed(ctx context.Context, id uint) (*models.Feed, error)
	ListFeeds(ctx context.Context) ([]models.Feed, error)
	SearchFeeds(ctx context.Context, text string) ([]models.Feed, error)
	UpdateFeed(ctx context.Context, feed *models.Feed) error
	DeleteFeed(ctx context.Context, id uint) error
	FeedExists(ctx context.Context, id uint) (bool, error)

	CreateAnimal(ctx context.Context, animal *models.Animal) error
	GetAnimal(ctx context.Context, id uint) (*models.Animal, error)
	UpdateAnimal(ctx context.Context, animal *models.Animal) error
	DeleteAnimal(ctx context.Context, id uint) error
	AnimalExists(ctx context.Context, id uint) (bool, error)
	ListAnimalViews(ctx context.Context) ([]models.AnimalView, error)
	SearchAnimalViews(ctx context.Context, text string) ([]models.AnimalView, error)

	CreateAnimalFeed(ctx context.Context, feeding *models.AnimalFeed) error
	GetAnimalFeed(ctx context.Context, id uint) (*models.AnimalFeed, error)
	UpdateAnimalFeed(ctx context.Context, feeding *models.AnimalFeed) error
	DeleteAnimalFeed(ctx context.Context, id uint) error
	ListAnimalFeedViews(ctx context.Context) ([]models.AnimalFeedView, error)
	SearchAnimalFeedViews(ctx context.Context, text string) ([]models.AnimalFeedView, error)

	CreateHealthRecord(ctx context.Context, record *models.HealthRecord) error
	GetHealthRecord(ctx context.Context, id uint) (*models.HealthRecord, error)
	UpdateHealthRecord(ctx context.Context, record *models.HealthRecord) error
	DeleteHealthRecord(ctx context.Context, id uint) error
	ListHealthRecordViews(ctx context.Context) ([]models.HealthRecordView, error)
	SearchHealthRecordViews(ctx context.Context, text string) ([]models.HealthRecordView, error)

	Options(ctx context.Context, kind models.OptionKind) ([]models.Option, error)
	WithTransaction(ctx context.Context, fn func(tx Repository) error) error
}

// FromDB adapts the GORM repository to the services.
func FromDB(repo *db.Repository) Repository {
	return gormRepository{repo}
}

type gormRepository struct {
	*db.Repository
}

func (r gormRepository) WithTransaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.Repository.WithTransaction(ctx, func(tx *db.Repository) error {
		return fn(gormRepository{tx})
	})
}

// service carries what every entity service shares.
type service struct {
	repo     Repository
	producer EventProducer
	metrics  MetricsRecorder
	logger   *zap.Logger
	entity   events.Entity
}

func newService(d Dependencies, entity events.Entity, name string) service {
	return service{
		repo:     d.Repo,
		producer: d.Producer,
		metrics:  d.Metrics,
		logger:   d.Logger.Named(name),
		entity:   entity,
	}
}

// observe reports the operation to the metrics recorder. Call it deferred
// with a pointer to the named error result.
func (s *service) observe(ctx context.Context, op string, start time.Time, err *error) {
	s.metrics.Observe(ctx, string(s.entity)+"."+op, *err == nil, time.Since(start))
}

// emit publishes a committed change, attributed to the user on ctx.
func (s *service) emit(ctx context.Context, eventType events.EventType, id uint, record any) {
	event := events.NewEvent(eventType, s.entity, id, record)
	event.Actor, _ = auth.Subject(ctx)
	s.producer.Produce(event)
}

// fail logs unexpected failures and adds the action to the error. Caller
// errors pass through unchanged.
func (s *service) fail(action string, err error) error {
	if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidInput) || errors.Is(err, e.ErrReferenced) {
		return err
	}
	s.logger.Error("operation failed", zap.String("action", action), zap.Error(err))
	return fmt.Errorf("failed to %s %s: %w", action, s.entity, err)
}

// requireRef checks that an optional reference points at an existing record.
// A reference equal to stored was accepted before and is left as is, even
// when its target has since been deleted.
func requireRef(ctx context.Context, what string, id, stored *uint, exists func(context.Context, uint) (bool, error)) error {
	if id == nil || (stored != nil && *stored == *id) {
		return nil
	}
	ok, err := exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %d does not exist", e.ErrInvalidInput, what, *id)
	}
	return nil
}

// Dependencies are shared by every service.
type Dependencies struct {
	Repo     Repository
	Producer EventProducer
	Metrics  MetricsRecorder
	Logger   *zap.Logger
}

// Services groups the entity services.
type Services struct {
	Species    *SpeciesService
	Enclosures *EnclosureService
	Employees  *EmployeeService
	Feeds      *FeedService
	Animals    *AnimalService
	Feedings   *FeedingService
	Health     *HealthService
}

// NewServices constructs every entity service. A nil producer or recorder
// is replaced by a no-op.
func NewServices(d Dependencies) *Services {
	if d.Producer == nil {
		d.Producer = events.NopProducer{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Services{
		Species:    &SpeciesService{newService(d, events.EntitySpecies, "species_service")},
		Enclosures: &EnclosureService{newService(d, events.EntityEnclosure, "enclosure_service")},
		Employees:  &EmployeeService{newService(d, events.EntityEmployee, "employee_service")},
		Feeds:      &FeedService{newService(d, events.EntityFeed, "feed_service")},
		Animals:    &AnimalService{newService(d, events.EntityAnimal, "animal_service")},
		Feedings:   &FeedingService{newService(d, events.EntityFeeding, "feeding_service")},
		Health:     &HealthService{newService(d, events.EntityHealthRecord, "health_service")},
	}
}
