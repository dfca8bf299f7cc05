package controller

import (
	"context"
	"fmt"
	"strings"

	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
	"github.com/gartstein/zoo/internal/zoo/report"
	"go.uber.org/zap"
)

// Catalog dispatches section level operations (tables, row deletes,
// reports and picker lists) to the entity services.
type Catalog struct {
	services    *Services
	repo        Repository
	placeholder string
	logger      *zap.Logger
}

// NewCatalog builds a catalog over the services. An empty placeholder
// falls back to report.DefaultPlaceholder.
func NewCatalog(services *Services, repo Repository, placeholder string, logger *zap.Logger) *Catalog {
	if strings.TrimSpace(placeholder) == "" {
		placeholder = report.DefaultPlaceholder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		services:    services,
		repo:        repo,
		placeholder: placeholder,
		logger:      logger.Named("catalog"),
	}
}

// Placeholder is the label shown for a missing reference.
func (c *Catalog) Placeholder() string {
	return c.placeholder
}

func unknownSection(section models.Section) error {
	return fmt.Errorf("%w: unknown section %q", e.ErrInvalidInput, section)
}

// Table renders the rows of a section matching query. Every row carries the
// id of the record it shows. A blank query lists everything.
func (c *Catalog) Table(ctx context.Context, section models.Section, query string) (*models.Table, error) {
	switch section {
	case models.SectionAnimals:
		list, err := c.services.Animals.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return report.AnimalsTable(list, c.placeholder), nil
	case models.SectionEmployees:
		list, err := c.services.Employees.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return report.EmployeesTable(list), nil
	case models.SectionEnclosures:
		list, err := c.services.Enclosures.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return report.EnclosuresTable(list), nil
	case models.SectionFeeding:
		list, err := c.services.Feedings.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return report.FeedingsTable(list, c.placeholder), nil
	case models.SectionHealth:
		list, err := c.services.Health.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return report.HealthRecordsTable(list, c.placeholder), nil
	default:
		return nil, unknownSection(section)
	}
}

// Delete removes the record with id from a section.
func (c *Catalog) Delete(ctx context.Context, section models.Section, id uint) error {
	switch section {
	case models.SectionAnimals:
		return c.services.Animals.Delete(ctx, id)
	case models.SectionEmployees:
		return c.services.Employees.Delete(ctx, id)
	case models.SectionEnclosures:
		return c.services.Enclosures.Delete(ctx, id)
	case models.SectionFeeding:
		return c.services.Feedings.Delete(ctx, id)
	case models.SectionHealth:
		return c.services.Health.Delete(ctx, id)
	default:
		return unknownSection(section)
	}
}

// DeleteRow deletes the record shown at index of a rendered table. The id is
// the one captured when the table was rendered.
func (c *Catalog) DeleteRow(ctx context.Context, table *models.Table, index int) error {
	id, err := table.IDAt(index)
	if err != nil {
		return err
	}
	c.logger.Debug("deleting row",
		zap.String("section", string(table.Section)),
		zap.Int("index", index),
		zap.Uint("id", id),
	)
	return c.Delete(ctx, table.Section, id)
}

// Report renders the plain text report of a section, one line per record
// in list order.
func (c *Catalog) Report(ctx context.Context, section models.Section) (string, error) {
	switch section {
	case models.SectionAnimals:
		list, err := c.services.Animals.List(ctx)
		if err != nil {
			return "", err
		}
		return report.Animals(list, c.placeholder), nil
	case models.SectionEmployees:
		list, err := c.services.Employees.List(ctx)
		if err != nil {
			return "", err
		}
		return report.Employees(list), nil
	case models.SectionEnclosures:
		list, err := c.services.Enclosures.List(ctx)
		if err != nil {
			return "", err
		}
		return report.Enclosures(list), nil
	case models.SectionFeeding:
		list, err := c.services.Feedings.List(ctx)
		if err != nil {
			return "", err
		}
		return report.Feedings(list, c.placeholder), nil
	case models.SectionHealth:
		list, err := c.services.Health.List(ctx)
		if err != nil {
			return "", err
		}
		return report.HealthRecords(list, c.placeholder), nil
	default:
		return "", unknownSection(section)
	}
}

// Options lists id and label pairs for a form picker.
func (c *Catalog) Options(ctx context.Context, kind models.OptionKind) ([]models.Option, error) {
	opts, err := c.repo.Options(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s options: %w", kind, err)
	}
	return opts, nil
}
