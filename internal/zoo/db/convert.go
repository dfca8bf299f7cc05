package db

import (
	"time"

	dbmodels "github.com/gartstein/zoo/internal/zoo/db/models"
	"github.com/gartstein/zoo/internal/zoo/models"
	"gorm.io/datatypes"
)

func toDate(t time.Time) datatypes.Date {
	return datatypes.Date(models.Date(t))
}

func fromDate(d datatypes.Date) time.Time {
	return models.Date(time.Time(d))
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func speciesRow(s *models.Species) *dbmodels.Species {
	return &dbmodels.Species{ID: s.ID, Name: s.Name}
}

func speciesModel(row *dbmodels.Species) models.Species {
	return models.Species{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}
}

func enclosureRow(enc *models.Enclosure) *dbmodels.Enclosure {
	return &dbmodels.Enclosure{
		ID:          enc.ID,
		Name:        enc.Name,
		Size:        enc.Size,
		Location:    enc.Location,
		Description: enc.Description,
	}
}

func enclosureModel(row *dbmodels.Enclosure) models.Enclosure {
	return models.Enclosure{
		ID:          row.ID,
		Name:        row.Name,
		Size:        row.Size,
		Location:    row.Location,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func employeeRow(emp *models.Employee) *dbmodels.Employee {
	return &dbmodels.Employee{
		ID:       emp.ID,
		Name:     emp.Name,
		Position: emp.Position,
		Phone:    emp.Phone,
		HireDate: toDate(emp.HireDate),
	}
}

func employeeModel(row *dbmodels.Employee) models.Employee {
	return models.Employee{
		ID:        row.ID,
		Name:      row.Name,
		Position:  row.Position,
		Phone:     row.Phone,
		HireDate:  fromDate(row.HireDate),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func feedRow(f *models.Feed) *dbmodels.Feed {
	return &dbmodels.Feed{ID: f.ID, Name: f.Name}
}

func feedModel(row *dbmodels.Feed) models.Feed {
	return models.Feed{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}
}

func animalRow(a *models.Animal) *dbmodels.Animal {
	return &dbmodels.Animal{
		ID:            a.ID,
		Name:          a.Name,
		SpeciesID:     copyID(a.SpeciesID),
		EnclosureID:   copyID(a.EnclosureID),
		DateOfBirth:   toDate(a.DateOfBirth),
		DateOfArrival: toDate(a.DateOfArrival),
		Sex:           string(a.Sex),
	}
}

func animalModel(row *dbmodels.Animal) models.Animal {
	return models.Animal{
		ID:            row.ID,
		Name:          row.Name,
		SpeciesID:     copyID(row.SpeciesID),
		EnclosureID:   copyID(row.EnclosureID),
		DateOfBirth:   fromDate(row.DateOfBirth),
		DateOfArrival: fromDate(row.DateOfArrival),
		Sex:           models.Sex(row.Sex),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func animalFeedRow(af *models.AnimalFeed) *dbmodels.AnimalFeed {
	return &dbmodels.AnimalFeed{
		ID:          af.ID,
		AnimalID:    af.AnimalID,
		FeedID:      af.FeedID,
		DailyAmount: af.DailyAmount,
	}
}

func animalFeedModel(row *dbmodels.AnimalFeed) models.AnimalFeed {
	return models.AnimalFeed{
		ID:          row.ID,
		AnimalID:    row.AnimalID,
		FeedID:      row.FeedID,
		DailyAmount: row.DailyAmount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func healthRecordRow(h *models.HealthRecord) *dbmodels.HealthRecord {
	return &dbmodels.HealthRecord{
		ID:          h.ID,
		AnimalID:    h.AnimalID,
		CheckupDate: toDate(h.CheckupDate),
		Notes:       h.Notes,
	}
}

func healthRecordModel(row *dbmodels.HealthRecord) models.HealthRecord {
	return models.HealthRecord{
		ID:          row.ID,
		AnimalID:    row.AnimalID,
		CheckupDate: fromDate(row.CheckupDate),
		Notes:       row.Notes,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapRows[R any, M any](rows []R, fn func(*R) M) []M {
	out := make([]M, 0, len(rows))
	for i := range rows {
		out = append(out, fn(&rows[i]))
	}
	return out
}
