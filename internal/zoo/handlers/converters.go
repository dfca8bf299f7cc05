package handlers

import (
	"fmt"
	"strings"
	"time"

	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
)

// Wire representations of the records. Dates travel as YYYY-MM-DD.

type speciesDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type enclosureDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Size        float64 `json:"size"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

type employeeDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	HireDate string `json:"hire_date"`
}

type feedDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type animalDTO struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	SpeciesID     *uint   `json:"species_id"`
	EnclosureID   *uint   `json:"enclosure_id"`
	DateOfBirth   string  `json:"date_of_birth"`
	DateOfArrival string  `json:"date_of_arrival"`
	Sex           string  `json:"sex"`
	SpeciesName   *string `json:"species_name,omitempty"`
	EnclosureName *string `json:"enclosure_name,omitempty"`
}

type feedingDTO struct {
	ID          uint    `json:"id"`
	AnimalID    uint    `json:"animal_id"`
	FeedID      uint    `json:"feed_id"`
	DailyAmount float64 `json:"daily_amount"`
	AnimalName  *string `json:"animal_name,omitempty"`
	FeedName    *string `json:"feed_name,omitempty"`
}

type healthRecordDTO struct {
	ID          uint    `json:"id"`
	AnimalID    uint    `json:"animal_id"`
	CheckupDate string  `json:"checkup_date"`
	Notes       string  `json:"notes"`
	AnimalName  *string `json:"animal_name,omitempty"`
}

// parseDate reads an optional YYYY-MM-DD value. Blank means unset.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", e.ErrInvalidInput, field)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

func speciesToDTO(s *models.Species) speciesDTO {
	return speciesDTO{ID: s.ID, Name: s.Name}
}

func speciesFromDTO(d *speciesDTO) (*models.Species, error) {
	return &models.Species{ID: d.ID, Name: d.Name}, nil
}

func enclosureToDTO(enc *models.Enclosure) enclosureDTO {
	return enclosureDTO{
		ID:          enc.ID,
		Name:        enc.Name,
		Size:        enc.Size,
		Location:    enc.Location,
		Description: enc.Description,
	}
}

func enclosureFromDTO(d *enclosureDTO) (*models.Enclosure, error) {
	return &models.Enclosure{
		ID:          d.ID,
		Name:        d.Name,
		Size:        d.Size,
		Location:    d.Location,
		Description: d.Description,
	}, nil
}

func employeeToDTO(emp *models.Employee) employeeDTO {
	return employeeDTO{
		ID:       emp.ID,
		Name:     emp.Name,
		Position: emp.Position,
		Phone:    emp.Phone,
		HireDate: formatDate(emp.HireDate),
	}
}

func employeeFromDTO(d *employeeDTO) (*models.Employee, error) {
	hired, err := parseDate("hire_date", d.HireDate)
	if err != nil {
		return nil, err
	}
	return &models.Employee{
		ID:       d.ID,
		Name:     d.Name,
		Position: d.Position,
		Phone:    d.Phone,
		HireDate: hired,
	}, nil
}

func feedToDTO(f *models.Feed) feedDTO {
	return feedDTO{ID: f.ID, Name: f.Name}
}

func feedFromDTO(d *feedDTO) (*models.Feed, error) {
	return &models.Feed{ID: d.ID, Name: d.Name}, nil
}

func animalToDTO(a *models.Animal) animalDTO {
	return animalDTO{
		ID:            a.ID,
		Name:          a.Name,
		SpeciesID:     a.SpeciesID,
		EnclosureID:   a.EnclosureID,
		DateOfBirth:   formatDate(a.DateOfBirth),
		DateOfArrival: formatDate(a.DateOfArrival),
		Sex:           string(a.Sex),
	}
}

func animalViewToDTO(v *models.AnimalView) animalDTO {
	d := animalToDTO(&v.Animal)
	d.SpeciesName = v.SpeciesName
	d.EnclosureName = v.EnclosureName
	return d
}

// animalFromDTO accepts the sex in any letter case.
func animalFromDTO(d *animalDTO) (*models.Animal, error) {
	born, err := parseDate("date_of_birth", d.DateOfBirth)
	if err != nil {
		return nil, err
	}
	arrived, err := parseDate("date_of_arrival", d.DateOfArrival)
	if err != nil {
		return nil, err
	}
	sex := models.Sex(d.Sex)
	switch strings.ToLower(strings.TrimSpace(d.Sex)) {
	case "male":
		sex = models.Male
	case "female":
		sex = models.Female
	}
	return &models.Animal{
		ID:            d.ID,
		Name:          d.Name,
		SpeciesID:     d.SpeciesID,
		EnclosureID:   d.EnclosureID,
		DateOfBirth:   born,
		DateOfArrival: arrived,
		Sex:           sex,
	}, nil
}

func feedingToDTO(f *models.AnimalFeed) feedingDTO {
	return feedingDTO{
		ID:          f.ID,
		AnimalID:    f.AnimalID,
		FeedID:      f.FeedID,
		DailyAmount: f.DailyAmount,
	}
}

func feedingViewToDTO(v *models.AnimalFeedView) feedingDTO {
	d := feedingToDTO(&v.AnimalFeed)
	d.AnimalName = v.AnimalName
	d.FeedName = v.FeedName
	return d
}

func feedingFromDTO(d *feedingDTO) (*models.AnimalFeed, error) {
	return &models.AnimalFeed{
		ID:          d.ID,
		AnimalID:    d.AnimalID,
		FeedID:      d.FeedID,
		DailyAmount: d.DailyAmount,
	}, nil
}

func healthRecordToDTO(h *models.HealthRecord) healthRecordDTO {
	return healthRecordDTO{
		ID:          h.ID,
		AnimalID:    h.AnimalID,
		CheckupDate: formatDate(h.CheckupDate),
		Notes:       h.Notes,
	}
}

func healthRecordViewToDTO(v *models.HealthRecordView) healthRecordDTO {
	d := healthRecordToDTO(&v.HealthRecord)
	d.AnimalName = v.AnimalName
	return d
}

func healthRecordFromDTO(d *healthRecordDTO) (*models.HealthRecord, error) {
	checked, err := parseDate("checkup_date", d.CheckupDate)
	if err != nil {
		return nil, err
	}
	return &models.HealthRecord{
		ID:          d.ID,
		AnimalID:    d.AnimalID,
		CheckupDate: checked,
		Notes:       d.Notes,
	}, nil
}
