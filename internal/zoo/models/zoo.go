// Package models defines the core domain models of the zoo registry:
// species, enclosures, employees, feeds, animals, feeding assignments
// and health checkups, plus the joined views used for display.
package models

import (
	"fmt"
	"strings"
	"time"

	e "github.com/gartstein/zoo/internal/zoo/errors"
)

// DateLayout is the calendar-date layout used on the wire and in reports.
const DateLayout = "2006-01-02"

// Sex of an animal.
type Sex string

const (
	Male   Sex = "Male"
	Female Sex = "Female"
)

// Valid reports whether s is one of the known values.
func (s Sex) Valid() bool {
	return s == Male || s == Female
}

// Species is a biological species an animal belongs to.
type Species struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enclosure is a pen, aviary or tank animals are housed in.
type Enclosure struct {
	ID uint
	// Name of the enclosure.
	Name string
	// Size is the floor area in square meters.
	Size float64
	// Location describes where the enclosure is.
	Location    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Employee is a member of the zoo staff.
type Employee struct {
	ID        uint
	Name      string
	Position  string
	Phone     string
	HireDate  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Feed is a type of food.
type Feed struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Animal is an individual animal. SpeciesID and EnclosureID are optional
// and may point at records that no longer exist.
type Animal struct {
	ID            uint
	Name          string
	SpeciesID     *uint
	EnclosureID   *uint
	DateOfBirth   time.Time
	DateOfArrival time.Time
	Sex           Sex
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AnimalFeed assigns a daily amount of a feed to an animal.
type AnimalFeed struct {
	ID       uint
	AnimalID uint
	FeedID   uint
	// DailyAmount is measured in kilograms.
	DailyAmount float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HealthRecord is a single veterinary checkup of an animal.
type HealthRecord struct {
	ID          uint
	AnimalID    uint
	CheckupDate time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AnimalView is an Animal joined with the names of its species and enclosure.
// A nil label means the reference is unset or dangling.
type AnimalView struct {
	Animal
	SpeciesName   *string
	EnclosureName *string
}

// AnimalFeedView is an AnimalFeed joined with the animal and feed names.
type AnimalFeedView struct {
	AnimalFeed
	AnimalName *string
	FeedName   *string
}

// HealthRecordView is a HealthRecord joined with the animal name.
type HealthRecordView struct {
	HealthRecord
	AnimalName *string
}

// Label returns the label or the placeholder when it is missing.
func Label(label *string, placeholder string) string {
	if label == nil {
		return placeholder
	}
	return *label
}

// Date truncates t to a UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", e.ErrInvalidInput, field)
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", e.ErrInvalidInput, field)
	}
	return nil
}

// Validate checks the required fields of a species.
func (s *Species) Validate() error {
	return required("name", s.Name)
}

// Validate checks the required fields of an enclosure.
func (enc *Enclosure) Validate() error {
	if err := required("name", enc.Name); err != nil {
		return err
	}
	return nonNegative("size", enc.Size)
}

// Validate checks the required fields of an employee.
func (emp *Employee) Validate() error {
	return required("name", emp.Name)
}

// Validate checks the required fields of a feed.
func (f *Feed) Validate() error {
	return required("name", f.Name)
}

// Validate checks the required fields of an animal. Birth and arrival
// dates are not compared.
func (a *Animal) Validate() error {
	if err := required("name", a.Name); err != nil {
		return err
	}
	if !a.Sex.Valid() {
		return fmt.Errorf("%w: sex must be %q or %q", e.ErrInvalidInput, Male, Female)
	}
	return nil
}

// Validate checks the references and amount of a feeding assignment.
func (af *AnimalFeed) Validate() error {
	if af.AnimalID == 0 {
		return fmt.Errorf("%w: animal is required", e.ErrInvalidInput)
	}
	if af.FeedID == 0 {
		return fmt.Errorf("%w: feed is required", e.ErrInvalidInput)
	}
	return nonNegative("daily amount", af.DailyAmount)
}

// Validate checks the references of a health record.
func (h *HealthRecord) Validate() error {
	if h.AnimalID == 0 {
		return fmt.Errorf("%w: animal is required", e.ErrInvalidInput)
	}
	return nil
}
