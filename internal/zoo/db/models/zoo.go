// Package models contains the persistence models of the zoo registry,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Species maps the species table.
type Species struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Species) TableName() string { return "species" }

// Enclosure maps the enclosures table.
type Enclosure struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null;index"`
	Size        float64 `gorm:"not null;default:0;check:chk_enclosures_size,size >= 0"`
	Location    string  `gorm:"size:255"`
	Description string  `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Enclosure) TableName() string { return "enclosures" }

// Employee maps the employees table.
type Employee struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;index"`
	Position  string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`
	HireDate  datatypes.Date
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string { return "employees" }

// Feed maps the feeds table.
type Feed struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Feed) TableName() string { return "feeds" }

// Animal maps the animals table. The reference columns carry no foreign
// key constraints so a deleted species or enclosure leaves them dangling.
type Animal struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:255;not null;index"`
	SpeciesID     *uint  `gorm:"index"`
	EnclosureID   *uint  `gorm:"index"`
	DateOfBirth   datatypes.Date
	DateOfArrival datatypes.Date
	Sex           string `gorm:"size:16;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Animal) TableName() string { return "animals" }

// AnimalFeed maps the animal_feeds table.
type AnimalFeed struct {
	ID          uint    `gorm:"primaryKey"`
	AnimalID    uint    `gorm:"not null;index"`
	FeedID      uint    `gorm:"not null;index"`
	DailyAmount float64 `gorm:"not null;default:0;check:chk_animal_feeds_daily_amount,daily_amount >= 0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AnimalFeed) TableName() string { return "animal_feeds" }

// HealthRecord maps the health_records table.
type HealthRecord struct {
	ID          uint `gorm:"primaryKey"`
	AnimalID    uint `gorm:"not null;index"`
	CheckupDate datatypes.Date
	Notes       string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (HealthRecord) TableName() string { return "health_records" }

// All lists every model in migration order.
func All() []any {
	return []any{
		&Species{},
		&Enclosure{},
		&Employee{},
		&Feed{},
		&Animal{},
		&AnimalFeed{},
		&HealthRecord{},
	}
}
