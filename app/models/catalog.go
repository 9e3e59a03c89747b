package models

import (
	"time"

	"gorm.io/gorm"
)

// Department groups services, e.g. Cardiology or Radiology.
// Slug is unique; duplicates surface as a validation error.
type Department struct {
	gorm.Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string `gorm:"size:1000" json:"description"`
}

// Service is a billable hospital service offered by a department.
type Service struct {
	gorm.Model
	Name         string      `gorm:"size:255;not null" json:"name"`
	Description  string      `gorm:"size:1000" json:"description"`
	DepartmentID uint        `gorm:"index" json:"department_id"`
	Department   *Department `json:"department,omitempty"`
	BasePrice    float64     `gorm:"not null;default:0" json:"base_price"`
	Active       bool        `gorm:"not null;default:true" json:"active"`
}

// Offer is a purchasable package for a service with discount and tax
// applied. TotalWithTax is denormalized at write time so checkout and
// listings never recompute it.
type Offer struct {
	gorm.Model
	Name        string   `gorm:"size:255;not null" json:"name"`
	Description string   `gorm:"size:1000" json:"description"`
	ServiceID   uint     `gorm:"index" json:"service_id"`
	Service     *Service `json:"service,omitempty"`
	Price       float64  `gorm:"not null" json:"price"`
	Discount    float64  `gorm:"not null;default:0" json:"discount"` // percent
	Tax         float64  `gorm:"not null;default:0" json:"tax"`      // percent

	TotalWithTax float64 `gorm:"not null" json:"total_with_tax"`
}

// ComputeTotal recalculates TotalWithTax from price, discount and tax.
// Called before create and update.
func (o *Offer) ComputeTotal() {
	discounted := o.Price - o.Price*o.Discount/100
	o.TotalWithTax = discounted + discounted*o.Tax/100
}

// BedAllotment assigns a bed to a registered patient.
type BedAllotment struct {
	gorm.Model
	BedNumber     string     `gorm:"size:50;not null" json:"bed_number"`
	BedType       string     `gorm:"size:100" json:"bed_type"`
	PatientID     uint       `gorm:"not null;index" json:"patient_id"`
	Patient       *User      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	AllotmentDate time.Time  `gorm:"not null" json:"allotment_date"`
	DischargeDate *time.Time `json:"discharge_date"`
}

// Blood group closed set.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// BloodUnit tracks blood bank stock for one blood group.
type BloodUnit struct {
	gorm.Model
	BloodGroup string `gorm:"size:10;not null;index" json:"blood_group"`
	Bags       int    `gorm:"not null;default:0" json:"bags"`
	Status     string `gorm:"size:50;default:available" json:"status"`
}
