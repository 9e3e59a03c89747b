package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of staff roles a user can hold.
// A user with no staff role is a patient.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RolePharmacist   Role = "pharmacist"
	RoleLaboratorist Role = "laboratorist"
	RolePatient      Role = "patient"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RolePharmacist, RoleLaboratorist, RolePatient:
		return true
	}
	return false
}

// ClinicalStaff reports whether the role belongs to care-delivery staff
// entitled to the order activity feed.
func (r Role) ClinicalStaff() bool {
	switch r {
	case RoleDoctor, RoleNurse, RolePharmacist, RoleLaboratorist:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// DeriveRole maps a set of legacy boolean staff flags to a single Role.
// Precedence: admin > doctor > nurse > pharmacist > laboratorist; no flag
// set means patient. Used when importing accounts from the old schema.
func DeriveRole(isAdmin, isDoctor, isNurse, isPharmacist, isLaboratorist bool) Role {
	switch {
	case isAdmin:
		return RoleAdmin
	case isDoctor:
		return RoleDoctor
	case isNurse:
		return RoleNurse
	case isPharmacist:
		return RolePharmacist
	case isLaboratorist:
		return RoleLaboratorist
	default:
		return RolePatient
	}
}

// User is an account: a patient by default, or a staff member once an
// admin assigns a role.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     Role   `gorm:"size:50;not null;default:patient" json:"role"`
	Phone    string `gorm:"size:50" json:"phone"`
	Address  string `gorm:"size:500" json:"address"`
	Avatar   string `gorm:"size:500" json:"avatar"`

	BloodGroup string     `gorm:"size:10" json:"blood_group"`
	BirthDate  *time.Time `json:"birth_date"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
