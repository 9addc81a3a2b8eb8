package models

import (
	"time"

	"github.com/lib/pq"
)

// Well-known permission names used by the action catalog.
const (
	PermissionRechercheCatechumene = "recherche_catechumene"
	PermissionListeClasses         = "liste_classes"
	PermissionVoirRenseignements   = "voir_renseignements"
	PermissionGererInscriptions    = "gerer_inscriptions"
)

// Profile is a named role with a permission set. Phones are bound to a
// profile through profile_phones; the profile gates which declarative
// actions a sender may invoke.
type Profile struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	Permissions pq.StringArray `db:"permissions" json:"permissions"`
	Active      bool           `db:"active" json:"active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// HasPermission reports whether the profile carries the named permission.
func (p *Profile) HasPermission(name string) bool {
	for _, perm := range p.Permissions {
		if perm == name {
			return true
		}
	}
	return false
}

// ProfileBinding links a phone number to a profile.
type ProfileBinding struct {
	ID        string    `db:"id" json:"id"`
	ProfileID string    `db:"profile_id" json:"profile_id"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
