package models

import "time"

// Catechumene is a student record.
type Catechumene struct {
	ID              string     `db:"id" json:"id"`
	Nom             string     `db:"nom" json:"nom"`
	Prenom          string     `db:"prenom" json:"prenom"`
	DateNaissance   *time.Time `db:"date_naissance" json:"date_naissance,omitempty"`
	TelephoneTuteur string     `db:"telephone_tuteur" json:"telephone_tuteur"`
	Paroisse        string     `db:"paroisse" json:"paroisse"`
	Actif           bool       `db:"actif" json:"actif"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// CatechumeneDetail joins the current enrollment onto the student row.
type CatechumeneDetail struct {
	Catechumene
	ClasseID    *string `db:"classe_id" json:"classe_id,omitempty"`
	ClasseNom   *string `db:"classe_nom" json:"classe_nom,omitempty"`
	Inscription *string `db:"inscription_statut" json:"inscription_statut,omitempty"`
}

// CatechumeneFilter narrows student listings.
type CatechumeneFilter struct {
	Search    string
	ClasseID  string
	Actif     *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
