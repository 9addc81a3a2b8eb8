package models

import "time"

// Classe is a catechism class for one school year.
type Classe struct {
	ID            string    `db:"id" json:"id"`
	Nom           string    `db:"nom" json:"nom"`
	Niveau        string    `db:"niveau" json:"niveau"`
	AnneeScolaire string    `db:"annee_scolaire" json:"annee_scolaire"`
	Catechiste    string    `db:"catechiste" json:"catechiste"`
	Actif         bool      `db:"actif" json:"actif"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ClasseDetail adds the number of validated enrollments.
type ClasseDetail struct {
	Classe
	EffectifActuel int `db:"effectif_actuel" json:"effectif_actuel"`
}

// ClasseFilter narrows class listings.
type ClasseFilter struct {
	AnneeScolaire string
	Niveau        string
	Actif         *bool
	Page          int
	PageSize      int
}
