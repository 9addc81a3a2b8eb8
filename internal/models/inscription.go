package models

import "time"

// InscriptionStatut tracks the enrollment lifecycle.
type InscriptionStatut string

const (
	InscriptionStatutEnAttente InscriptionStatut = "en_attente"
	InscriptionStatutValidee   InscriptionStatut = "validee"
	InscriptionStatutAnnulee   InscriptionStatut = "annulee"
)

// Inscription enrolls a catechumene into a classe for a school year.
type Inscription struct {
	ID            string            `db:"id" json:"id"`
	CatechumeneID string            `db:"catechumene_id" json:"catechumene_id"`
	ClasseID      string            `db:"classe_id" json:"classe_id"`
	AnneeScolaire string            `db:"annee_scolaire" json:"annee_scolaire"`
	Statut        InscriptionStatut `db:"statut" json:"statut"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// InscriptionDetail joins student and class names onto the enrollment.
type InscriptionDetail struct {
	Inscription
	CatechumeneNom    string `db:"catechumene_nom" json:"catechumene_nom"`
	CatechumenePrenom string `db:"catechumene_prenom" json:"catechumene_prenom"`
	ClasseNom         string `db:"classe_nom" json:"classe_nom"`
}

// InscriptionFilter narrows enrollment listings.
type InscriptionFilter struct {
	CatechumeneID string
	ClasseID      string
	AnneeScolaire string
	Statut        InscriptionStatut
	Page          int
	PageSize      int
}
