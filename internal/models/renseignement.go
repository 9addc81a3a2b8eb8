package models

import "time"

// RenseignementStatut marks whether an announcement is live.
type RenseignementStatut string

const (
	RenseignementStatutActif   RenseignementStatut = "actif"
	RenseignementStatutInactif RenseignementStatut = "inactif"
)

// RenseignementPriorite orders announcements in replies.
type RenseignementPriorite string

const (
	RenseignementPrioriteNormale RenseignementPriorite = "normale"
	RenseignementPrioriteHaute   RenseignementPriorite = "haute"
	RenseignementPrioriteUrgente RenseignementPriorite = "urgente"
)

// Renseignement is an admin-authored announcement/FAQ entry served to
// parents over chat and through the REST API.
type Renseignement struct {
	ID        string                `db:"id" json:"id"`
	Titre     string                `db:"titre" json:"titre"`
	Contenu   string                `db:"contenu" json:"contenu"`
	Categorie string                `db:"categorie" json:"categorie"`
	Priorite  RenseignementPriorite `db:"priorite" json:"priorite"`
	Statut    RenseignementStatut   `db:"statut" json:"statut"`
	DateDebut *time.Time            `db:"date_debut" json:"date_debut,omitempty"`
	DateFin   *time.Time            `db:"date_fin" json:"date_fin,omitempty"`
	CreatedBy string                `db:"created_by" json:"created_by"`
	CreatedAt time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt time.Time             `db:"updated_at" json:"updated_at"`
}

// RenseignementFilter narrows renseignement listings.
type RenseignementFilter struct {
	Categorie  string
	Statut     RenseignementStatut
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}
