// Command seed creates the database schema and loads the default
// profiles, declarative actions and super-admin allowlist entry.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/pkg/config"
	"github.com/ljniox/ai-concierge-sub002/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS renseignements (
		id UUID PRIMARY KEY,
		titre TEXT NOT NULL,
		contenu TEXT NOT NULL,
		categorie TEXT NOT NULL DEFAULT 'general',
		priorite TEXT NOT NULL DEFAULT 'normale',
		statut TEXT NOT NULL DEFAULT 'actif',
		date_debut TIMESTAMPTZ,
		date_fin TIMESTAMPTZ,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catechumenes (
		id UUID PRIMARY KEY,
		nom TEXT NOT NULL,
		prenom TEXT NOT NULL,
		date_naissance DATE,
		telephone_tuteur TEXT NOT NULL,
		paroisse TEXT NOT NULL DEFAULT '',
		actif BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id UUID PRIMARY KEY,
		nom TEXT NOT NULL,
		niveau TEXT NOT NULL,
		annee_scolaire TEXT NOT NULL,
		catechiste TEXT NOT NULL DEFAULT '',
		actif BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inscriptions (
		id UUID PRIMARY KEY,
		catechumene_id UUID NOT NULL REFERENCES catechumenes(id),
		classe_id UUID NOT NULL REFERENCES classes(id),
		annee_scolaire TEXT NOT NULL,
		statut TEXT NOT NULL DEFAULT 'en_attente',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		permissions TEXT[] NOT NULL DEFAULT '{}',
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profile_phones (
		id UUID PRIMARY KEY,
		profile_id UUID NOT NULL REFERENCES profiles(id),
		phone TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		keywords TEXT[] NOT NULL DEFAULT '{}',
		permissions TEXT[] NOT NULL DEFAULT '{}',
		params JSONB NOT NULL DEFAULT '[]',
		operations JSONB NOT NULL DEFAULT '[]',
		templates JSONB NOT NULL DEFAULT '{}',
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS action_logs (
		id UUID PRIMARY KEY,
		profile_id UUID NOT NULL,
		phone TEXT NOT NULL,
		action_id UUID NOT NULL,
		parameters JSONB NOT NULL DEFAULT '{}',
		status TEXT NOT NULL,
		response TEXT NOT NULL DEFAULT '',
		execution_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS conversation_messages (
		id UUID PRIMARY KEY,
		phone TEXT NOT NULL,
		channel TEXT NOT NULL,
		direction TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversation_messages_phone ON conversation_messages (phone, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS admin_phones (
		id UUID PRIMARY KEY,
		phone TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL DEFAULT '',
		code_hash TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS temporary_pages (
		id UUID PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		titre TEXT NOT NULL,
		contenu TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

func defaultProfiles() []models.Profile {
	return []models.Profile{
		{
			Name:        "parent",
			Description: "Parent ou tuteur d'un catechumene",
			Permissions: pq.StringArray{models.PermissionVoirRenseignements, models.PermissionListeClasses},
		},
		{
			Name:        "catechiste",
			Description: "Catechiste en charge d'une classe",
			Permissions: pq.StringArray{
				models.PermissionVoirRenseignements,
				models.PermissionListeClasses,
				models.PermissionRechercheCatechumene,
			},
		},
		{
			Name:        "coordinateur",
			Description: "Coordination du service de catechese",
			Permissions: pq.StringArray{
				models.PermissionVoirRenseignements,
				models.PermissionListeClasses,
				models.PermissionRechercheCatechumene,
				models.PermissionGererInscriptions,
			},
		},
	}
}

func defaultActions() []models.Action {
	return []models.Action{
		{
			Name:        "recherche_catechumene",
			Description: "Recherche un catechumene par nom",
			Keywords:    pq.StringArray{"recherche", "chercher"},
			Permissions: pq.StringArray{models.PermissionRechercheCatechumene},
			Params: models.ActionParams{
				{Name: "nom", Type: models.ParamTypeString, Required: true},
			},
			Operations: models.ActionOperations{
				{
					Type:    models.OperationSelect,
					Table:   "catechumenes",
					Columns: []string{"nom", "prenom", "paroisse"},
					Filters: map[string]string{"nom": "{nom}"},
					OrderBy: "nom asc",
					Limit:   10,
				},
			},
			Templates: models.ResponseTemplates{
				Empty:    "Aucun catechumene trouvé pour {nom}.",
				Single:   "Trouvé: {prenom} {nom} ({paroisse}).",
				Multiple: "{count} résultats:",
				ItemLine: "- {prenom} {nom}",
			},
		},
		{
			Name:        "liste_classes",
			Description: "Liste les classes de l'année",
			Keywords:    pq.StringArray{"liste classes", "classes"},
			Permissions: pq.StringArray{models.PermissionListeClasses},
			Params: models.ActionParams{
				{Name: "niveau", Type: models.ParamTypeString, Required: false},
			},
			Operations: models.ActionOperations{
				{
					Type:    models.OperationSelect,
					Table:   "classes",
					Columns: []string{"nom", "niveau", "catechiste"},
					OrderBy: "nom asc",
					Limit:   20,
				},
			},
			Templates: models.ResponseTemplates{
				Empty:    "Aucune classe enregistrée.",
				Single:   "Classe {nom} ({niveau}), catechiste: {catechiste}.",
				Multiple: "{count} classes:",
				ItemLine: "- {nom} ({niveau})",
			},
		},
		{
			Name:        "horaires",
			Description: "Affiche les renseignements actifs",
			Keywords:    pq.StringArray{"horaires", "infos"},
			Permissions: pq.StringArray{models.PermissionVoirRenseignements},
			Operations: models.ActionOperations{
				{
					Type:    models.OperationSelect,
					Table:   "renseignements",
					Columns: []string{"titre", "contenu"},
					Filters: map[string]string{"statut": "actif"},
					OrderBy: "created_at desc",
					Limit:   10,
				},
			},
			Templates: models.ResponseTemplates{
				Empty:    "Aucun renseignement disponible pour le moment.",
				Single:   "{titre}: {contenu}",
				Multiple: "{count} renseignements:",
				ItemLine: "- {titre}: {contenu}",
			},
		},
	}
}

func main() {
	var (
		adminPhone string
		adminCode  string
		adminLabel string
	)
	flag.StringVar(&adminPhone, "admin-phone", "", "Phone number to allowlist as admin")
	flag.StringVar(&adminCode, "admin-code", "", "Login code for the admin phone")
	flag.StringVar(&adminLabel, "admin-label", "Seed admin", "Label for the admin phone")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("schema statement failed: %v", err)
		}
	}
	log.Println("schema ready")

	now := time.Now().UTC()
	for _, profile := range defaultProfiles() {
		_, err := db.ExecContext(ctx, `
			INSERT INTO profiles (id, name, description, permissions, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, $5, $5)
			ON CONFLICT (name) DO UPDATE SET description = $3, permissions = $4, updated_at = $5`,
			uuid.NewString(), profile.Name, profile.Description, profile.Permissions, now)
		if err != nil {
			log.Fatalf("seed profile %s failed: %v", profile.Name, err)
		}
	}
	log.Println("profiles seeded")

	for _, action := range defaultActions() {
		_, err := db.ExecContext(ctx, `
			INSERT INTO actions (id, name, description, keywords, permissions, params, operations, templates, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9, $9)
			ON CONFLICT (name) DO UPDATE SET
				description = $3, keywords = $4, permissions = $5,
				params = $6, operations = $7, templates = $8, updated_at = $9`,
			uuid.NewString(), action.Name, action.Description, action.Keywords, action.Permissions,
			action.Params, action.Operations, action.Templates, now)
		if err != nil {
			log.Fatalf("seed action %s failed: %v", action.Name, err)
		}
	}
	log.Println("actions seeded")

	if adminPhone != "" && adminCode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminCode), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash admin code failed: %v", err)
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO admin_phones (id, phone, label, code_hash, active, created_at)
			VALUES ($1, $2, $3, $4, true, $5)
			ON CONFLICT (phone) DO UPDATE SET label = $3, code_hash = $4, active = true`,
			uuid.NewString(), adminPhone, adminLabel, string(hash), now)
		if err != nil {
			log.Fatalf("seed admin phone failed: %v", err)
		}
		log.Printf("admin phone %s seeded", adminPhone)
	}

	log.Println("done")
}
