package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
	"github.com/ljniox/ai-concierge-sub002/pkg/export"
	"github.com/ljniox/ai-concierge-sub002/pkg/storage"
)

type statsCatechumeneRepo interface {
	List(ctx context.Context, filter models.CatechumeneFilter) ([]models.CatechumeneDetail, int, error)
}

type statsClasseRepo interface {
	List(ctx context.Context, filter models.ClasseFilter) ([]models.ClasseDetail, int, error)
}

type statsInscriptionRepo interface {
	List(ctx context.Context, filter models.InscriptionFilter) ([]models.InscriptionDetail, int, error)
}

type statsRenseignementRepo interface {
	List(ctx context.Context, filter models.RenseignementFilter) ([]models.Renseignement, int, error)
}

type statsActionLogRepo interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type statsFollowupRepo interface {
	Length(ctx context.Context) (int64, error)
}

// StatsService aggregates operational counters and renders enrollment
// reports for download.
type StatsService struct {
	catechumenes   statsCatechumeneRepo
	classes        statsClasseRepo
	inscriptions   statsInscriptionRepo
	renseignements statsRenseignementRepo
	actionLogs     statsActionLogRepo
	followups      statsFollowupRepo
	metrics        *MetricsService
	csv            *export.CSVExporter
	pdf            *export.PDFExporter
	storage        *storage.LocalStorage
	signer         *storage.SignedURLSigner
	logger         *zap.Logger
}

// StatsServiceDeps bundles the constructor dependencies.
type StatsServiceDeps struct {
	Catechumenes   statsCatechumeneRepo
	Classes        statsClasseRepo
	Inscriptions   statsInscriptionRepo
	Renseignements statsRenseignementRepo
	ActionLogs     statsActionLogRepo
	Followups      statsFollowupRepo
	Metrics        *MetricsService
	Storage        *storage.LocalStorage
	Signer         *storage.SignedURLSigner
	Logger         *zap.Logger
}

// NewStatsService constructs the service.
func NewStatsService(deps StatsServiceDeps) *StatsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		catechumenes:   deps.Catechumenes,
		classes:        deps.Classes,
		inscriptions:   deps.Inscriptions,
		renseignements: deps.Renseignements,
		actionLogs:     deps.ActionLogs,
		followups:      deps.Followups,
		metrics:        deps.Metrics,
		csv:            export.NewCSVExporter(),
		pdf:            export.NewPDFExporter(),
		storage:        deps.Storage,
		signer:         deps.Signer,
		logger:         logger,
	}
}

// Overview gathers the admin dashboard counters.
func (s *StatsService) Overview(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{
		InscriptionsParStatut: map[string]int{},
		ActionsParStatut:      map[string]int{},
	}

	actif := true
	if _, total, err := s.catechumenes.List(ctx, models.CatechumeneFilter{Actif: &actif, PageSize: 1}); err == nil {
		stats.CatechumenesActifs = total
	} else {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count catechumenes")
	}
	if _, total, err := s.classes.List(ctx, models.ClasseFilter{Actif: &actif, PageSize: 1}); err == nil {
		stats.ClassesActives = total
	} else {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count classes")
	}
	for _, statut := range []models.InscriptionStatut{models.InscriptionStatutEnAttente, models.InscriptionStatutValidee, models.InscriptionStatutAnnulee} {
		_, total, err := s.inscriptions.List(ctx, models.InscriptionFilter{Statut: statut, PageSize: 1})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count inscriptions")
		}
		stats.InscriptionsParStatut[string(statut)] = total
	}
	if _, total, err := s.renseignements.List(ctx, models.RenseignementFilter{ActiveOnly: true, PageSize: 1}); err == nil {
		stats.RenseignementsActifs = total
	} else {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count renseignements")
	}
	if counts, err := s.actionLogs.CountByStatus(ctx); err == nil {
		stats.ActionsParStatut = counts
	} else {
		s.logger.Warn("action log counters unavailable", zap.Error(err))
	}
	if s.followups != nil {
		if pending, err := s.followups.Length(ctx); err == nil {
			stats.FollowupsEnAttente = pending
		} else {
			s.logger.Warn("followup counter unavailable", zap.Error(err))
		}
	}
	if s.metrics != nil {
		stats.System = s.metrics.Snapshot()
	}
	return stats, nil
}

// ExportResult carries the signed download link for a rendered report.
type ExportResult struct {
	FileName  string    `json:"file_name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportEnrollments renders the enrollment report in csv or pdf, stores
// it and returns a signed download token.
func (s *StatsService) ExportEnrollments(ctx context.Context, format, anneeScolaire string) (*ExportResult, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export storage not configured")
	}

	var rows []models.InscriptionDetail
	for page := 1; ; page++ {
		batch, _, err := s.inscriptions.List(ctx, models.InscriptionFilter{AnneeScolaire: anneeScolaire, Page: page, PageSize: 100})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inscriptions")
		}
		rows = append(rows, batch...)
		if len(batch) < 100 {
			break
		}
	}

	dataset := export.Dataset{
		Headers: []string{"Nom", "Prenom", "Classe", "Annee", "Statut", "Date"},
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Nom":    row.CatechumeneNom,
			"Prenom": row.CatechumenePrenom,
			"Classe": row.ClasseNom,
			"Annee":  row.AnneeScolaire,
			"Statut": string(row.Statut),
			"Date":   row.CreatedAt.Format("2006-01-02"),
		})
	}

	var payload []byte
	var err error
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Inscriptions catéchèse")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	fileName := fmt.Sprintf("inscriptions-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	relPath, err := s.storage.Save(fileName, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	fileID := uuid.NewString()
	token, expiresAt, err := s.signer.Generate(fileID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return &ExportResult{FileName: fileName, Token: token, ExpiresAt: expiresAt}, nil
}

// ResolveDownload validates a signed token and returns the stored file
// path for streaming.
func (s *StatsService) ResolveDownload(token string) (string, error) {
	if s.signer == nil || s.storage == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "export storage not configured")
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}
	path, err := s.storage.Path(relPath)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
	}
	return path, nil
}
