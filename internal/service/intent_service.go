package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/ai"
	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

const classifyPrompt = `Tu es le classificateur d'intentions du service de catéchèse.
Classe le message du parent dans exactement une de ces catégories:
- RENSEIGNEMENT: question pratique (horaires, inscriptions, documents, tarifs, contacts)
- CATECHESE: question sur la foi, la doctrine ou le contenu des cours
- CONTACT_HUMAIN: demande explicite de parler à une personne
Réponds uniquement par le nom de la catégorie, sans autre texte.`

const answerPromptFormat = `Tu es l'assistant du service de catéchèse. Réponds en français,
de façon brève et polie. Appuie-toi uniquement sur les renseignements
ci-dessous; si l'information manque, invite le parent à contacter le
secrétariat.

Renseignements actifs:
%s`

const humanHandoffReply = "Votre demande a bien été transmise à notre équipe. Un responsable vous recontactera dans les plus brefs délais."

type intentCompleter interface {
	Complete(ctx context.Context, provider string, req ai.Request) (*ai.Response, error)
}

type followupPusher interface {
	Push(ctx context.Context, item models.FollowupItem) error
}

type intentRenseignementRepo interface {
	List(ctx context.Context, filter models.RenseignementFilter) ([]models.Renseignement, int, error)
}

// IntentService classifies inbound messages and generates AI answers
// grounded on the active announcements.
type IntentService struct {
	completer      intentCompleter
	followups      followupPusher
	renseignements intentRenseignementRepo
	provider       string
	maxTokens      int
	logger         *zap.Logger
}

// NewIntentService constructs the service. provider selects the AI
// backend; empty uses the registry default.
func NewIntentService(completer intentCompleter, followups followupPusher, renseignements intentRenseignementRepo, provider string, logger *zap.Logger) *IntentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentService{
		completer:      completer,
		followups:      followups,
		renseignements: renseignements,
		provider:       provider,
		maxTokens:      1024,
		logger:         logger,
	}
}

// Classify labels the message RENSEIGNEMENT, CATECHESE or CONTACT_HUMAIN.
// An unrecognized model answer falls back to RENSEIGNEMENT.
func (s *IntentService) Classify(ctx context.Context, text string) (string, error) {
	resp, err := s.completer.Complete(ctx, s.provider, ai.Request{
		System:    classifyPrompt,
		Messages:  []ai.Message{{Role: "user", Content: text}},
		MaxTokens: 16,
	})
	if err != nil {
		return "", err
	}
	label := strings.ToUpper(strings.TrimSpace(resp.Text()))
	switch {
	case strings.Contains(label, models.IntentContactHumain):
		return models.IntentContactHumain, nil
	case strings.Contains(label, models.IntentCatechese):
		return models.IntentCatechese, nil
	default:
		return models.IntentRenseignement, nil
	}
}

// Reply classifies the message and produces the chat answer. A
// CONTACT_HUMAIN intent pushes a followup item and returns the handoff
// message; a failed push never blocks the reply.
func (s *IntentService) Reply(ctx context.Context, msg models.InboundMessage, history []models.ChatMessage) (string, error) {
	intent, err := s.Classify(ctx, msg.Body)
	if err != nil {
		return "", err
	}

	if intent == models.IntentContactHumain {
		item := models.FollowupItem{
			Phone:      msg.From,
			Message:    msg.Body,
			Intent:     intent,
			ReceivedAt: msg.ReceivedAt,
		}
		if item.ReceivedAt.IsZero() {
			item.ReceivedAt = time.Now().UTC()
		}
		if s.followups != nil {
			if err := s.followups.Push(ctx, item); err != nil {
				s.logger.Warn("followup push failed", zap.String("phone", msg.From), zap.Error(err))
			}
		}
		return humanHandoffReply, nil
	}

	return s.generate(ctx, msg.Body, history)
}

func (s *IntentService) generate(ctx context.Context, question string, history []models.ChatMessage) (string, error) {
	system := fmt.Sprintf(answerPromptFormat, s.announcementContext(ctx))

	messages := make([]ai.Message, 0, len(history)+1)
	for _, past := range history {
		role := "user"
		if past.Direction == models.DirectionOutbound {
			role = "assistant"
		}
		messages = append(messages, ai.Message{Role: role, Content: past.Body})
	}
	messages = append(messages, ai.Message{Role: "user", Content: question})

	resp, err := s.completer.Complete(ctx, s.provider, ai.Request{
		System:    system,
		Messages:  messages,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		answer = "Je n'ai pas pu formuler de réponse. Veuillez contacter le secrétariat."
	}
	return answer, nil
}

func (s *IntentService) announcementContext(ctx context.Context) string {
	if s.renseignements == nil {
		return "(aucun)"
	}
	items, _, err := s.renseignements.List(ctx, models.RenseignementFilter{ActiveOnly: true, PageSize: 50})
	if err != nil {
		s.logger.Warn("announcement context load failed", zap.Error(err))
		return "(aucun)"
	}
	if len(items) == 0 {
		return "(aucun)"
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", item.Categorie, item.Titre, item.Contenu)
	}
	return b.String()
}
