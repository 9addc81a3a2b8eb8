package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

const fallbackReply = "Désolé, je n'ai pas compris votre demande. Tapez 'aide' pour la liste des commandes ou posez votre question autrement."

type adminTier interface {
	IsAdmin(ctx context.Context, phone string) bool
	Handle(ctx context.Context, phone, text string) (string, bool)
}

type actionTier interface {
	ExecuteForPhone(ctx context.Context, profile *models.Profile, phone, text string) (string, error)
}

type profileLookup interface {
	FindByPhone(ctx context.Context, phone string) (*models.Profile, error)
}

type intentTier interface {
	Reply(ctx context.Context, msg models.InboundMessage, history []models.ChatMessage) (string, error)
}

type conversationStore interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	History(ctx context.Context, phone string, limit int) ([]models.ChatMessage, error)
}

// RouterService decides which tier answers an inbound message: admin
// commands first, then profile-bound declarative actions, then the AI
// fallback. Every exchange lands in the conversation history.
type RouterService struct {
	admin        adminTier
	actions      actionTier
	profiles     profileLookup
	intents      intentTier
	conversation conversationStore
	historySize  int
	logger       *zap.Logger
}

// NewRouterService constructs the router.
func NewRouterService(admin adminTier, actions actionTier, profiles profileLookup, intents intentTier, conversation conversationStore, logger *zap.Logger) *RouterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouterService{
		admin:        admin,
		actions:      actions,
		profiles:     profiles,
		intents:      intents,
		conversation: conversation,
		historySize:  10,
		logger:       logger,
	}
}

// Route produces the reply for one inbound message. History is loaded
// before the inbound row is recorded so the AI tier never sees the
// current message twice.
func (s *RouterService) Route(ctx context.Context, msg models.InboundMessage) (string, error) {
	history := s.history(ctx, msg.From)
	s.record(ctx, msg, models.DirectionInbound, msg.Body)

	reply := s.resolve(ctx, msg, history)

	s.record(ctx, msg, models.DirectionOutbound, reply)
	return reply, nil
}

func (s *RouterService) resolve(ctx context.Context, msg models.InboundMessage, history []models.ChatMessage) string {
	if s.admin != nil && s.admin.IsAdmin(ctx, msg.From) {
		if reply, handled := s.admin.Handle(ctx, msg.From, msg.Body); handled {
			return reply
		}
	}

	if s.actions != nil && s.profiles != nil {
		profile, err := s.profiles.FindByPhone(ctx, msg.From)
		switch {
		case err == nil:
			reply, err := s.actions.ExecuteForPhone(ctx, profile, msg.From, msg.Body)
			if err == nil {
				return reply
			}
			var appErr *appErrors.Error
			if errors.As(err, &appErr) {
				switch appErr.Code {
				case appErrors.ErrActionNotFound.Code:
					// no keyword matched, fall through to the AI tier
				case appErrors.ErrPermissionDenied.Code:
					return "Vous n'avez pas l'autorisation nécessaire pour cette demande."
				case appErrors.ErrValidation.Code:
					return appErr.Message
				default:
					return reply
				}
			} else {
				s.logger.Error("action tier failed", zap.String("phone", msg.From), zap.Error(err))
			}
		case errors.Is(err, sql.ErrNoRows):
			// phone not bound to a profile, AI tier only
		default:
			s.logger.Warn("profile lookup failed", zap.String("phone", msg.From), zap.Error(err))
		}
	}

	if s.intents != nil {
		reply, err := s.intents.Reply(ctx, msg, history)
		if err != nil {
			s.logger.Error("ai tier failed", zap.String("phone", msg.From), zap.Error(err))
			return fallbackReply
		}
		return reply
	}
	return fallbackReply
}

func (s *RouterService) history(ctx context.Context, phone string) []models.ChatMessage {
	if s.conversation == nil {
		return nil
	}
	history, err := s.conversation.History(ctx, phone, s.historySize)
	if err != nil {
		s.logger.Warn("history load failed", zap.String("phone", phone), zap.Error(err))
		return nil
	}
	return history
}

func (s *RouterService) record(ctx context.Context, msg models.InboundMessage, direction models.MessageDirection, body string) {
	if s.conversation == nil || body == "" {
		return
	}
	row := &models.ChatMessage{
		Phone:     msg.From,
		Channel:   msg.Channel,
		Direction: direction,
		Body:      body,
	}
	if err := s.conversation.Append(ctx, row); err != nil {
		s.logger.Warn("conversation append failed", zap.String("phone", msg.From), zap.Error(err))
	}
}
