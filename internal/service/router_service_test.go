package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

type adminTierStub struct {
	admin   bool
	handled bool
	reply   string
}

func (s *adminTierStub) IsAdmin(ctx context.Context, phone string) bool { return s.admin }

func (s *adminTierStub) Handle(ctx context.Context, phone, text string) (string, bool) {
	return s.reply, s.handled
}

type actionTierStub struct {
	reply string
	err   error
	calls int
}

func (s *actionTierStub) ExecuteForPhone(ctx context.Context, profile *models.Profile, phone, text string) (string, error) {
	s.calls++
	return s.reply, s.err
}

type profileLookupStub struct {
	profile *models.Profile
	err     error
}

func (s *profileLookupStub) FindByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	return s.profile, s.err
}

type intentTierStub struct {
	reply string
	err   error
	calls int
}

func (s *intentTierStub) Reply(ctx context.Context, msg models.InboundMessage, history []models.ChatMessage) (string, error) {
	s.calls++
	return s.reply, s.err
}

type conversationStub struct {
	appended []models.ChatMessage
	history  []models.ChatMessage
}

func (s *conversationStub) Append(ctx context.Context, msg *models.ChatMessage) error {
	s.appended = append(s.appended, *msg)
	return nil
}

func (s *conversationStub) History(ctx context.Context, phone string, limit int) ([]models.ChatMessage, error) {
	return s.history, nil
}

func inbound(body string) models.InboundMessage {
	return models.InboundMessage{Channel: models.ChannelWhatsApp, From: "221770000001", Body: body}
}

func TestRouterServiceAdminTierFirst(t *testing.T) {
	admin := &adminTierStub{admin: true, handled: true, reply: "ok admin"}
	actions := &actionTierStub{}
	intents := &intentTierStub{}
	conv := &conversationStub{}
	svc := NewRouterService(admin, actions, &profileLookupStub{err: sql.ErrNoRows}, intents, conv, nil)

	reply, err := svc.Route(context.Background(), inbound("lister admins"))
	require.NoError(t, err)
	assert.Equal(t, "ok admin", reply)
	assert.Zero(t, actions.calls)
	assert.Zero(t, intents.calls)
}

func TestRouterServiceAdminFallsThroughToActions(t *testing.T) {
	admin := &adminTierStub{admin: true, handled: false}
	actions := &actionTierStub{reply: "résultat action"}
	profiles := &profileLookupStub{profile: parentProfile()}
	intents := &intentTierStub{}
	svc := NewRouterService(admin, actions, profiles, intents, &conversationStub{}, nil)

	reply, err := svc.Route(context.Background(), inbound("rechercher diop"))
	require.NoError(t, err)
	assert.Equal(t, "résultat action", reply)
	assert.Equal(t, 1, actions.calls)
	assert.Zero(t, intents.calls)
}

func TestRouterServiceActionNotFoundFallsThroughToAI(t *testing.T) {
	actions := &actionTierStub{err: appErrors.ErrActionNotFound}
	profiles := &profileLookupStub{profile: parentProfile()}
	intents := &intentTierStub{reply: "réponse ia"}
	svc := NewRouterService(&adminTierStub{}, actions, profiles, intents, &conversationStub{}, nil)

	reply, err := svc.Route(context.Background(), inbound("quels sont les horaires ?"))
	require.NoError(t, err)
	assert.Equal(t, "réponse ia", reply)
	assert.Equal(t, 1, intents.calls)
}

func TestRouterServiceUnboundPhoneGoesToAI(t *testing.T) {
	actions := &actionTierStub{}
	profiles := &profileLookupStub{err: sql.ErrNoRows}
	intents := &intentTierStub{reply: "réponse ia"}
	svc := NewRouterService(&adminTierStub{}, actions, profiles, intents, &conversationStub{}, nil)

	reply, err := svc.Route(context.Background(), inbound("bonjour"))
	require.NoError(t, err)
	assert.Equal(t, "réponse ia", reply)
	assert.Zero(t, actions.calls)
}

func TestRouterServicePermissionDeniedReply(t *testing.T) {
	actions := &actionTierStub{err: appErrors.ErrPermissionDenied}
	profiles := &profileLookupStub{profile: parentProfile()}
	intents := &intentTierStub{}
	svc := NewRouterService(&adminTierStub{}, actions, profiles, intents, &conversationStub{}, nil)

	reply, err := svc.Route(context.Background(), inbound("rechercher diop"))
	require.NoError(t, err)
	assert.Contains(t, reply, "autorisation")
	assert.Zero(t, intents.calls)
}

func TestRouterServiceAIFailureFallback(t *testing.T) {
	profiles := &profileLookupStub{err: sql.ErrNoRows}
	intents := &intentTierStub{err: assert.AnError}
	svc := NewRouterService(&adminTierStub{}, &actionTierStub{}, profiles, intents, &conversationStub{}, nil)

	reply, err := svc.Route(context.Background(), inbound("bonjour"))
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, reply)
}

func TestRouterServiceRecordsHistory(t *testing.T) {
	conv := &conversationStub{}
	profiles := &profileLookupStub{err: sql.ErrNoRows}
	intents := &intentTierStub{reply: "réponse"}
	svc := NewRouterService(&adminTierStub{}, &actionTierStub{}, profiles, intents, conv, nil)

	_, err := svc.Route(context.Background(), inbound("bonjour"))
	require.NoError(t, err)

	require.Len(t, conv.appended, 2)
	assert.Equal(t, models.DirectionInbound, conv.appended[0].Direction)
	assert.Equal(t, "bonjour", conv.appended[0].Body)
	assert.Equal(t, models.DirectionOutbound, conv.appended[1].Direction)
	assert.Equal(t, "réponse", conv.appended[1].Body)
}
