package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/ai"
	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

type completerStub struct {
	replies  []string
	err      error
	requests []ai.Request
}

func (s *completerStub) Complete(ctx context.Context, provider string, req ai.Request) (*ai.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	reply := ""
	if len(s.replies) > 0 {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	return &ai.Response{Content: []ai.ContentBlock{{Type: "text", Text: reply}}}, nil
}

type followupStub struct {
	items []models.FollowupItem
	err   error
}

func (s *followupStub) Push(ctx context.Context, item models.FollowupItem) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, item)
	return nil
}

type intentRenseignementStub struct {
	items []models.Renseignement
}

func (s *intentRenseignementStub) List(ctx context.Context, filter models.RenseignementFilter) ([]models.Renseignement, int, error) {
	return s.items, len(s.items), nil
}

func TestIntentServiceClassify(t *testing.T) {
	cases := map[string]string{
		"RENSEIGNEMENT":  models.IntentRenseignement,
		"CATECHESE":      models.IntentCatechese,
		"CONTACT_HUMAIN": models.IntentContactHumain,
		"autre chose":    models.IntentRenseignement,
	}
	for answer, expected := range cases {
		completer := &completerStub{replies: []string{answer}}
		svc := NewIntentService(completer, nil, nil, "", nil)
		intent, err := svc.Classify(context.Background(), "question")
		require.NoError(t, err)
		assert.Equal(t, expected, intent, answer)
	}
}

func TestIntentServiceContactHumainPushesFollowup(t *testing.T) {
	completer := &completerStub{replies: []string{"CONTACT_HUMAIN"}}
	followups := &followupStub{}
	svc := NewIntentService(completer, followups, nil, "", nil)

	msg := models.InboundMessage{From: "221770000001", Body: "je veux parler à quelqu'un"}
	reply, err := svc.Reply(context.Background(), msg, nil)
	require.NoError(t, err)
	assert.Equal(t, humanHandoffReply, reply)

	require.Len(t, followups.items, 1)
	assert.Equal(t, "221770000001", followups.items[0].Phone)
	assert.Equal(t, models.IntentContactHumain, followups.items[0].Intent)
	assert.False(t, followups.items[0].ReceivedAt.IsZero())
}

func TestIntentServiceFollowupFailureDoesNotBlockReply(t *testing.T) {
	completer := &completerStub{replies: []string{"CONTACT_HUMAIN"}}
	followups := &followupStub{err: assert.AnError}
	svc := NewIntentService(completer, followups, nil, "", nil)

	reply, err := svc.Reply(context.Background(), models.InboundMessage{From: "x", Body: "aidez-moi"}, nil)
	require.NoError(t, err)
	assert.Equal(t, humanHandoffReply, reply)
}

func TestIntentServiceAnswerGroundedOnRenseignements(t *testing.T) {
	completer := &completerStub{replies: []string{"RENSEIGNEMENT", "Les cours ont lieu le samedi à 9h."}}
	repo := &intentRenseignementStub{items: []models.Renseignement{
		{Titre: "Horaires", Contenu: "Samedi 9h", Categorie: "horaires"},
	}}
	svc := NewIntentService(completer, nil, repo, "", nil)

	reply, err := svc.Reply(context.Background(), models.InboundMessage{From: "x", Body: "quels horaires ?"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Les cours ont lieu le samedi à 9h.", reply)

	require.Len(t, completer.requests, 2)
	assert.Contains(t, completer.requests[1].System, "Samedi 9h")
}

func TestIntentServiceHistoryRoles(t *testing.T) {
	completer := &completerStub{replies: []string{"CATECHESE", "Réponse."}}
	svc := NewIntentService(completer, nil, nil, "", nil)

	history := []models.ChatMessage{
		{Direction: models.DirectionInbound, Body: "question précédente"},
		{Direction: models.DirectionOutbound, Body: "réponse précédente"},
	}
	_, err := svc.Reply(context.Background(), models.InboundMessage{From: "x", Body: "suite"}, history)
	require.NoError(t, err)

	require.Len(t, completer.requests, 2)
	messages := completer.requests[1].Messages
	require.Len(t, messages, 3)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, "suite", messages[2].Content)
}
