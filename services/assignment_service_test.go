package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"voicedesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type gatewayCall struct {
	llmConfigID string
	refs        []KnowledgeDocRef
	prompt      string
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []gatewayCall
	err   error
}

func (g *fakeGateway) ReplaceKnowledgeDocuments(_ context.Context, llmConfigID string, refs []KnowledgeDocRef, prompt string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{llmConfigID: llmConfigID, refs: refs, prompt: prompt})
	return g.err
}

func (g *fakeGateway) recorded() []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]gatewayCall, len(g.calls))
	copy(out, g.calls)
	return out
}

func newAssignmentFixture(t *testing.T) (*AssignmentService, *fakeGateway, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	gw := &fakeGateway{}
	docs := NewDocumentService(db)
	svc := NewAssignmentService(db, docs, NewPricingService(db, docs), gw, testLogger())
	return svc, gw, db
}

func TestAssignCreatesAssignmentAndPushes(t *testing.T) {
	svc, gw, db := newAssignmentFixture(t)

	cust := seedCustomer(t, db, models.VerticalRestaurant)
	doc := seedDocument(t, db, cust.ID, nil)
	bot := seedBot(t, db, cust.ID, "You are the front desk.")

	row, err := svc.Assign(context.Background(), doc.ID, bot.ID, 5, 0.7)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, bot.ID, row.BotID)
	assert.Equal(t, 5, row.TopK)
	assert.Equal(t, 0.7, row.MinScore)

	calls := gw.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "llm-1", calls[0].llmConfigID)
	require.Len(t, calls[0].refs, 1)
	assert.Equal(t, "remote-doc-1", calls[0].refs[0].DocumentID)
	assert.Equal(t, 5, calls[0].refs[0].TopK)
}

func TestAssignMovesDocumentBetweenBots(t *testing.T) {
	svc, gw, db := newAssignmentFixture(t)

	cust := seedCustomer(t, db, models.VerticalRestaurant)
	doc := seedDocument(t, db, cust.ID, nil)
	first := seedBot(t, db, cust.ID, "first bot")
	second := models.Bot{CustomerID: cust.ID, Name: "concierge", AgentID: "agent-2", LLMConfigID: "llm-2"}
	require.NoError(t, db.Create(&second).Error)

	_, err := svc.Assign(context.Background(), doc.ID, first.ID, 3, 0.5)
	require.NoError(t, err)
	_, err = svc.Assign(context.Background(), doc.ID, second.ID, 3, 0.5)
	require.NoError(t, err)

	// Exactly one assignment row survives, pointing at the second bot.
	var rows []models.BotKnowledge
	require.NoError(t, db.Where("document_id = ?", doc.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].BotID)

	// The first bot got a full-list push without the document, the second one
	// with it.
	calls := gw.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "llm-1", calls[1].llmConfigID)
	assert.Empty(t, calls[1].refs)
	assert.Equal(t, "llm-2", calls[2].llmConfigID)
	require.Len(t, calls[2].refs, 1)
	assert.Equal(t, "remote-doc-1", calls[2].refs[0].DocumentID)
}

func TestAssignZeroBotDetaches(t *testing.T) {
	svc, gw, db := newAssignmentFixture(t)

	cust := seedCustomer(t, db, models.VerticalRestaurant)
	doc := seedDocument(t, db, cust.ID, nil)
	bot := seedBot(t, db, cust.ID, "front desk")

	_, err := svc.Assign(context.Background(), doc.ID, bot.ID, 3, 0.5)
	require.NoError(t, err)

	row, err := svc.Assign(context.Background(), doc.ID, 0, 3, 0.5)
	require.NoError(t, err)
	assert.Nil(t, row)

	var count int64
	require.NoError(t, db.Model(&models.BotKnowledge{}).Where("document_id = ?", doc.ID).Count(&count).Error)
	assert.Zero(t, count)

	calls := gw.recorded()
	require.Len(t, calls, 2)
	assert.Empty(t, calls[1].refs)
}

func TestAssignPlaceholderMirrorStaysLocal(t *testing.T) {
	svc, gw, db := newAssignmentFixture(t)

	cust := seedCustomer(t, db, models.VerticalRestaurant)
	bot := seedBot(t, db, cust.ID, "front desk")

	custID := cust.ID
	doc, err := svc.Documents.Create(&custID, "draft kb", []string{"hello"})
	require.NoError(t, err)
	require.False(t, doc.HasRemoteMirror())

	row, err := svc.Assign(context.Background(), doc.ID, bot.ID, 3, 0.5)
	require.NoError(t, err)
	require.NotNil(t, row)

	// The document has no platform-side mirror yet, so nothing is pushed.
	assert.Empty(t, gw.recorded())
}

func TestAssignSurvivesRemoteNotFound(t *testing.T) {
	svc, gw, db := newAssignmentFixture(t)
	gw.err = ErrRemoteNotFound

	cust := seedCustomer(t, db, models.VerticalRestaurant)
	doc := seedDocument(t, db, cust.ID, nil)
	bot := seedBot(t, db, cust.ID, "front desk")

	row, err := svc.Assign(context.Background(), doc.ID, bot.ID, 3, 0.5)
	require.NoError(t, err)
	require.NotNil(t, row)

	var count int64
	require.NoError(t, db.Model(&models.BotKnowledge{}).Where("document_id = ?", doc.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAssignUnknownDocumentAndBot(t *testing.T) {
	svc, _, db := newAssignmentFixture(t)

	cust := seedCustomer(t, db, models.VerticalRestaurant)
	doc := seedDocument(t, db, cust.ID, nil)

	_, err := svc.Assign(context.Background(), 99999, 1, 3, 0.5)
	assert.EqualError(t, err, "document_not_found")

	_, err = svc.Assign(context.Background(), doc.ID, 99999, 3, 0.5)
	assert.EqualError(t, err, "bot_not_found")
}

func TestUnassignRemovesRowAndPromptBlock(t *testing.T) {
	svc, gw, db := newAssignmentFixture(t)

	cust := seedCustomer(t, db, models.VerticalRestaurant)
	doc := seedDocument(t, db, cust.ID, nil)
	bot := seedBot(t, db, cust.ID, "front desk")

	row, err := svc.Assign(context.Background(), doc.ID, bot.ID, 3, 0.5)
	require.NoError(t, err)

	prompt := UpsertMarkedRegion("front desk", doc.ID, "rate details")
	require.NoError(t, db.Model(&models.Bot{}).Where("id = ?", bot.ID).Update("prompt", prompt).Error)

	require.NoError(t, svc.Unassign(context.Background(), row.ID))

	var got models.Bot
	require.NoError(t, db.First(&got, bot.ID).Error)
	assert.Equal(t, "front desk", got.Prompt)
	assert.NotContains(t, got.Prompt, "rate details")

	var count int64
	require.NoError(t, db.Model(&models.BotKnowledge{}).Where("id = ?", row.ID).Count(&count).Error)
	assert.Zero(t, count)

	calls := gw.recorded()
	require.NotEmpty(t, calls)
	assert.Empty(t, calls[len(calls)-1].refs)

	assert.EqualError(t, svc.Unassign(context.Background(), row.ID), "assignment_not_found")
}

func TestRemoveMarkedRegionIsIdempotent(t *testing.T) {
	prompt := UpsertMarkedRegion("greeting", 7, "body text")
	once := RemoveMarkedRegion(prompt, 7)
	twice := RemoveMarkedRegion(once, 7)

	assert.Equal(t, "greeting", once)
	assert.Equal(t, once, twice)
	assert.Equal(t, "untouched", RemoveMarkedRegion("untouched", 7))
}

func TestUpsertMarkedRegionReplacesInPlace(t *testing.T) {
	prompt := UpsertMarkedRegion("greeting", 7, "old body")
	prompt = UpsertMarkedRegion(prompt, 7, "new body")

	assert.Equal(t, 1, strings.Count(prompt, "[[KB-7-START]]"))
	assert.Contains(t, prompt, "new body")
	assert.NotContains(t, prompt, "old body")
	assert.True(t, strings.HasPrefix(prompt, "greeting"))
}

func TestUpsertMarkedRegionKeepsOtherDocuments(t *testing.T) {
	prompt := UpsertMarkedRegion("greeting", 7, "seven")
	prompt = UpsertMarkedRegion(prompt, 8, "eight")
	prompt = RemoveMarkedRegion(prompt, 7)

	assert.NotContains(t, prompt, "seven")
	assert.Contains(t, prompt, "eight")
	assert.Contains(t, prompt, "[[KB-8-START]]")
}

func TestRefreshPricePromptInjectsBlock(t *testing.T) {
	svc, gw, db := newAssignmentFixture(t)

	cust := seedCustomer(t, db, models.VerticalLodging)
	doc := seedDocument(t, db, cust.ID, &models.KnowledgeRecord{
		Rules: models.PricingRules{ChildRatio: 0.5, ChildMaxAge: 11},
	})
	bot := seedBot(t, db, cust.ID, "front desk")

	require.NoError(t, svc.RefreshPricePrompt(context.Background(), bot.ID, doc.ID))

	var got models.Bot
	require.NoError(t, db.First(&got, bot.ID).Error)
	assert.Contains(t, got.Prompt, "Price calculation protocol")
	assert.Contains(t, got.Prompt, promptMarkerBegin(doc.ID))

	// A second refresh replaces the block instead of stacking another one.
	require.NoError(t, svc.RefreshPricePrompt(context.Background(), bot.ID, doc.ID))
	require.NoError(t, db.First(&got, bot.ID).Error)
	assert.Equal(t, 1, strings.Count(got.Prompt, promptMarkerBegin(doc.ID)))

	calls := gw.recorded()
	require.NotEmpty(t, calls)
	assert.Contains(t, calls[len(calls)-1].prompt, "Price calculation protocol")
}
