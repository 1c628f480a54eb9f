// services/assignment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"voicedesk-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignmentService owns the invariant that a knowledge document assigns to
// at most one bot, and keeps the remote voice-platform configuration and the
// marked prompt regions convergent with the assignment table. Local writes
// are authoritative; remote pushes are best-effort and never fail the
// operation.
type AssignmentService struct {
	DB        *gorm.DB
	Documents *DocumentService
	Pricing   *PricingService
	Gateway   VoiceGateway
	Log       *zap.SugaredLogger
}

func NewAssignmentService(db *gorm.DB, docs *DocumentService, pricing *PricingService, gateway VoiceGateway, log *zap.SugaredLogger) *AssignmentService {
	return &AssignmentService{DB: db, Documents: docs, Pricing: pricing, Gateway: gateway, Log: log}
}

// Prompt marker pair delimiting one document's injected block.
func promptMarkerBegin(documentID uint) string { return fmt.Sprintf("[[KB-%d-START]]", documentID) }
func promptMarkerEnd(documentID uint) string   { return fmt.Sprintf("[[KB-%d-END]]", documentID) }

func markedRegionPattern(documentID uint) *regexp.Regexp {
	return regexp.MustCompile(`(?s)\n?` +
		regexp.QuoteMeta(promptMarkerBegin(documentID)) + `.*?` +
		regexp.QuoteMeta(promptMarkerEnd(documentID)))
}

// RemoveMarkedRegion excises the document's block from a prompt. Absent
// markers are a no-op, not an error, so removal is idempotent.
func RemoveMarkedRegion(prompt string, documentID uint) string {
	return markedRegionPattern(documentID).ReplaceAllString(prompt, "")
}

// UpsertMarkedRegion replaces the document's block, or appends one when the
// markers are absent, without disturbing the surrounding prompt text.
func UpsertMarkedRegion(prompt string, documentID uint, body string) string {
	block := fmt.Sprintf("%s\n%s\n%s", promptMarkerBegin(documentID), body, promptMarkerEnd(documentID))
	pat := markedRegionPattern(documentID)
	if pat.MatchString(prompt) {
		return pat.ReplaceAllString(prompt, "\n"+block)
	}
	if prompt == "" {
		return block
	}
	return strings.TrimRight(prompt, "\n") + "\n" + block
}

// remoteRefs recomputes the bot's complete knowledge-document list from local
// state, dropping documents that still carry a placeholder mirror id. The
// result is always pushed as a full replacement because the platform API
// accepts no partial diff.
func (s *AssignmentService) remoteRefs(botID uint, excludeDocumentID uint) ([]KnowledgeDocRef, error) {
	var rows []models.BotKnowledge
	if err := s.DB.Preload("Document").Where("bot_id = ?", botID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load assignments for bot %d: %w", botID, err)
	}
	refs := make([]KnowledgeDocRef, 0, len(rows))
	for _, row := range rows {
		if row.DocumentID == excludeDocumentID {
			continue
		}
		if !row.Document.HasRemoteMirror() {
			continue
		}
		refs = append(refs, KnowledgeDocRef{
			DocumentID: row.Document.MirrorID,
			TopK:       row.TopK,
			MinScore:   row.MinScore,
		})
	}
	return refs, nil
}

// pushBotConfig sends the bot's full document list and current prompt to the
// platform. A not-found response means the remote object is gone; both that
// and transient failures degrade to local-only state.
func (s *AssignmentService) pushBotConfig(ctx context.Context, bot *models.Bot, excludeDocumentID uint) {
	if bot.LLMConfigID == "" {
		return
	}
	refs, err := s.remoteRefs(bot.ID, excludeDocumentID)
	if err != nil {
		s.Log.Warnw("skipping remote push", "bot_id", bot.ID, "error", err)
		return
	}
	if err := s.Gateway.ReplaceKnowledgeDocuments(ctx, bot.LLMConfigID, refs, bot.Prompt); err != nil {
		if errors.Is(err, ErrRemoteNotFound) {
			s.Log.Warnw("remote llm config missing, keeping local state", "bot_id", bot.ID, "llm_config_id", bot.LLMConfigID)
		} else {
			s.Log.Warnw("remote push failed", "bot_id", bot.ID, "error", err)
		}
	}
}

// Assign points documentID at botID (0 = leave unassigned) and reconciles
// every bot the document was previously attached to. Only an unknown document
// or bot fails the call; remote-side problems are logged and absorbed.
func (s *AssignmentService) Assign(ctx context.Context, documentID, botID uint, topK int, minScore float64) (*models.BotKnowledge, error) {
	doc, err := s.Documents.Get(documentID)
	if err != nil {
		return nil, err
	}

	var existing []models.BotKnowledge
	if err := s.DB.Where("document_id = ?", documentID).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load assignments for document %d: %w", documentID, err)
	}

	// Detach the document from every other bot: excise its prompt block,
	// persist the prompt locally no matter what the platform says, then push
	// that bot's recomputed full list.
	for _, row := range existing {
		if row.BotID == botID {
			continue
		}
		var prev models.Bot
		if err := s.DB.First(&prev, row.BotID).Error; err != nil {
			s.Log.Warnw("stale assignment references missing bot", "bot_id", row.BotID, "document_id", documentID)
			continue
		}
		prev.Prompt = RemoveMarkedRegion(prev.Prompt, documentID)
		if err := s.DB.Model(&models.Bot{}).Where("id = ?", prev.ID).Update("prompt", prev.Prompt).Error; err != nil {
			return nil, fmt.Errorf("failed to update prompt for bot %d: %w", prev.ID, err)
		}
		s.pushBotConfig(ctx, &prev, documentID)
	}

	if err := s.DB.Where("document_id = ?", documentID).Delete(&models.BotKnowledge{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear assignments for document %d: %w", documentID, err)
	}

	if botID == 0 {
		return nil, nil
	}

	var bot models.Bot
	if err := s.DB.First(&bot, botID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("bot_not_found")
		}
		return nil, fmt.Errorf("failed to load bot %d: %w", botID, err)
	}

	row := models.BotKnowledge{BotID: botID, DocumentID: documentID, TopK: topK, MinScore: minScore}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	if doc.HasRemoteMirror() && bot.LLMConfigID != "" {
		s.pushBotConfig(ctx, &bot, 0)
	}

	// Lodging customers get their price-calculation prompt block regenerated
	// off the request path; a failure here never fails the assignment.
	if doc.CustomerID != nil {
		var cust models.Customer
		if err := s.DB.First(&cust, *doc.CustomerID).Error; err == nil && cust.IsLodging() {
			go func() {
				if err := s.RefreshPricePrompt(context.Background(), bot.ID, documentID); err != nil {
					s.Log.Warnw("price prompt refresh failed", "bot_id", bot.ID, "error", err)
				}
			}()
		}
	}

	return &row, nil
}

// Unassign removes one assignment row, excises the prompt block and pushes
// the bot's shrunken full list.
func (s *AssignmentService) Unassign(ctx context.Context, assignmentID uint) error {
	var row models.BotKnowledge
	if err := s.DB.First(&row, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("assignment_not_found")
		}
		return fmt.Errorf("failed to load assignment %d: %w", assignmentID, err)
	}

	var bot models.Bot
	botFound := s.DB.First(&bot, row.BotID).Error == nil

	if botFound {
		bot.Prompt = RemoveMarkedRegion(bot.Prompt, row.DocumentID)
		if err := s.DB.Model(&models.Bot{}).Where("id = ?", bot.ID).Update("prompt", bot.Prompt).Error; err != nil {
			return fmt.Errorf("failed to update prompt for bot %d: %w", bot.ID, err)
		}
	}

	if err := s.DB.Delete(&models.BotKnowledge{}, assignmentID).Error; err != nil {
		return fmt.Errorf("failed to delete assignment %d: %w", assignmentID, err)
	}

	if botFound {
		s.pushBotConfig(ctx, &bot, row.DocumentID)
	}
	return nil
}

// AssignmentsFor returns the document ids currently attached to a bot.
func (s *AssignmentService) AssignmentsFor(botID uint) ([]models.BotKnowledge, error) {
	var rows []models.BotKnowledge
	if err := s.DB.Preload("Document").Where("bot_id = ?", botID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load assignments for bot %d: %w", botID, err)
	}
	return rows, nil
}

// RefreshPricePrompt rebuilds the bot's price-calculation block from the
// owning customer's knowledge record and pushes the updated prompt.
func (s *AssignmentService) RefreshPricePrompt(ctx context.Context, botID, documentID uint) error {
	var bot models.Bot
	if err := s.DB.First(&bot, botID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("bot_not_found")
		}
		return fmt.Errorf("failed to load bot %d: %w", botID, err)
	}

	doc, err := s.Documents.Get(documentID)
	if err != nil {
		return err
	}
	if doc.CustomerID == nil {
		return nil
	}
	var cust models.Customer
	if err := s.DB.First(&cust, *doc.CustomerID).Error; err != nil {
		return fmt.Errorf("failed to load customer %d: %w", *doc.CustomerID, err)
	}

	block := s.Pricing.BuildPricePrompt(&cust)
	bot.Prompt = UpsertMarkedRegion(bot.Prompt, documentID, block)
	if err := s.DB.Model(&models.Bot{}).Where("id = ?", bot.ID).Update("prompt", bot.Prompt).Error; err != nil {
		return fmt.Errorf("failed to update prompt for bot %d: %w", bot.ID, err)
	}

	s.pushBotConfig(ctx, &bot, 0)
	return nil
}
