package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"growthai/internal/llm"
	"growthai/internal/models"
	"growthai/internal/store"
)

// Service writes retention emails: LLM-generated when a chat provider is
// configured, templated otherwise. Every generated campaign is recorded
// for human review before anything is sent.
type Service struct {
	chat   llm.ChatProvider
	store  store.Store
	logger *zap.Logger
}

func New(chat llm.ChatProvider, st store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{chat: chat, store: st, logger: logger}
}

// Request carries the context the copy is personalized with.
type Request struct {
	Customer         models.Customer
	RiskSegment      string
	ChurnProbability float64
	Recommendations  []models.Recommendation
}

// Generate produces the campaign and records it. It never fails the
// request on LLM trouble; the templated fallback covers that path.
func (s *Service) Generate(ctx context.Context, req Request) models.Campaign {
	campaign, generated := s.tryLLM(ctx, req)
	if !generated {
		campaign = fallbackFor(req.RiskSegment)
	}
	if s.store != nil {
		rec := models.CampaignRecord{
			ID:          uuid.NewString(),
			CustomerID:  req.Customer.ID,
			RiskSegment: req.RiskSegment,
			Subject:     campaign.SubjectLine,
			Body:        campaign.EmailBody,
			Strategy:    campaign.Strategy,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.store.SaveCampaign(rec); err != nil {
			s.logger.Warn("campaign record not saved", zap.Error(err))
		}
	}
	return campaign
}

func (s *Service) tryLLM(ctx context.Context, req Request) (models.Campaign, bool) {
	if s.chat == nil {
		return models.Campaign{}, false
	}
	out, err := s.chat.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: buildPrompt(req)},
	}, 0.7)
	if err != nil {
		s.logger.Warn("campaign generation failed, using template", zap.Error(err))
		return models.Campaign{}, false
	}
	var c models.Campaign
	if err := json.Unmarshal([]byte(stripFences(out)), &c); err != nil {
		s.logger.Warn("campaign response not valid JSON, using template", zap.Error(err))
		return models.Campaign{}, false
	}
	if c.SubjectLine == "" || c.EmailBody == "" {
		return models.Campaign{}, false
	}
	if c.Strategy == "" {
		c.Strategy = "AI-generated retention strategy"
	}
	return c, true
}

const systemPrompt = `You are an expert retention marketing copywriter.
Return ONLY a valid JSON object (no markdown, no code blocks) with exactly
these keys: "subject_line", "email_body", "strategy".`

func buildPrompt(req Request) string {
	name := req.Customer.Name
	if name == "" {
		name = "Valued Customer"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write a retention email for customer %s.\n", name)
	fmt.Fprintf(&b, "Risk Level: %s (Churn Prob: %.2f).\n", req.RiskSegment, req.ChurnProbability)
	if len(req.Recommendations) > 0 {
		titles := make([]string, 0, len(req.Recommendations))
		for _, r := range req.Recommendations {
			titles = append(titles, r.Title)
		}
		fmt.Fprintf(&b, "Recommended for them: %s.\n", strings.Join(titles, ", "))
	}
	b.WriteString("Guidelines: HIGH risk gets a significant discount (25-30%) with an urgent but not desperate tone; ")
	b.WriteString("MEDIUM risk highlights new products with a moderate incentive (10-15%); ")
	b.WriteString("LOW risk focuses on personalized picks and loyalty appreciation.\n")
	b.WriteString("Goal: prevent them from leaving. Offer them something relevant.")
	return b.String()
}

// stripFences removes a surrounding markdown code block some models insist
// on adding.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
