package service

import (
	"careerpilot/internal/cache"
	"careerpilot/internal/model"
	"careerpilot/internal/repository"
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyticsService computes dashboard rollups over completed interviews.
// Results are cached in Redis and invalidated by every intelligence
// rebuild, since both derive from the same interview set.
type AnalyticsService struct {
	interviewRepo repository.InterviewRepo
	cache         cache.IntelligenceCache
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(interviewRepo repository.InterviewRepo, intelligenceCache cache.IntelligenceCache) *AnalyticsService {
	return &AnalyticsService{
		interviewRepo: interviewRepo,
		cache:         intelligenceCache,
	}
}

// GetUserAnalytics returns the dashboard rollup for a user
func (s *AnalyticsService) GetUserAnalytics(ctx context.Context, userID primitive.ObjectID) (*model.UserAnalytics, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAnalytics(ctx, userID.Hex()); err == nil && cached != nil {
			return cached, nil
		}
	}

	all, err := s.interviewRepo.GetAllByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	completed := make([]*model.Interview, 0, len(all))
	for _, interview := range all {
		if interview.IsCompleted() {
			completed = append(completed, interview)
		}
	}

	analytics := s.compute(completed)

	if s.cache != nil {
		if err := s.cache.SetAnalytics(ctx, userID.Hex(), analytics); err != nil {
			log.Printf("analytics cache set failed for user %s: %v", userID.Hex(), err)
		}
	}
	return analytics, nil
}

// compute builds the rollup from completed interviews sorted newest
// first
func (s *AnalyticsService) compute(completed []*model.Interview) *model.UserAnalytics {
	analytics := &model.UserAnalytics{
		DomainPerformance: map[string]float64{},
		RecentInterviews:  []model.RecentInterview{},
		ImprovementTrend:  []model.ImprovementPoint{},
	}
	if len(completed) == 0 {
		return analytics
	}

	scores := make([]float64, 0, len(completed))
	best := 0.0
	domainTotals := map[string]float64{}
	domainCounts := map[string]int{}
	for _, interview := range completed {
		score := clampScore(interview.TotalScore)
		scores = append(scores, score)
		if score > best {
			best = score
		}

		domain := interview.Domain
		if domain == "" {
			domain = "Unknown"
		}
		domainTotals[domain] += score
		domainCounts[domain]++
	}

	analytics.AverageScore = roundedMean(scores)
	analytics.BestScore = best
	analytics.InterviewCount = len(completed)
	for domain, total := range domainTotals {
		analytics.DomainPerformance[domain] = clampScore(total / float64(domainCounts[domain]))
	}

	// Trend covers the last 10 interviews, oldest to newest
	recent := completed
	if len(recent) > 10 {
		recent = recent[:10]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		interview := recent[i]
		analytics.ImprovementTrend = append(analytics.ImprovementTrend, model.ImprovementPoint{
			Date:   interview.CreatedAt.Format("2006-01-02"),
			Score:  clampScore(interview.TotalScore),
			Domain: interview.Domain,
		})
	}

	for _, interview := range completed[:min(5, len(completed))] {
		analytics.RecentInterviews = append(analytics.RecentInterviews, model.RecentInterview{
			ID:     interview.ID.Hex(),
			Role:   interview.Role,
			Domain: interview.Domain,
			Score:  clampScore(interview.TotalScore),
			Date:   interview.CreatedAt.Format("2006-01-02"),
		})
	}

	last := completed[0].CreatedAt
	analytics.LastInterview = &last
	return analytics
}
