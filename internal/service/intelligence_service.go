package service

import (
	"careerpilot/internal/cache"
	"careerpilot/internal/model"
	"careerpilot/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidSummary means a rebuild produced derived state that violates
// an invariant (e.g. duplicate interview ids in the trend). The write is
// aborted and the prior summary stays in place; this indicates a bug
// upstream, not a recoverable condition.
var ErrInvalidSummary = errors.New("invalid intelligence summary")

// Recommendation texts, evaluated in rule-declaration order
const (
	tipSystemDesign = "Improve system design fundamentals"
	tipDSA          = "Practice DSA problem solving regularly"
	tipConsistency  = "Practice timed mock interviews to improve consistency"
	tipMaintain     = "Maintain consistency with advanced interview sets"
)

// IntelligenceService rebuilds the per-user career intelligence summary
// from the full interview history. Rebuild is a pure function of current
// interview state: identical inputs produce identical summaries modulo
// the updatedAt stamp.
type IntelligenceService struct {
	interviewRepo    repository.InterviewRepo
	intelligenceRepo repository.IntelligenceRepo
	cache            cache.IntelligenceCache
	broadcaster      Broadcaster
}

// NewIntelligenceService creates a new intelligence service
func NewIntelligenceService(
	interviewRepo repository.InterviewRepo,
	intelligenceRepo repository.IntelligenceRepo,
	intelligenceCache cache.IntelligenceCache,
) *IntelligenceService {
	return &IntelligenceService{
		interviewRepo:    interviewRepo,
		intelligenceRepo: intelligenceRepo,
		cache:            intelligenceCache,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *IntelligenceService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Rebuild recomputes the summary from every interview the user has,
// validates it and replaces the stored document wholesale. A user with
// zero interviews gets a fully-populated zero summary, never an error.
func (s *IntelligenceService) Rebuild(ctx context.Context, userID primitive.ObjectID) (*model.Intelligence, error) {
	interviews, err := s.interviewRepo.GetAllByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	completed := make([]*model.Interview, 0, len(interviews))
	for _, interview := range interviews {
		if interview.IsCompleted() {
			completed = append(completed, interview)
		}
	}

	total := len(interviews)
	completedCount := len(completed)
	pendingCount := total - completedCount

	completionRate := 0.0
	if total > 0 {
		completionRate = clampScore(float64(completedCount) / float64(total) * 100)
	}

	scores := make([]float64, 0, completedCount)
	for _, interview := range completed {
		scores = append(scores, clampScore(interview.TotalScore))
	}
	averageScore := roundedMean(scores)

	skillBuckets := make(map[string][]float64, len(model.RequiredSkills))
	for _, interview := range completed {
		for _, skill := range model.RequiredSkills {
			skillBuckets[skill] = append(skillBuckets[skill], clampScore(interview.SkillScores[skill]))
		}
	}

	skillScores := make(map[string]float64, len(model.RequiredSkills))
	for _, skill := range model.RequiredSkills {
		skillScores[skill] = roundedMean(skillBuckets[skill])
	}

	// Fixed iteration order over RequiredSkills; ties resolve to the
	// first skill encountered, never map order.
	strongest, weakest := model.NoSkillSentinel, model.NoSkillSentinel
	if completedCount > 0 {
		strongest, weakest = model.RequiredSkills[0], model.RequiredSkills[0]
		for _, skill := range model.RequiredSkills[1:] {
			if skillScores[skill] > skillScores[strongest] {
				strongest = skill
			}
			if skillScores[skill] < skillScores[weakest] {
				weakest = skill
			}
		}
	}

	trend := make([]model.TrendPoint, 0, completedCount)
	for i, interview := range completed {
		date := ""
		if d := interview.TrendDate(); !d.IsZero() {
			date = d.Format("2006-01-02")
		}
		trend = append(trend, model.TrendPoint{
			InterviewID: interview.ID.Hex(),
			Attempt:     i + 1,
			Date:        date,
			Score:       clampScore(interview.TotalScore),
		})
	}

	intelligence := &model.Intelligence{
		UserID:              userID,
		TotalInterviews:     total,
		CompletedInterviews: completedCount,
		PendingInterviews:   pendingCount,
		CompletionRate:      completionRate,
		AverageScore:        averageScore,
		StrongestSkill:      strongest,
		WeakestSkill:        weakest,
		SkillScores:         skillScores,
		ScoreTrend:          trend,
		RoleBreakdown:       buildRoleBreakdown(completed),
		Recommendations:     buildRecommendations(skillScores, averageScore),
		UpdatedAt:           time.Now().UTC(),
	}

	if err := validateIntelligence(intelligence); err != nil {
		return nil, err
	}

	if err := s.intelligenceRepo.Upsert(ctx, intelligence); err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Drop the stale analytics payload too; it derives from the
		// same interview set
		if err := s.cache.Invalidate(ctx, userID.Hex()); err != nil {
			log.Printf("intelligence cache invalidate failed for user %s: %v", userID.Hex(), err)
		}
		if err := s.cache.SetIntelligence(ctx, userID.Hex(), intelligence); err != nil {
			log.Printf("intelligence cache set failed for user %s: %v", userID.Hex(), err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToUser(userID.Hex(), "intelligence_update", intelligence)
	}

	return intelligence, nil
}

// GetOrCreate returns the cached or stored summary, rebuilding it when
// absent. Callers never see a "not found".
func (s *IntelligenceService) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*model.Intelligence, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetIntelligence(ctx, userID.Hex()); err == nil && cached != nil {
			return cached, nil
		}
	}

	intelligence, err := s.intelligenceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if intelligence == nil {
		return s.Rebuild(ctx, userID)
	}

	if s.cache != nil {
		if err := s.cache.SetIntelligence(ctx, userID.Hex(), intelligence); err != nil {
			log.Printf("intelligence cache set failed for user %s: %v", userID.Hex(), err)
		}
	}

	return intelligence, nil
}

func buildRoleBreakdown(completed []*model.Interview) []model.RoleStat {
	type roleAgg struct {
		count int
		total float64
	}

	order := []string{}
	byRole := map[string]*roleAgg{}
	for _, interview := range completed {
		role := interview.Role
		if role == "" {
			role = "Unknown"
		}
		agg, ok := byRole[role]
		if !ok {
			agg = &roleAgg{}
			byRole[role] = agg
			order = append(order, role)
		}
		agg.count++
		agg.total += clampScore(interview.TotalScore)
	}

	breakdown := make([]model.RoleStat, 0, len(order))
	for _, role := range order {
		agg := byRole[role]
		breakdown = append(breakdown, model.RoleStat{
			Role:         role,
			Count:        agg.count,
			AverageScore: clampScore(agg.total / float64(agg.count)),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Role < breakdown[j].Role
	})
	return breakdown
}

func buildRecommendations(skillScores map[string]float64, averageScore float64) []string {
	recommendations := []string{}
	if skillScores["System Design"] < 70 {
		recommendations = append(recommendations, tipSystemDesign)
	}
	if skillScores["DSA"] < 70 {
		recommendations = append(recommendations, tipDSA)
	}
	if averageScore < 75 {
		recommendations = append(recommendations, tipConsistency)
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, tipMaintain)
	}
	return recommendations
}

func validateIntelligence(intelligence *model.Intelligence) error {
	if intelligence.TotalInterviews < 0 {
		return fmt.Errorf("%w: totalInterviews must be >= 0", ErrInvalidSummary)
	}
	if intelligence.AverageScore < 0 || intelligence.AverageScore > 100 {
		return fmt.Errorf("%w: averageScore out of range", ErrInvalidSummary)
	}
	seen := make(map[string]bool, len(intelligence.ScoreTrend))
	for _, point := range intelligence.ScoreTrend {
		if point.InterviewID == "" {
			continue
		}
		if seen[point.InterviewID] {
			return fmt.Errorf("%w: duplicate interview id %s in score trend", ErrInvalidSummary, point.InterviewID)
		}
		seen[point.InterviewID] = true
	}
	return nil
}

// clampScore rounds to 2 decimals and clamps into [0,100]; anything
// non-numeric coerces to 0
func clampScore(value float64) float64 {
	rounded, err := stats.Round(value, 2)
	if err != nil {
		return 0
	}
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func roundedMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return clampScore(mean)
}
