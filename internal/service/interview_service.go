package service

import (
	"careerpilot/internal/model"
	"careerpilot/internal/repository"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrInvalidQuestion   = errors.New("invalid question id")
	ErrNotResumable      = errors.New("interview is not resumable")
)

// Tokens that mark a question as behavioral for skill attribution
var behavioralTokens = []string{"tell me", "situation", "team", "conflict", "behavior"}

// InterviewService manages the interview lifecycle. Every lifecycle
// event (create, answer on a completed session, complete, delete)
// triggers an intelligence rebuild for the owning user.
type InterviewService struct {
	interviewRepo repository.InterviewRepo
	evaluator     Evaluator
	generator     QuestionGenerator
	intelligence  *IntelligenceService
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	interviewRepo repository.InterviewRepo,
	evaluator Evaluator,
	generator QuestionGenerator,
	intelligence *IntelligenceService,
) *InterviewService {
	return &InterviewService{
		interviewRepo: interviewRepo,
		evaluator:     evaluator,
		generator:     generator,
		intelligence:  intelligence,
	}
}

// Create starts a new interview session with generated questions
func (s *InterviewService) Create(ctx context.Context, userID primitive.ObjectID, req *model.CreateInterviewRequest) (*model.Interview, error) {
	count := req.NumQuestions
	if count == 0 {
		count = 5
	}

	questions, err := s.generator.Generate(ctx, req.Role, req.Domain, req.JobDescription, count)
	if err != nil {
		return nil, err
	}

	skillScores := make(map[string]float64, len(model.RequiredSkills))
	for _, skill := range model.RequiredSkills {
		skillScores[skill] = 0
	}

	interview := &model.Interview{
		UserID:         userID,
		Role:           strings.TrimSpace(req.Role),
		Domain:         strings.TrimSpace(req.Domain),
		Company:        strings.TrimSpace(req.Company),
		Difficulty:     req.Difficulty,
		JobDescription: req.JobDescription,
		Questions:      questions,
		Answers:        []model.Answer{},
		SkillScores:    skillScores,
		Status:         model.StatusPending,
	}

	if _, err := s.interviewRepo.Create(ctx, interview); err != nil {
		return nil, err
	}

	s.triggerRebuild(ctx, userID, "create")
	return interview, nil
}

// Get returns one interview owned by the user
func (s *InterviewService) Get(ctx context.Context, userID primitive.ObjectID, id string) (*model.Interview, error) {
	interview, err := s.interviewRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}
	return interview, nil
}

// List returns the user's interview history, newest first, with a
// deduplicated strengths/weaknesses rollup per interview
func (s *InterviewService) List(ctx context.Context, userID primitive.ObjectID) ([]model.InterviewSummary, error) {
	interviews, err := s.interviewRepo.GetAllByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.InterviewSummary, 0, len(interviews))
	for _, interview := range interviews {
		var strengths, weaknesses []string
		for _, answer := range interview.Answers {
			strengths = append(strengths, answer.Strengths...)
			weaknesses = append(weaknesses, answer.Improvements...)
		}

		status := model.StatusPending
		if interview.IsCompleted() {
			status = model.StatusCompleted
		}

		breakdown := make(map[string]float64, len(model.RequiredSkills))
		for _, skill := range model.RequiredSkills {
			breakdown[skill] = clampScore(interview.SkillScores[skill])
		}

		date := ""
		if d := interview.TrendDate(); !d.IsZero() {
			date = d.Format("2006-01-02")
		}

		summaries = append(summaries, model.InterviewSummary{
			ID:             interview.ID.Hex(),
			Role:           interview.Role,
			Company:        orDash(interview.Company),
			Score:          clampScore(interview.TotalScore),
			Status:         status,
			Date:           date,
			SkillBreakdown: breakdown,
			Strengths:      dedupe(strengths, 4),
			Weaknesses:     dedupe(weaknesses, 4),
		})
	}
	return summaries, nil
}

// SubmitAnswer evaluates and stores one answer. Submitting against an
// already-completed interview re-triggers the intelligence rebuild.
func (s *InterviewService) SubmitAnswer(ctx context.Context, userID primitive.ObjectID, id string, req *model.SubmitAnswerRequest) (*AnswerEvaluation, error) {
	interview, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.QuestionID < 0 || req.QuestionID >= len(interview.Questions) {
		return nil, ErrInvalidQuestion
	}
	question := interview.Questions[req.QuestionID]

	evaluation, err := s.evaluator.EvaluateAnswer(ctx, question, req.Answer, interview.Role)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		QuestionID:   req.QuestionID,
		Question:     question,
		Answer:       req.Answer,
		Score:        clampScore(evaluation.Score),
		Feedback:     evaluation.Feedback,
		Strengths:    evaluation.Strengths,
		Improvements: evaluation.Improvements,
		Source:       evaluation.Source,
	}
	if err := s.interviewRepo.PushAnswer(ctx, id, userID, answer); err != nil {
		return nil, err
	}

	if interview.Status == model.StatusPending {
		if err := s.interviewRepo.SetStatus(ctx, id, userID, model.StatusInProgress); err != nil {
			log.Printf("interview %s: status update failed: %v", id, err)
		}
	}

	if interview.IsCompleted() {
		s.triggerRebuild(ctx, userID, "answer")
	}
	return evaluation, nil
}

// Complete finalizes the interview: scores the session, derives the
// per-skill breakdown, marks the document completed and rebuilds the
// user's intelligence summary synchronously so the caller can embed it.
func (s *InterviewService) Complete(ctx context.Context, userID primitive.ObjectID, id string) (*model.InterviewResults, error) {
	interview, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(interview.Answers))
	commSum := 0.0
	for _, answer := range interview.Answers {
		scores = append(scores, answer.Score)
	}
	if len(scores) > 0 {
		commSum = communicationAverage(interview.Answers)
	}

	overall := 0.0
	commScore := 0.0
	if len(interview.Answers) > 0 {
		session, err := s.evaluator.EvaluateSession(ctx, SessionInput{
			Questions: interview.Questions,
			Scores:    scores,
			CommAvg:   commSum,
			Domain:    interview.Domain,
			Role:      interview.Role,
		})
		if err != nil {
			// Fall back to the plain answer average
			overall = roundedMean(scores)
		} else {
			overall = session.OverallScore
			commScore = session.CommunicationScore
		}
	}

	breakdown := deriveSkillBreakdown(interview, overall, commScore)

	completedAt := time.Now().UTC()
	if err := s.interviewRepo.SetCompleted(ctx, id, userID, clampScore(overall), breakdown, completedAt); err != nil {
		return nil, err
	}

	intelligence, err := s.intelligence.Rebuild(ctx, userID)
	if err != nil {
		// The interview is completed either way; surface the summary
		// failure in logs but keep returning results
		log.Printf("intelligence rebuild failed for user %s: %v", userID.Hex(), err)
	}

	return &model.InterviewResults{
		InterviewID:    id,
		OverallScore:   clampScore(overall),
		Domain:         interview.Domain,
		Role:           interview.Role,
		SkillBreakdown: breakdown,
		QuestionScores: interview.Answers,
		CompletedAt:    completedAt,
		Intelligence:   intelligence,
	}, nil
}

// Delete removes an interview owned by the user and rebuilds the summary
func (s *InterviewService) Delete(ctx context.Context, userID primitive.ObjectID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.interviewRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.triggerRebuild(ctx, userID, "delete")
	return nil
}

// Resume returns a pending or in-progress interview with the index of
// the next unanswered question
func (s *InterviewService) Resume(ctx context.Context, userID primitive.ObjectID, id string) (*model.Interview, int, error) {
	interview, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, 0, err
	}
	if interview.IsCompleted() {
		return nil, 0, ErrNotResumable
	}
	next := len(interview.Answers)
	if next > len(interview.Questions) {
		next = len(interview.Questions)
	}
	return interview, next, nil
}

// triggerRebuild runs a fire-and-forget rebuild: lifecycle operations
// succeed even when the summary refresh fails, the failure is only
// logged. Completion is the one path that consumes the result directly
// and calls Rebuild itself.
func (s *InterviewService) triggerRebuild(ctx context.Context, userID primitive.ObjectID, trigger string) {
	if _, err := s.intelligence.Rebuild(ctx, userID); err != nil {
		log.Printf("intelligence rebuild (%s) failed for user %s: %v", trigger, userID.Hex(), err)
	}
}

// deriveSkillBreakdown attributes the session score to the fixed skill
// set: DSA and System Design from the interview domain, Behavioral from
// behavioral-looking questions, Communication from the session average.
func deriveSkillBreakdown(interview *model.Interview, overall, commScore float64) map[string]float64 {
	domain := strings.ToLower(interview.Domain)

	dsa := 0.0
	if hasAny(domain, "data", "dsa", "algorithm") {
		dsa = clampScore(overall)
	}
	systemDesign := 0.0
	if hasAny(domain, "backend", "system", "devops", "architecture") {
		systemDesign = clampScore(overall)
	}

	var behavioralScores []float64
	for _, answer := range interview.Answers {
		if hasAny(answer.Question, behavioralTokens...) {
			behavioralScores = append(behavioralScores, answer.Score)
		}
	}

	return map[string]float64{
		"DSA":           dsa,
		"System Design": systemDesign,
		"Behavioral":    roundedMean(behavioralScores),
		"Communication": clampScore(commScore),
	}
}

func communicationAverage(answers []model.Answer) float64 {
	// Length-based proxy; real communication scores come from the
	// session evaluator
	sum := 0.0
	for _, answer := range answers {
		sum += answer.Score
	}
	return sum / float64(len(answers))
}

func dedupe(values []string, limit int) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
