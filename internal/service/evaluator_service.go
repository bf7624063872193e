package service

import (
	"context"
	"strings"
)

// Evaluation source tags. Callers can tell a real model score from a
// locally substituted one instead of silently receiving a neutral value.
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
)

// AnswerEvaluation is the scored result for a single answer
type AnswerEvaluation struct {
	Score         float64  `json:"score"`
	Feedback      string   `json:"feedback"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	Communication float64  `json:"communication"`
	Source        string   `json:"source"`
}

// SessionEvaluation summarizes a whole interview session
type SessionEvaluation struct {
	OverallScore       float64 `json:"overallScore"`
	CommunicationScore float64 `json:"communicationScore"`
	Recommendation     string  `json:"recommendation"`
	Source             string  `json:"source"`
}

// Evaluator scores answers and whole sessions. The production
// implementation delegates to an external model provider; this repo
// ships the heuristic evaluator used when no provider is configured.
type Evaluator interface {
	EvaluateAnswer(ctx context.Context, question, answer, jobContext string) (*AnswerEvaluation, error)
	EvaluateSession(ctx context.Context, interview SessionInput) (*SessionEvaluation, error)
}

// SessionInput is what a session evaluation gets to work with
type SessionInput struct {
	Questions []string
	Scores    []float64
	CommAvg   float64
	Domain    string
	Role      string
}

// HeuristicEvaluator scores answers from surface features (length,
// structure, concrete phrasing). Every result is tagged
// SourceHeuristic so downstream consumers know it is a fallback-grade
// score, not a model judgment.
type HeuristicEvaluator struct{}

// NewHeuristicEvaluator creates a new heuristic evaluator
func NewHeuristicEvaluator() *HeuristicEvaluator {
	return &HeuristicEvaluator{}
}

// EvaluateAnswer scores one answer
func (e *HeuristicEvaluator) EvaluateAnswer(ctx context.Context, question, answer, jobContext string) (*AnswerEvaluation, error) {
	words := strings.Fields(answer)
	wordCount := len(words)

	// Length band: too short or rambling both lose points
	score := 40.0
	switch {
	case wordCount >= 40 && wordCount <= 300:
		score = 70
	case wordCount >= 15:
		score = 55
	}

	strengths := []string{}
	improvements := []string{}

	if hasAny(answer, "for example", "for instance", "in my experience", "we ") {
		score += 10
		strengths = append(strengths, "Backed up with concrete examples")
	} else {
		improvements = append(improvements, "Provide more specific examples")
	}

	if hasAny(answer, "because", "therefore", "trade-off", "tradeoff", "so that") {
		score += 10
		strengths = append(strengths, "Explains reasoning, not just conclusions")
	} else {
		improvements = append(improvements, "Explain the reasoning behind your choices")
	}

	if score > 100 {
		score = 100
	}

	communication := 50.0
	if wordCount >= 40 {
		communication = 70
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Clear communication")
	}

	return &AnswerEvaluation{
		Score:         score,
		Feedback:      heuristicFeedback(score),
		Strengths:     strengths,
		Improvements:  improvements,
		Communication: communication,
		Source:        SourceHeuristic,
	}, nil
}

// EvaluateSession averages per-answer scores into an overall verdict
func (e *HeuristicEvaluator) EvaluateSession(ctx context.Context, in SessionInput) (*SessionEvaluation, error) {
	if len(in.Scores) == 0 {
		return &SessionEvaluation{
			Recommendation: "No answers evaluated",
			Source:         SourceHeuristic,
		}, nil
	}

	sum := 0.0
	for _, s := range in.Scores {
		sum += s
	}
	overall := sum / float64(len(in.Scores))

	var recommendation string
	switch {
	case overall >= 80:
		recommendation = "Strong candidate - Recommend for next round"
	case overall >= 65:
		recommendation = "Qualified candidate - Good fit with some improvements"
	case overall >= 50:
		recommendation = "Adequate candidate - May need additional screening"
	default:
		recommendation = "Needs improvement - Consider feedback areas"
	}

	return &SessionEvaluation{
		OverallScore:       clampScore(overall),
		CommunicationScore: clampScore(in.CommAvg),
		Recommendation:     recommendation,
		Source:             SourceHeuristic,
	}, nil
}

func heuristicFeedback(score float64) string {
	switch {
	case score >= 80:
		return "Well-structured answer with concrete detail."
	case score >= 60:
		return "Solid answer; add more depth and specific examples."
	default:
		return "Answer is too thin; expand on your approach and reasoning."
	}
}

func hasAny(text string, needles ...string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
