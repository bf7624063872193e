package service

import (
	"bytes"
	"careerpilot/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiService evaluates answers and generates questions via the Gemini
// API. It implements both Evaluator and QuestionGenerator; when no API key
// is configured or a call fails, it falls back to the heuristic/template
// implementations, so results carry the fallback's SourceHeuristic tag.
type GeminiService struct {
	config   *config.AIConfig
	client   *http.Client
	fallback *HeuristicEvaluator
	bank     *TemplateQuestionGenerator
}

// NewGeminiService creates a new Gemini-backed evaluator and generator
func NewGeminiService(cfg *config.AIConfig) *GeminiService {
	return &GeminiService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		fallback: NewHeuristicEvaluator(),
		bank:     NewTemplateQuestionGenerator(),
	}
}

// EvaluateAnswer scores one answer with the fast model
func (s *GeminiService) EvaluateAnswer(ctx context.Context, question, answer, jobContext string) (*AnswerEvaluation, error) {
	if !s.config.IsEnabled() {
		return s.fallback.EvaluateAnswer(ctx, question, answer, jobContext)
	}

	prompt := s.buildAnswerPrompt(question, answer, jobContext)
	response, err := s.callGemini(ctx, s.config.Models.AnswerEval, prompt)
	if err != nil {
		return s.fallback.EvaluateAnswer(ctx, question, answer, jobContext)
	}

	var result AnswerEvaluation
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return s.fallback.EvaluateAnswer(ctx, question, answer, jobContext)
	}

	result.Score = clampScore(result.Score)
	result.Communication = clampScore(result.Communication)
	result.Source = SourceModel
	return &result, nil
}

// EvaluateSession produces the end-of-interview verdict
func (s *GeminiService) EvaluateSession(ctx context.Context, in SessionInput) (*SessionEvaluation, error) {
	if !s.config.IsEnabled() {
		return s.fallback.EvaluateSession(ctx, in)
	}

	prompt := s.buildSessionPrompt(in)
	response, err := s.callGemini(ctx, s.config.Models.SessionEval, prompt)
	if err != nil {
		return s.fallback.EvaluateSession(ctx, in)
	}

	var result SessionEvaluation
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return s.fallback.EvaluateSession(ctx, in)
	}

	result.OverallScore = clampScore(result.OverallScore)
	result.CommunicationScore = clampScore(result.CommunicationScore)
	result.Source = SourceModel
	return &result, nil
}

// Generate returns count interview questions for the role/domain
func (s *GeminiService) Generate(ctx context.Context, role, domain, jobDescription string, count int) ([]string, error) {
	if !s.config.IsEnabled() {
		return s.bank.Generate(ctx, role, domain, jobDescription, count)
	}

	prompt := s.buildQuestionPrompt(role, domain, jobDescription, count)
	response, err := s.callGemini(ctx, s.config.Models.QuestionGen, prompt)
	if err != nil {
		return s.bank.Generate(ctx, role, domain, jobDescription, count)
	}

	var gen struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(response), &gen); err != nil || len(gen.Questions) == 0 {
		return s.bank.Generate(ctx, role, domain, jobDescription, count)
	}

	if len(gen.Questions) > count {
		gen.Questions = gen.Questions[:count]
	}
	return gen.Questions, nil
}

// callGemini makes a request to the Gemini API
func (s *GeminiService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// Prompt builders
func (s *GeminiService) buildAnswerPrompt(question, answer, jobContext string) string {
	return fmt.Sprintf(`You are a technical interviewer scoring a candidate's answer. Return ONLY valid JSON matching this schema:
{
  "score": 0 to 100,
  "feedback": "2-3 sentence assessment",
  "strengths": ["strength 1", "strength 2"],
  "improvements": ["improvement 1", "improvement 2"],
  "communication": 0 to 100
}

Job context: %s
Question: %s
Candidate's Answer: %s

Score technical correctness and depth in "score" and clarity of expression in "communication".
Keep feedback specific to what the candidate actually said.`,
		jobContext, question, answer)
}

func (s *GeminiService) buildSessionPrompt(in SessionInput) string {
	scoresStr := make([]string, 0, len(in.Scores))
	for i, sc := range in.Scores {
		q := ""
		if i < len(in.Questions) {
			q = in.Questions[i]
		}
		scoresStr = append(scoresStr, fmt.Sprintf("Q%d (%.0f/100): %s", i+1, sc, q))
	}

	return fmt.Sprintf(`You are wrapping up a mock interview for a %s candidate (domain: %s). Return ONLY valid JSON:
{
  "overallScore": 0 to 100,
  "communicationScore": 0 to 100,
  "recommendation": "one sentence hiring recommendation"
}

Per-question scores:
%s

Average communication so far: %.1f

Weigh the per-question scores into an overall verdict. Do not inflate beyond the evidence.`,
		in.Role, in.Domain, strings.Join(scoresStr, "\n"), in.CommAvg)
}

func (s *GeminiService) buildQuestionPrompt(role, domain, jobDescription string, count int) string {
	return fmt.Sprintf(`Generate %d mock interview questions for a %s candidate. Return ONLY valid JSON:
{
  "questions": ["question 1", "question 2"]
}

Domain focus: %s
Job description: %s

Mix technical depth questions with one or two behavioral questions.
Each question should be answerable in writing in under five minutes.`,
		count, role, domain, jobDescription)
}
