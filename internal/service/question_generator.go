package service

import (
	"context"
	"fmt"
	"strings"
)

// QuestionGenerator produces interview questions for a role/domain. The
// production implementation calls an external model provider; the
// template bank below is the default when none is configured.
type QuestionGenerator interface {
	Generate(ctx context.Context, role, domain, jobDescription string, count int) ([]string, error)
}

// TemplateQuestionGenerator fills role/domain into a fixed question bank
type TemplateQuestionGenerator struct{}

// NewTemplateQuestionGenerator creates a new template question generator
func NewTemplateQuestionGenerator() *TemplateQuestionGenerator {
	return &TemplateQuestionGenerator{}
}

var questionTemplates = []string{
	"Walk me through a recent %s project you are proud of. What was your specific contribution?",
	"How would you design a system to handle a sudden 10x traffic spike in a %s context?",
	"Tell me about a time you disagreed with a teammate on a technical decision. How did you resolve it?",
	"Which data structures would you reach for to deduplicate a large stream of events, and why?",
	"Explain a production incident you debugged end to end. What did you change afterwards?",
	"How do you decide between consistency and availability when designing %s services?",
	"Describe how you would onboard a junior engineer onto your current codebase.",
	"What trade-offs would you weigh when adding caching to a read-heavy %s workload?",
	"Tell me about a piece of feedback that changed how you work.",
	"How would you test a component with many external dependencies?",
}

// Generate returns count questions for the role/domain
func (g *TemplateQuestionGenerator) Generate(ctx context.Context, role, domain, jobDescription string, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	if count > len(questionTemplates) {
		count = len(questionTemplates)
	}

	subject := strings.TrimSpace(domain)
	if subject == "" {
		subject = role
	}

	questions := make([]string, 0, count)
	for _, tmpl := range questionTemplates[:count] {
		if strings.Contains(tmpl, "%s") {
			questions = append(questions, fmt.Sprintf(tmpl, subject))
		} else {
			questions = append(questions, tmpl)
		}
	}
	return questions, nil
}
