package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interview status values
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// RequiredSkills is the fixed competency set tracked per interview.
// Order matters: strongest/weakest-skill ties resolve to the first
// skill encountered in this order.
var RequiredSkills = []string{"DSA", "System Design", "Behavioral", "Communication"}

// Answer is one evaluated answer inside an interview
type Answer struct {
	QuestionID   int      `json:"questionId" bson:"questionId"`
	Question     string   `json:"question" bson:"question"`
	Answer       string   `json:"answer" bson:"answer"`
	Score        float64  `json:"score" bson:"score"`
	Feedback     string   `json:"feedback" bson:"feedback"`
	Strengths    []string `json:"strengths" bson:"strengths"`
	Improvements []string `json:"improvements" bson:"improvements"`
	Source       string   `json:"source" bson:"source"` // "model" or "heuristic"
}

// Interview is one mock-interview session document
type Interview struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	Role           string             `json:"role" bson:"role"`
	Domain         string             `json:"domain" bson:"domain"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Difficulty     string             `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	JobDescription string             `json:"jobDescription,omitempty" bson:"jobDescription,omitempty"`
	Questions      []string           `json:"questions" bson:"questions"`
	Answers        []Answer           `json:"answers" bson:"answers"`
	TotalScore     float64            `json:"totalScore" bson:"totalScore"`
	SkillScores    map[string]float64 `json:"skillScores" bson:"skillScores,omitempty"`
	Status         string             `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Legacy field names still present in older documents.
	// Normalize folds them into the current fields after decode.
	JobRole        string             `json:"-" bson:"jobRole,omitempty"`
	OverallScore   float64            `json:"-" bson:"overallScore,omitempty"`
	SkillBreakdown map[string]float64 `json:"-" bson:"skillBreakdown,omitempty"`
}

// Normalize folds legacy document fields into their current names so
// aggregation never has to know about historical shapes. Applied by the
// repository right after decoding.
func (i *Interview) Normalize() {
	if i.Role == "" {
		i.Role = i.JobRole
	}
	if i.TotalScore == 0 && i.OverallScore != 0 {
		i.TotalScore = i.OverallScore
	}
	if len(i.SkillScores) == 0 && len(i.SkillBreakdown) > 0 {
		i.SkillScores = i.SkillBreakdown
	}
}

// IsCompleted reports whether the interview contributes to aggregate stats
func (i *Interview) IsCompleted() bool {
	return i.Status == StatusCompleted
}

// TrendDate is the timestamp a trend entry uses: completion time when
// present, otherwise last update, otherwise creation.
func (i *Interview) TrendDate() time.Time {
	if i.CompletedAt != nil && !i.CompletedAt.IsZero() {
		return *i.CompletedAt
	}
	if !i.UpdatedAt.IsZero() {
		return i.UpdatedAt
	}
	return i.CreatedAt
}

// CreateInterviewRequest starts a new interview session
type CreateInterviewRequest struct {
	Role           string `json:"role" validate:"required,min=1,max=100"`
	Domain         string `json:"domain" validate:"required,min=1,max=50"`
	Company        string `json:"company,omitempty" validate:"max=80"`
	Difficulty     string `json:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	JobDescription string `json:"jobDescription,omitempty" validate:"max=10000"`
	NumQuestions   int    `json:"numQuestions,omitempty" validate:"omitempty,min=1,max=20"`
}

// SubmitAnswerRequest submits one answer for evaluation
type SubmitAnswerRequest struct {
	QuestionID int    `json:"questionId" validate:"min=0"`
	Answer     string `json:"answer" validate:"required,min=1"`
}

// InterviewSummary is the condensed shape the history list returns
type InterviewSummary struct {
	ID             string             `json:"id"`
	Role           string             `json:"role"`
	Company        string             `json:"company"`
	Score          float64            `json:"score"`
	Status         string             `json:"status"`
	Date           string             `json:"date"`
	SkillBreakdown map[string]float64 `json:"skillBreakdown"`
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
}

// InterviewResults is returned when an interview completes
type InterviewResults struct {
	InterviewID    string             `json:"interviewId"`
	OverallScore   float64            `json:"overallScore"`
	Domain         string             `json:"domain"`
	Role           string             `json:"role"`
	SkillBreakdown map[string]float64 `json:"skillBreakdown"`
	QuestionScores []Answer           `json:"questionScores"`
	CompletedAt    time.Time          `json:"completedAt"`
	Intelligence   *Intelligence      `json:"intelligence,omitempty"`
}
