package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoSkillSentinel is reported as strongest/weakest skill when a user
// has no completed interviews yet
const NoSkillSentinel = "-"

// TrendPoint is one entry in the chronological score trend
type TrendPoint struct {
	InterviewID string  `json:"interviewId" bson:"interviewId"`
	Attempt     int     `json:"attempt" bson:"attempt"`
	Date        string  `json:"date" bson:"date"` // YYYY-MM-DD
	Score       float64 `json:"score" bson:"score"`
}

// RoleStat aggregates completed interviews for one role
type RoleStat struct {
	Role         string  `json:"role" bson:"role"`
	Count        int     `json:"count" bson:"count"`
	AverageScore float64 `json:"averageScore" bson:"averageScore"`
}

// Intelligence is the denormalized per-user rollup document. Exactly one
// exists per user (unique index on userId) and every rebuild replaces it
// wholesale.
type Intelligence struct {
	ID                  primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID              primitive.ObjectID `json:"userId" bson:"userId"`
	TotalInterviews     int                `json:"totalInterviews" bson:"totalInterviews"`
	CompletedInterviews int                `json:"completedInterviews" bson:"completedInterviews"`
	PendingInterviews   int                `json:"pendingInterviews" bson:"pendingInterviews"`
	CompletionRate      float64            `json:"completionRate" bson:"completionRate"`
	AverageScore        float64            `json:"averageScore" bson:"averageScore"`
	StrongestSkill      string             `json:"strongestSkill" bson:"strongestSkill"`
	WeakestSkill        string             `json:"weakestSkill" bson:"weakestSkill"`
	SkillScores         map[string]float64 `json:"skillScores" bson:"skillScores"`
	ScoreTrend          []TrendPoint       `json:"scoreTrend" bson:"scoreTrend"`
	RoleBreakdown       []RoleStat         `json:"roleBreakdown" bson:"roleBreakdown"`
	Recommendations     []string           `json:"recommendations" bson:"recommendations"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}
