package model

import "time"

// ImprovementPoint is one dated score on the dashboard trend chart
type ImprovementPoint struct {
	Date   string  `json:"date"`
	Score  float64 `json:"score"`
	Domain string  `json:"domain"`
}

// RecentInterview is a condensed entry for the dashboard
type RecentInterview struct {
	ID     string  `json:"id"`
	Role   string  `json:"role"`
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
	Date   string  `json:"date"`
}

// UserAnalytics is the dashboard rollup over completed interviews
type UserAnalytics struct {
	AverageScore      float64            `json:"averageScore"`
	BestScore         float64            `json:"bestScore"`
	InterviewCount    int                `json:"interviewCount"`
	DomainPerformance map[string]float64 `json:"domainPerformance"`
	RecentInterviews  []RecentInterview  `json:"recentInterviews"`
	ImprovementTrend  []ImprovementPoint `json:"improvementTrend"`
	LastInterview     *time.Time         `json:"lastInterview,omitempty"`
}
