package rest

import (
	"bytes"
	"careerpilot/internal/model"
	"careerpilot/internal/service"
	"careerpilot/internal/transport/ws"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository and cache implementations backing the full stack

type memUserRepo struct {
	users []*model.User
}

func (m *memUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, user)
	return user.ID.Hex(), nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, user := range m.users {
		if user.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type memInterviewRepo struct {
	interviews []*model.Interview
}

func (m *memInterviewRepo) Create(ctx context.Context, interview *model.Interview) (string, error) {
	if interview.ID.IsZero() {
		interview.ID = primitive.NewObjectID()
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
		interview.UpdatedAt = interview.CreatedAt
	}
	m.interviews = append(m.interviews, interview)
	return interview.ID.Hex(), nil
}

func (m *memInterviewRepo) GetByID(ctx context.Context, id string, userID primitive.ObjectID) (*model.Interview, error) {
	for _, interview := range m.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			interview.Normalize()
			return interview, nil
		}
	}
	return nil, nil
}

func (m *memInterviewRepo) GetAllByUser(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]*model.Interview, error) {
	out := []*model.Interview{}
	for _, interview := range m.interviews {
		if interview.UserID == userID {
			interview.Normalize()
			out = append(out, interview)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memInterviewRepo) PushAnswer(ctx context.Context, id string, userID primitive.ObjectID, answer *model.Answer) error {
	for _, interview := range m.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			interview.Answers = append(interview.Answers, *answer)
			interview.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memInterviewRepo) SetCompleted(ctx context.Context, id string, userID primitive.ObjectID, totalScore float64, skillScores map[string]float64, completedAt time.Time) error {
	for _, interview := range m.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			interview.Status = model.StatusCompleted
			interview.TotalScore = totalScore
			interview.SkillScores = skillScores
			interview.CompletedAt = &completedAt
			interview.UpdatedAt = completedAt
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memInterviewRepo) SetStatus(ctx context.Context, id string, userID primitive.ObjectID, status string) error {
	for _, interview := range m.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			interview.Status = status
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memInterviewRepo) Delete(ctx context.Context, id string, userID primitive.ObjectID) error {
	for i, interview := range m.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			m.interviews = append(m.interviews[:i], m.interviews[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memInterviewRepo) DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error {
	kept := m.interviews[:0]
	for _, interview := range m.interviews {
		if interview.UserID != userID {
			kept = append(kept, interview)
		}
	}
	m.interviews = kept
	return nil
}

type memIntelligenceRepo struct {
	byUser map[primitive.ObjectID]*model.Intelligence
}

func (m *memIntelligenceRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (m *memIntelligenceRepo) Upsert(ctx context.Context, intelligence *model.Intelligence) error {
	m.byUser[intelligence.UserID] = intelligence
	return nil
}

func (m *memIntelligenceRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Intelligence, error) {
	return m.byUser[userID], nil
}

func (m *memIntelligenceRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	delete(m.byUser, userID)
	return nil
}

type memCache struct {
	intelligence map[string]*model.Intelligence
	analytics    map[string]*model.UserAnalytics
}

func newMemCache() *memCache {
	return &memCache{
		intelligence: map[string]*model.Intelligence{},
		analytics:    map[string]*model.UserAnalytics{},
	}
}

func (m *memCache) GetIntelligence(ctx context.Context, userID string) (*model.Intelligence, error) {
	return m.intelligence[userID], nil
}

func (m *memCache) SetIntelligence(ctx context.Context, userID string, intelligence *model.Intelligence) error {
	m.intelligence[userID] = intelligence
	return nil
}

func (m *memCache) GetAnalytics(ctx context.Context, userID string) (*model.UserAnalytics, error) {
	return m.analytics[userID], nil
}

func (m *memCache) SetAnalytics(ctx context.Context, userID string, analytics *model.UserAnalytics) error {
	m.analytics[userID] = analytics
	return nil
}

func (m *memCache) Invalidate(ctx context.Context, userID string) error {
	delete(m.intelligence, userID)
	delete(m.analytics, userID)
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	userRepo := &memUserRepo{}
	interviewRepo := &memInterviewRepo{}
	intelligenceRepo := &memIntelligenceRepo{byUser: map[primitive.ObjectID]*model.Intelligence{}}
	c := newMemCache()

	hub := ws.NewHub()
	authSvc := service.NewAuthService(userRepo, interviewRepo, intelligenceRepo, c, "test-secret")
	intelligenceSvc := service.NewIntelligenceService(interviewRepo, intelligenceRepo, c)
	intelligenceSvc.SetBroadcaster(hub)
	analyticsSvc := service.NewAnalyticsService(interviewRepo, c)
	interviewSvc := service.NewInterviewService(interviewRepo, service.NewHeuristicEvaluator(), service.NewTemplateQuestionGenerator(), intelligenceSvc)

	router := NewRouter(&Container{
		AuthService:         authSvc,
		InterviewService:    interviewSvc,
		IntelligenceService: intelligenceSvc,
		AnalyticsService:    analyticsSvc,
		WSHub:               hub,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/interviews", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.DefaultClient, http.MethodGet, srv.URL+"/api/interviews", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.DefaultClient, http.MethodGet, srv.URL+"/api/career-intelligence", "garbage-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInterviewLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	// Register
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var auth model.AuthResponse
	decodeBody(t, resp, &auth)
	require.NotEmpty(t, auth.Token)

	// Duplicate registration conflicts
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"name":     "Ada Again",
		"email":    "ada@example.com",
		"password": "another password",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Create an interview
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/interviews", auth.Token, map[string]interface{}{
		"role":         "Backend Engineer",
		"domain":       "Backend",
		"numQuestions": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var interview model.Interview
	decodeBody(t, resp, &interview)
	require.Len(t, interview.Questions, 2)
	interviewID := interview.ID.Hex()

	// Validation failures are rejected before the service runs
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/interviews", auth.Token, map[string]interface{}{
		"role":       "Backend Engineer",
		"domain":     "Backend",
		"difficulty": "Impossible",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Answer both questions
	for q := 0; q < 2; q++ {
		resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/interviews/"+interviewID+"/answers", auth.Token, map[string]interface{}{
			"questionId": q,
			"answer":     "we picked a queue because the workload is bursty, for example during launches",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var evaluation service.AnswerEvaluation
		decodeBody(t, resp, &evaluation)
		assert.Equal(t, service.SourceHeuristic, evaluation.Source)
	}

	// Out-of-range question id
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/interviews/"+interviewID+"/answers", auth.Token, map[string]interface{}{
		"questionId": 9,
		"answer":     "anything",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Complete the interview; results embed the refreshed summary
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/interviews/"+interviewID+"/complete", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results model.InterviewResults
	decodeBody(t, resp, &results)
	assert.Equal(t, interviewID, results.InterviewID)
	assert.Greater(t, results.OverallScore, 0.0)
	require.NotNil(t, results.Intelligence)
	assert.Equal(t, 1, results.Intelligence.CompletedInterviews)

	// Completed interviews cannot be resumed
	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/interviews/"+interviewID+"/resume", auth.Token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Summary endpoint agrees with the embedded one
	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/career-intelligence", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var intelligence model.Intelligence
	decodeBody(t, resp, &intelligence)
	assert.Equal(t, 1, intelligence.TotalInterviews)
	assert.Equal(t, results.Intelligence.AverageScore, intelligence.AverageScore)

	// Analytics rollup over the same history
	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/analytics", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analytics model.UserAnalytics
	decodeBody(t, resp, &analytics)
	assert.Equal(t, 1, analytics.InterviewCount)

	// Delete the interview and watch the summary fall back to zero
	resp = doJSON(t, client, http.MethodDelete, srv.URL+"/api/interviews/"+interviewID, auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, srv.URL+"/api/career-intelligence", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &intelligence)
	assert.Equal(t, 0, intelligence.TotalInterviews)
	assert.Equal(t, model.NoSkillSentinel, intelligence.StrongestSkill)
}

func TestDeleteAccountOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var auth model.AuthResponse
	decodeBody(t, resp, &auth)

	resp = doJSON(t, client, http.MethodDelete, srv.URL+"/api/account", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Credentials stop working once the account is gone
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
