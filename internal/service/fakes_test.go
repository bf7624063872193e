package service

import (
	"careerpilot/internal/model"
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeInterviewRepo is an in-memory InterviewRepo for service tests
type fakeInterviewRepo struct {
	interviews []*model.Interview
}

func (f *fakeInterviewRepo) Create(ctx context.Context, interview *model.Interview) (string, error) {
	if interview.ID.IsZero() {
		interview.ID = primitive.NewObjectID()
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}
	if interview.UpdatedAt.IsZero() {
		interview.UpdatedAt = interview.CreatedAt
	}
	f.interviews = append(f.interviews, interview)
	return interview.ID.Hex(), nil
}

func (f *fakeInterviewRepo) GetByID(ctx context.Context, id string, userID primitive.ObjectID) (*model.Interview, error) {
	for _, interview := range f.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			interview.Normalize()
			return interview, nil
		}
	}
	return nil, nil
}

func (f *fakeInterviewRepo) GetAllByUser(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]*model.Interview, error) {
	out := []*model.Interview{}
	for _, interview := range f.interviews {
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

func (f *fakeInterviewRepo) PushAnswer(ctx context.Context, id string, userID primitive.ObjectID, answer *model.Answer) error {
	for _, interview := range f.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			interview.Answers = append(interview.Answers, *answer)
			interview.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeInterviewRepo) SetCompleted(ctx context.Context, id string, userID primitive.ObjectID, totalScore float64, skillScores map[string]float64, completedAt time.Time) error {
	for _, interview := range f.interviews {
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

func (f *fakeInterviewRepo) SetStatus(ctx context.Context, id string, userID primitive.ObjectID, status string) error {
	for _, interview := range f.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			interview.Status = status
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeInterviewRepo) Delete(ctx context.Context, id string, userID primitive.ObjectID) error {
	for i, interview := range f.interviews {
		if interview.ID.Hex() == id && interview.UserID == userID {
			f.interviews = append(f.interviews[:i], f.interviews[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeInterviewRepo) DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error {
	kept := f.interviews[:0]
	for _, interview := range f.interviews {
		if interview.UserID != userID {
			kept = append(kept, interview)
		}
	}
	f.interviews = kept
	return nil
}

// fakeIntelligenceRepo is an in-memory IntelligenceRepo
type fakeIntelligenceRepo struct {
	byUser      map[primitive.ObjectID]*model.Intelligence
	upsertCount int
}

func newFakeIntelligenceRepo() *fakeIntelligenceRepo {
	return &fakeIntelligenceRepo{byUser: map[primitive.ObjectID]*model.Intelligence{}}
}

func (f *fakeIntelligenceRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (f *fakeIntelligenceRepo) Upsert(ctx context.Context, intelligence *model.Intelligence) error {
	f.upsertCount++
	f.byUser[intelligence.UserID] = intelligence
	return nil
}

func (f *fakeIntelligenceRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Intelligence, error) {
	return f.byUser[userID], nil
}

func (f *fakeIntelligenceRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	delete(f.byUser, userID)
	return nil
}

// fakeCache is an in-memory IntelligenceCache
type fakeCache struct {
	intelligence map[string]*model.Intelligence
	analytics    map[string]*model.UserAnalytics
	invalidated  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		intelligence: map[string]*model.Intelligence{},
		analytics:    map[string]*model.UserAnalytics{},
	}
}

func (f *fakeCache) GetIntelligence(ctx context.Context, userID string) (*model.Intelligence, error) {
	return f.intelligence[userID], nil
}

func (f *fakeCache) SetIntelligence(ctx context.Context, userID string, intelligence *model.Intelligence) error {
	f.intelligence[userID] = intelligence
	return nil
}

func (f *fakeCache) GetAnalytics(ctx context.Context, userID string) (*model.UserAnalytics, error) {
	return f.analytics[userID], nil
}

func (f *fakeCache) SetAnalytics(ctx context.Context, userID string, analytics *model.UserAnalytics) error {
	f.analytics[userID] = analytics
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, userID string) error {
	f.invalidated++
	delete(f.intelligence, userID)
	delete(f.analytics, userID)
	return nil
}

// fakeBroadcaster records messages sent through the hub
type fakeBroadcaster struct {
	userIDs  []string
	msgTypes []string
	payloads []interface{}
}

func (f *fakeBroadcaster) BroadcastToUser(userID string, msgType string, payload interface{}) {
	f.userIDs = append(f.userIDs, userID)
	f.msgTypes = append(f.msgTypes, msgType)
	f.payloads = append(f.payloads, payload)
}

// completedInterview builds a completed interview document for tests
func completedInterview(userID primitive.ObjectID, role string, score float64, createdAt time.Time) *model.Interview {
	done := createdAt.Add(30 * time.Minute)
	return &model.Interview{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Role:        role,
		Domain:      "Backend",
		Status:      model.StatusCompleted,
		TotalScore:  score,
		SkillScores: map[string]float64{},
		CreatedAt:   createdAt,
		UpdatedAt:   done,
		CompletedAt: &done,
	}
}
