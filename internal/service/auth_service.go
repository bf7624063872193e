package service

import (
	"careerpilot/internal/cache"
	"careerpilot/internal/model"
	"careerpilot/internal/repository"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration, login and account deletion
type AuthService struct {
	userRepo         repository.UserRepo
	interviewRepo    repository.InterviewRepo
	intelligenceRepo repository.IntelligenceRepo
	cache            cache.IntelligenceCache
	jwtSecret        []byte
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepo,
	interviewRepo repository.InterviewRepo,
	intelligenceRepo repository.IntelligenceRepo,
	intelligenceCache cache.IntelligenceCache,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		interviewRepo:    interviewRepo,
		intelligenceRepo: intelligenceRepo,
		cache:            intelligenceCache,
		jwtSecret:        []byte(jwtSecret),
	}
}

// Register creates an account and returns a token for it
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login validates credentials and returns a token
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// ValidateToken validates a user JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DeleteAccount removes the user and cascades across every per-user
// collection: interviews, the intelligence summary and cached payloads
func (s *AuthService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.interviewRepo.DeleteAllByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.intelligenceRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID.Hex()); err != nil {
			log.Printf("cache invalidate failed for user %s: %v", userID.Hex(), err)
		}
	}
	return s.userRepo.Delete(ctx, userID)
}

func (s *AuthService) issueToken(user *model.User) (*model.AuthResponse, error) {
	claims := &model.UserClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		Token: signed,
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
