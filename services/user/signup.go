package user

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "lexbook/database/repository/user"
	"lexbook/models"
	"lexbook/services/storage"
	"lexbook/services/wizard"
)

// SignupService drives the step-gated signup flow and creates the account at
// completion.
type SignupService interface {
	StartSignup(ctx context.Context) (*models.SignupSession, error)
	UpdateSignup(ctx context.Context, sessionID string, partial models.WizardData) (*models.SignupSession, error)
	AdvanceSignup(ctx context.Context, sessionID string) (*models.SignupSession, error)
	RetreatSignup(ctx context.Context, sessionID string) (*models.SignupSession, error)
	// UploadDocument streams a file to the storage collaborator and records
	// the returned URL under the given wizard data key.
	UploadDocument(ctx context.Context, sessionID, key string, file io.Reader) (*models.SignupSession, error)
	CompleteSignup(ctx context.Context, sessionID string) (*models.User, error)
}

// DefaultSignupService implements SignupService with Redis-backed sessions.
type DefaultSignupService struct {
	Repo       userRepo.UserRepository
	Storage    storage.StorageService
	Cache      *redis.Client
	SessionTTL time.Duration
	Flow       *wizard.Machine
	Logger     *zap.Logger
}

func (s *DefaultSignupService) StartSignup(ctx context.Context) (*models.SignupSession, error) {
	session := &models.SignupSession{
		SessionID: uuid.New().String(),
		Wizard:    s.Flow.Start(),
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultSignupService) UpdateSignup(ctx context.Context, sessionID string, partial models.WizardData) (*models.SignupSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Wizard = s.Flow.UpdateData(session.Wizard, partial)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultSignupService) AdvanceSignup(ctx context.Context, sessionID string) (*models.SignupSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := s.Flow.Advance(session.Wizard)
	if err != nil {
		// Validation failures stay at the current step; the caller surfaces
		// them inline.
		return session, err
	}
	session.Wizard = next
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultSignupService) RetreatSignup(ctx context.Context, sessionID string) (*models.SignupSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Wizard = s.Flow.Retreat(session.Wizard)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultSignupService) UploadDocument(ctx context.Context, sessionID, key string, file io.Reader) (*models.SignupSession, error) {
	if key != KeyIDDoc && key != KeyBarDoc {
		return nil, fmt.Errorf("unknown document slot %q", key)
	}
	url, err := s.Storage.Upload(ctx, file, "signup")
	if err != nil {
		return nil, fmt.Errorf("document upload failed: %w", err)
	}
	return s.UpdateSignup(ctx, sessionID, models.WizardData{key: url})
}

func (s *DefaultSignupService) CompleteSignup(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Flow.Complete(session.Wizard); err != nil {
		return nil, err
	}

	data := session.Wizard.Data
	hash, err := bcrypt.GenerateFromPassword([]byte(stringField(data, KeyPassword)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Role:         stringField(data, KeyRole),
		FirstName:    stringField(data, KeyFirstName),
		LastName:     stringField(data, KeyLastName),
		Email:        stringField(data, KeyEmail),
		PhoneNumber:  stringField(data, KeyPhone),
		PasswordHash: string(hash),
		IdentityDoc:  stringField(data, KeyIDDoc),
		BarCouncilID: stringField(data, KeyBarID),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.deleteSession(ctx, sessionID); err != nil {
		s.Logger.Warn("failed to delete completed signup session",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
	s.Logger.Info("signup completed", zap.String("userId", u.ID), zap.String("role", u.Role))
	return u, nil
}

// --- session persistence ---

func (s *DefaultSignupService) loadSession(ctx context.Context, sessionID string) (*models.SignupSession, error) {
	data, err := s.Cache.Get(ctx, signupKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("signup session not found or expired: %w", err)
	}
	var session models.SignupSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse signup session: %w", err)
	}
	return &session, nil
}

func (s *DefaultSignupService) saveSession(ctx context.Context, session *models.SignupSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal signup session: %w", err)
	}
	if err := s.Cache.Set(ctx, signupKey(session.SessionID), data, s.SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store signup session: %w", err)
	}
	return nil
}

func (s *DefaultSignupService) deleteSession(ctx context.Context, sessionID string) error {
	return s.Cache.Del(ctx, signupKey(sessionID)).Err()
}

func signupKey(sessionID string) string {
	return "signup:session:" + sessionID
}
