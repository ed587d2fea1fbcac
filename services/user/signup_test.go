package user

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "lexbook/database/repository/user"
	"lexbook/models"
	"lexbook/services/wizard"
)

type fakeUserRepo struct {
	created []*models.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = "user-1"
	}
	copied := *u
	r.created = append(r.created, &copied)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range r.created {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.created {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

type fakeStorage struct {
	uploads int
}

func (s *fakeStorage) Upload(_ context.Context, _ io.Reader, category string) (string, error) {
	s.uploads++
	return "https://cdn.test/" + category + "/doc.pdf", nil
}

func newSignupService(t *testing.T) (*DefaultSignupService, *fakeUserRepo, *fakeStorage) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &fakeUserRepo{}
	store := &fakeStorage{}
	svc := &DefaultSignupService{
		Repo:       repo,
		Storage:    store,
		Cache:      cache,
		SessionTTL: 30 * time.Minute,
		Flow:       NewSignupFlow(),
		Logger:     zap.NewNop(),
	}
	return svc, repo, store
}

func TestClientSignupFlow(t *testing.T) {
	svc, repo, _ := newSignupService(t)
	ctx := context.Background()

	session, err := svc.StartSignup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Wizard.Current)
	assert.Equal(t, 4, session.Wizard.Total)

	// The role gate is closed until a valid role arrives.
	_, err = svc.AdvanceSignup(ctx, session.SessionID)
	var ve *wizard.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Name)

	session, err = svc.UpdateSignup(ctx, session.SessionID, models.WizardData{KeyRole: models.RoleClient})
	require.NoError(t, err)
	session, err = svc.AdvanceSignup(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Wizard.Current)

	session, err = svc.UpdateSignup(ctx, session.SessionID, models.WizardData{
		KeyFirstName: "Asha",
		KeyLastName:  "Nair",
		KeyEmail:     "asha@example.com",
		KeyPhone:     "+91900000001",
		KeyPassword:  "correct horse battery",
	})
	require.NoError(t, err)
	session, err = svc.AdvanceSignup(ctx, session.SessionID)
	require.NoError(t, err)

	session, err = svc.UploadDocument(ctx, session.SessionID, KeyIDDoc, strings.NewReader("scan"))
	require.NoError(t, err)
	assert.Contains(t, session.Wizard.Data[KeyIDDoc], "https://")

	_, err = svc.AdvanceSignup(ctx, session.SessionID)
	require.NoError(t, err)

	created, err := svc.CompleteSignup(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, created.Role)
	assert.Equal(t, "asha@example.com", created.Email)
	require.Len(t, repo.created, 1)

	// The password is stored as a bcrypt hash, never in clear.
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse battery")))

	// The session is gone after completion.
	_, err = svc.AdvanceSignup(ctx, session.SessionID)
	assert.Error(t, err)
}

func TestLawyerSignupRequiresBarDocuments(t *testing.T) {
	svc, _, _ := newSignupService(t)
	ctx := context.Background()

	session, err := svc.StartSignup(ctx)
	require.NoError(t, err)

	session, err = svc.UpdateSignup(ctx, session.SessionID, models.WizardData{
		KeyRole:      models.RoleLawyer,
		KeyFirstName: "Ravi",
		KeyLastName:  "Menon",
		KeyEmail:     "ravi@example.com",
		KeyPhone:     "+91900000002",
		KeyPassword:  "hunter2hunter2",
		KeyIDDoc:     "https://cdn.test/signup/id.pdf",
	})
	require.NoError(t, err)

	// A lawyer without bar credentials cannot complete the flow.
	_, err = svc.CompleteSignup(ctx, session.SessionID)
	var ve *wizard.ValidationError
	require.ErrorAs(t, err, &ve)

	session, err = svc.UpdateSignup(ctx, session.SessionID, models.WizardData{
		KeyBarID:  "KA/123/2020",
		KeyBarDoc: "https://cdn.test/signup/bar.pdf",
	})
	require.NoError(t, err)

	created, err := svc.CompleteSignup(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleLawyer, created.Role)
	assert.Equal(t, "KA/123/2020", created.BarCouncilID)
}

func TestUploadDocumentRejectsUnknownSlots(t *testing.T) {
	svc, _, store := newSignupService(t)
	ctx := context.Background()

	session, err := svc.StartSignup(ctx)
	require.NoError(t, err)

	_, err = svc.UploadDocument(ctx, session.SessionID, "avatar", strings.NewReader("png"))
	assert.Error(t, err)
	assert.Zero(t, store.uploads)
}

func TestRetreatSignupFloorsAtFirstStep(t *testing.T) {
	svc, _, _ := newSignupService(t)
	ctx := context.Background()

	session, err := svc.StartSignup(ctx)
	require.NoError(t, err)

	session, err = svc.RetreatSignup(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Wizard.Current)
}
