package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
	"github.com/iho/partytreasury/internal/usecase/mocks"
)

type userRepoStub struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	lookErr error
	created []*domain.User
	updated []*domain.User
}

func newUserRepoStub(users ...*domain.User) *userRepoStub {
	s := &userRepoStub{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
	}
	return s
}

func (s *userRepoStub) Create(_ context.Context, user *domain.User) error {
	stored := *user
	s.created = append(s.created, &stored)
	return nil
}

func (s *userRepoStub) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.lookErr != nil {
		return nil, s.lookErr
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *userRepoStub) Update(_ context.Context, user *domain.User) error {
	stored := *user
	s.updated = append(s.updated, &stored)
	return nil
}

func newUserUseCase(repo *userRepoStub, opts ...usecase.UserOption) *usecase.UserUseCase {
	opts = append([]usecase.UserOption{usecase.WithPasswordCost(bcrypt.MinCost)}, opts...)
	return usecase.NewUserUseCase(repo, mocks.NewMockIDGenerator(), opts...)
}

func hashedUser(t *testing.T, id, email, password string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: id, Email: email, Name: "Mira", HashedPassword: string(hash), Active: active}
}

func TestUserUseCase_CreateUser(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newUserRepoStub()
	uc := newUserUseCase(repo, usecase.WithUserClock(func() time.Time { return stamp }))

	user, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		Email:    "  Bard@Example.COM ",
		Name:     " Bard ",
		Password: "StrongPass1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "bard@example.com", user.Email)
	assert.Equal(t, "Bard", user.Name)
	assert.Empty(t, user.HashedPassword)
	assert.Equal(t, stamp, user.CreatedAt)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.True(t, stored.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("StrongPass1")))
	cost, err := bcrypt.Cost([]byte(stored.HashedPassword))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestUserUseCase_CreateUser_DefaultsNameToEmailLocalPart(t *testing.T) {
	t.Parallel()

	uc := newUserUseCase(newUserRepoStub())
	user, err := uc.CreateUser(context.Background(), usecase.CreateUserInput{
		Email:    "rogue@party.test",
		Name:     "   ",
		Password: "StrongPass1",
	})
	require.NoError(t, err)
	assert.Equal(t, "rogue", user.Name)
}

func TestUserUseCase_CreateUser_Rejects(t *testing.T) {
	t.Parallel()

	existing := &domain.User{ID: "u1", Email: "taken@party.test"}

	tests := []struct {
		name    string
		lookErr error
		input   usecase.CreateUserInput
		wantErr error
	}{
		{
			name:    "invalid email",
			input:   usecase.CreateUserInput{Email: "invalid-email", Password: "StrongPass1"},
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name:    "weak password",
			input:   usecase.CreateUserInput{Email: "new@party.test", Password: "weak"},
			wantErr: domain.ErrPasswordTooWeak,
		},
		{
			name:    "email taken",
			input:   usecase.CreateUserInput{Email: "Taken@party.test", Password: "StrongPass1"},
			wantErr: domain.ErrEmailTaken,
		},
		{
			name:    "lookup failure",
			lookErr: domain.NewStoreError("get user", errors.New("connection reset")),
			input:   usecase.CreateUserInput{Email: "new@party.test", Password: "StrongPass1"},
			wantErr: domain.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newUserRepoStub(existing)
			repo.lookErr = tt.lookErr
			uc := newUserUseCase(repo)

			_, err := uc.CreateUser(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.created)
		})
	}
}

func TestUserUseCase_Authenticate(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub(hashedUser(t, "u1", "mira@party.test", "StrongPass1", true))
	uc := newUserUseCase(repo)

	user, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    " MIRA@party.test",
		Password: "StrongPass1",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.HashedPassword)
}

func TestUserUseCase_AuthenticateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		active   bool
		email    string
		password string
		lookErr  error
		wantErr  error
	}{
		{name: "inactive", active: false, email: "mira@party.test", password: "StrongPass1", wantErr: domain.ErrInactiveUser},
		{name: "wrong password", active: true, email: "mira@party.test", password: "WrongPass1", wantErr: domain.ErrUnauthorized},
		{name: "unknown email", active: true, email: "ghost@party.test", password: "StrongPass1", wantErr: domain.ErrUnauthorized},
		{
			name:     "store failure surfaces",
			active:   true,
			email:    "mira@party.test",
			password: "StrongPass1",
			lookErr:  domain.NewStoreError("get user", errors.New("timeout")),
			wantErr:  domain.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newUserRepoStub(hashedUser(t, "u1", "mira@party.test", "StrongPass1", tt.active))
			repo.lookErr = tt.lookErr
			uc := newUserUseCase(repo)

			_, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
				Email:    tt.email,
				Password: tt.password,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserUseCase_GetUser(t *testing.T) {
	t.Parallel()

	uc := newUserUseCase(newUserRepoStub(&domain.User{ID: "u1", HashedPassword: "secret"}))

	user, err := uc.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, user.HashedPassword)

	_, err = uc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserUseCase_UpdateUser(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	repo := newUserRepoStub(&domain.User{ID: "u1", Name: "Mira", Active: true, HashedPassword: "old"})
	uc := newUserUseCase(repo, usecase.WithUserClock(func() time.Time { return stamp }))

	name := " Mira the Bold "
	password := "NewStrong1"
	user, err := uc.UpdateUser(context.Background(), usecase.UpdateUserInput{
		ID:       "u1",
		Name:     &name,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Empty(t, user.HashedPassword)

	require.Len(t, repo.updated, 1)
	saved := repo.updated[0]
	assert.Equal(t, "Mira the Bold", saved.Name)
	assert.True(t, saved.Active)
	assert.Equal(t, stamp, saved.UpdatedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.HashedPassword), []byte(password)))
}

func TestUserUseCase_UpdateUser_Rejects(t *testing.T) {
	t.Parallel()

	blank := "  "
	weak := "weak"

	tests := []struct {
		name    string
		input   usecase.UpdateUserInput
		wantErr error
	}{
		{name: "blank name", input: usecase.UpdateUserInput{ID: "u1", Name: &blank}, wantErr: domain.ErrInvalidArgument},
		{name: "weak password", input: usecase.UpdateUserInput{ID: "u1", Password: &weak}, wantErr: domain.ErrPasswordTooWeak},
		{name: "missing user", input: usecase.UpdateUserInput{ID: "nobody", Name: &blank}, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newUserRepoStub(&domain.User{ID: "u1", Name: "Mira"})
			uc := newUserUseCase(repo)

			_, err := uc.UpdateUser(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.updated)
		})
	}
}
