package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/partytreasury/internal/adapter/http/dto"
	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/usecase"
)

type userServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	authFn   func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	updateFn func(ctx context.Context, input usecase.UpdateUserInput) (*domain.User, error)
}

func (s *userServiceStub) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return s.authFn(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *userServiceStub) UpdateUser(ctx context.Context, input usecase.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, input)
}

type tokenIssuerStub struct {
	token string
	err   error
}

func (s tokenIssuerStub) Generate(user *domain.User) (string, error) {
	return s.token, s.err
}

func TestAuthHandler_Register(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: input.Email, Name: input.Name}, nil
		},
	}, tokenIssuerStub{token: "jwt"})

	body := `{"email":"bard@party.test","name":"Bard","password":"lute-solo"}`
	rec := httptest.NewRecorder()
	h.Register(rec, newRequest(http.MethodPost, "/", body, requestOpts{}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, "bard@party.test", resp.User.Email)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}, tokenIssuerStub{token: "jwt"})

	rec := httptest.NewRecorder()
	h.Register(rec, newRequest(http.MethodPost, "/", `{"email":"a@b.c","name":"A","password":"x"}`, requestOpts{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		authErr    error
		tokenErr   error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "bad password", authErr: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "inactive", authErr: domain.ErrInactiveUser, wantStatus: http.StatusUnauthorized},
		{name: "token failure", tokenErr: errors.New("signing failed"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&userServiceStub{
				authFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
					if tt.authErr != nil {
						return nil, tt.authErr
					}
					return &domain.User{ID: "u1", Email: input.Email}, nil
				},
			}, tokenIssuerStub{token: "jwt", err: tt.tokenErr})

			rec := httptest.NewRecorder()
			h.Login(rec, newRequest(http.MethodPost, "/", `{"email":"a@b.c","password":"pw"}`, requestOpts{}))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "rogue@party.test"}, nil
		},
	}, tokenIssuerStub{})

	rec := httptest.NewRecorder()
	h.Me(rec, newRequest(http.MethodGet, "/", "", requestOpts{userID: "u7"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"u7"`)
}
