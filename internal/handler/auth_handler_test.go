package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "bookworm/internal/errors"
	"bookworm/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, username, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	user := &model.User{
		ID:           uuid.New(),
		Email:        "a@b.com",
		Username:     "alice123",
		ProfileImage: "https://api.dicebear.com/9.x/open-peeps/svg",
	}

	t.Run("successful registration", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Register", mock.Anything, "a@b.com", "alice123", "password123").
			Return("signed-token", user, nil)

		e := newEcho()
		e.POST("/api/auth/register", NewAuthHandler(mockSvc).Register)

		rec := doJSON(e, http.MethodPost, "/api/auth/register",
			`{"email":"a@b.com","username":"alice123","password":"password123"}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, "alice123", resp.User.Username)
	})

	t.Run("duplicate user yields 400", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Register", mock.Anything, "a@b.com", "alice123", "password123").
			Return("", nil, apperrors.ErrUserExists)

		e := newEcho()
		e.POST("/api/auth/register", NewAuthHandler(mockSvc).Register)

		rec := doJSON(e, http.MethodPost, "/api/auth/register",
			`{"email":"a@b.com","username":"alice123","password":"password123"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "message")
	})

	t.Run("short password never reaches the service", func(t *testing.T) {
		mockSvc := new(MockAuthService)

		e := newEcho()
		e.POST("/api/auth/register", NewAuthHandler(mockSvc).Register)

		rec := doJSON(e, http.MethodPost, "/api/auth/register",
			`{"email":"a@b.com","username":"alice123","password":"short"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("wrong password yields 400 and no token", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Login", mock.Anything, "a@b.com", "wrong-password").
			Return("", nil, apperrors.ErrInvalidCredentials)

		e := newEcho()
		e.POST("/api/auth/login", NewAuthHandler(mockSvc).Login)

		rec := doJSON(e, http.MethodPost, "/api/auth/login",
			`{"email":"a@b.com","password":"wrong-password"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotContains(t, rec.Body.String(), "token")
	})

	t.Run("unknown email yields 400", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Login", mock.Anything, "nobody@b.com", "password123").
			Return("", nil, apperrors.ErrUserNotFound)

		e := newEcho()
		e.POST("/api/auth/login", NewAuthHandler(mockSvc).Login)

		rec := doJSON(e, http.MethodPost, "/api/auth/login",
			`{"email":"nobody@b.com","password":"password123"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "user does not exist")
	})

	t.Run("malformed email is looked up, not rejected by validation", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Login", mock.Anything, "not-an-email", "password123").
			Return("", nil, apperrors.ErrUserNotFound)

		e := newEcho()
		e.POST("/api/auth/login", NewAuthHandler(mockSvc).Login)

		rec := doJSON(e, http.MethodPost, "/api/auth/login",
			`{"email":"not-an-email","password":"password123"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "user does not exist")
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing email never reaches the service", func(t *testing.T) {
		mockSvc := new(MockAuthService)

		e := newEcho()
		e.POST("/api/auth/login", NewAuthHandler(mockSvc).Login)

		rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"password":"password123"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}
