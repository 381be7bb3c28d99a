package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-cms/auth-service/internal/dto"
	"github.com/inkwell-cms/auth-service/internal/utils"
)

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Data    dto.AuthData `json:"data"`
}

func (s *Suite) postJSON(path string, body any) *http.Response {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(raw))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) decode(resp *http.Response) envelope {
	defer resp.Body.Close()

	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func (s *Suite) register(email string) envelope {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:    email,
		Password: "Password123",
		FullName: "Acceptance Reader",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	return s.decode(resp)
}

func (s *Suite) TestRegister_Success() {
	env := s.register("test@example.com")

	s.True(env.Success)
	s.Equal("test@example.com", env.Data.User.Email)
	s.Equal("client", env.Data.User.Role)
	s.NotEmpty(env.Data.Tokens.AccessToken)
	s.NotEmpty(env.Data.Tokens.RefreshToken)
	s.NotZero(env.Data.Tokens.ExpiresIn)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("duplicate@example.com")

	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:    "duplicate@example.com",
		Password: "Password123",
		FullName: "Copycat",
	})
	env := s.decode(resp)

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.False(env.Success)
	s.Equal(dto.CodeDuplicateEntry, env.Code)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:    "invalid-email",
		Password: "Password123",
		FullName: "Bad Email",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_WeakPassword() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:    "weak@example.com",
		Password: "alllowercase",
		FullName: "Weak Password",
	})
	env := s.decode(resp)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(dto.CodeValidationError, env.Code)
}

func (s *Suite) TestLogin_Success() {
	s.register("login@example.com")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "Password123",
	})
	env := s.decode(resp)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)
	s.NotEmpty(env.Data.Tokens.RefreshToken)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("wrongpass@example.com")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword1",
	})
	env := s.decode(resp)

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.False(env.Success)
}

func (s *Suite) TestRefresh_RotatesAndDetectsReuse() {
	registered := s.register("rotate@example.com")
	first := registered.Data.Tokens.RefreshToken

	resp := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: first})
	env := s.decode(resp)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	second := env.Data.Tokens.RefreshToken
	s.NotEqual(first, second)

	// Replaying the first token is reuse; it kills the successor too.
	resp = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: first})
	env = s.decode(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(dto.CodeInvalidToken, env.Code)

	resp = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: second})
	env = s.decode(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(dto.CodeInvalidToken, env.Code)
}

func (s *Suite) TestProfile() {
	registered := s.register("profile@example.com")

	req, err := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/auth/profile", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+registered.Data.Tokens.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var env struct {
		Data dto.UserResponse `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	s.Equal("profile@example.com", env.Data.Email)
}

func (s *Suite) TestResetPassword_EndToEnd() {
	registered := s.register("reset@example.com")

	// Plant a reset token directly; delivery is out of band in production.
	raw, err := utils.NewOpaqueToken()
	s.Require().NoError(err)
	_, err = s.Postgres.DB.Exec(
		`INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), registered.Data.User.ID, utils.HashToken(raw), time.Now().Add(30*time.Minute),
	)
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Token:       raw,
		NewPassword: "FreshPassword1",
	})
	env := s.decode(resp)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)

	// New password works, old sessions are gone.
	resp = s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "FreshPassword1",
	})
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: registered.Data.Tokens.RefreshToken,
	})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// The token is single use.
	resp = s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Token:       raw,
		NewPassword: "AnotherPassword1",
	})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
