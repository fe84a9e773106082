package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Team-Bodhi/bodhi/internal/auth"
	"github.com/Team-Bodhi/bodhi/internal/domain"
	"github.com/Team-Bodhi/bodhi/internal/session"
)

type authenticatorMock struct {
	user  *domain.User
	token string
	err   error
}

func (m authenticatorMock) Login(context.Context, string, string) (*domain.User, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return m.user, m.token, nil
}

func TestNavigate(t *testing.T) {
	sess := newTestSession(&stubSubmitter{})
	handler := NewSessionHandler()

	body, _ := json.Marshal(NavigateRequestDTO{Page: "book_details", Context: "b42"})
	recorder := httptest.NewRecorder()
	handler.Navigate(recorder, withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)), sess))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, session.Page("book_details"), sess.Page)
	assert.Equal(t, "b42", sess.PageContext)

	var view SessionView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Equal(t, "book_details", view.Page)
	assert.Equal(t, "IDLE", view.CheckoutStatus)
	assert.False(t, view.Authenticated)
}

func TestNavigate_MissingPage(t *testing.T) {
	sess := newTestSession(&stubSubmitter{})
	handler := NewSessionHandler()

	recorder := httptest.NewRecorder()
	handler.Navigate(recorder, withSession(httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{}`))), sess))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLogin_SetsSessionAuth(t *testing.T) {
	sess := newTestSession(&stubSubmitter{})
	sess.NavigateTo(session.PageLogin, "")
	handler := NewAuthHandler(authenticatorMock{
		user:  &domain.User{ID: "u1", Email: "jane@example.com"},
		token: "jwt-token",
	})

	body, _ := json.Marshal(LoginRequestDTO{Email: "jane@example.com", Password: "secret"})
	recorder := httptest.NewRecorder()
	handler.Login(recorder, withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)), sess))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "jwt-token", sess.Token)
	assert.Equal(t, session.PageMain, sess.Page)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	sess := newTestSession(&stubSubmitter{})
	handler := NewAuthHandler(authenticatorMock{err: auth.ErrInvalidCredentials})

	body, _ := json.Marshal(LoginRequestDTO{Email: "jane@example.com", Password: "wrong"})
	recorder := httptest.NewRecorder()
	handler.Login(recorder, withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)), sess))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, sess.Authenticated())
}

func TestLogin_KeepsCart(t *testing.T) {
	sess := newTestSession(&stubSubmitter{})
	require.NoError(t, sess.Cart.AddItem(domain.Book{ID: "b1", Title: "Dune"}, 1))
	handler := NewAuthHandler(authenticatorMock{user: &domain.User{ID: "u1"}, token: "jwt"})

	body, _ := json.Marshal(LoginRequestDTO{Email: "jane@example.com", Password: "secret"})
	recorder := httptest.NewRecorder()
	handler.Login(recorder, withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)), sess))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, sess.Cart.Len(), "pre-login cart survives login")
}

func TestLogout_ClearsAuthAndCart(t *testing.T) {
	sess := newTestSession(&stubSubmitter{})
	sess.SetAuth("jwt", &domain.User{ID: "u1"})
	require.NoError(t, sess.Cart.AddItem(domain.Book{ID: "b1", Title: "Dune"}, 1))
	handler := NewAuthHandler(authenticatorMock{})

	recorder := httptest.NewRecorder()
	handler.Logout(recorder, withSession(httptest.NewRequest("POST", "/", nil), sess))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, sess.Authenticated())
	assert.True(t, sess.Cart.IsEmpty())
}

func TestAuthUnavailable(t *testing.T) {
	sess := newTestSession(&stubSubmitter{})
	handler := NewAuthHandler(authenticatorMock{err: errors.New("connection refused")})

	body, _ := json.Marshal(LoginRequestDTO{Email: "jane@example.com", Password: "secret"})
	recorder := httptest.NewRecorder()
	handler.Login(recorder, withSession(httptest.NewRequest("POST", "/", bytes.NewReader(body)), sess))

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}
