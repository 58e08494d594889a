package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/internal/service"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type accountStoreMock struct {
	account *models.Account
}

func (m *accountStoreMock) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.account == nil || m.account.Email != email {
		return nil, mongo.ErrNoDocuments
	}
	clone := *m.account
	return &clone, nil
}

func (m *accountStoreMock) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	return nil
}

type resolverMock struct {
	user *models.DirectoryUser
}

func (m *resolverMock) Resolve(ctx context.Context, email string) (*models.DirectoryUser, error) {
	if m.user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found in any collection")
	}
	return m.user, nil
}

func newAuthFixture(account *models.Account, user *models.DirectoryUser) *AuthHandler {
	svc := service.NewAuthService(&accountStoreMock{account: account}, &resolverMock{user: user}, nil, nil, service.AuthConfig{
		Secret: "test-secret",
		Issuer: "attendance-admin-api",
	})
	return NewAuthHandler(svc)
}

func postLogin(handler *AuthHandler, payload []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handler.Login(c)
	return w
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.Account{Email: "admin@school.edu", PasswordHash: string(hash)}
	user := &models.DirectoryUser{Role: models.RoleAdmin, Admin: &models.Admin{Email: "admin@school.edu", Active: true}}
	handler := newAuthFixture(account, user)

	body, _ := json.Marshal(models.LoginRequest{Email: "admin@school.edu", Password: "s3cret"})
	w := postLogin(handler, body)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data *models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, models.RoleAdmin, envelope.Data.User.Role)
}

func TestAuthHandlerLoginUnknownAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthFixture(nil, nil)

	body, _ := json.Marshal(models.LoginRequest{Email: "ghost@school.edu", Password: "s3cret"})
	w := postLogin(handler, body)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, envelope.Error.Code)
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthFixture(nil, nil)

	w := postLogin(handler, []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
