package service

import (
	"context"
	"testing"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"
	"rpl-backend/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-signing-secret")

func newAuth(t *testing.T, catalog *stubCatalog) (AuthService, repository.AccountRepository) {
	t.Helper()
	db := newTestDB(t)
	accounts := repository.NewAccountRepository(db)
	return NewAuthService(accounts, catalog, testSecret), accounts
}

func TestLoginProvisionsStudentServicesOnFirstUse(t *testing.T) {
	auth, accounts := newAuth(t, &stubCatalog{})
	ctx := context.Background()

	result, err := auth.Login(ctx, LoginRequestDTO{Username: "studentservices", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudentServices, result.Role)
	assert.Empty(t, result.ViewUnitcode)
	assert.NotEmpty(t, result.Token)

	// The stored password is hashed, not the plaintext.
	account, err := accounts.FindByUsername(ctx, "studentservices")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", account.Password)

	// Same credentials keep working; different ones are refused.
	_, err = auth.Login(ctx, LoginRequestDTO{Username: "studentservices", Password: "hunter2"})
	require.NoError(t, err)
	_, err = auth.Login(ctx, LoginRequestDTO{Username: "studentservices", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestLoginProvisionsCoordinatorForValidUnitCode(t *testing.T) {
	catalog := &stubCatalog{units: map[string]*model.UnitInfo{
		"CITS1001": {Code: "CITS1001", Name: "Software Engineering with Java"},
	}}
	auth, _ := newAuth(t, catalog)

	result, err := auth.Login(context.Background(), LoginRequestDTO{Username: "CITS1001", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUnitCoordinator, result.Role)
	assert.Equal(t, "CITS1001", result.ViewUnitcode)
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	auth, _ := newAuth(t, &stubCatalog{})

	_, err := auth.Login(context.Background(), LoginRequestDTO{Username: "CITS9999", Password: "secret"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestLoginRequiresCredentials(t *testing.T) {
	auth, _ := newAuth(t, &stubCatalog{})

	_, err := auth.Login(context.Background(), LoginRequestDTO{Username: " ", Password: "x"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = auth.Login(context.Background(), LoginRequestDTO{Username: "studentservices", Password: ""})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestLoginTokenCarriesClaims(t *testing.T) {
	catalog := &stubCatalog{units: map[string]*model.UnitInfo{
		"CITS1001": {Code: "CITS1001"},
	}}
	auth, _ := newAuth(t, catalog)

	result, err := auth.Login(context.Background(), LoginRequestDTO{Username: "CITS1001", Password: "secret"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(result.Token, func(tok *jwt.Token) (interface{}, error) {
		return testSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "CITS1001", claims["sub"])
	assert.Equal(t, model.RoleUnitCoordinator, claims["role"])
	assert.Equal(t, "CITS1001", claims["view_unitcode"])
	assert.NotNil(t, claims["exp"])
}
