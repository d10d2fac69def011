package service

import (
	"context"
	"strings"
	"time"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"
	"rpl-backend/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type LoginRequestDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type LoginResult struct {
	Token        string `json:"token"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	ViewUnitcode string `json:"view_unitcode"`
}

// AuthService handles staff login. There is no registration flow:
// the studentservices account and one account per valid UWA unit code
// are provisioned on first login, mirroring how reviewer access works.
type AuthService interface {
	Login(ctx context.Context, req LoginRequestDTO) (*LoginResult, error)
}

type authService struct {
	accounts repository.AccountRepository
	catalog  UnitCatalog
	secret   []byte
}

func NewAuthService(accounts repository.AccountRepository, catalog UnitCatalog, secret []byte) AuthService {
	return &authService{accounts: accounts, catalog: catalog, secret: secret}
}

func (s *authService) Login(ctx context.Context, req LoginRequestDTO) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperr.New(apperr.Validation, "username and password are required")
	}

	viewUnitcode := ""
	switch {
	case strings.EqualFold(username, model.RoleStudentServices):
		// central reviewer, sees every application
	case s.catalog.IsValidUnitCode(ctx, username):
		viewUnitcode = username
	default:
		return nil, apperr.New(apperr.Forbidden, "login failed: invalid account")
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if !apperr.IsKind(err, apperr.NotFound) {
			return nil, err
		}
		// First login provisions the account.
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, apperr.Wrap(apperr.Validation, hashErr, "unusable password")
		}
		account = &model.Account{
			Username:     username,
			Password:     string(hashed),
			ViewUnitcode: viewUnitcode,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, err
		}
	} else if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)) != nil {
		return nil, apperr.New(apperr.Forbidden, "incorrect password")
	}

	token, err := s.issueToken(account, req.Remember)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:        token,
		Username:     account.Username,
		Role:         account.Role(),
		ViewUnitcode: account.ViewUnitcode,
	}, nil
}

func (s *authService) issueToken(account *model.Account, remember bool) (string, error) {
	ttl := 24 * time.Hour
	if remember {
		ttl = 30 * 24 * time.Hour
	}
	claims := jwt.MapClaims{
		"sub":           account.Username,
		"role":          account.Role(),
		"view_unitcode": account.ViewUnitcode,
		"exp":           time.Now().Add(ttl).Unix(),
		"iat":           time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Storage, err, "signing token")
	}
	return signed, nil
}
