package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"meetreg/internal/domain"
)

// DefaultTokenTTL is the lifetime of issued team tokens.
const DefaultTokenTTL = 12 * time.Hour

// AuthService authenticates teams by org code and issues HS256 tokens.
// Team resolution always goes through the store; there is no static
// org-code→team table.
type AuthService struct {
	teams    domain.TeamRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewAuthService(teams domain.TeamRepository, secret []byte, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{teams: teams, secret: secret, tokenTTL: tokenTTL, logger: logger}
}

// Login verifies the org code and password and returns a signed token plus
// the team. Unknown org codes and wrong passwords both map to the same
// AuthorizationError so callers cannot probe for valid codes.
func (s *AuthService) Login(ctx context.Context, orgCode, password string) (string, *domain.Team, error) {
	team, err := s.teams.GetByOrgCode(ctx, orgCode)
	if err != nil {
		if _, ok := err.(*domain.NotFoundError); ok {
			return "", nil, domain.ErrAuthorization("invalid org code or password")
		}
		return "", nil, err
	}
	if team.Status != domain.TeamStatusActive {
		return "", nil, domain.ErrAuthorization("team %q is not active", orgCode)
	}
	if bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrAuthorization("invalid org code or password")
	}

	token, err := s.issue(domain.Principal{TeamID: team.ID, Role: domain.RoleTeam})
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("team logged in", "team_id", team.ID, "org_code", orgCode)
	return token, team, nil
}

// Refresh issues a fresh token for an already-authenticated principal.
func (s *AuthService) Refresh(ctx context.Context, p domain.Principal) (string, error) {
	if p.Role == domain.RoleTeam {
		team, err := s.teams.GetByID(ctx, p.TeamID)
		if err != nil {
			return "", notFoundAs(err, "team %d not found", p.TeamID)
		}
		if team.Status != domain.TeamStatusActive {
			return "", domain.ErrAuthorization("team %d is not active", p.TeamID)
		}
	}
	return s.issue(p)
}

// SetPassword stores a bcrypt hash of the new password for the team.
func (s *AuthService) SetPassword(ctx context.Context, teamID int64, password string) error {
	if len(password) < 8 {
		return domain.ErrValidation("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.teams.SetPasswordHash(ctx, teamID, string(hash))
}

// Issue creates a token for an arbitrary principal. Used by the admin CLI.
func (s *AuthService) Issue(p domain.Principal) (string, error) {
	return s.issue(p)
}

func (s *AuthService) issue(p domain.Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(p.TeamID, 10),
		"role": p.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
