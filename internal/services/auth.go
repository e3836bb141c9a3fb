package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipebook-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipebook-backend/internal/pkg/logger"
)

// JWTClaims accepts the user id as the standard subject or as a user_id claim.
// A subject that is not a uuid is treated as an external auth id.
type JWTClaims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueAccessToken(userID uuid.UUID) (string, error)
}

type authService struct {
	log          *logger.Logger
	users        repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger, users repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		users:        users,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) IssueAccessToken(userID uuid.UUID) (string, error) {
	if strings.TrimSpace(as.jwtSecretKey) == "" {
		return "", fmt.Errorf("missing jwt secret")
	}
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, fmt.Errorf("missing token")
	}
	if strings.TrimSpace(as.jwtSecretKey) == "" {
		return ctx, fmt.Errorf("auth not configured")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}

	subject := strings.TrimSpace(claims.UserID)
	if subject == "" {
		subject = strings.TrimSpace(claims.Subject)
	}
	if subject == "" {
		return ctx, fmt.Errorf("token carries no subject")
	}

	rd := &ctxutil.RequestData{}
	if id, err := uuid.Parse(subject); err == nil {
		rd.UserID = id
	} else {
		if as.users == nil {
			return ctx, fmt.Errorf("invalid user id in token")
		}
		u, err := as.users.GetByAuthID(dbctx.Context{Ctx: ctx}, subject)
		if err != nil {
			as.log.Warn("auth id lookup failed", "auth_id", subject, "error", err)
			return ctx, fmt.Errorf("failed to resolve user")
		}
		if u == nil {
			return ctx, fmt.Errorf("unknown user")
		}
		rd.UserID = u.ID
		rd.AuthID = subject
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}
