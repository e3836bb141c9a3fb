package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	repotest "github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	"github.com/yungbote/recipebook-backend/internal/pkg/ctxutil"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims JWTClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuthServiceRoundTrip(t *testing.T) {
	as := NewAuthService(repotest.Logger(t), nil, testSecret, time.Minute)
	id := uuid.New()
	tok, err := as.IssueAccessToken(id)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	ctx, err := as.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.UserID(ctx); got != id {
		t.Fatalf("user id: want=%s got=%s", id, got)
	}
}

func TestAuthServiceAcceptsUserIDClaim(t *testing.T) {
	as := NewAuthService(repotest.Logger(t), nil, testSecret, time.Minute)
	id := uuid.New()
	tok := sign(t, JWTClaims{
		UserID:           id.String(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}, jwt.SigningMethodHS256, []byte(testSecret))
	ctx, err := as.SetContextFromToken(context.Background(), tok)
	if err != nil || ctxutil.UserID(ctx) != id {
		t.Fatalf("user_id claim: want=%s got=%s err=%v", id, ctxutil.UserID(ctx), err)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	as := NewAuthService(repotest.Logger(t), nil, testSecret, time.Minute)
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))
	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"wrong secret": sign(t, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString(), ExpiresAt: exp}}, jwt.SigningMethodHS256, []byte("other")),
		"expired": sign(t, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}, jwt.SigningMethodHS256, []byte(testSecret)),
		"no expiry":  sign(t, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()}}, jwt.SigningMethodHS256, []byte(testSecret)),
		"no subject": sign(t, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}, jwt.SigningMethodHS256, []byte(testSecret)),
		"hs512":      sign(t, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString(), ExpiresAt: exp}}, jwt.SigningMethodHS512, []byte(testSecret)),
	}
	for name, tok := range cases {
		if _, err := as.SetContextFromToken(context.Background(), tok); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestAuthServiceResolvesExternalAuthID(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	user := repotest.SeedUser(t, context.Background(), tx)
	as := NewAuthService(repotest.Logger(t), repos.NewUserRepo(tx, repotest.Logger(t)), testSecret, time.Minute)

	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))
	tok := sign(t, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: user.AuthID, ExpiresAt: exp}}, jwt.SigningMethodHS256, []byte(testSecret))
	ctx, err := as.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != user.ID || rd.AuthID != user.AuthID {
		t.Fatalf("request data: got=%+v", rd)
	}

	unknown := sign(t, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "auth|missing", ExpiresAt: exp}}, jwt.SigningMethodHS256, []byte(testSecret))
	if _, err := as.SetContextFromToken(context.Background(), unknown); err == nil {
		t.Fatalf("unknown auth id: expected error")
	}
}
