package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipebook-backend/internal/data/aggregates"
	"github.com/yungbote/recipebook-backend/internal/data/repos"
	repotest "github.com/yungbote/recipebook-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/recipebook-backend/internal/domain/aggregates"
	httpH "github.com/yungbote/recipebook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/recipebook-backend/internal/http/middleware"
	"github.com/yungbote/recipebook-backend/internal/http/response"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/services"
)

type apiFixture struct {
	tx     *gorm.DB
	engine *gin.Engine
	auth   services.AuthService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)
	r := repos.NewRecipeRepos(tx, log)
	agg := aggregates.NewRecipeAggregate(aggregates.RecipeAggregateDepsFromRepos(aggregates.BaseDeps{
		DB:     tx,
		Log:    log,
		Runner: aggregates.NewGormTxRunner(tx),
	}, r))
	auth := services.NewAuthService(log, r.Users, "router-test-secret", time.Minute)
	engine := NewRouter(RouterConfig{
		Log:            log,
		Metrics:        observability.NewMetrics(),
		AuthMiddleware: httpMW.NewAuthMiddleware(log, auth),
		RecipeHandler:  httpH.NewRecipeHandler(services.NewRecipeService(tx, log, agg, r, nil)),
		HealthHandler:  httpH.NewHealthHandler(nil),
	})
	return &apiFixture{tx: tx, engine: engine, auth: auth}
}

func (f *apiFixture) do(t *testing.T, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		tok, err := f.auth.IssueAccessToken(userID)
		if err != nil {
			t.Fatalf("IssueAccessToken: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorEnvelope {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestRecipeAPILifecycle(t *testing.T) {
	f := newAPIFixture(t)
	user := seedAPIUser(t, f)

	body := map[string]any{
		"title":       "Curry",
		"ingredients": []map[string]any{{"name": "onion"}},
		"steps":       []map[string]any{{"orderIndex": 0, "instruction": "fry onion", "timerSeconds": 300}},
		"sourceInfo":  map[string]any{"url": "https://example.com/curry"},
	}
	rec := f.do(t, http.MethodPost, "/api/recipes", user, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: want=201 got=%d body=%s", rec.Code, rec.Body.String())
	}
	var created domainagg.RecipeWriteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.RecipeID == uuid.Nil {
		t.Fatalf("create body: %s err=%v", rec.Body.String(), err)
	}
	path := "/api/recipes/" + created.RecipeID.String()

	rec = f.do(t, http.MethodGet, path, user, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "fry onion") {
		t.Fatalf("get: status=%d body=%s", rec.Code, rec.Body.String())
	}

	child := f.do(t, http.MethodPost, "/api/recipes", user, map[string]any{
		"title":        "Curry Rice",
		"childRecipes": []map[string]any{{"childRecipeId": created.RecipeID.String()}},
	})
	if child.Code != http.StatusCreated {
		t.Fatalf("create parent: status=%d body=%s", child.Code, child.Body.String())
	}
	var parent domainagg.RecipeWriteResult
	_ = json.Unmarshal(child.Body.Bytes(), &parent)

	rec = f.do(t, http.MethodPut, path, user, map[string]any{
		"title":        "Curry",
		"childRecipes": []map[string]any{{"childRecipeId": parent.RecipeID.String()}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("cycle update: want=400 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if env := decodeError(t, rec); env.Error.Message != "循環参照が検出されました" || env.Error.Code != "validation" {
		t.Fatalf("cycle body: got=%+v", env)
	}

	rec = f.do(t, http.MethodPut, path, user, map[string]any{"title": "Curry v2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/recipes?q=v2", user, nil)
	var list struct {
		Recipes []struct {
			ID    uuid.UUID `json:"id"`
			Title string    `json:"title"`
		} `json:"recipes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list.Recipes) != 1 || list.Recipes[0].Title != "Curry v2" {
		t.Fatalf("list: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodDelete, path, user, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: want=204 got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodGet, path, user, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: want=404 got=%d", rec.Code)
	}
}

func TestRecipeAPIRejectsBadInput(t *testing.T) {
	f := newAPIFixture(t)
	user := seedAPIUser(t, f)

	rec := f.do(t, http.MethodPost, "/api/recipes", user, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: want=400 got=%d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/api/recipes", user, map[string]any{"title": ""})
	if env := decodeError(t, rec); rec.Code != http.StatusBadRequest || env.Error.Message != "タイトルは必須です" {
		t.Fatalf("blank title: status=%d body=%+v", rec.Code, env)
	}
	rec = f.do(t, http.MethodPut, "/api/recipes/not-a-uuid", user, map[string]any{"title": "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("bad id: want=404 got=%d", rec.Code)
	}
}

func TestRecipeAPIAuthAndIsolation(t *testing.T) {
	f := newAPIFixture(t)
	owner := seedAPIUser(t, f)
	other := seedAPIUser(t, f)

	rec := f.do(t, http.MethodGet, "/api/recipes", uuid.Nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want=401 got=%d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/recipes", owner, map[string]any{"title": "private"})
	var created domainagg.RecipeWriteResult
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	path := "/api/recipes/" + created.RecipeID.String()

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		if rec := f.do(t, method, path, other, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("%s as other user: want=404 got=%d", method, rec.Code)
		}
	}
	if rec := f.do(t, http.MethodPut, path, other, map[string]any{"title": "hijack"}); rec.Code != http.StatusNotFound {
		t.Fatalf("PUT as other user: want=404 got=%d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, path, owner, nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "private") {
		t.Fatalf("owner read: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	f := newAPIFixture(t)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: status=%d body=%q", rec.Code, rec.Body.String())
	}
	rec = httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "rb_api_requests_total") {
		t.Fatalf("metrics: status=%d", rec.Code)
	}
}

func TestHealthCheckPingsDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewRouter(RouterConfig{HealthHandler: httpH.NewHealthHandler(repotest.DB(t))})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck with db: want=200 got=%d body=%q", rec.Code, rec.Body.String())
	}
}

func seedAPIUser(t *testing.T, f *apiFixture) uuid.UUID {
	t.Helper()
	return repotest.SeedUser(t, context.Background(), f.tx).ID
}
