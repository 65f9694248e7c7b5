package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/auth"
	"github.com/yukikurage/roster-api/internal/config"
	"github.com/yukikurage/roster-api/internal/dto"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int64          `json:"count"`
	Token   string          `json:"token"`
	User    *dto.UserDTO    `json:"user"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func (a *apiClient) do(method, path string, body interface{}) (int, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (a *apiClient) as(token string) *apiClient {
	return &apiClient{t: a.t, engine: a.engine, token: token}
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func newTestServer(t *testing.T) (*apiClient, *gorm.DB, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		GinMode:     gin.TestMode,
		CORSOrigins: "*",
		JWT: config.JWTConfig{
			Secret:           "router-test-secret",
			ExpireHours:      1,
			CookieExpireDays: 1,
		},
		Session: config.SessionConfig{Secret: "router-session-secret"},
		Metrics: true,
	}
	registry := prometheus.NewRegistry()
	engine := New(Deps{
		Config:       cfg,
		DB:           db,
		Logger:       zap.NewNop(),
		Revocations:  auth.NewMemoryRevocationStore(),
		SessionStore: cookie.NewStore([]byte(cfg.Session.Secret)),
		Registry:     registry,
	})
	return &apiClient{t: t, engine: engine}, db, registry
}

func TestHealth(t *testing.T) {
	api, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestUnknownRoute(t *testing.T) {
	api, _, _ := newTestServer(t)

	code, env := api.do(http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api, _, _ := newTestServer(t)

	for _, path := range []string{"/api/people", "/api/teams", "/api/positions", "/api/services", "/api/auth/me"} {
		code, env := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.False(t, env.Success, path)
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	api, _, _ := newTestServer(t)

	code, env := api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@acme.test", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)
	require.NotEmpty(t, env.Token)
	require.NotNil(t, env.User)
	assert.Equal(t, "ana@acme.test", env.User.Email)
	assert.Equal(t, models.UserRoleUser, env.User.Role)

	code, env = api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana again", "email": "ana@acme.test", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, env = api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Short", "email": "short@acme.test", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@acme.test", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@acme.test", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, code)
	token := env.Token
	ana := api.as(token)

	code, env = ana.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	var me dto.UserDTO
	decodeData(t, env, &me)
	assert.Equal(t, "Ana", me.Name)

	code, _ = ana.do(http.MethodGet, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = ana.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOverlongPasswordsAreRejected(t *testing.T) {
	api, _, _ := newTestServer(t)

	code, env := api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Long", "email": "long@acme.test", "password": strings.Repeat("x", 80),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", env.Code)

	// 40 two-byte runes pass the binding rule but exceed the byte limit.
	code, env = api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Runes", "email": "runes@acme.test", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", env.Code)

	_, env = api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@acme.test", "password": "secret123",
	})
	ana := api.as(env.Token)

	code, env = ana.do(http.MethodPut, "/api/auth/password", map[string]string{
		"currentPassword": "secret123", "newPassword": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", env.Code)

	code, _ = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@acme.test", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, code)
}

func TestTokenCookieFromNonBrowserClient(t *testing.T) {
	api, _, _ := newTestServer(t)

	_, env := api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@acme.test", "password": "secret123",
	})
	require.NotEmpty(t, env.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: env.Token})
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
	w = httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrganizationRoutes(t *testing.T) {
	api, db, _ := newTestServer(t)

	_, env := api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ana", "email": "ana@acme.test", "password": "secret123",
	})
	ana := api.as(env.Token)

	code, env := ana.do(http.MethodGet, "/api/organization", nil)
	require.Equal(t, http.StatusOK, code)
	var org dto.OrganizationDTO
	decodeData(t, env, &org)
	assert.Equal(t, "Mi Organización", org.Name)

	code, _ = ana.do(http.MethodPut, "/api/organization", map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, code)

	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ana@acme.test").
		Update("role", models.UserRoleAdmin).Error)

	code, env = ana.do(http.MethodPut, "/api/organization", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &org)
	assert.Equal(t, "Acme", org.Name)
}

// TestRosterScenario walks one organization through people, teams,
// membership and scheduling, and checks a second organization is kept out.
func TestRosterScenario(t *testing.T) {
	api, db, registry := newTestServer(t)

	acme := &models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(acme).Error)

	_, env := api.do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name": "Ana", "email": "ana@acme.test", "password": "secret123", "organization": acme.ID,
	})
	require.True(t, env.Success)
	ana := api.as(env.Token)

	_, env = api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Gus", "email": "gus@globex.test", "password": "secret123",
	})
	require.True(t, env.Success)
	gus := api.as(env.Token)

	code, env := ana.do(http.MethodPost, "/api/people", map[string]string{
		"firstName": "Marta", "lastName": "Diaz", "email": "marta@acme.test",
	})
	require.Equal(t, http.StatusCreated, code)
	var person dto.PersonDTO
	decodeData(t, env, &person)
	assert.Equal(t, acme.ID, person.Organization)
	assert.Empty(t, person.Teams)

	code, env = ana.do(http.MethodPost, "/api/people", map[string]string{"firstName": "NoLast"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = ana.do(http.MethodPost, "/api/teams", map[string]interface{}{
		"name":      "Worship",
		"positions": []map[string]string{{"name": "Vocals"}, {"name": "Guitar"}},
	})
	require.Equal(t, http.StatusCreated, code)
	var team dto.TeamDTO
	decodeData(t, env, &team)
	require.Len(t, team.Positions, 2)

	teamPath := "/api/teams/" + itoa(team.ID)
	membersPath := teamPath + "/members"

	code, env = ana.do(http.MethodPost, membersPath, map[string]interface{}{"personId": person.ID})
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &team)
	require.Len(t, team.Members, 1)
	assert.Equal(t, person.ID, team.Members[0].Person.ID)
	assert.Equal(t, models.MemberRoleMember, team.Members[0].Role)

	code, env = ana.do(http.MethodPost, membersPath, map[string]interface{}{"personId": person.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, env = ana.do(http.MethodGet, "/api/people/"+itoa(person.ID), nil)
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &person)
	require.Len(t, person.Teams, 1)
	assert.Equal(t, "Worship", person.Teams[0].Name)

	code, env = ana.do(http.MethodPut, membersPath+"/"+itoa(person.ID), map[string]string{"role": "leader"})
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &team)
	assert.Equal(t, models.MemberRoleLeader, team.Members[0].Role)

	code, env = ana.do(http.MethodDelete, membersPath+"/"+itoa(person.ID), nil)
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &team)
	assert.Empty(t, team.Members)

	code, _ = gus.do(http.MethodGet, teamPath, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = gus.do(http.MethodGet, "/api/people/"+itoa(person.ID), nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, env = gus.do(http.MethodGet, "/api/people", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Count)
	assert.Equal(t, int64(0), *env.Count)

	code, env = ana.do(http.MethodPost, "/api/services", map[string]string{
		"title": "Sunday", "date": "2024-06-02", "startTime": "10:00", "endTime": "12:00",
	})
	require.Equal(t, http.StatusCreated, code)
	var service dto.ServiceDetailDTO
	decodeData(t, env, &service)
	assert.Equal(t, models.ServiceStatusDraft, service.Status)

	servicePath := "/api/services/" + itoa(service.ID)
	code, env = ana.do(http.MethodPost, servicePath+"/items", map[string]interface{}{
		"title": "Opening song",
		"type":  "song",
		"positions": []map[string]interface{}{
			{"position": team.Positions[0].ID, "person": person.ID},
		},
	})
	require.Equal(t, http.StatusCreated, code)
	var item dto.ServiceItemDTO
	decodeData(t, env, &item)
	assert.Equal(t, 5, item.Duration)

	code, _ = gus.do(http.MethodPost, servicePath+"/items", map[string]string{"title": "Intrusion"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = ana.do(http.MethodDelete, servicePath, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{}`, string(env.Data))

	code, _ = ana.do(http.MethodGet, servicePath, nil)
	assert.Equal(t, http.StatusNotFound, code)

	var items int64
	require.NoError(t, db.Model(&models.ServiceItem{}).Count(&items).Error)
	assert.Equal(t, int64(0), items)

	families, err := registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "roster_http_requests_total")
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
