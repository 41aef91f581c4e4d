package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetreg/internal/catalog"
	internaldb "meetreg/internal/db"
	"meetreg/internal/db/repository"
	"meetreg/internal/domain"
	"meetreg/internal/middleware"
	"meetreg/internal/service"
)

var testSecret = []byte("api-test-secret")

type testServer struct {
	router  chi.Router
	writeDB *sql.DB
	auth    *service.AuthService

	meet    *domain.SportsMeet
	group   *domain.Group
	team    *domain.Team
	event   *domain.Event
	athlete *domain.Athlete
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	meet, err := repository.NewMeetRepo(writeDB).Create(ctx, &domain.SportsMeet{
		Name:            "City Games",
		OrgCode:         "CITY",
		RegistrationEnd: time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	group, err := repository.NewGroupRepo(writeDB).Create(ctx, &domain.Group{
		SportsMeetID:        meet.ID,
		Name:                "Junior A",
		MaxLeadersPerTeam:   2,
		MaxAthletesPerTeam:  50,
		MaxEventsPerAthlete: 3,
	})
	require.NoError(t, err)
	team, err := repository.NewTeamRepo(writeDB).Create(ctx, &domain.Team{
		SportsMeetID: meet.ID, GroupID: group.ID, Name: "Team One", OrgCode: "ORG1",
	})
	require.NoError(t, err)

	eventRepo := repository.NewEventRepo(writeDB)
	event, err := eventRepo.Create(ctx, &domain.Event{Name: "100m", EventType: domain.EventTypeIndividual})
	require.NoError(t, err)
	_, err = eventRepo.CreateMapping(ctx, &domain.GroupEventMapping{GroupID: group.ID, EventID: event.ID})
	require.NoError(t, err)

	athlete, err := repository.NewAthleteRepo(writeDB).Create(ctx, &domain.Athlete{
		TeamID: team.ID, GroupID: group.ID, Name: "Ada",
	})
	require.NoError(t, err)

	txRepos := func(tx *sql.Tx) service.TxRepos {
		return service.TxRepos{
			Meets:         repository.NewMeetRepo(tx),
			Teams:         repository.NewTeamRepo(tx),
			Groups:        repository.NewGroupRepo(tx),
			Events:        repository.NewEventRepo(tx),
			Athletes:      repository.NewAthleteRepo(tx),
			Registrations: repository.NewRegistrationRepo(tx),
		}
	}
	cat := catalog.New(
		repository.NewMeetRepo(readDB),
		repository.NewTeamRepo(readDB),
		repository.NewGroupRepo(readDB),
		repository.NewEventRepo(readDB))

	authSvc := service.NewAuthService(repository.NewTeamRepo(writeDB), testSecret, time.Hour, logger)
	handler := NewHandler(
		authSvc,
		service.NewAthleteService(writeDB, txRepos, repository.NewAthleteRepo(readDB), logger),
		service.NewRegistrationService(writeDB, txRepos,
			repository.NewAthleteRepo(readDB), repository.NewRegistrationRepo(readDB), logger),
		service.NewSummaryService(cat,
			repository.NewGroupRepo(readDB),
			repository.NewAthleteRepo(readDB),
			repository.NewRegistrationRepo(readDB)),
		service.NewEventService(cat, repository.NewEventRepo(readDB), repository.NewGroupRepo(readDB)),
		service.NewGroupService(cat, repository.NewGroupRepo(readDB), repository.NewMeetRepo(readDB)),
		service.NewRegistrationWindowJob(repository.NewMeetRepo(writeDB), logger),
	)

	return &testServer{
		router: handler.Router(RouterConfig{
			JWTSecret: testSecret,
			RateLimit: middleware.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
			CORS:      cors.Options{AllowedOrigins: []string{"*"}},
		}),
		writeDB: writeDB,
		auth:    authSvc,
		meet:    meet,
		group:   group,
		team:    team,
		event:   event,
		athlete: athlete,
	}
}

func (ts *testServer) token(t *testing.T) string {
	t.Helper()
	token, err := ts.auth.Issue(domain.Principal{TeamID: ts.team.ID, Role: domain.RoleTeam})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.auth.SetPassword(context.Background(), ts.team.ID, "s3cret-pass"))

	rec := ts.do(t, http.MethodPost, "/v1/auth/login", "",
		loginRequest{OrgCode: "ORG1", Password: "s3cret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	decodeJSON(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, ts.team.ID, resp.TeamID)

	// The fresh token works on an authenticated route.
	rec = ts.do(t, http.MethodGet, "/v1/auth/validate", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/v1/auth/login", "",
		loginRequest{OrgCode: "ORG1", Password: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/v1/athletes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAthleteEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rec := ts.do(t, http.MethodPost, "/v1/athletes", token,
		athleteRequest{GroupID: ts.group.ID, Name: "Ben", IDNumber: "X200"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created athleteDTO
	decodeJSON(t, rec, &created)
	assert.Equal(t, "Ben", created.Name)
	assert.Equal(t, ts.team.ID, created.TeamID)

	rec = ts.do(t, http.MethodGet, "/v1/athletes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []athleteDTO
	decodeJSON(t, rec, &list)
	assert.Len(t, list, 2)

	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/v1/athletes/%d", created.ID), token,
		athleteRequest{GroupID: ts.group.ID, Name: "Benjamin", IDNumber: "X200"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated athleteDTO
	decodeJSON(t, rec, &updated)
	assert.Equal(t, "Benjamin", updated.Name)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/v1/athletes/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/v1/athletes/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplaceEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)
	path := fmt.Sprintf("/v1/registrations/by-athlete/%d", ts.athlete.ID)

	rec := ts.do(t, http.MethodPut, path, token, replaceRequest{EventIDs: []int64{ts.event.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp replaceResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, []int64{ts.event.ID}, resp.EventIDs)
	assert.Equal(t, 1, resp.Inserted)

	rec = ts.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string][]int64
	decodeJSON(t, rec, &got)
	assert.Equal(t, []int64{ts.event.ID}, got["event_ids"])
}

func TestReplaceEndpointQuotaEnvelope(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)
	ctx := context.Background()

	// Four mapped events against a limit of three.
	eventRepo := repository.NewEventRepo(ts.writeDB)
	ids := []int64{ts.event.ID}
	for _, name := range []string{"200m", "400m", "800m"} {
		e, err := eventRepo.Create(ctx, &domain.Event{Name: name, EventType: domain.EventTypeIndividual})
		require.NoError(t, err)
		_, err = eventRepo.CreateMapping(ctx, &domain.GroupEventMapping{GroupID: ts.group.ID, EventID: e.ID})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	rec := ts.do(t, http.MethodPut,
		fmt.Sprintf("/v1/registrations/by-athlete/%d", ts.athlete.ID), token,
		replaceRequest{EventIDs: ids})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body errorResponse
	decodeJSON(t, rec, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, body.Code)
	assert.Contains(t, body.Message, "events-per-athlete")
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rec := ts.do(t, http.MethodPut,
		fmt.Sprintf("/v1/registrations/by-athlete/%d", ts.athlete.ID), token,
		replaceRequest{EventIDs: []int64{ts.event.ID}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/registrations/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []summaryRecordDTO
	decodeJSON(t, rec, &records)
	require.NotEmpty(t, records)

	var found bool
	for _, r := range records {
		if r.Category == domain.SummaryEvent && r.EventID != nil && *r.EventID == ts.event.ID {
			found = true
			assert.Equal(t, 1, r.Actual)
		}
	}
	assert.True(t, found, "per-event record present")
}

func TestGroupEventEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rec := ts.do(t, http.MethodGet, "/v1/groups", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []groupDTO
	decodeJSON(t, rec, &groups)
	require.Len(t, groups, 1)
	assert.Equal(t, "Junior A", groups[0].Name)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/v1/events/by-group/%d", ts.group.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []eventDTO
	decodeJSON(t, rec, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "100m", events[0].Name)

	rec = ts.do(t, http.MethodGet,
		fmt.Sprintf("/v1/events/by-group/%d?kind=mandatory", ts.group.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &events)
	assert.Empty(t, events)

	rec = ts.do(t, http.MethodGet, "/v1/groups/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rec := ts.do(t, http.MethodPost, "/v1/registrations/leaders", token,
		addLeaderRequest{EventID: ts.event.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]int64
	decodeJSON(t, rec, &created)
	require.NotZero(t, created["id"])

	rec = ts.do(t, http.MethodDelete,
		fmt.Sprintf("/v1/registrations/leaders/%d", created["id"]), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOverviewEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rec := ts.do(t, http.MethodPut,
		fmt.Sprintf("/v1/registrations/by-athlete/%d", ts.athlete.ID), token,
		replaceRequest{EventIDs: []int64{ts.event.ID}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/registrations/overview", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ov struct {
		TotalAthletes      int            `json:"total_athletes"`
		TotalRegistrations int            `json:"total_registrations"`
		ByStatus           map[string]int `json:"by_status"`
	}
	decodeJSON(t, rec, &ov)
	assert.Equal(t, 1, ov.TotalAthletes)
	assert.Equal(t, 1, ov.TotalRegistrations)
	assert.Equal(t, 1, ov.ByStatus[domain.RegistrationConfirmed])
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := ts.auth.Issue(domain.Principal{Role: domain.RoleAdmin})
	require.NoError(t, err)
	return token
}

func TestRateLimitHeaders(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestAdminTeamScope(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	// Admins act on any team once they name it.
	rec := ts.do(t, http.MethodGet,
		fmt.Sprintf("/v1/athletes/%d?team_id=%d", ts.athlete.ID, ts.team.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got athleteDTO
	decodeJSON(t, rec, &got)
	assert.Equal(t, ts.athlete.ID, got.ID)

	rec = ts.do(t, http.MethodGet,
		fmt.Sprintf("/v1/registrations/summary?team_id=%d", ts.team.ID), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// An admin request without a team selection has no scope to act in.
	rec = ts.do(t, http.MethodGet, "/v1/athletes", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamCannotSelectForeignTeam(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rec := ts.do(t, http.MethodGet,
		fmt.Sprintf("/v1/athletes?team_id=%d", ts.team.ID+1), token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Naming its own team is allowed.
	rec = ts.do(t, http.MethodGet,
		fmt.Sprintf("/v1/athletes?team_id=%d", ts.team.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminCloseWindows(t *testing.T) {
	ts := newTestServer(t)
	expired, err := repository.NewMeetRepo(ts.writeDB).Create(context.Background(), &domain.SportsMeet{
		Name:            "Spring Meet",
		OrgCode:         "SPRING",
		RegistrationEnd: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	// Team tokens cannot reach admin routes.
	rec := ts.do(t, http.MethodPost, "/v1/admin/registration-windows/close", ts.token(t), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/v1/admin/registration-windows/close", ts.adminToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := repository.NewMeetRepo(ts.writeDB).GetByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MeetStatusClosed, got.Status)
}
