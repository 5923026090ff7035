package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"okrtracker/middleware"
	"okrtracker/sessions"
	"okrtracker/utils"
)

type testServer struct {
	app    *fiber.App
	db     *memDB
	mailer *fakeMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tokens, err := utils.NewTokenManager("test-jwt-secret", time.Hour)
	require.NoError(t, err)

	db := newMemDB(utils.NewPasswordHasher(bcrypt.MinCost))
	mailer := newFakeMailer()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	Setup(app, Dependencies{
		Companies:  memCompanies{db},
		Users:      memUsers{db},
		Objectives: memObjectives{db},
		KeyResults: memKeyResults{db},
		Sessions:   sessions.NewManager(sessions.Config{}),
		Tokens:     tokens,
		Mailer:     mailer,
		CookieKey:  sessions.CookieKey("test-session-secret"),
	})
	return &testServer{app: app, db: db, mailer: mailer}
}

// client carries one caller's credentials across requests, keeping the
// session cookie the server last handed out.
type client struct {
	srv    *testServer
	cookie *http.Cookie
	token  string
}

func (s *testServer) client() *client {
	return &client{srv: s}
}

type response struct {
	status int
	body   []byte
}

func (r response) object(t *testing.T) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(r.body, &v), string(r.body))
	return v
}

func (r response) list(t *testing.T) []interface{} {
	t.Helper()
	var v []interface{}
	require.NoError(t, json.Unmarshal(r.body, &v), string(r.body))
	return v
}

func (cl *client) do(t *testing.T, method, path string, body interface{}) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	if cl.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+cl.token)
	}

	resp, err := cl.srv.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Name != sessions.CookieName {
			continue
		}
		if ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			cl.cookie = nil
		} else {
			cl.cookie = ck
		}
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw}
}

// signup creates a company and returns its id.
func (s *testServer) signup(t *testing.T, name, email string) string {
	t.Helper()
	resp := s.client().do(t, http.MethodPost, "/api/companies", fiber.Map{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	return jsonID(resp.object(t)["id"])
}

// loginCompany returns a client holding the company's session cookie and
// one holding its bearer token.
func (s *testServer) loginCompany(t *testing.T, email string) (withSession, withToken *client) {
	t.Helper()
	withSession = s.client()
	resp := withSession.do(t, http.MethodPost, "/api/companies/login", fiber.Map{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	require.NotNil(t, withSession.cookie)

	withToken = s.client()
	withToken.token = resp.object(t)["token"].(string)
	return withSession, withToken
}

func (s *testServer) registerUser(t *testing.T, admin *client, companyID, email string) string {
	t.Helper()
	resp := admin.do(t, http.MethodPost, "/api/"+companyID+"/users/register", fiber.Map{
		"name": "Dana", "email": email, "password": "secret123",
		"l1Team": "Engineering", "l2Team": "Backend",
	})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	return jsonID(resp.object(t)["user"].(map[string]interface{})["id"])
}

func jsonID(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatUint(uint64(f), 10)
}
