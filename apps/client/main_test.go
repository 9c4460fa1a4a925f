package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omi-1602/Venz-edu/client"
	"github.com/omi-1602/Venz-edu/client/mockstore"
	"github.com/omi-1602/Venz-edu/core"
)

type cliRunner struct {
	t    *testing.T
	api  string
	data string
}

func newRunner(t *testing.T, api string) cliRunner {
	return cliRunner{t: t, api: api, data: filepath.Join(t.TempDir(), "client.db")}
}

func (r cliRunner) run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	args = append([]string{"--api", r.api, "--data", r.data}, args...)
	err := run(args, &out, &errOut)
	return out.String(), err
}

func (r cliRunner) mustRun(args ...string) string {
	out, err := r.run(args...)
	require.NoError(r.t, err, out)
	return out
}

func TestClient_MockOnly(t *testing.T) {
	r := newRunner(t, "")

	_, err := r.run("whoami")
	assert.Equal(t, errNotSignedIn, err)

	out := r.mustRun("signup", "--email", "awe@venz.cd", "--password", "pwd", "--name", "Awe")
	var signup client.SignupOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &signup))
	assert.Equal(t, client.MockBackendName, signup.Backend)
	require.NotNil(t, signup.Session)
	assert.Equal(t, "awe@venz.cd", signup.Session.Email)

	out = r.mustRun("whoami")
	assert.Contains(t, out, `"email": "awe@venz.cd"`)
	assert.Contains(t, out, `"backend": "mock"`)

	out = r.mustRun("logout")
	assert.Contains(t, out, client.EntryView)
	_, err = r.run("whoami")
	assert.Equal(t, errNotSignedIn, err)

	_, err = r.run("login", "--email", "awe@venz.cd", "--password", "nope")
	assert.True(t, core.IsKind(err, core.KindInvalidCredentials))

	out = r.mustRun("login", "--email", "awe@venz.cd", "--password", "pwd")
	var login client.LoginOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &login))
	assert.Equal(t, client.DashboardView, login.Redirect)
	assert.Equal(t, "Awe", login.Session.DisplayName)

	_, err = r.run("signup", "--email", "awe@venz.cd", "--password", "pwd", "--name", "Awe")
	assert.True(t, core.IsKind(err, core.KindAlreadyExists))

	out = r.mustRun("reset-password", "--email", "awe@venz.cd")
	assert.Contains(t, out, mockstore.MsgResetLinkMocked)
	_, err = r.run("reset-password", "--email", "nobody@venz.cd")
	assert.True(t, core.IsKind(err, core.KindNotFound))

	out = r.mustRun("federated-login", "--id-token", "anything")
	assert.Contains(t, out, "@mock.local")

	out = r.mustRun("seed-mock")
	assert.Contains(t, out, "Mastering Java: From Zero to Hero")
	r.mustRun("seed-mock")
}

func TestClient_PromptsForPassword(t *testing.T) {
	r := newRunner(t, "")

	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() { readPasswordFunc = orig })

	r.mustRun("signup", "--email", "awe@venz.cd", "--name", "Awe")
	r.mustRun("login", "--email", "awe@venz.cd")
}

func TestClient_MissingFlags(t *testing.T) {
	r := newRunner(t, "")

	_, err := r.run("signup", "--password", "pwd")
	assert.Error(t, err)
	_, err = r.run("reset-password")
	assert.Error(t, err)
	_, err = r.run("lol")
	assert.Error(t, err)
}

func TestClient_FallsBackWhenAPIFails(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := newRunner(t, srv.URL)
	out := r.mustRun("signup", "--email", "awe@venz.cd", "--password", "pwd", "--name", "Awe")
	assert.Contains(t, out, `"Backend": "mock"`)
	r.mustRun("login", "--email", "awe@venz.cd", "--password", "pwd")
	assert.Equal(t, 2, calls)
}

func TestClient_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch req.URL.Path {
		case "/v1/accounts/login":
			_, _ = w.Write([]byte(`{"success":true,"user":{"uid":"u1","email":"awe@venz.cd","displayName":"Awe","role":"student"},"token":"jwt"}`))
		case "/v1/accounts/me":
			if req.Header.Get("Authorization") != "Bearer jwt" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"code":"unauthenticated","error":"invalid or expired jwt"}`))
				return
			}
			_, _ = w.Write([]byte(`{"uid":"u1","email":"awe@venz.cd","displayName":"Awe Renamed","role":"student"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := newRunner(t, srv.URL)
	out := r.mustRun("login", "--email", "awe@venz.cd", "--password", "pwd")
	assert.Contains(t, out, `"backend": "remote"`)
	assert.Contains(t, out, `"token": "jwt"`)

	out = r.mustRun("whoami")
	assert.Contains(t, out, "Awe Renamed")
}
