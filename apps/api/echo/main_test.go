package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/core/seed"
	emailsvc "github.com/omi-1602/Venz-edu/services/email"
	logsvc "github.com/omi-1602/Venz-edu/services/logger"
	dummydb "github.com/omi-1602/Venz-edu/storage/database/dummy"
	testutil "github.com/omi-1602/Venz-edu/tests"
)

const testSeedToken = "seed-me"

type testApp struct {
	server     *Server
	conf       *core.Config
	docs       *dummydb.DB
	accountSvc *account.Service
	mailSvc    *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) testApp {
	conf := core.NewTestConfig()
	conf.SeedToken = testSeedToken
	logger := logsvc.NewTestLogger()

	stack := testutil.NewAccountStack(t, conf, logger)
	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		AccountSvc: stack.Service,
		SeedSvc:    seed.NewService(stack.Docs, conf.SeedToken, logger),
		Identity:   stack.Identity,
		Validate:   stack.Validate,
		Translator: stack.Translator,
	})
	return testApp{server: server, conf: conf, docs: stack.Docs, accountSvc: stack.Service, mailSvc: stack.MailSvc}
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func errBody(t *testing.T, kind, msg string, fields ...map[string]string) []byte {
	body := httpErr{Code: kind, Error: msg}
	if len(fields) > 0 {
		body.Fields = fields[0]
	}
	return marchallObj(t, body)
}
