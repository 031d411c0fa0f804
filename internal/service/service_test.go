package service

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// userColumns are the columns of the users table in schema order.
var userColumns = []string{
	"id", "email", "password", "subscription", "avatar_url", "token", "verify", "verification_token",
}

// contactColumns are the columns of the contacts table in schema order.
var contactColumns = []string{"id", "name", "email", "phone", "favorite"}

// fakeMailer records sent messages instead of delivering them. If err is
// set, every send fails with it.
type fakeMailer struct {
	sent []Message
	err  error
}

func (m *fakeMailer) Send(msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// createMockObjects builds a mock database handle and a mock object for
// defining our expected SQL calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// expectPreparedStatements instructs the mock object to expect that all
// statements are being prepared, in the order NewServer prepares them.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("SELECT \\* FROM contacts WHERE id")
	mock.ExpectPrepare("DELETE FROM contacts WHERE id")
	mock.ExpectPrepare("INSERT INTO users")
	mock.ExpectPrepare("SELECT \\* FROM users WHERE id")
	mock.ExpectPrepare("SELECT \\* FROM users WHERE email")
	mock.ExpectPrepare("SELECT \\* FROM users WHERE verification_token")
}

// testConfig returns a configuration suitable for unit tests: a fixed signing
// secret and throwaway directories for avatars and uploads.
func testConfig(t *testing.T) Config {
	return Config{
		Port:          "8080",
		SecretKey:     []byte("unit-test-secret"),
		TokenValidity: 20 * time.Hour,
		PublicDir:     t.TempDir(),
		TempDir:       t.TempDir(),
	}
}

// initializeService sets up the contact book service with the mock database
// and returns the server together with a handle to the gin engine against
// which requests can be executed.
func initializeService(t *testing.T, db *sql.DB, mailer Mailer) (*Server, *gin.Engine) {
	gin.SetMode(gin.ReleaseMode)
	server, err := NewServer(db, testConfig(t), mailer, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("an error '%s' was not expected when initializing the server", err)
	}
	return server, server.SetupHttpRouter()
}

// expectAuthenticatedUser signs a session token for a verified user, makes
// the mock expect the user lookup of the authenticate middleware, and
// returns the token to be put on the request.
func expectAuthenticatedUser(t *testing.T, mock sqlmock.Sqlmock, server *Server, userId int64, email string) string {
	token, err := signSessionToken(userId, server.cfg.SecretKey, server.cfg.TokenValidity)
	if err != nil {
		t.Fatalf("an error '%s' was not expected when signing a session token", err)
	}
	rows := mock.NewRows(userColumns).
		AddRow(userId, email, "irrelevant-hash", "starter", "", token, true, nil)
	mock.ExpectQuery("SELECT \\* FROM users WHERE id").
		WithArgs(userId).
		WillReturnRows(rows)
	return token
}

// runTest executes the HTTP request with the specified arguments and returns
// the response. A non-empty token is presented as a bearer credential.
func runTest(router *gin.Engine, method string, url string, token string, body *strings.Reader) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	if body == nil {
		body = strings.NewReader("")
	}
	request, _ := http.NewRequest(method, url, body)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(recorder, request)
	return recorder
}
