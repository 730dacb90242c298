// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/taste-champion/auth"
	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/models"
)

// TestJWTSecret signs tokens issued by tests.
const TestJWTSecret = "test-jwt-secret"

var seq atomic.Int64

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir and the connection closes with the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.SQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: "sqlite",
		JWTSecret:    TestJWTSecret,
		TokenTTL:     time.Hour,
		RatingMin:    1,
		RatingMax:    10,
		LogLevel:     "info",
	}
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := db.NewID()
	if err != nil {
		t.Fatalf("Failed to generate id: %v", err)
	}
	return id
}

func mustExec(t *testing.T, conn *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := conn.Exec(query, args...); err != nil {
		t.Fatalf("Failed to run %q: %v", query, err)
	}
}

// CreateTestUser inserts a user with the given role and a unique email.
func CreateTestUser(t *testing.T, conn *sql.DB, role string) models.User {
	t.Helper()

	n := seq.Add(1)
	u := models.User{
		ID:      newID(t),
		Role:    role,
		Name:    "Test",
		Surname: fmt.Sprintf("User%d", n),
		Gender:  1,
		Age:     30,
		Phone:   fmt.Sprintf("+1000000%04d", n),
		Email:   fmt.Sprintf("user%d@example.com", n),
	}
	mustExec(t, conn, `
		INSERT INTO users (id, role, name, surname, gender, age, phone, email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Role, u.Name, u.Surname, u.Gender, u.Age, u.Phone, u.Email)

	return u
}

// CreateTestProducer inserts a producer and returns its ID
func CreateTestProducer(t *testing.T, conn *sql.DB) string {
	t.Helper()

	id := newID(t)
	mustExec(t, conn, `INSERT INTO producers (id, name) VALUES (?, ?)`,
		id, fmt.Sprintf("Producer %d", seq.Add(1)))
	return id
}

// CreateTestNomination inserts a nomination with the given flags.
func CreateTestNomination(t *testing.T, conn *sql.DB, active, finished bool) string {
	t.Helper()

	id := newID(t)
	mustExec(t, conn, `INSERT INTO nominations (id, name, active, finished) VALUES (?, ?, ?, ?)`,
		id, fmt.Sprintf("Nomination %d", seq.Add(1)), active, finished)
	return id
}

// CreateTestGroup inserts a nomination group in DRAFT.
func CreateTestGroup(t *testing.T, conn *sql.DB) string {
	t.Helper()

	id := newID(t)
	mustExec(t, conn, `INSERT INTO nomination_groups (id, name) VALUES (?, ?)`,
		id, fmt.Sprintf("Group %d", seq.Add(1)))
	return id
}

// CreateTestProduct inserts a product. nominationID may be empty.
func CreateTestProduct(t *testing.T, conn *sql.DB, producerID, nominationID string) string {
	t.Helper()

	var nom *string
	if nominationID != "" {
		nom = &nominationID
	}
	id := newID(t)
	mustExec(t, conn, `INSERT INTO products (id, name, producer_id, nomination_id) VALUES (?, ?, ?, ?)`,
		id, fmt.Sprintf("Product %d", seq.Add(1)), producerID, nom)
	return id
}

// CreateTestParameter inserts a tasting parameter for a nomination.
func CreateTestParameter(t *testing.T, conn *sql.DB, nominationID, name string) string {
	t.Helper()

	id := newID(t)
	mustExec(t, conn, `INSERT INTO parameters (id, name, nomination_id) VALUES (?, ?, ?)`,
		id, name, nominationID)
	return id
}

// SubmitTestScore writes a score row directly.
func SubmitTestScore(t *testing.T, conn *sql.DB, productID, userID string, value int16, isExpert bool) string {
	t.Helper()

	id := newID(t)
	mustExec(t, conn, `
		INSERT INTO scores (id, value, product_id, user_id, is_expert, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, value, productID, userID, isExpert, time.Now().UTC())
	return id
}

// SubmitTestParameterScore writes a parameter score row directly.
func SubmitTestParameterScore(t *testing.T, conn *sql.DB, productID, parameterID, userID string, value int16) string {
	t.Helper()

	id := newID(t)
	mustExec(t, conn, `
		INSERT INTO parameter_scores (id, value, product_id, parameter_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, value, productID, parameterID, userID, time.Now().UTC())
	return id
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// AuthHeader returns an Authorization header for user.
func AuthHeader(t *testing.T, u models.User) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(TestJWTSecret, u.Email, u.Role, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// WithCaller attaches u's identity to r, as the authentication middleware would.
func WithCaller(r *http.Request, u models.User) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}))
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
