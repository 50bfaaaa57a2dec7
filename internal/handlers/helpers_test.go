package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keoroanthony/go-comic-rental/internal/auth"
	"github.com/Keoroanthony/go-comic-rental/internal/db"
	"github.com/Keoroanthony/go-comic-rental/internal/handlers"
	"github.com/Keoroanthony/go-comic-rental/internal/models"
	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
	"github.com/Keoroanthony/go-comic-rental/web"
)

const testSessionSecret = "test-secret-key"

var testNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	mu      sync.Mutex
	rentals []models.Rental
}

func (n *recordingNotifier) RentalCreated(_ context.Context, r models.Rental) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rentals = append(n.rentals, r)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.rentals)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	notifier  *recordingNotifier
	publisher *recordingPublisher
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, handlers.RegisterValidators())

	testDB, err := db.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	if err != nil {
		panic("failed to connect test database: " + err.Error())
	}
	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})

	svc := rentals.NewService()
	svc.Now = func() time.Time { return testNow }

	env := &testEnv{db: testDB, notifier: &recordingNotifier{}, publisher: &recordingPublisher{}}
	h := handlers.New(testDB, svc, env.notifier, env.publisher, zerolog.Nop())

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(web.Templates())

	store := cookie.NewStore([]byte(testSessionSecret))
	r.Use(sessions.Sessions(auth.SessionName, store))

	h.Register(r)
	env.router = r
	return env
}

// seedCatalog stores customer #1 and comic books #5 and #7.
func seedCatalog(t *testing.T, testDB *gorm.DB) {
	t.Helper()
	require.NoError(t, testDB.Create(&models.Customer{ID: 1, FullName: "Ada Lovelace", PhoneNumber: "+254700000001", RegistrationDate: testNow}).Error)
	require.NoError(t, testDB.Create(&models.ComicBook{ID: 5, Title: "Watchmen", Author: "Alan Moore", PricePerDay: decimal.RequireFromString("1.50")}).Error)
	require.NoError(t, testDB.Create(&models.ComicBook{ID: 7, Title: "Maus", Author: "Art Spiegelman", PricePerDay: decimal.RequireFromString("2.00")}).Error)
}

func countRentals(testDB *gorm.DB) (rentalCount, detailCount int64) {
	testDB.Model(&models.Rental{}).Count(&rentalCount)
	testDB.Model(&models.RentalDetail{}).Count(&detailCount)
	return rentalCount, detailCount
}

func createJSONRequest(method, path string, body interface{}) *http.Request {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func performJSONRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, createJSONRequest(method, path, body))
	return recorder
}

// forgeCSRFSession issues an anti-forgery token on a throwaway context and
// returns it with the session cookie that carries it.
func forgeCSRFSession(t *testing.T) (string, string) {
	t.Helper()
	tempW := httptest.NewRecorder()
	tempC, _ := gin.CreateTestContext(tempW)
	tempC.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	store := cookie.NewStore([]byte(testSessionSecret))
	sessions.Sessions(auth.SessionName, store)(tempC)

	token, err := auth.Token(tempC)
	require.NoError(t, err)
	return token, tempW.Header().Get("Set-Cookie")
}

// performFormPost submits form with a valid anti-forgery token unless the
// form already carries one.
func performFormPost(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	token, cookieHeader := forgeCSRFSession(t)
	if _, ok := form[auth.FormField]; !ok {
		form.Set(auth.FormField, token)
	}

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", cookieHeader)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func performGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}
