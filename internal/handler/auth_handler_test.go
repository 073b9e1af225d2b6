package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carelog/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newAuthTestRouter(t *testing.T, api *API) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("carelog_session", store))

	r.POST("/api/auth/login", api.Login)
	r.POST("/api/auth/logout", api.Logout)
	r.GET("/api/auth/me", api.Me)

	protected := r.Group("/api", AuthRequired())
	protected.GET("/patients", api.ListPatients)

	return r
}

func seedLoginUser(t *testing.T) db.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := db.User{Email: "aide@example.com", Name: "aide", Role: "aide", Password: string(hashed)}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestLoginSuccessSetsSession(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedLoginUser(t)
	r := newAuthTestRouter(t, api)

	body, _ := json.Marshal(map[string]string{"email": "aide@example.com", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie to be set")
	}

	// 会话 cookie 应能通过认证中间件
	authed := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	for _, ck := range cookies {
		authed.AddCookie(ck)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, authed)

	if w2.Code != http.StatusOK {
		t.Fatalf("expected authenticated request to pass, got %d", w2.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedLoginUser(t)
	r := newAuthTestRouter(t, api)

	body, _ := json.Marshal(map[string]string{"email": "aide@example.com", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestProtectedRouteRejectsAnonymous(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	r := newAuthTestRouter(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedLoginUser(t)
	r := newAuthTestRouter(t, api)

	body, _ := json.Marshal(map[string]string{"email": "aide@example.com", "password": "secret123"})
	login := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	login.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, login)
	cookies := w.Result().Cookies()

	logout := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, ck := range cookies {
		logout.AddCookie(ck)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, logout)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected status 200 on logout, got %d", w2.Code)
	}

	// 登出后的会话 cookie 不再通过认证
	after := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	for _, ck := range w2.Result().Cookies() {
		after.AddCookie(ck)
	}
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, after)
	if w3.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 after logout, got %d", w3.Code)
	}
}
