package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"filevault/internal/database"
	"filevault/internal/domain"
	"filevault/internal/imaging"
	"filevault/internal/mailer"
	"filevault/internal/middleware"
	"filevault/internal/modules/auth"
	"filevault/internal/modules/resource"
	jwtsvc "filevault/internal/pkg/jwt"
	"filevault/internal/repository"
	"filevault/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 168 * time.Hour
	testResetTTL   = time.Hour
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Resource{}))

	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)

	j := jwtsvc.New("test_secret_key_32_characters_min")

	authService := auth.NewService(userRepo, j, mailer.NewLogMailer(),
		testAccessTTL, testRefreshTTL, testResetTTL)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:     false,
		AccessTTL:  testAccessTTL,
		RefreshTTL: testRefreshTTL,
	})

	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	resourceService := resource.NewService(resourceRepo, store, imaging.NewOptimizer())
	resourceHandler := resource.NewHandler(resourceService)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/hello", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello World"})
	})

	authRequired := middleware.Auth(j, userRepo)
	v1 := r.Group("/v1")
	{
		authHandler.RegisterRoutes(v1, authRequired)
		resourceHandler.RegisterRoutes(v1, authRequired)
	}

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var bodyReader *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(b)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) makeMultipartRequest(t *testing.T, path string, fields map[string]string, filename string, fileBody []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

var phoneSeq atomic.Int64

func (s *E2ETestSuite) register(t *testing.T, email, password string) {
	w := s.makeRequest("POST", "/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": password,
		"name":     "Test User",
		"phone":    fmt.Sprintf("+7700123%04d", phoneSeq.Add(1)),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, "register failed: %s", w.Body.String())
}

func (s *E2ETestSuite) login(t *testing.T, email, password string) []*http.Cookie {
	w := s.makeRequest("POST", "/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

// =============================================================================
// Test Flow 1: Registration and Session Lifecycle
// =============================================================================

func TestFlow1_AuthLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	var cookies []*http.Cookie

	t.Run("POST /auth/register", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/register", map[string]interface{}{
			"email":    "alice@test.com",
			"password": "Password123",
			"name":     "Alice",
			"phone":    "+77001234567",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code, "Expected 200 OK")

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "User registered successfully", resp.Message)
		assert.Equal(t, "alice@test.com", resp.Data["email"])
	})

	t.Run("POST /auth/login", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/login", map[string]interface{}{
			"email":    "alice@test.com",
			"password": "Password123",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)

		cookies = w.Result().Cookies()
		require.Len(t, cookies, 2, "login sets both auth cookies")
		for _, c := range cookies {
			assert.True(t, c.HttpOnly)
		}
	})

	t.Run("GET /auth/me", func(t *testing.T) {
		w := suite.makeRequest("GET", "/v1/auth/me", nil, cookies)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "alice@test.com", resp.Data["email"])
		_, leaked := resp.Data["password"]
		assert.False(t, leaked, "password must never appear in a response")
	})

	t.Run("POST /auth/refresh", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/refresh", nil, cookies)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "Token refreshed successfully", resp.Message)

		fresh := w.Result().Cookies()
		require.Len(t, fresh, 1, "refresh re-issues only the access token")
		assert.Equal(t, "accessToken", fresh[0].Name)
	})

	t.Run("POST /auth/logout", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/logout", nil, cookies)

		assert.Equal(t, http.StatusOK, w.Code)
		for _, c := range w.Result().Cookies() {
			assert.Less(t, c.MaxAge, 0, "logout clears %s", c.Name)
		}
	})

	t.Run("refresh rejected after logout", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/refresh", nil, cookies)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "Invalid refresh token", resp.Message)
	})

	t.Run("me rejected without cookies", func(t *testing.T) {
		w := suite.makeRequest("GET", "/v1/auth/me", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "Access token is required", resp.Message)
	})
}

// =============================================================================
// Test Flow 2: Folder and File Management
// =============================================================================

func TestFlow2_ResourceManagement(t *testing.T) {
	suite := setupTestSuite(t)

	suite.register(t, "bob@test.com", "Password123")
	cookies := suite.login(t, "bob@test.com", "Password123")

	var folderID, fileID float64

	t.Run("POST /resource folder", func(t *testing.T) {
		w := suite.makeMultipartRequest(t, "/v1/resource", map[string]string{
			"name": "Documents",
			"type": "FOLDER",
		}, "", nil, cookies)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "Resource created successfully", resp.Message)
		assert.Equal(t, "FOLDER", resp.Data["type"])
		folderID = resp.Data["id"].(float64)
	})

	t.Run("POST /resource file inside folder", func(t *testing.T) {
		w := suite.makeMultipartRequest(t, "/v1/resource", map[string]string{
			"name":      "notes.txt",
			"type":      "FILE",
			"parent_id": fmt.Sprintf("%.0f", folderID),
		}, "notes.txt", []byte("hello vault"), cookies)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "FILE", resp.Data["type"])
		assert.Equal(t, "text/plain", resp.Data["mimetype"])
		assert.NotEmpty(t, resp.Data["file_url"])
		fileID = resp.Data["id"].(float64)
	})

	t.Run("POST /resource unauthenticated", func(t *testing.T) {
		w := suite.makeMultipartRequest(t, "/v1/resource", map[string]string{
			"name": "x", "type": "FOLDER",
		}, "", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /resource", func(t *testing.T) {
		w := suite.makeRequest("GET", "/v1/resource?page=1&limit=10", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, float64(2), resp.Data["totalItems"])
		assert.Equal(t, float64(1), resp.Data["totalPages"])
		items := resp.Data["items"].([]interface{})
		assert.Len(t, items, 2)
	})

	t.Run("GET /resource/:id", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/v1/resource/%.0f", fileID), nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, "notes.txt", resp.Data["name"])
		parent := resp.Data["parent"].(map[string]interface{})
		assert.Equal(t, "Documents", parent["name"])
	})

	t.Run("GET /resource/:id missing", func(t *testing.T) {
		w := suite.makeRequest("GET", "/v1/resource/99999", nil, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "Resource not found", resp.Message)
	})

	t.Run("PATCH /resource/:id rename", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/v1/resource/%.0f", fileID), map[string]interface{}{
			"name": "renamed.txt",
		}, cookies)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.Equal(t, "renamed.txt", resp.Data["name"])
	})

	t.Run("PATCH folder into itself rejected", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/v1/resource/%.0f", folderID), map[string]interface{}{
			"parentId": folderID,
		}, cookies)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "Resource cannot be moved inside itself", resp.Message)
	})

	t.Run("non-owner cannot modify", func(t *testing.T) {
		suite.register(t, "eve@test.com", "Password123")
		eveCookies := suite.login(t, "eve@test.com", "Password123")

		w := suite.makeRequest("PATCH", fmt.Sprintf("/v1/resource/%.0f", fileID), map[string]interface{}{
			"name": "stolen.txt",
		}, eveCookies)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = suite.makeRequest("DELETE", fmt.Sprintf("/v1/resource/%.0f", fileID), nil, eveCookies)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("DELETE /resource/:id", func(t *testing.T) {
		w := suite.makeRequest("DELETE", fmt.Sprintf("/v1/resource/%.0f", fileID), nil, cookies)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "Resource deleted successfully", resp.Message)

		w = suite.makeRequest("GET", fmt.Sprintf("/v1/resource/%.0f", fileID), nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// Test Flow 3: Password Reset
// =============================================================================

func TestFlow3_PasswordReset(t *testing.T) {
	suite := setupTestSuite(t)

	suite.register(t, "carl@test.com", "OldPassword1")

	const genericMsg = "If an account exists, a password reset email will be sent"

	t.Run("POST /auth/forgot-password", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/forgot-password", map[string]interface{}{
			"email": "carl@test.com",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, genericMsg, resp.Message)
	})

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/forgot-password", map[string]interface{}{
			"email": "nobody@test.com",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, genericMsg, resp.Message)
	})

	t.Run("POST /auth/reset-password", func(t *testing.T) {
		// the reset link would arrive by email; read the token off the user row
		var user domain.User
		require.NoError(t, suite.db.Where("email = ?", "carl@test.com").First(&user).Error)
		require.NotNil(t, user.ResetToken)

		w := suite.makeRequest("POST", "/v1/auth/reset-password", map[string]interface{}{
			"token":       *user.ResetToken,
			"newPassword": "NewPassword1",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		assert.Equal(t, "Password reset successful", resp.Message)
	})

	t.Run("old password no longer works", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/login", map[string]interface{}{
			"email":    "carl@test.com",
			"password": "OldPassword1",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("new password works", func(t *testing.T) {
		suite.login(t, "carl@test.com", "NewPassword1")
	})

	t.Run("reset token is single use", func(t *testing.T) {
		w := suite.makeRequest("POST", "/v1/auth/reset-password", map[string]interface{}{
			"token":       "anything",
			"newPassword": "AnotherPassword1",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "Invalid or expired reset token", resp.Message)
	})
}

func TestHelloEndpoint(t *testing.T) {
	suite := setupTestSuite(t)

	w := suite.makeRequest("GET", "/hello", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, w.Body.String())
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
