package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashestree87/socialize/internal/crypto"
	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/lease"
	"github.com/ashestree87/socialize/internal/publisher"
	"github.com/ashestree87/socialize/internal/queue"
	"github.com/ashestree87/socialize/internal/repository"
	"github.com/ashestree87/socialize/internal/service"
	"github.com/ashestree87/socialize/internal/storage"
)

const testJWTSecret = "handler-test-secret"

type apiFixture struct {
	router       *gin.Engine
	uploadSvc    service.UploadService
	queue        *queue.MemoryQueue
	store        *storage.LocalDriver
	tenantID     string
	registerHook func(userID string, admin bool)
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	encryptor, err := crypto.NewEncryptor("handler-test-credentials")
	require.NoError(t, err)

	roleRepo := repository.NewMemoryRoleRepository()
	userRepo := repository.NewMemoryUserRepository(roleRepo)
	tenantRepo := repository.NewMemoryTenantRepository()
	platformRepo := repository.NewMemoryPlatformRepository()
	uploadRepo := repository.NewMemoryUploadRepository(platformRepo)
	store := storage.NewLocalDriver(t.TempDir(), "handler-url-secret")
	memQueue := queue.NewMemoryQueue(16)
	t.Cleanup(func() { memQueue.Close() })

	// System roles
	for _, seed := range []struct {
		name, slug string
		perms      domain.PermissionSet
	}{
		{"Admin", domain.RoleSlugAdmin, domain.PermissionSet{
			domain.CapManageTenants: true, domain.CapManageUsers: true, domain.CapManageRoles: true,
			domain.CapManageSocialPlatforms: true, domain.CapManageContent: true,
		}},
		{"User", domain.RoleSlugUser, domain.PermissionSet{
			domain.CapManageSocialPlatforms: true, domain.CapManageContent: true,
		}},
	} {
		require.NoError(t, roleRepo.Create(ctx, &domain.Role{
			ID:          uuid.New().String(),
			Name:        seed.name,
			Slug:        seed.slug,
			Permissions: seed.perms,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}))
	}

	tenantID := uuid.New().String()
	require.NoError(t, tenantRepo.Create(ctx, &domain.Tenant{
		ID: tenantID, Name: "Fixture Tenant", Domain: "fixture.example.com", IsActive: true,
	}))

	registry := publisher.NewRegistry()
	publisher.RegisterSimulated(registry)

	authSvc := service.NewAuthService(userRepo, roleRepo, service.AuthConfig{
		JWTSecret:      testJWTSecret,
		AccessTokenTTL: time.Hour,
	})
	uploadSvc := service.NewUploadService(
		uploadRepo, platformRepo, store, encryptor, memQueue, lease.NewMemoryLease(),
		registry, publisher.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		service.UploadConfig{MaxFileSize: 1024, SignedURLTTL: time.Minute, LeaseTTL: time.Minute},
	)

	router := gin.New()
	SetupRoutes(router, &RouterConfig{
		JWTSecret: testJWTSecret,
		Auth:      NewAuthHandler(authSvc),
		Tenant:    NewTenantHandler(service.NewTenantService(tenantRepo)),
		Role:      NewRoleHandler(service.NewRoleService(roleRepo, userRepo)),
		Platform:  NewPlatformHandler(service.NewPlatformService(platformRepo, uploadRepo, encryptor, store)),
		Upload:    NewUploadHandler(uploadSvc, 1024),
		Health:    NewHealthHandler(nil),
		File:      NewFileHandler(store),
	})

	f := &apiFixture{router: router, uploadSvc: uploadSvc, queue: memQueue, store: store, tenantID: tenantID}
	f.registerHook = func(userID string, admin bool) {
		if admin {
			adminRole, err := roleRepo.GetBySlug(ctx, domain.RoleSlugAdmin)
			require.NoError(t, err)
			require.NoError(t, roleRepo.Assign(ctx, adminRole.ID, userID))
		}
	}
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) register(t *testing.T, email string, admin bool) (token, userID string) {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"name":      "Test User",
		"email":     email,
		"password":  "password123",
		"tenant_id": f.tenantID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
			User        struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	if admin {
		f.registerHook(resp.Data.User.ID, true)
		// Re-login so the token carries the admin role
		w = f.do(t, http.MethodPost, "/api/v1/login", "", gin.H{"email": email, "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}

	return resp.Data.AccessToken, resp.Data.User.ID
}

func TestRouter_HealthAndAuth(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Protected routes reject missing tokens
	w = f.do(t, http.MethodGet, "/api/v1/content-uploads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _ := f.register(t, "user@example.com", false)
	w = f.do(t, http.MethodGet, "/api/v1/user", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user@example.com")

	w = f.do(t, http.MethodPost, "/api/v1/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AdminGate(t *testing.T) {
	f := newAPIFixture(t)

	userToken, _ := f.register(t, "user@example.com", false)
	adminToken, _ := f.register(t, "admin@example.com", true)

	// Plain users cannot manage tenants or roles
	w := f.do(t, http.MethodGet, "/api/v1/tenants", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/roles", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/tenants", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_TenantConflict(t *testing.T) {
	f := newAPIFixture(t)
	adminToken, _ := f.register(t, "admin@example.com", true)

	w := f.do(t, http.MethodPost, "/api/v1/tenants", adminToken, gin.H{
		"name": "Acme", "domain": "acme.example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/tenants", adminToken, gin.H{
		"name": "Other", "domain": "acme.example.com",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}

func TestRouter_RoleLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	adminToken, _ := f.register(t, "admin@example.com", true)
	_, userID := f.register(t, "member@example.com", false)

	w := f.do(t, http.MethodPost, "/api/v1/roles", adminToken, gin.H{
		"name":        "Content Manager",
		"permissions": gin.H{"manage_content": true},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "content-manager", created.Data.Slug)

	// Unknown capabilities are rejected with a field error
	w = f.do(t, http.MethodPost, "/api/v1/roles", adminToken, gin.H{
		"name":        "Bad Role",
		"permissions": gin.H{"manage_everything": true},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "permissions")

	// Idempotent assign; role and user travel in the body
	for i := 0; i < 2; i++ {
		w = f.do(t, http.MethodPost, "/api/v1/roles/assign", adminToken, gin.H{"role_id": created.Data.ID, "user_id": userID})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/v1/roles/remove", adminToken, gin.H{"role_id": created.Data.ID, "user_id": userID})
	assert.Equal(t, http.StatusOK, w.Code)

	// role_id is required in the body
	w = f.do(t, http.MethodPost, "/api/v1/roles/assign", adminToken, gin.H{"user_id": userID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// System role deletion is forbidden
	w = f.do(t, http.MethodGet, "/api/v1/roles", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data struct {
			Roles []struct {
				ID   string `json:"id"`
				Slug string `json:"slug"`
			} `json:"roles"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	for _, role := range list.Data.Roles {
		if role.Slug == domain.RoleSlugAdmin {
			w = f.do(t, http.MethodDelete, "/api/v1/roles/"+role.ID, adminToken, nil)
			assert.Equal(t, http.StatusForbidden, w.Code)
		}
	}
}

func TestRouter_PlatformCredentialsHidden(t *testing.T) {
	f := newAPIFixture(t)
	token, _ := f.register(t, "user@example.com", false)

	w := f.do(t, http.MethodPost, "/api/v1/social-platforms", token, gin.H{
		"name":          "Main Twitter",
		"platform_type": "twitter",
		"credentials":   gin.H{"api_key": "super-secret-key"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "super-secret-key")
	assert.NotContains(t, w.Body.String(), "credentials")
}

func (f *apiFixture) uploadFile(t *testing.T, token, platformID, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("social_platform_id", platformID))
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/content-uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) createPlatform(t *testing.T, token string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/social-platforms", token, gin.H{
		"name":          "Main Twitter",
		"platform_type": "twitter",
		"credentials":   gin.H{"api_key": "k"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestRouter_UploadLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	token, _ := f.register(t, "user@example.com", false)
	platformID := f.createPlatform(t, token)

	w := f.uploadFile(t, token, platformID, "clip.mp4", "video bytes")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Data.Status)

	// Invalid status transition is a validation error
	w = f.do(t, http.MethodPut, "/api/v1/content-uploads/"+created.Data.ID, token, gin.H{"status": "published"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Signed download link round-trips through the file handler
	w = f.do(t, http.MethodGet, "/api/v1/content-uploads/"+created.Data.ID+"/download", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var link struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))

	w = f.do(t, http.MethodGet, link.Data.URL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video bytes", w.Body.String())

	// Tampered signatures are rejected
	w = f.do(t, http.MethodGet, link.Data.URL+"0", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Queue for publication, then run the job as a worker would
	w = f.do(t, http.MethodPost, "/api/v1/content-uploads/"+created.Data.ID+"/publish", token, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = f.queue.Consume(ctx, func(ctx context.Context, job *queue.Job) error {
			err := f.uploadSvc.ProcessPublish(ctx, job)
			close(done)
			cancel()
			return err
		})
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("publish job was never consumed")
	}

	w = f.do(t, http.MethodGet, "/api/v1/content-uploads/"+created.Data.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"published"`)
	assert.Contains(t, w.Body.String(), "external_post_id")
}

func TestRouter_UploadTooLarge(t *testing.T) {
	f := newAPIFixture(t)
	token, _ := f.register(t, "user@example.com", false)
	platformID := f.createPlatform(t, token)

	w := f.uploadFile(t, token, platformID, "big.mp4", strings.Repeat("x", 2048))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "file")
}

func TestRouter_UploadBodyCutAtWire(t *testing.T) {
	f := newAPIFixture(t)
	token, _ := f.register(t, "user@example.com", false)
	platformID := f.createPlatform(t, token)

	// Far beyond the handler's body cap, rejected without buffering
	w := f.uploadFile(t, token, platformID, "huge.mp4", strings.Repeat("x", 3<<20))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "file")
}

func TestRouter_ListUploadsUserFilter(t *testing.T) {
	f := newAPIFixture(t)
	ownerToken, ownerID := f.register(t, "owner@example.com", false)
	otherToken, _ := f.register(t, "other@example.com", false)
	adminToken, _ := f.register(t, "admin@example.com", true)
	platformID := f.createPlatform(t, ownerToken)

	w := f.uploadFile(t, ownerToken, platformID, "clip.mp4", "bytes")
	require.Equal(t, http.StatusCreated, w.Code)

	// Non-admins cannot list another user's uploads
	w = f.do(t, http.MethodGet, "/api/v1/content-uploads?user_id="+ownerID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins can
	w = f.do(t, http.MethodGet, "/api/v1/content-uploads?user_id="+ownerID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clip.mp4")

	// Without the filter an admin sees only their own
	w = f.do(t, http.MethodGet, "/api/v1/content-uploads", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "clip.mp4")
}

func TestRouter_UploadOwnership(t *testing.T) {
	f := newAPIFixture(t)
	owner, _ := f.register(t, "owner@example.com", false)
	other, _ := f.register(t, "other@example.com", false)
	platformID := f.createPlatform(t, owner)

	w := f.uploadFile(t, owner, platformID, "clip.mp4", "bytes")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = f.do(t, http.MethodGet, "/api/v1/content-uploads/"+created.Data.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/content-uploads/%s", uuid.New().String()), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
