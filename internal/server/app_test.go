package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/assets"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testEmail    = "admin@example.com"
	testPassword = "secret123"
)

type testEnv struct {
	app   *fiber.App
	svc   *Services
	token string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		CORSOrigins:     "*",
		JWTSecret:       testSecret,
		JWTAccessExpiry: time.Hour,
		UploadMaxBytes:  services.DefaultUploadMaxBytes,
	}
	st := store.New(store.NewFileBackend(filepath.Join(dir, "portfolio.json")))
	local, err := assets.NewLocalStore(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	svc := NewServices(cfg, st, local)
	_, err = svc.Auth.EnsureSeedUser(context.Background(), services.SeedParams{
		Email: testEmail, Password: testPassword, Nom: "Doe", Prenom: "Jane",
	})
	require.NoError(t, err)

	env := &testEnv{app: NewApp(cfg, svc, Options{StaticDir: local.Dir()}), svc: svc}

	var auth dto.AuthResponse
	resp := env.do(t, http.MethodPost, "/api/auth/signin", "", dto.SignInRequest{Email: testEmail, Password: testPassword}, &auth)
	require.Equal(t, fiber.StatusOK, resp)
	env.token = auth.Token
	return env
}

// do sends body as JSON (or raw when it is a []byte) and decodes the reply into out.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	var out dto.HealthResponse
	status := env.do(t, http.MethodGet, "/api/health", "", nil, &out)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "ok", out.Store)
	assert.Equal(t, "file", out.Backend)
}

func TestSignIn(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		req    dto.SignInRequest
		status int
	}{
		{"short password", dto.SignInRequest{Email: "ghost@example.com", Password: "abc"}, fiber.StatusBadRequest},
		{"missing email", dto.SignInRequest{Password: testPassword}, fiber.StatusBadRequest},
		{"unknown email", dto.SignInRequest{Email: "ghost@example.com", Password: testPassword}, fiber.StatusUnauthorized},
		{"wrong password", dto.SignInRequest{Email: testEmail, Password: "wrong-pass"}, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out dto.ErrorResponse
			status := env.do(t, http.MethodPost, "/api/auth/signin", "", tt.req, &out)
			assert.Equal(t, tt.status, status)
			assert.False(t, out.Success)
			assert.NotEmpty(t, out.Error)
		})
	}

	var ok dto.AuthResponse
	status := env.do(t, http.MethodPost, "/api/auth/signin", "", dto.SignInRequest{Email: testEmail, Password: testPassword}, &ok)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, ok.Success)
	assert.Equal(t, int64(1), ok.User.ID)
	assert.Equal(t, testEmail, ok.User.Email)
}

func TestSignIn_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	var out dto.ErrorResponse
	status := env.do(t, http.MethodPost, "/api/auth/signin", "", []byte("{not json"), &out)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProfile_GetStubAndPut(t *testing.T) {
	env := newTestEnv(t)

	var stub map[string]any
	status := env.do(t, http.MethodGet, "/api/profile/42", "", nil, &stub)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(42), stub["user_id"])
	assert.Equal(t, "", stub["nom"])
	assert.NotContains(t, stub, "created_at")

	patch := map[string]any{"nom": "Curie", "bio": "Physicist", "id": 77}
	status = env.do(t, http.MethodPut, "/api/profile/1", env.token, patch, nil)
	assert.Equal(t, fiber.StatusOK, status)

	var got map[string]any
	env.do(t, http.MethodGet, "/api/profile/1", "", nil, &got)
	assert.Equal(t, "Curie", got["nom"])
	assert.Equal(t, "Jane", got["prenom"])
	assert.Equal(t, "Physicist", got["bio"])
	assert.Equal(t, float64(1), got["id"])
	assert.Contains(t, got, "updated_at")
}

func TestProfile_PutAuth(t *testing.T) {
	env := newTestEnv(t)
	patch := map[string]any{"nom": "X"}

	var out dto.ErrorResponse
	assert.Equal(t, fiber.StatusUnauthorized, env.do(t, http.MethodPut, "/api/profile/1", "", patch, &out))
	assert.False(t, out.Success)

	assert.Equal(t, fiber.StatusUnauthorized, env.do(t, http.MethodPut, "/api/profile/1", "garbage", patch, nil))
	assert.Equal(t, fiber.StatusForbidden, env.do(t, http.MethodPut, "/api/profile/2", env.token, patch, nil))
	assert.Equal(t, fiber.StatusBadRequest, env.do(t, http.MethodPut, "/api/profile/abc", env.token, patch, nil))

	// valid signature but the subject names no stored user
	ghost := signToken(t, "99")
	assert.Equal(t, fiber.StatusUnauthorized, env.do(t, http.MethodPut, "/api/profile/99", ghost, patch, nil))

	assert.Equal(t, fiber.StatusBadRequest, env.do(t, http.MethodPut, "/api/profile/1", env.token, []byte(`{"nom":1}`), nil))
}

func TestSections_AddListUpdateDelete(t *testing.T) {
	env := newTestEnv(t)

	var created dto.CreateSectionResponse
	status := env.do(t, http.MethodPost, "/api/sections/1", env.token, map[string]any{
		"title":   "Publications",
		"type":    "list",
		"content": []string{"A", "B"},
	}, &created)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, created.Success)
	assert.Regexp(t, `^section-\d+$`, created.ID)

	var list []map[string]any
	env.do(t, http.MethodGet, "/api/sections/1", "", nil, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0]["id"])
	assert.Equal(t, []any{"A", "B"}, list[0]["content"])
	assert.Equal(t, true, list[0]["visible"])

	status = env.do(t, http.MethodPut, "/api/sections/1/"+created.ID, env.token, map[string]any{"visible": false}, nil)
	assert.Equal(t, fiber.StatusOK, status)

	var visible []map[string]any
	env.do(t, http.MethodGet, "/api/sections/1?visible=true", "", nil, &visible)
	assert.Empty(t, visible)

	assert.Equal(t, fiber.StatusOK, env.do(t, http.MethodDelete, "/api/sections/1/"+created.ID, env.token, nil, nil))
	assert.Equal(t, fiber.StatusOK, env.do(t, http.MethodDelete, "/api/sections/1/"+created.ID, env.token, nil, nil))

	env.do(t, http.MethodGet, "/api/sections/1", "", nil, &list)
	assert.Empty(t, list)
}

func TestSections_Validation(t *testing.T) {
	env := newTestEnv(t)

	var out dto.ErrorResponse
	status := env.do(t, http.MethodPost, "/api/sections/1", env.token, map[string]any{"type": "gallery"}, &out)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, out.Error, "gallery")

	status = env.do(t, http.MethodPost, "/api/sections/1", env.token, map[string]any{"type": "text", "content": []string{"x"}}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = env.do(t, http.MethodPost, "/api/sections/2", env.token, map[string]any{"title": "x"}, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status = env.do(t, http.MethodDelete, "/api/sections/2/any", env.token, nil, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestSections_Reorder(t *testing.T) {
	env := newTestEnv(t)
	for _, id := range []string{"a", "b"} {
		require.Equal(t, fiber.StatusOK, env.do(t, http.MethodPut, "/api/sections/1/"+id, env.token, map[string]any{"title": id}, nil))
	}

	var ok dto.SuccessResponse
	status := env.do(t, http.MethodPut, "/api/sections/reorder", env.token, []map[string]any{
		{"id": "a", "order": 1},
		{"id": "ghost", "order": 9},
		{"id": "b", "order": 0},
	}, &ok)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, ok.Success)
	assert.NotEmpty(t, ok.Message)

	status = env.do(t, http.MethodPut, "/api/sections/reorder", env.token, map[string]any{
		"sections": []map[string]any{{"id": "a", "order": 3}},
	}, nil)
	assert.Equal(t, fiber.StatusOK, status)

	var list []dto.SectionOrder
	env.do(t, http.MethodGet, "/api/sections/1", "", nil, &list)
	orders := map[string]int{}
	for _, s := range list {
		orders[s.ID] = s.Order
	}
	assert.Equal(t, map[string]int{"a": 3, "b": 0}, orders)

	assert.Equal(t, fiber.StatusBadRequest, env.do(t, http.MethodPut, "/api/sections/reorder", env.token, map[string]any{"nope": 1}, nil))
	assert.Equal(t, fiber.StatusBadRequest, env.do(t, http.MethodPut, "/api/sections/reorder", env.token, []byte(`"x"`), nil))
	assert.Equal(t, fiber.StatusUnauthorized, env.do(t, http.MethodPut, "/api/sections/reorder", "", []map[string]any{}, nil))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	var out dto.ErrorResponse
	status := env.do(t, http.MethodPost, "/api/change-password", env.token, dto.ChangePasswordRequest{
		CurrentPassword: "wrong-pass", NewPassword: "newsecret",
	}, &out)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, out.Success)

	status = env.do(t, http.MethodPost, "/api/change-password", env.token, dto.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "abc",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = env.do(t, http.MethodPost, "/api/change-password", "", dto.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "newsecret",
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var ok dto.SuccessResponse
	status = env.do(t, http.MethodPost, "/api/change-password", env.token, dto.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "newsecret",
	}, &ok)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, ok.Success)

	status = env.do(t, http.MethodPost, "/api/auth/signin", "", dto.SignInRequest{Email: testEmail, Password: "newsecret"}, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func multipartPhoto(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "me.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadPhoto_ThenCheckAndServe(t *testing.T) {
	env := newTestEnv(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRdata")

	body, ct := multipartPhoto(t, "photo", png)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/photo", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+env.token)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var up dto.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	assert.True(t, up.Success)
	assert.Equal(t, "/uploads/"+up.Filename, up.URL)

	var check dto.CheckImageResponse
	env.do(t, http.MethodGet, "/api/check-image/"+up.Filename, "", nil, &check)
	assert.True(t, check.Exists)
	assert.Equal(t, up.URL, check.URL)

	served, err := env.app.Test(httptest.NewRequest(http.MethodGet, up.URL, nil), -1)
	require.NoError(t, err)
	defer served.Body.Close()
	assert.Equal(t, fiber.StatusOK, served.StatusCode)
	data, err := io.ReadAll(served.Body)
	require.NoError(t, err)
	assert.Equal(t, png, data)

	env.do(t, http.MethodGet, "/api/check-image/missing.png", "", nil, &check)
	assert.False(t, check.Exists)
}

func TestUploadPhoto_Rejections(t *testing.T) {
	env := newTestEnv(t)

	send := func(field string, data []byte, token string) int {
		body, ct := multipartPhoto(t, field, data)
		req := httptest.NewRequest(http.MethodPost, "/api/upload/photo", body)
		req.Header.Set("Content-Type", ct)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusBadRequest, send("photo", []byte("plain text, not an image"), env.token))
	assert.Equal(t, fiber.StatusBadRequest, send("avatar", []byte("\x89PNG\r\n\x1a\n"), env.token))
	assert.Equal(t, fiber.StatusBadRequest, send("photo", bytes.Repeat([]byte{0xff}, int(services.DefaultUploadMaxBytes)+1), env.token))
	assert.Equal(t, fiber.StatusUnauthorized, send("photo", []byte("\x89PNG\r\n\x1a\n"), ""))
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	env := newTestEnv(t)

	var out dto.ErrorResponse
	status := env.do(t, http.MethodGet, "/api/nope", "", nil, &out)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
}

func TestSeedUserIDMatchesToken(t *testing.T) {
	env := newTestEnv(t)

	token, _, err := jwt.NewParser().ParseUnverified(env.token, jwt.MapClaims{})
	require.NoError(t, err)
	sub := token.Claims.(jwt.MapClaims)["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	require.NoError(t, err)

	user, err := env.svc.Auth.ResolveUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, testEmail, user.Email)
}
