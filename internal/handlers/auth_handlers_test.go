package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittumobiles/wholesale_shop/internal/hash"
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
)

func newAuthHandler(env *testEnv) *AuthHandler {
	return &AuthHandler{
		DB:            env.DB,
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Producer:      env.Producer,
	}
}

func validRegisterPayload() transport.RegisterRequest {
	return transport.RegisterRequest{
		Phone:    "9876501234",
		Name:     "Sharma Mobiles",
		ShopName: "Sharma Mobile Point",
		Pin:      "482913",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := newAuthHandler(env)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/register", validRegisterPayload())
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("phone = ?", "9876501234").First(&user).Error)
	assert.Equal(t, "retailer", user.Role)
	assert.NotEqual(t, "482913", user.PinHash, "pin must not be stored in clear")
	assert.True(t, hash.CheckPin(user.PinHash, "482913"))
	assert.Contains(t, env.Producer.eventTypes(), "user_registered")
}

func TestRegister_DuplicatePhone(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedRetailer(t, "9876501234")
	h := newAuthHandler(env)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/register", validRegisterPayload())
	requireHTTPError(t, h.Register(c), http.StatusConflict)
}

func TestRegister_RejectsBadPayloads(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := newAuthHandler(env)

	tests := []struct {
		name   string
		mutate func(*transport.RegisterRequest)
	}{
		{"short phone", func(r *transport.RegisterRequest) { r.Phone = "98765" }},
		{"non numeric phone", func(r *transport.RegisterRequest) { r.Phone = "98765abcde" }},
		{"short pin", func(r *transport.RegisterRequest) { r.Pin = "1234" }},
		{"missing name", func(r *transport.RegisterRequest) { r.Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterPayload()
			tt.mutate(&req)

			_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/register", req)
			requireHTTPError(t, h.Register(c), http.StatusBadRequest)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := newAuthHandler(env)

	pinHash, err := hash.HashPin("482913")
	require.NoError(t, err)
	user := models.User{Phone: "9876501234", Name: "Sharma Mobiles", PinHash: pinHash, Role: "retailer"}
	require.NoError(t, env.DB.Create(&user).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/login",
		transport.LoginRequest{Phone: "9876501234", Pin: "482913"})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
		assert.NotEmpty(t, ck.Value)
	}
	assert.Contains(t, names, "accessToken")
	assert.Contains(t, names, "refreshToken")

	var count int64
	require.NoError(t, env.DB.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var body models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.PinHash, "pin hash must not leak in the response")
}

func TestLogin_WrongPin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := newAuthHandler(env)

	pinHash, err := hash.HashPin("482913")
	require.NoError(t, err)
	require.NoError(t, env.DB.Create(&models.User{
		Phone: "9876501234", Name: "Sharma Mobiles", PinHash: pinHash, Role: "retailer",
	}).Error)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/login",
		transport.LoginRequest{Phone: "9876501234", Pin: "000000"})
	requireHTTPError(t, h.Login(c), http.StatusUnauthorized)
}

func TestLogin_UnknownPhone(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := newAuthHandler(env)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/login",
		transport.LoginRequest{Phone: "9999999999", Pin: "482913"})
	requireHTTPError(t, h.Login(c), http.StatusUnauthorized)
}

func TestLogOut_ExpiresCookies(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := newAuthHandler(env)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/logout", nil)
	require.NoError(t, h.LogOut(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		assert.True(t, ck.Expires.Before(time.Now()), "cookie %s should be expired", ck.Name)
	}
}
