package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/hash"
	"github.com/bittumobiles/wholesale_shop/internal/logging"
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/mykafka"
	"github.com/bittumobiles/wholesale_shop/internal/service/token"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      mykafka.Publisher
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Register creates a retailer account. There is no real OTP delivery: the
// six-digit PIN chosen here stands in for the verification code and is
// checked on every login.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "validation", "error", err)
		return err
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("phone = ?", req.Phone).First(&existing).Error
	if err == nil {
		l.Warn("register_failed", "status", 409, "reason", "phone already registered")
		return echo.NewHTTPError(http.StatusConflict, "phone already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "status", 500, "reason", "db error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pinHash, err := hash.HashPin(req.Pin)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash pin", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash pin")
	}

	user := models.User{
		Phone:     req.Phone,
		Name:      req.Name,
		ShopName:  req.ShopName,
		GSTNumber: req.GSTNumber,
		PinHash:   pinHash,
		Role:      "retailer",
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot create user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create user")
	}

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"phone":  user.Phone,
	})
	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		l.Warn("login_failed", "status", 401, "reason", "unknown phone")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid phone or pin")
	}
	if !hash.CheckPin(user.PinHash, req.Pin) {
		l.Warn("login_failed", "status", 401, "reason", "wrong pin", "user_id", user.ID)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid phone or pin")
	}

	accessToken, err := token.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create access token")
	}
	refreshToken, err := token.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create refresh token")
	}
	if err := token.SaveRefreshToken(h.DB.WithContext(ctx), refreshToken, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not save refresh token")
	}

	c.SetCookie(token.CreateCookie("accessToken", accessToken, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(token.RefreshTTL)))

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})
	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	if rfCookie, err := c.Cookie("refreshToken"); err == nil {
		svc := &token.TokenService{DB: h.DB, JWTSecret: h.JWTSecret, RefreshSecret: h.RefreshSecret}
		if err := svc.RevokeRefresh(rfCookie.Value); err != nil {
			c.Logger().Errorf("revoke refresh error: %v", err)
		}
	}

	expired := time.Now().Add(-time.Hour)
	c.SetCookie(token.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", expired))
	return c.NoContent(http.StatusNoContent)
}
