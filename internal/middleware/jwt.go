// Package middleware holds the echo middleware shared by the HTTP routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PJhaveri02/Booking-Service/internal/utils"
)

// AuthCookie carries the access token for clients that do not send an
// Authorization header.
const AuthCookie = "auth"

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// JWTAuth rejects requests without a valid access token. The token is
// read from "Authorization: Bearer <jwt>" or, failing that, from the auth
// cookie. Handlers read the caller with UserID.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing access token"})
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			id, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(ctxUserID, id)
			c.Set(ctxUsername, claims.Username)
			return next(c)
		}
	}
}

// UserID returns the authenticated caller, or 0 when JWTAuth did not run.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(ctxUserID).(uint64)
	return id
}

// Username returns the authenticated caller's name.
func Username(c echo.Context) string {
	name, _ := c.Get(ctxUsername).(string)
	return name
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if ck, err := c.Cookie(AuthCookie); err == nil {
		return ck.Value
	}
	return ""
}
