package http

import (
	"errors"
	"net/http"
	"strings"

	"ordering/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalContextKey = "principal"

// Claims are the bearer token claims issued by the identity service.
// The subject is the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and attaches the caller's
// kernel.Principal to the echo context. Requests without a token continue
// anonymously; a token that is present but invalid is rejected with 401.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (a *Authenticator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return next(c)
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return unauthorized(c, "authorization header must use the Bearer scheme")
		}

		principal, err := a.principal(strings.TrimSpace(raw))
		if err != nil {
			return unauthorized(c, "invalid bearer token")
		}

		c.Set(principalContextKey, principal)
		return next(c)
	}
}

func (a *Authenticator) principal(raw string) (kernel.Principal, error) {
	claims := &Claims{}
	token, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return kernel.Principal{}, err
	}
	if !token.Valid {
		return kernel.Principal{}, errors.New("token is not valid")
	}
	return kernel.NewPrincipal(claims.Subject, claims.Email, kernel.Role(claims.Role))
}

// PrincipalFrom returns the caller, or the zero (anonymous) principal.
func PrincipalFrom(c echo.Context) kernel.Principal {
	p, _ := c.Get(principalContextKey).(kernel.Principal)
	return p
}

// RequireAuthenticated rejects anonymous callers before body validation runs.
func RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !PrincipalFrom(c).IsAuthenticated() {
			return unauthorized(c, "authentication required")
		}
		return next(c)
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: http.StatusUnauthorized, Message: message})
}
