package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func claimsFor(sub, role string) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if role != "" {
		c.UserMetadata = map[string]any{"role": role}
	}
	return c
}

func guarded(a *Authenticator, optional bool, roles ...string) *echo.Echo {
	e := echo.New()
	mws := []echo.MiddlewareFunc{a.Authenticate(optional)}
	if len(roles) > 0 {
		mws = append(mws, RequireRole(roles...))
	}
	e.GET("/x", func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, p.UserID+":"+p.Role)
	}, mws...)
	return e
}

func call(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator_Parse(t *testing.T) {
	a := NewAuthenticator(testSecret, "authenticated")

	p, err := a.Parse(signToken(t, testSecret, claimsFor("user-1", "admin")))
	require.NoError(t, err)
	require.Equal(t, Principal{UserID: "user-1", Role: RoleAdmin}, p)

	p, err = a.Parse(signToken(t, testSecret, claimsFor("user-2", "")))
	require.NoError(t, err)
	require.Equal(t, RoleUser, p.Role)
}

func TestAuthenticator_ParseRejects(t *testing.T) {
	a := NewAuthenticator(testSecret, "authenticated")

	wrongAud := claimsFor("u", "admin")
	wrongAud.Audience = jwt.ClaimStrings{"anon"}

	expired := claimsFor("u", "admin")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noSub := claimsFor("", "admin")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claimsFor("u", "admin")).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"wrong secret":   signToken(t, "other", claimsFor("u", "admin")),
		"wrong audience": signToken(t, testSecret, wrongAud),
		"expired":        signToken(t, testSecret, expired),
		"no subject":     signToken(t, testSecret, noSub),
		"wrong alg":      hs512,
		"garbage":        "not.a.jwt",
	} {
		_, err := a.Parse(tok)
		require.Error(t, err, name)
	}
}

func TestAuthenticate_Required(t *testing.T) {
	e := guarded(NewAuthenticator(testSecret, "authenticated"), false)

	require.Equal(t, http.StatusUnauthorized, call(e, "").Code)
	require.Equal(t, http.StatusUnauthorized, call(e, "Basic abc").Code)
	require.Equal(t, http.StatusUnauthorized, call(e, "Bearer nope").Code)

	rec := call(e, "Bearer "+signToken(t, testSecret, claimsFor("user-1", "")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1:user", rec.Body.String())
}

func TestAuthenticate_Optional(t *testing.T) {
	e := guarded(NewAuthenticator(testSecret, "authenticated"), true)

	rec := call(e, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "anonymous", rec.Body.String())

	require.Equal(t, http.StatusUnauthorized, call(e, "Bearer nope").Code)
}

func TestRequireRole(t *testing.T) {
	e := guarded(NewAuthenticator(testSecret, "authenticated"), false, RoleAdmin)

	require.Equal(t, http.StatusForbidden, call(e, "Bearer "+signToken(t, testSecret, claimsFor("u", "user"))).Code)
	require.Equal(t, http.StatusOK, call(e, "Bearer "+signToken(t, testSecret, claimsFor("u", "admin"))).Code)

	// without Authenticate in front the guard has nothing to check
	bare := echo.New()
	bare.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole(RoleAdmin))
	require.Equal(t, http.StatusUnauthorized, call(bare, "").Code)
}
