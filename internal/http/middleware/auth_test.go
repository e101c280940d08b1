package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/smartpath-backend/internal/platform/ctxutil"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.NewNop(), "s3cret", "campus-idp")

	r := gin.New()
	r.Use(am.RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.Subject)
	})

	valid := jwt.RegisteredClaims{
		Subject:   "20231234",
		Issuer:    "campus-idp",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := valid
	wrongIssuer.Issuer = "elsewhere"

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + signToken(t, "s3cret", valid), status: http.StatusOK},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", valid), status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, "s3cret", expired), status: http.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer " + signToken(t, "s3cret", wrongIssuer), status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Body.String() != "20231234" {
				t.Fatalf("unexpected subject: got=%q", rec.Body.String())
			}
		})
	}
}
