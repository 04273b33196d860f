package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"office-duty/config"
	"office-duty/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-2026",
		AccessTokenTTL: time.Minute,
	})
}

func okHandler(c *gin.Context) { c.String(http.StatusOK, "ok") }

// ═══════════════════════════════════════════════════════════
// JWTAuth / RoleAuth
// ═══════════════════════════════════════════════════════════

func TestJWTAuth(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("user-1", RoleAdmin)
	if err != nil {
		t.Fatalf("签发 token 失败: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"缺少认证头", "", http.StatusUnauthorized},
		{"格式错误", "Token " + token, http.StatusUnauthorized},
		{"无效 token", "Bearer not-a-token", http.StatusUnauthorized},
		{"有效 token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", JWTAuth(mgr), func(c *gin.Context) {
				if c.GetString("user_id") != "user-1" || c.GetString("role") != RoleAdmin {
					t.Errorf("上下文缺少身份信息")
				}
				okHandler(c)
			})

			req := httptest.NewRequest("GET", "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("期望 %d，实际 %d", tc.want, w.Code)
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{RoleMember, http.StatusForbidden},
		{RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		r := gin.New()
		r.POST("/x", func(c *gin.Context) {
			if tc.role != "" {
				c.Set("role", tc.role)
			}
		}, RoleAuth(RoleAdmin), okHandler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/x", nil))

		if w.Code != tc.want {
			t.Errorf("role=%q: 期望 %d，实际 %d", tc.role, tc.want, w.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func TestRateLimit(t *testing.T) {
	cases := []struct {
		name    string
		limiter *fakeLimiter
		want    int
	}{
		{"放行", &fakeLimiter{allowed: true}, http.StatusOK},
		{"超限", &fakeLimiter{allowed: false}, http.StatusTooManyRequests},
		{"Redis 故障降级", &fakeLimiter{err: errors.New("conn refused")}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/v1/rotation/state", RateLimit(tc.limiter, 10, time.Minute), okHandler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/rotation/state", nil))

			if w.Code != tc.want {
				t.Errorf("期望 %d，实际 %d", tc.want, w.Code)
			}
			if len(tc.limiter.keys) != 1 || !strings.HasSuffix(tc.limiter.keys[0], ":/api/v1/rotation/state") {
				t.Errorf("限流 key 异常: %v", tc.limiter.keys)
			}
		})
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 10, time.Minute), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BodyLimit / CORS / RequestID / Logger / Metrics
// ═══════════════════════════════════════════════════════════

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(8), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/x", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/x", strings.NewReader("0123")))
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://duty.local/"}))
	r.GET("/x", okHandler)

	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://duty.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检期望 204，实际 %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://duty.local" {
		t.Errorf("Allow-Origin 异常: %q", got)
	}

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("未授权来源不应放行: %q", got)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", okHandler)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("应沿用请求头 ID，实际 %q", got)
	}

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("a", requestIDMaxLen+1))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("过长 ID 应被替换为 UUID，实际 %q", got)
	}
}

func TestLogger_IncludesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/x", okHandler)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志，实际 %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "rid-1" {
		t.Errorf("日志缺少 request_id: %v", got)
	}
}

type recordedHTTP struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	calls []recordedHTTP
}

func (*fakeRecorder) ObserveGenerate(string, time.Duration, int) {}
func (*fakeRecorder) IncPublish(string)                          {}
func (*fakeRecorder) IncChange(string, string)                   {}
func (*fakeRecorder) ObservePredict(int, bool)                   {}
func (f *fakeRecorder) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, recordedHTTP{method, route, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/rotation/stats/:person_id", okHandler)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/rotation/stats/p-1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope", nil))

	if len(rec.calls) != 2 {
		t.Fatalf("期望 2 次记录，实际 %d", len(rec.calls))
	}
	if rec.calls[0].route != "/rotation/stats/:person_id" || rec.calls[0].status != http.StatusOK {
		t.Errorf("路由模板记录异常: %+v", rec.calls[0])
	}
	if rec.calls[1].route != "unmatched" || rec.calls[1].status != http.StatusNotFound {
		t.Errorf("未匹配路由记录异常: %+v", rec.calls[1])
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("缺少 nosniff 头")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("缺少 X-Frame-Options 头")
	}
}
