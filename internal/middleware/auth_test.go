package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "middleware-test-secret-0123456789ab"

func setupRouter(t *testing.T) (*gin.Engine, *repository.UserRepository, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret

	return gin.New(), repository.NewUserRepository(db), cfg
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router, userRepo, cfg := setupRouter(t)
	router.GET("/protected", AuthMiddleware(cfg, userRepo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestAuthMiddlewareRejectsDeletedUser(t *testing.T) {
	router, userRepo, cfg := setupRouter(t)
	router.GET("/protected", AuthMiddleware(cfg, userRepo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	user := &model.User{Name: "Gone", Email: "gone@test.local", Password: "x", Role: model.Student}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token := tokenFor(t, user)

	// 令牌在删除前签发，删除后必须立即失效
	if err := userRepo.Delete(user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for deleted user", w.Code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	router, userRepo, cfg := setupRouter(t)
	router.GET("/teachers-only",
		AuthMiddleware(cfg, userRepo),
		RoleMiddleware(model.Teacher),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	cases := []struct {
		role model.UserRole
		want int
	}{
		{model.Student, http.StatusForbidden},
		{model.Teacher, http.StatusOK},
		{model.Admin, http.StatusOK}, // 管理员直接放行
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			user := &model.User{
				Name:     string(tc.role),
				Email:    fmt.Sprintf("%s@test.local", uuid.NewString()),
				Password: "x",
				Role:     tc.role,
			}
			if err := userRepo.Create(user); err != nil {
				t.Fatalf("create user: %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/teachers-only", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, user))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("role %s: status = %d, want %d", tc.role, w.Code, tc.want)
			}
		})
	}
}

func TestRoleMiddlewareRefreshesRoleFromDB(t *testing.T) {
	router, userRepo, cfg := setupRouter(t)
	router.GET("/teachers-only",
		AuthMiddleware(cfg, userRepo),
		RoleMiddleware(model.Teacher),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	user := &model.User{Name: "Promoted", Email: "promoted@test.local", Password: "x", Role: model.Student}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	// 令牌中角色还是 STUDENT，但数据库里已晋升
	token := tokenFor(t, user)
	user.Role = model.Teacher
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("update role: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/teachers-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (role read from database, not token)", w.Code)
	}
}
