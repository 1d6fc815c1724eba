package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newHealthRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", New(db, zap.NewNop().Sugar()).Check)
	return router
}

func openHealthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func TestHandler_Check(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		router := newHealthRouter(t, openHealthDB(t))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("database unavailable", func(t *testing.T) {
		db := openHealthDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		router := newHealthRouter(t, db)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unhealthy"}`, w.Body.String())
	})

	t.Run("healthy after writes", func(t *testing.T) {
		db := openHealthDB(t)
		require.NoError(t, db.Exec("CREATE TABLE users (id TEXT PRIMARY KEY)").Error)
		require.NoError(t, db.Exec("INSERT INTO users (id) VALUES ('u1')").Error)

		router := newHealthRouter(t, db)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("concurrent checks", func(t *testing.T) {
		router := newHealthRouter(t, openHealthDB(t))

		results := make(chan int, 10)
		for i := 0; i < 10; i++ {
			go func() {
				w := httptest.NewRecorder()
				req, _ := http.NewRequest(http.MethodGet, "/health", nil)
				router.ServeHTTP(w, req)
				results <- w.Code
			}()
		}
		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, <-results)
		}
	})
}
