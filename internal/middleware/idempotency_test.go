package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ankitsharma97/leaveManagement/internal/middleware"
	"github.com/ankitsharma97/leaveManagement/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func idempotencyRouter(rdb *redis.Client, handled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/leaves/:id/submit", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}, middleware.Idempotency(rdb), func(c *gin.Context) {
		*handled = true
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestIdempotency(t *testing.T) {
	t.Run("no key passes through", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		handled := false
		r := idempotencyRouter(rdb, &handled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/submit", nil)
		r.ServeHTTP(w, req)

		assert.True(t, handled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cached response replayed without handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		handled := false
		r := idempotencyRouter(rdb, &handled)

		leaveID := uuid.New().String()
		cacheKey := "idemp:/leaves/:id/submit:user-1:key-1"
		cached, _ := json.Marshal(map[string]any{"id": leaveID, "status": "submitted"})
		mock.ExpectGet(cacheKey).SetVal(string(cached))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/submit", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.False(t, handled)
		assert.Equal(t, http.StatusOK, w.Code)

		// The replay carries the same envelope as a live response.
		var body response.ApiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Ok)
		assert.Nil(t, body.Error)
		data, ok := body.Data.(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, leaveID, data["id"])
		assert.Equal(t, "submitted", data["status"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate gets conflict", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		handled := false
		r := idempotencyRouter(rdb, &handled)

		leaveID := uuid.New().String()
		cacheKey := "idemp:/leaves/:id/submit:user-1:key-2"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/submit", nil)
		req.Header.Set("Idempotency-Key", "key-2")
		r.ServeHTTP(w, req)

		assert.False(t, handled)
		assert.Equal(t, http.StatusConflict, w.Code)

		var body response.ApiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Ok)
		errObj, ok := body.Error.(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, "CONFLICT", errObj["code"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request acquires lock and proceeds", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		handled := false
		r := idempotencyRouter(rdb, &handled)

		leaveID := uuid.New().String()
		cacheKey := "idemp:/leaves/:id/submit:user-1:key-3"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/submit", nil)
		req.Header.Set("Idempotency-Key", "key-3")
		r.ServeHTTP(w, req)

		assert.True(t, handled)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
