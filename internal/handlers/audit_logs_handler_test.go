package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/session"
)

func TestAuditLogsListScopedToCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "audit_logs" WHERE user_id = $1 AND action = $2`)).
		WithArgs(7, "appointment_created").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "audit_logs" WHERE user_id = $1 AND action = $2 ORDER BY created_at DESC`)).
		WithArgs(7, "appointment_created", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "session_id", "action", "entity", "created_at"}).
			AddRow(3, 7, "s-1", "appointment_created", "appointment", time.Now()))

	r := gin.New()
	r.GET("/logs", func(c *gin.Context) {
		c.Set(middleware.ContextSession, session.Current{SessionID: "s-1", User: domain.User{ID: 7}})
		c.Next()
	}, NewAuditLogsHandler(db).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs?action=appointment_created", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Total int64            `json:"total"`
		Logs  []map[string]any `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, int64(1), out.Total)
	require.Len(t, out.Logs, 1)
	assert.Equal(t, "appointment_created", out.Logs[0]["action"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogsRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/logs", nil)

	NewAuditLogsHandler(nil).List(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
