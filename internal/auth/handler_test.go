package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rfid-backoffice/internal/config"
	"rfid-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// failingDB never reaches a server: every query fails in a callback before execution.
func failingDB(t *testing.T, queryErr error) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable"}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail", func(tx *gorm.DB) {
		_ = tx.AddError(queryErr)
	}))
	return db
}

func meRequest(t *testing.T, db *gorm.DB) map[string]any {
	t.Helper()
	app := fiber.New()
	app.Use(JWTMiddleware(testSecret))
	app.Get("/me", MeHandler(db))

	token, err := GenerateToken(testSecret, &models.User{ID: 4, Name: "mario", Role: "admin"})
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestMeHandler_FallsBackToClaims(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		logged bool
	}{
		{"user missing", gorm.ErrRecordNotFound, false},
		{"database down", errors.New("connection refused"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hook := test.NewLocal(config.GetLogger())
			defer hook.Reset()

			out := meRequest(t, failingDB(t, tc.err))
			assert.Equal(t, float64(4), out["id"])
			assert.Equal(t, "mario", out["name"])
			assert.Equal(t, "admin", out["role"])

			var errorsLogged []*logrus.Entry
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.ErrorLevel && e.Data["funcName"] == "MeHandler" {
					errorsLogged = append(errorsLogged, e)
				}
			}
			if !tc.logged {
				assert.Empty(t, errorsLogged)
				return
			}
			require.Len(t, errorsLogged, 1)
			assert.Equal(t, "connection refused", errorsLogged[0].Message)
			assert.Equal(t, "auth", errorsLogged[0].Data["module"])
		})
	}
}
