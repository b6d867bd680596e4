package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	notifService "counselling_backend/internals/features/home/notifications/service"
	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/testutil"
)

const testSecret = "route-test-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db := testutil.NewDB(t)
	app := fiber.New()
	BaseRoutes(app, db)
	SetupRoutes(app, db, Deps{Publisher: notifService.NewRecorder(), Secret: testSecret, SlackDays: 1})
	return app, db
}

func tokenFor(t *testing.T, u userModel.UserModel) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   u.ID.String(),
		"role": string(u.UserType),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, map[string]any) {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	resp, body := do(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
}

func TestPrivateRoutesNeedToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, http.MethodGet, "/api/u/notifications", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/u/notifications", "not-a-jwt", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesCheckRole(t *testing.T) {
	app, db := newTestApp(t)
	student := testutil.CreateUser(t, db, userModel.UserTypeStudent, "Kiran Shah")
	admin := testutil.CreateUser(t, db, userModel.UserTypeAdmin, "Head Office")

	resp, _ := do(t, app, http.MethodGet, "/api/a/counselling-types", tokenFor(t, student), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/api/a/counselling-types", tokenFor(t, admin), "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// students may not manage availability
	resp, _ = do(t, app, http.MethodGet, "/api/u/times", tokenFor(t, student), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPublicIntakeForm(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/api/public/forms", "", `{"name":"Kiran Shah"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, http.MethodPost, "/api/public/forms", "",
		`{"name":"Kiran Shah","grNumber":"GR-11","referee":"student","email":"kiran@family.test","class":"8B"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GR-11", data["grNumber"])
}

func TestInactiveUserIsRejected(t *testing.T) {
	app, db := newTestApp(t)
	admin := testutil.CreateUser(t, db, userModel.UserTypeAdmin, "Head Office")
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("id = ?", admin.ID).Update("is_active", false).Error)

	resp, _ := do(t, app, http.MethodGet, "/api/a/counselling-types", tokenFor(t, admin), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
