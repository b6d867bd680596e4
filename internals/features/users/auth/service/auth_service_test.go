package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userModel "counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/testutil"
)

const testSecret = "test-secret"

func seedUser(t *testing.T, db *gorm.DB, password string) userModel.UserModel {
	t.Helper()
	u := testutil.CreateCounsellor(t, db, "Asha Rao")
	hash, err := helperAuth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(&u).Update("password", hash).Error)
	return u
}

func TestLoginIssuesSignedToken(t *testing.T) {
	db := testutil.NewDB(t)
	u := seedUser(t, db, "s3cret-pass")
	svc := NewAuthService(db, testSecret)
	fixed := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.Login(context.Background(), " Asha.Rao@school.test ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(accessTTLDefault), res.ExpiresAt)

	claims := jwt.MapClaims{}
	_, err = jwt.NewParser(jwt.WithoutClaimsValidation()).ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims["id"])
	assert.Equal(t, "counsellor", claims["role"])
	assert.Equal(t, "Asha Rao", claims["user_name"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := testutil.NewDB(t)
	seedUser(t, db, "s3cret-pass")
	svc := NewAuthService(db, testSecret)

	_, err := svc.Login(context.Background(), "asha.rao@school.test", "wrong")
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)

	_, err = svc.Login(context.Background(), "nobody@school.test", "s3cret-pass")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)

	_, err = svc.Login(context.Background(), "", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestChangePassword(t *testing.T) {
	db := testutil.NewDB(t)
	u := seedUser(t, db, "s3cret-pass")
	svc := NewAuthService(db, testSecret)
	svc.HashCost = bcrypt.MinCost
	ctx := context.Background()

	assert.Error(t, svc.ChangePassword(ctx, u.ID, "wrong", "another-pass"))
	assert.True(t, apperr.Is(svc.ChangePassword(ctx, u.ID, "s3cret-pass", "short"), apperr.KindValidation))

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "s3cret-pass", "another-pass"))
	_, err := svc.Login(ctx, "asha.rao@school.test", "another-pass")
	assert.NoError(t, err)
}
