package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "counselling_backend/internals/features/users/users/model"
	helperAuth "counselling_backend/internals/helpers/auth"
)

var errInactive = errors.New("user inactive")

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("no token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("empty token")
	}
	return tok, nil
}

func parseToken(tokenString, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	return claims, err
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return fmt.Errorf("token has no exp")
	}
	expTime := time.Unix(int64(exp), 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["id"].(string)
	if !ok {
		raw, ok = claims["sub"].(string)
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("no user id")
	}
	return uuid.Parse(strings.TrimSpace(raw))
}

// loadIdentity reads role and name from the users row so a changed role applies
// without waiting for the token to expire.
func loadIdentity(db *gorm.DB, userID uuid.UUID) (userModel.UserModel, error) {
	var u userModel.UserModel
	if err := db.Select("id", "name", "user_type", "is_active").Where("id = ?", userID).Take(&u).Error; err != nil {
		return u, err
	}
	if !u.IsActive {
		return u, errInactive
	}
	return u, nil
}

/* ======== Store identity to Locals ======== */

func storeIdentity(c *fiber.Ctx, u userModel.UserModel) {
	c.Locals(helperAuth.LocUserID, u.ID.String())
	c.Locals(helperAuth.LocUserRole, string(u.UserType))
	c.Locals(helperAuth.LocUserName, u.Name)
}

// authenticate runs the full check and returns the status to answer with on failure.
func authenticate(c *fiber.Ctx, db *gorm.DB, secret string) (int, error) {
	tokenString, err := extractBearerToken(c)
	if err != nil {
		return fiber.StatusUnauthorized, err
	}
	if secret == "" {
		return fiber.StatusInternalServerError, fmt.Errorf("missing jwt secret")
	}
	claims, err := parseToken(tokenString, secret)
	if err != nil {
		return fiber.StatusUnauthorized, fmt.Errorf("token parse error")
	}
	if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
		return fiber.StatusUnauthorized, fmt.Errorf("token expired")
	}
	userID, err := extractUserID(claims)
	if err != nil {
		return fiber.StatusUnauthorized, fmt.Errorf("invalid or missing user id")
	}

	u, err := loadIdentity(db.WithContext(c.UserContext()), userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusUnauthorized, fmt.Errorf("user not found")
	case errors.Is(err, errInactive):
		return fiber.StatusForbidden, fmt.Errorf("account is disabled")
	case err != nil:
		return fiber.StatusInternalServerError, fmt.Errorf("internal server error")
	}
	storeIdentity(c, u)
	return 0, nil
}
