package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "date")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", NotFound("session"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.True(t, Is(InvalidState("nope"), KindInvalidState))
	assert.False(t, Is(nil, KindInvalidState))
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "case"))
	assert.True(t, Is(FromDB(gorm.ErrRecordNotFound, "case"), KindNotFound))
	assert.Equal(t, "case not found", FromDB(gorm.ErrRecordNotFound, "case").Error())

	dup := FromDB(&pgconn.PgError{Code: "23505"}, "email")
	assert.True(t, Is(dup, KindValidation))

	fk := FromDB(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), "session")
	assert.True(t, Is(fk, KindValidation))

	internal := FromDB(errors.New("connection reset"), "session")
	assert.True(t, Is(internal, KindInternal))
	assert.Contains(t, internal.Error(), "connection reset")

	// already classified errors pass through
	nf := NotFound("time not found")
	assert.Same(t, nf, FromDB(nf, "time"))
}

func TestPartialCarriesIDs(t *testing.T) {
	err := Partial("some users could not be deleted", []string{"a"})
	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, []string{"a"}, e.FailedIDs)
}
