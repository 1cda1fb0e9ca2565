package cerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/isolation-levels/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	serr := &pgconn.PgError{
		Code:    cerr.SerializationFailureCode,
		Message: "could not serialize access due to concurrent update",
	}
	assert.True(t, cerr.IsSerializationFailure(serr))
	assert.True(
		t,
		cerr.IsSerializationFailure(fmt.Errorf("running tx: %w", serr)),
		"wrapped errors must be classified too",
	)
	assert.False(t, cerr.IsSerializationFailure(nil))
	assert.False(
		t, cerr.IsSerializationFailure(errors.New("no sqlstate here")),
	)
	assert.False(t, cerr.IsSerializationFailure(&pgconn.PgError{
		Code: "23505",
	}))
}

func TestSQLState(t *testing.T) {
	err := fmt.Errorf("x: %w", &pgconn.PgError{Code: "57P03"})
	assert.Equal(t, "57P03", cerr.SQLState(err))
	assert.Equal(t, "", cerr.SQLState(errors.New("plain")))
}

func TestUnknownVersionError(t *testing.T) {
	err := fmt.Errorf("migrating: %w", &cerr.UnknownVersionError{
		Version: 7,
	})
	var uve *cerr.UnknownVersionError
	if assert.ErrorAs(t, err, &uve) {
		assert.Equal(t, uint(7), uve.Version)
	}
	assert.Contains(t, err.Error(), "unknown schema version: 7")
}
