package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"GO2GETHER_BUDGET/internal/ledger"
)

func TestNotFound(t *testing.T) {
	err := notFound(pgx.ErrNoRows, "budget item")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Equal(t, "budget item: not found", err.Error())

	boom := errors.New("conn reset")
	err = notFound(boom, "trip")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ledger.ErrNotFound)
}
