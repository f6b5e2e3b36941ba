package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// With Redis disabled the DB handle carries a nil client; every method on
// it must tolerate that.
func TestDBWithoutRedis(t *testing.T) {
	db := &DB{}

	assert.Nil(t, db.GetRedisClient())
	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.NoError(t, db.Close())
}
