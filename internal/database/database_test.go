package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite", sqliteDSN(":memory:"))
	assert.Equal(t, "app.db?cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", sqliteDSN("app.db?cache=shared"))
	assert.Equal(t, "app.db?_pragma=foreign_keys(1)&_time_format=sqlite", sqliteDSN("app.db?_pragma=foreign_keys(1)&_time_format=sqlite"))
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
