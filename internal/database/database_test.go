package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestMySQLDSN(t *testing.T) {
	assert.Equal(t,
		"shugly:secret@tcp(db:3306)/shugly?charset=utf8mb4&parseTime=True&loc=UTC",
		mysqlDSN("mysql://shugly:secret@db:3306/shugly"),
	)
	assert.Equal(t,
		"tcp(localhost:3306)/app?parseTime=true",
		mysqlDSN("mysql://localhost:3306/app?parseTime=true"),
	)
}
