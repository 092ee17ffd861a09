package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskline/configs"
)

func TestDSN(t *testing.T) {
	cfg := configs.Config{DBHost: "db", DBPort: 5433, DBUser: "app", DBPassword: "pw", DBName: "taskline"}

	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=taskline sslmode=disable", DSN(cfg, cfg.DBName))
	assert.Contains(t, DSN(cfg, "taskline_test"), "dbname=taskline_test")
}
