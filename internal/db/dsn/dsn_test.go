package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mf010/dynamic-website-sub000/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name     string
		db       config.DB
		expected string
	}{
		{
			name: "mysql",
			db: config.DB{
				Engine:   config.EngineMySQL,
				Host:     "127.0.0.1",
				Port:     3306,
				User:     "website",
				Password: "secret",
				Name:     "website",
				Extras:   "parseTime=True",
			},
			expected: "website:secret@tcp(127.0.0.1:3306)/website?parseTime=True",
		},
		{
			name: "postgres",
			db: config.DB{
				Engine:   config.EnginePostgres,
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "website",
				Password: "secret",
				Name:     "website",
				Extras:   "sslmode=disable",
			},
			expected: "host=127.0.0.1 user=website password=secret dbname=website port=5432 sslmode=disable",
		},
		{
			name: "sqlite",
			db: config.DB{
				Engine: config.EngineSQLite,
				File:   "website.db",
			},
			expected: "website.db",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{DB: tc.db}
			assert.Equal(t, tc.expected, Create(cfg))
			assert.NotNil(t, Dialector(cfg))
		})
	}
}
