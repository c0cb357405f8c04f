package store

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datazip-inc/olake-hydrator/store/migrations"
)

func migrationsFS() fs.FS {
	return migrations.FS
}

func TestExtractUp(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unmarked", content: "CREATE TABLE a (id TEXT);", want: "CREATE TABLE a (id TEXT);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a (id TEXT);", want: "\nCREATE TABLE a (id TEXT);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;", want: "\nCREATE TABLE a (id TEXT);\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractUp(tc.content))
		})
	}
}
