package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlfiles "github.com/Kaustubh-Sir/cropsuit/migrations"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("migrations/002_add_index_on_crops.sql"))
	assert.Equal(t, "readme.sql", Version("readme.sql"))
}

func TestPending_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"010_more.sql":   {Data: []byte("SELECT 1;")},
		"002_second.sql": {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("docs")},
		"nested/003.sql": {Data: []byte("SELECT 1;")},
	}

	files, err := Pending(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"002_second.sql", "010_more.sql"}, files)
}

func TestEmbeddedSchema(t *testing.T) {
	files, err := Pending(sqlfiles.Files)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])
}
