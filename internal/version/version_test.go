package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfoShortensCommit(t *testing.T) {
	oldVersion, oldCommit := Version, CommitHash
	t.Cleanup(func() { Version, CommitHash = oldVersion, oldCommit })

	Version = "v1.2.0"
	CommitHash = "3f2c1ab9d0e4"
	assert.Equal(t, "v1.2.0 (3f2c1ab)", GetInfo())

	CommitHash = "abc"
	assert.Equal(t, "v1.2.0 (abc)", GetInfo())
}
