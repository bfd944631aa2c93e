package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	defer func(v, b, g string) { Version, BuildTime, GitCommit = v, b, g }(Version, BuildTime, GitCommit)

	Version, BuildTime, GitCommit = "v1.2.0", "unknown", "unknown"
	assert.Equal(t, "v1.2.0 (development build)", Info())

	BuildTime = "not-a-time"
	assert.Equal(t, "v1.2.0 (built not-a-time)", Info())

	BuildTime, GitCommit = "2026-03-01T10:00:00Z", "abc"
	assert.Equal(t, "v1.2.0 (built 2026-03-01 10:00:00 UTC, commit abc)", Info())

	GitCommit = "0123456789abcdef"
	assert.Equal(t, "v1.2.0 (built 2026-03-01 10:00:00 UTC, commit 01234567)", Info())
}
