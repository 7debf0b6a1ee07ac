package lock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/storage"
)

// writeManifests populates a real directory with a minimal valid
// .project.json/.meta.json pair, for tests exercising filesystem-backed
// storages.
func writeManifests(t *testing.T, root, name, version string, usages []kip.UsageRaw) {
	t.Helper()
	p := storage.NewLocalProject(root)
	require.NoError(t, p.PutInfo(kip.InfoRaw{Name: name, Version: version, Usage: usages}, true))
	require.NoError(t, p.PutMeta(kip.MetaRaw{Created: "2024-01-01T00:00:00Z"}, true))
}
