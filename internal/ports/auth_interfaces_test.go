package ports_test

import (
	"testing"

	"github.com/classpoint/schoolgate/internal/adapters/filecache"
	"github.com/classpoint/schoolgate/internal/adapters/memstore"
	redisadapter "github.com/classpoint/schoolgate/internal/adapters/redis"
	"github.com/classpoint/schoolgate/internal/adapters/schoolapi"
	"github.com/classpoint/schoolgate/internal/mocks"
	"github.com/classpoint/schoolgate/internal/ports"
)

// This test only verifies that the adapters and mocks conform to the ports
// at compile time.
func TestImplementationsConformToPorts(t *testing.T) {
	t.Helper()

	var _ ports.CredentialCache = (*memstore.Cache)(nil)
	var _ ports.CredentialCache = (*filecache.Cache)(nil)
	var _ ports.CredentialCache = (*redisadapter.CredentialCache)(nil)
	var _ ports.CredentialCache = (*mocks.MockCredentialCache)(nil)

	var _ ports.FlagStore = (*memstore.Flags)(nil)
	var _ ports.FlagStore = (*mocks.MockFlagStore)(nil)

	var _ ports.AuthAPI = (*schoolapi.Client)(nil)
	var _ ports.AuthAPI = (*mocks.MockAuthAPI)(nil)

	var _ ports.Navigator = (*mocks.MockNavigator)(nil)
}
