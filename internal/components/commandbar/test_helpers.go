package commandbar

import (
	"github.com/renato0307/vigia/internal/commands"
	"github.com/renato0307/vigia/internal/k8s/dummy"
	"github.com/renato0307/vigia/internal/types"
	"github.com/renato0307/vigia/internal/ui"
)

// newTestContext builds an AppContext backed by the dummy provider, which
// serves fixture data without a cluster connection.
func newTestContext() *types.AppContext {
	provider := dummy.NewProvider()
	return types.NewAppContext(ui.GetTheme("charm"), provider, provider, provider)
}

// newTestRegistry builds the full command registry on top of the dummy
// provider.
func newTestRegistry() *commands.Registry {
	appCtx := newTestContext()
	return commands.NewRegistry(appCtx.Data, appCtx.Formatter)
}
