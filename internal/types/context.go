package types

import (
	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/ui"
)

// AppContext holds app-wide configuration and dependencies
type AppContext struct {
	Theme     *ui.Theme
	Data      k8s.DataProvider
	Formatter k8s.ResourceFormatter
	Contexts  k8s.ContextProvider
}

// NewAppContext creates a new application context
func NewAppContext(
	theme *ui.Theme,
	data k8s.DataProvider,
	formatter k8s.ResourceFormatter,
	contexts k8s.ContextProvider,
) *AppContext {
	return &AppContext{
		Theme:     theme,
		Data:      data,
		Formatter: formatter,
		Contexts:  contexts,
	}
}
