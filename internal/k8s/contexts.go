package k8s

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ContextInfo holds context metadata from kubeconfig
type ContextInfo struct {
	Name      string
	Cluster   string
	User      string
	Namespace string
}

// Context represents a Kubernetes context for display
type Context struct {
	Name      string
	Cluster   string
	User      string
	Namespace string
	Status    string // "Connected", "Connecting", "Failed", "Not Connected"
	Current   string // "✓" if current, "" otherwise
	Error     string // Error message if failed
	LoadedAt  time.Time
}

// ContextLoadProgress reports loading progress for a context
type ContextLoadProgress struct {
	Context string
	Message string
	Phase   LoadPhase
}

// LoadPhase represents the current loading phase
type LoadPhase int

const (
	PhaseConnecting LoadPhase = iota
	PhaseSeeding
	PhaseComplete
)

// ContextWithStatus combines context info with runtime status
type ContextWithStatus struct {
	*ContextInfo
	Status    ContextStatus
	Error     error
	IsCurrent bool
}

// DefaultKubeconfigPath resolves the kubeconfig path, preferring the explicit
// path, then $KUBECONFIG, then ~/.kube/config.
func DefaultKubeconfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env, nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".kube", "config"), nil
	}
	return "", fmt.Errorf("HOME environment variable not set and no kubeconfig provided")
}

// LoadContexts loads a kubeconfig and extracts all contexts
func LoadContexts(kubeconfigPath string) ([]*ContextInfo, error) {
	config, err := clientcmd.LoadFromFile(kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	contexts := make([]*ContextInfo, 0, len(config.Contexts))
	for name, ctx := range config.Contexts {
		contexts = append(contexts, &ContextInfo{
			Name:      name,
			Cluster:   ctx.Cluster,
			User:      ctx.AuthInfo,
			Namespace: ctx.Namespace,
		})
	}

	// Sort alphabetically by name to ensure stable order
	// This prevents context list position shifts caused by Go map iteration non-determinism
	sort.Slice(contexts, func(i, j int) bool {
		return contexts[i].Name < contexts[j].Name
	})

	return contexts, nil
}

// GetCurrentContext returns the current context from kubeconfig
func GetCurrentContext(kubeconfigPath string) (string, error) {
	config, err := clientcmd.LoadFromFile(kubeconfigPath)
	if err != nil {
		return "", err
	}
	return config.CurrentContext, nil
}

// buildRESTConfig builds a rest.Config for a context from the kubeconfig.
// The typed clientset negotiates protobuf; the dynamic client overrides the
// content type back to JSON on its own.
func buildRESTConfig(kubeconfig, contextName string) (*rest.Config, error) {
	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}
	configOverrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		configOverrides.CurrentContext = contextName
	}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		configOverrides,
	).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("error building kubeconfig: %w", err)
	}

	config.ContentType = "application/vnd.kubernetes.protobuf"

	return config, nil
}
