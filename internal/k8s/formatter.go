package k8s

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/printers"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/kubectl/pkg/describe"
	"sigs.k8s.io/yaml"

	"github.com/renato0307/vigia/internal/logging"
)

// Formatter renders YAML and describe views for resources. Reads prefer the
// synced cache so the common case never waits on the network; a live GET
// covers objects the cache does not hold.
type Formatter struct {
	client   *Client
	store    *Store
	registry map[ResourceType]ResourceConfig
}

// NewFormatter creates a formatter backed by a client and its store
func NewFormatter(client *Client, store *Store) *Formatter {
	return &Formatter{
		client:   client,
		store:    store,
		registry: getResourceRegistry(),
	}
}

// resourceTypeFor reverse-maps a GVR to its registry entry
func (f *Formatter) resourceTypeFor(gvr schema.GroupVersionResource) (ResourceType, ResourceConfig, bool) {
	for rt, config := range f.registry {
		if config.GVR == gvr {
			return rt, config, true
		}
	}
	return "", ResourceConfig{}, false
}

// lookupRaw returns the raw object from the synced cache when present. The
// kind may not be watched right now, so a miss falls through to a live GET.
func (f *Formatter) lookupRaw(gvr schema.GroupVersionResource, namespace, name string) (*unstructured.Unstructured, error) {
	rt, _, ok := f.resourceTypeFor(gvr)
	if !ok {
		return nil, fmt.Errorf("unknown resource %s", gvr)
	}

	if obj, ok := f.store.GetObject(rt, namespace, name); ok && obj.Raw != nil {
		return obj.Raw, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectTimeout)
	defer cancel()

	u, err := f.client.Get(ctx, rt, namespace, name)
	if err != nil {
		return nil, fmt.Errorf("resource not found: %w", err)
	}
	return u, nil
}

// GetResourceYAML returns YAML representation of a resource using kubectl YAMLPrinter
func (f *Formatter) GetResourceYAML(gvr schema.GroupVersionResource, namespace, name string) (string, error) {
	obj, err := f.lookupRaw(gvr, namespace, name)
	if err != nil {
		return "", err
	}

	// Use kubectl YAML printer for exact kubectl output match
	printer := printers.NewTypeSetter(scheme.Scheme).ToPrinter(&printers.YAMLPrinter{})

	var buf bytes.Buffer
	if err := printer.PrintObj(obj, &buf); err != nil {
		return "", fmt.Errorf("failed to print YAML: %w", err)
	}

	return buf.String(), nil
}

// DescribeResource returns kubectl describe output for a resource. The real
// kubectl describers need a reachable cluster; when one cannot be built the
// fallback renders a simplified describe from the cached object.
func (f *Formatter) DescribeResource(gvr schema.GroupVersionResource, namespace, name string) (string, error) {
	_, config, ok := f.resourceTypeFor(gvr)
	if !ok {
		return "", fmt.Errorf("unknown resource %s", gvr)
	}

	out, err := f.kubectlDescribe(gvr, config, namespace, name)
	if err == nil {
		return out, nil
	}
	logging.Debug("kubectl describer unavailable, using fallback",
		"gvr", gvr.String(), "error", err)

	return f.describeFromObject(gvr, namespace, name)
}

// kubectlDescribe runs the kind-specific kubectl describer. It builds its
// own clients from the kubeconfig, so fake-backed tests exercise the
// fallback path instead.
func (f *Formatter) kubectlDescribe(gvr schema.GroupVersionResource, config ResourceConfig, namespace, name string) (string, error) {
	getter := genericclioptions.NewConfigFlags(true)
	getter.KubeConfig = &f.client.kubeconfig
	if f.client.contextName != "" {
		getter.Context = &f.client.contextName
	}

	mapping := &meta.RESTMapping{
		Resource:         gvr,
		GroupVersionKind: gvr.GroupVersion().WithKind(config.Kind),
		Scope:            meta.RESTScopeNamespace,
	}
	if !config.Namespaced {
		mapping.Scope = meta.RESTScopeRoot
	}

	describer, err := describe.Describer(getter, mapping)
	if err != nil {
		return "", err
	}

	return describer.Describe(namespace, name, describe.DescriberSettings{
		ShowEvents: true,
		ChunkSize:  500,
	})
}

// describeFromObject builds a simplified describe from the object's fields
// plus on-demand events.
func (f *Formatter) describeFromObject(gvr schema.GroupVersionResource, namespace, name string) (string, error) {
	obj, err := f.lookupRaw(gvr, namespace, name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Name:         %s\n", name))
	if namespace != "" {
		buf.WriteString(fmt.Sprintf("Namespace:    %s\n", namespace))
	}
	buf.WriteString(fmt.Sprintf("Kind:         %s\n", obj.GetKind()))
	buf.WriteString(fmt.Sprintf("API Version:  %s\n", obj.GetAPIVersion()))

	labels := obj.GetLabels()
	if len(labels) > 0 {
		buf.WriteString("Labels:       ")
		for i, k := range sortedKeys(labels) {
			if i > 0 {
				buf.WriteString("              ")
			}
			buf.WriteString(fmt.Sprintf("%s=%s\n", k, labels[k]))
		}
	}

	buf.WriteString(fmt.Sprintf("Created:      %s\n", obj.GetCreationTimestamp().String()))

	// Status rendered as indented YAML
	status, found, err := unstructured.NestedFieldCopy(obj.Object, "status")
	if found && err == nil {
		statusYAML, err := yaml.Marshal(status)
		if err == nil {
			buf.WriteString("\nStatus:\n")
			for _, line := range strings.Split(string(statusYAML), "\n") {
				if line != "" {
					buf.WriteString("  " + line + "\n")
				}
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectTimeout)
	defer cancel()

	// Events are fetched on demand, never cached
	buf.WriteString("\nEvents:\n")
	events, err := f.client.GetEvents(ctx, namespace, name)
	if err != nil {
		buf.WriteString(fmt.Sprintf("  Failed to fetch events: %v\n", err))
	} else {
		buf.WriteString(formatEvents(events))
	}

	return buf.String(), nil
}

// formatEvents formats events in kubectl describe style
func formatEvents(events []corev1.Event) string {
	if len(events) == 0 {
		return "  <none>\n"
	}

	// Newest first
	sort.Slice(events, func(i, j int) bool {
		return events[i].LastTimestamp.After(events[j].LastTimestamp.Time)
	})

	var buf bytes.Buffer
	buf.WriteString("  Type    Reason    Age                    Message\n")
	buf.WriteString("  ----    ------    ---                    -------\n")

	now := time.Now()
	for _, event := range events {
		var age string
		switch {
		case !event.LastTimestamp.IsZero():
			age = formatEventAge(now.Sub(event.LastTimestamp.Time))
		case !event.EventTime.IsZero():
			age = formatEventAge(now.Sub(event.EventTime.Time))
		default:
			age = "<unknown>"
		}

		message := event.Message
		if len(message) > 80 {
			message = message[:77] + "..."
		}

		buf.WriteString(fmt.Sprintf("  %-7s %-9s %-22s %s\n", event.Type, event.Reason, age, message))
	}

	return buf.String()
}
