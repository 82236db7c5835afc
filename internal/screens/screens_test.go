package screens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/vigia/internal/k8s"
)

func TestResourceScreenConfigs(t *testing.T) {
	configs := ResourceScreenConfigs()
	require.Len(t, configs, 13)

	// IDs must line up with the : command palette targets
	wantIDs := []string{
		"contexts", "pods", "deployments", "services", "configmaps",
		"secrets", "namespaces", "statefulsets", "daemonsets",
		"replicasets", "jobs", "cronjobs", "nodes",
	}
	gotIDs := make([]string, len(configs))
	for i, cfg := range configs {
		gotIDs[i] = cfg.ID
	}
	assert.Equal(t, wantIDs, gotIDs)

	for _, cfg := range configs {
		t.Run(cfg.ID, func(t *testing.T) {
			assert.NotEmpty(t, cfg.Title)
			assert.NotEmpty(t, cfg.ResourceType)
			assert.NotEmpty(t, cfg.Columns)
			assert.NotEmpty(t, cfg.SearchFields)
			assert.True(t, cfg.TrackSelection)
			if cfg.ID == "pods" {
				// Pods are the bottom of the drill-down chain
				assert.Nil(t, cfg.NavigationHandler)
			} else {
				assert.NotNil(t, cfg.NavigationHandler, "every screen above pods drills down on Enter")
			}

			// Search fields must resolve to real columns or struct fields;
			// at minimum Name is always searchable
			assert.Contains(t, cfg.SearchFields, "Name")

			for _, col := range cfg.Columns {
				assert.NotEmpty(t, col.Field, "column in %s missing field", cfg.ID)
				assert.GreaterOrEqual(t, col.Priority, 1)
				assert.LessOrEqual(t, col.Priority, 3)
			}
		})
	}
}

func TestScreenConfigResourceTypes(t *testing.T) {
	byID := make(map[string]ScreenConfig)
	for _, cfg := range ResourceScreenConfigs() {
		byID[cfg.ID] = cfg
	}

	assert.Equal(t, k8s.ResourceTypeContext, byID["contexts"].ResourceType)
	assert.Equal(t, k8s.ResourceTypePod, byID["pods"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeDeployment, byID["deployments"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeService, byID["services"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeConfigMap, byID["configmaps"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeSecret, byID["secrets"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeNamespace, byID["namespaces"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeStatefulSet, byID["statefulsets"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeDaemonSet, byID["daemonsets"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeReplicaSet, byID["replicasets"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeJob, byID["jobs"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeCronJob, byID["cronjobs"].ResourceType)
	assert.Equal(t, k8s.ResourceTypeNode, byID["nodes"].ResourceType)
}

func TestContextsScreenRefreshInterval(t *testing.T) {
	cfg := GetContextsScreenConfig()

	// Context rows change on connect/disconnect, not on watch events;
	// they poll slower than resource screens
	assert.Equal(t, ContextsTickInterval, cfg.RefreshInterval)
}

func TestPodsScreenColumns(t *testing.T) {
	cfg := GetPodsScreenConfig()

	fields := make([]string, len(cfg.Columns))
	for i, col := range cfg.Columns {
		fields[i] = col.Field
	}
	assert.Equal(t, []string{"Namespace", "Name", "Ready", "Status", "Restarts", "CreatedAt", "Node", "IP"}, fields)

	// Age renders from the creation timestamp so cached rows keep aging
	for _, col := range cfg.Columns {
		if col.Field == "CreatedAt" {
			assert.Equal(t, "Age", col.Title)
			assert.NotNil(t, col.Format)
		}
	}
}

func TestScreenConfigsRenderWithFixtures(t *testing.T) {
	// Every screen must build rows from the dummy fixtures without
	// panicking on a missing field
	for _, cfg := range ResourceScreenConfigs() {
		t.Run(cfg.ID, func(t *testing.T) {
			screen := NewConfigScreen(cfg, testAppCtx())
			screen.SetSize(160, 30)
			refreshScreen(t, screen)

			assert.NotEmpty(t, screen.items, "dummy provider has fixtures for %s", cfg.ID)
			assert.NotEmpty(t, screen.View())
		})
	}
}
