package screens

import (
	"github.com/renato0307/vigia/internal/k8s"
)

// ResourceScreenConfigs returns the configs for every resource-backed
// screen, in the order the screen palette lists them.
func ResourceScreenConfigs() []ScreenConfig {
	return []ScreenConfig{
		GetContextsScreenConfig(),
		GetPodsScreenConfig(),
		GetDeploymentsScreenConfig(),
		GetServicesScreenConfig(),
		GetConfigMapsScreenConfig(),
		GetSecretsScreenConfig(),
		GetNamespacesScreenConfig(),
		GetStatefulSetsScreenConfig(),
		GetDaemonSetsScreenConfig(),
		GetReplicaSetsScreenConfig(),
		GetJobsScreenConfig(),
		GetCronJobsScreenConfig(),
		GetNodesScreenConfig(),
	}
}

// GetPodsScreenConfig returns the config for the Pods screen
func GetPodsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "pods",
		Title:        "Pods",
		ResourceType: k8s.ResourceTypePod,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 35, Priority: 1},
			{Field: "Name", Title: "Name", Width: 0, Priority: 1},
			{Field: "Ready", Title: "Ready", Width: 8, Priority: 1},
			{Field: "Status", Title: "Status", Width: 14, Priority: 1},
			{Field: "Restarts", Title: "Restarts", Width: 8, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 6, Format: FormatAge, Priority: 1},
			{Field: "Node", Title: "Node", Width: 28, Priority: 3},
			{Field: "IP", Title: "IP", Width: 15, Priority: 3},
		},
		SearchFields:   []string{"Namespace", "Name", "Status", "Node", "IP"},
		TrackSelection: true,
	}
}

// GetDeploymentsScreenConfig returns the config for the Deployments screen
func GetDeploymentsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "deployments",
		Title:        "Deployments",
		ResourceType: k8s.ResourceTypeDeployment,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 50, Priority: 1},
			{Field: "Ready", Title: "Ready", Width: 10, Priority: 1},
			{Field: "UpToDate", Title: "Up-to-date", Width: 12, Priority: 1},
			{Field: "Available", Title: "Available", Width: 12, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name"},
		NavigationHandler: navigateToPodsForOwner("Deployment"),
		TrackSelection:    true,
	}
}

// GetServicesScreenConfig returns the config for the Services screen
func GetServicesScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "services",
		Title:        "Services",
		ResourceType: k8s.ResourceTypeService,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 40, Priority: 1},
			{Field: "Type", Title: "Type", Width: 15, Priority: 1},
			{Field: "ClusterIP", Title: "Cluster-IP", Width: 15, Priority: 2},
			{Field: "ExternalIP", Title: "External-IP", Width: 15, Priority: 2},
			{Field: "Ports", Title: "Ports", Width: 20, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name", "Type"},
		NavigationHandler: navigateToPodsForService(),
		TrackSelection:    true,
	}
}

// GetConfigMapsScreenConfig returns the config for the ConfigMaps screen
func GetConfigMapsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "configmaps",
		Title:        "ConfigMaps",
		ResourceType: k8s.ResourceTypeConfigMap,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 50, Priority: 1},
			{Field: "Data", Title: "Data", Width: 8, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name"},
		NavigationHandler: navigateToPodsForVolumeSource("ConfigMap"),
		TrackSelection:    true,
	}
}

// GetSecretsScreenConfig returns the config for the Secrets screen
func GetSecretsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "secrets",
		Title:        "Secrets",
		ResourceType: k8s.ResourceTypeSecret,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 40, Priority: 1},
			{Field: "Type", Title: "Type", Width: 0, Priority: 3},
			{Field: "Data", Title: "Data", Width: 8, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name", "Type"},
		NavigationHandler: navigateToPodsForVolumeSource("Secret"),
		TrackSelection:    true,
	}
}

// GetNamespacesScreenConfig returns the config for the Namespaces screen
func GetNamespacesScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "namespaces",
		Title:        "Namespaces",
		ResourceType: k8s.ResourceTypeNamespace,
		Columns: []ColumnConfig{
			{Field: "Name", Title: "Name", Width: 0, Priority: 1},
			{Field: "Status", Title: "Status", Width: 15, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Name", "Status"},
		NavigationHandler: navigateToPodsForNamespace(),
		TrackSelection:    true,
	}
}

// GetStatefulSetsScreenConfig returns the config for the StatefulSets screen
func GetStatefulSetsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "statefulsets",
		Title:        "StatefulSets",
		ResourceType: k8s.ResourceTypeStatefulSet,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 50, Priority: 1},
			{Field: "Ready", Title: "Ready", Width: 10, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name"},
		NavigationHandler: navigateToPodsForOwner("StatefulSet"),
		TrackSelection:    true,
	}
}

// GetDaemonSetsScreenConfig returns the config for the DaemonSets screen
func GetDaemonSetsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "daemonsets",
		Title:        "DaemonSets",
		ResourceType: k8s.ResourceTypeDaemonSet,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 40, Priority: 1},
			{Field: "Desired", Title: "Desired", Width: 9, Priority: 1},
			{Field: "Current", Title: "Current", Width: 9, Priority: 1},
			{Field: "Ready", Title: "Ready", Width: 9, Priority: 1},
			{Field: "UpToDate", Title: "Up-to-date", Width: 12, Priority: 2},
			{Field: "Available", Title: "Available", Width: 12, Priority: 2},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name"},
		NavigationHandler: navigateToPodsForOwner("DaemonSet"),
		TrackSelection:    true,
	}
}

// GetReplicaSetsScreenConfig returns the config for the ReplicaSets screen
func GetReplicaSetsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "replicasets",
		Title:        "ReplicaSets",
		ResourceType: k8s.ResourceTypeReplicaSet,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 50, Priority: 1},
			{Field: "Desired", Title: "Desired", Width: 9, Priority: 1},
			{Field: "Current", Title: "Current", Width: 9, Priority: 1},
			{Field: "Ready", Title: "Ready", Width: 9, Priority: 1},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name"},
		NavigationHandler: navigateToPodsForOwner("ReplicaSet"),
		TrackSelection:    true,
	}
}

// GetJobsScreenConfig returns the config for the Jobs screen
func GetJobsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "jobs",
		Title:        "Jobs",
		ResourceType: k8s.ResourceTypeJob,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 50, Priority: 1},
			{Field: "Completions", Title: "Completions", Width: 12, Priority: 1},
			{Field: "Duration", Title: "Duration", Width: 10, Format: FormatDuration, Priority: 2},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name"},
		NavigationHandler: navigateToPodsForOwner("Job"),
		TrackSelection:    true,
	}
}

// GetCronJobsScreenConfig returns the config for the CronJobs screen
func GetCronJobsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "cronjobs",
		Title:        "CronJobs",
		ResourceType: k8s.ResourceTypeCronJob,
		Columns: []ColumnConfig{
			{Field: "Namespace", Title: "Namespace", Width: 0, Priority: 2},
			{Field: "Name", Title: "Name", Width: 50, Priority: 1},
			{Field: "Schedule", Title: "Schedule", Width: 16, Priority: 1},
			{Field: "Suspend", Title: "Suspend", Width: 8, Priority: 2},
			{Field: "Active", Title: "Active", Width: 7, Priority: 1},
			{Field: "LastSchedule", Title: "Last Run", Width: 10, Format: FormatOptionalDuration, Priority: 2},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Namespace", "Name", "Schedule"},
		NavigationHandler: navigateToJobsForCronJob(),
		TrackSelection:    true,
	}
}

// GetNodesScreenConfig returns the config for the Nodes screen
func GetNodesScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "nodes",
		Title:        "Nodes",
		ResourceType: k8s.ResourceTypeNode,
		Columns: []ColumnConfig{
			{Field: "Name", Title: "Name", Width: 40, Priority: 1},
			{Field: "Status", Title: "Status", Width: 12, Priority: 1},
			{Field: "Roles", Title: "Roles", Width: 0, Priority: 3},
			{Field: "Hostname", Title: "Hostname", Width: 30, Priority: 2},
			{Field: "InstanceType", Title: "Instance", Width: 0, Priority: 3},
			{Field: "Zone", Title: "Zone", Width: 0, Priority: 3},
			{Field: "NodePool", Title: "NodePool", Width: 0, Priority: 3},
			{Field: "Version", Title: "Version", Width: 15, Priority: 1},
			{Field: "OSImage", Title: "OS Image", Width: 0, Priority: 3},
			{Field: "CreatedAt", Title: "Age", Width: 10, Format: FormatAge, Priority: 1},
		},
		SearchFields:      []string{"Name", "Status", "Roles", "Hostname", "InstanceType", "Zone", "NodePool", "OSImage"},
		NavigationHandler: navigateToPodsForNode(),
		TrackSelection:    true,
	}
}

// GetContextsScreenConfig returns the config for the Contexts screen.
// Rows come from the kubeconfig through the provider, not from any
// cluster; Enter switches to the selected context.
func GetContextsScreenConfig() ScreenConfig {
	return ScreenConfig{
		ID:           "contexts",
		Title:        "Contexts",
		ResourceType: k8s.ResourceTypeContext,
		Columns: []ColumnConfig{
			{Field: "Current", Title: "✓", Width: 3, Priority: 1},
			{Field: "Name", Title: "Name", Width: 30, Priority: 1},
			{Field: "Cluster", Title: "Cluster", Width: 0, Priority: 2},
			{Field: "User", Title: "User", Width: 0, Priority: 2},
			{Field: "Status", Title: "Status", Width: 15, Priority: 1},
			{Field: "Error", Title: "Error", Width: 0, Priority: 3},
		},
		SearchFields:      []string{"Name", "Cluster", "User", "Status"},
		RefreshInterval:   ContextsTickInterval,
		NavigationHandler: navigateToContextSwitch(),
		TrackSelection:    true,
	}
}
