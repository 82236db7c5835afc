package k8s

import "time"

// Resource represents any Kubernetes resource with common fields
// All resource types must implement this interface for sorting and polymorphic operations
type Resource interface {
	GetNamespace() string // "" for cluster-scoped resources
	GetName() string
	GetUID() string
	GetAge() time.Duration
	GetCreatedAt() time.Time
}

// ResourceMetadata contains common fields shared by all Kubernetes resources
// Embed this in resource structs to automatically implement Resource interface
type ResourceMetadata struct {
	Namespace string
	Name      string
	UID       string
	Age       time.Duration
	CreatedAt time.Time
}

// ResourceMetadata implements Resource interface
func (r ResourceMetadata) GetNamespace() string    { return r.Namespace }
func (r ResourceMetadata) GetName() string         { return r.Name }
func (r ResourceMetadata) GetUID() string          { return r.UID }
func (r ResourceMetadata) GetAge() time.Duration   { return r.Age }
func (r ResourceMetadata) GetCreatedAt() time.Time { return r.CreatedAt }

// Pod represents a Kubernetes pod
//
// Labels, OwnerUIDs and the mount ref slices exist for relationship queries
// (pods for a deployment, pods using a configmap, ...) which filter snapshots
// instead of maintaining event-driven indexes.
type Pod struct {
	ResourceMetadata
	Ready         string
	Status        string
	Restarts      int32
	Node          string
	IP            string
	Labels        map[string]string
	OwnerUIDs     []string
	ConfigMapRefs []string
	SecretRefs    []string
}

// Deployment represents a Kubernetes deployment
type Deployment struct {
	ResourceMetadata
	Ready     string
	UpToDate  int32
	Available int32
	Selector  map[string]string
}

// Service represents a Kubernetes service
type Service struct {
	ResourceMetadata
	Type       string
	ClusterIP  string
	ExternalIP string
	Ports      string
	Selector   map[string]string
}

// ConfigMap represents a Kubernetes configmap
type ConfigMap struct {
	ResourceMetadata
	Data int // Number of data items
}

// Secret represents a Kubernetes secret
type Secret struct {
	ResourceMetadata
	Type string
	Data int // Number of data items
}

// Namespace represents a Kubernetes namespace
type Namespace struct {
	ResourceMetadata
	Status string
}

// Node represents a Kubernetes node
type Node struct {
	ResourceMetadata
	Status       string
	Roles        string
	Version      string
	Hostname     string
	InstanceType string
	Zone         string
	NodePool     string
	OSImage      string
}

// StatefulSet represents a Kubernetes statefulset
type StatefulSet struct {
	ResourceMetadata
	Ready    string
	Selector map[string]string
}

// DaemonSet represents a Kubernetes daemonset
type DaemonSet struct {
	ResourceMetadata
	Desired   int32
	Current   int32
	Ready     int32
	UpToDate  int32
	Available int32
}

// Job represents a Kubernetes job
type Job struct {
	ResourceMetadata
	Completions string
	Duration    time.Duration
	OwnerUIDs   []string
}

// CronJob represents a Kubernetes cronjob
type CronJob struct {
	ResourceMetadata
	Schedule     string
	Suspend      bool
	Active       int32
	LastSchedule time.Duration
}

// ReplicaSet represents a Kubernetes replicaset
type ReplicaSet struct {
	ResourceMetadata
	Desired   int32
	Current   int32
	Ready     int32
	OwnerUIDs []string
}
