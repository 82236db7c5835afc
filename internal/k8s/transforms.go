package k8s

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// extractMetadata extracts the common fields shared by all resources.
// Extracted once per object so transforms don't repeat the work.
func extractMetadata(u *unstructured.Unstructured) ResourceMetadata {
	created := u.GetCreationTimestamp().Time
	return ResourceMetadata{
		Namespace: u.GetNamespace(),
		Name:      u.GetName(),
		UID:       string(u.GetUID()),
		Age:       time.Since(created),
		CreatedAt: created,
	}
}

// ownerUIDs extracts the UIDs of all owner references
func ownerUIDs(u *unstructured.Unstructured) []string {
	refs := u.GetOwnerReferences()
	if len(refs) == 0 {
		return nil
	}
	uids := make([]string, 0, len(refs))
	for _, ref := range refs {
		uids = append(uids, string(ref.UID))
	}
	return uids
}

// transformPod converts an unstructured pod to a typed Pod
func transformPod(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	containerStatuses, _, _ := unstructured.NestedSlice(u.Object, "status", "containerStatuses")
	readyContainers := 0
	totalContainers := len(containerStatuses)
	totalRestarts := int32(0)

	for _, cs := range containerStatuses {
		csMap, ok := cs.(map[string]interface{})
		if !ok {
			continue
		}
		if ready, _, _ := unstructured.NestedBool(csMap, "ready"); ready {
			readyContainers++
		}
		if restartCount, _, _ := unstructured.NestedInt64(csMap, "restartCount"); restartCount > 0 {
			totalRestarts += int32(restartCount)
		}
	}

	status, _, _ := unstructured.NestedString(u.Object, "status", "phase")
	node, _, _ := unstructured.NestedString(u.Object, "spec", "nodeName")
	ip, _, _ := unstructured.NestedString(u.Object, "status", "podIP")

	configMaps, secrets := podMountRefs(u)

	return Pod{
		ResourceMetadata: common,
		Ready:            fmt.Sprintf("%d/%d", readyContainers, totalContainers),
		Status:           status,
		Restarts:         totalRestarts,
		Node:             node,
		IP:               ip,
		Labels:           u.GetLabels(),
		OwnerUIDs:        ownerUIDs(u),
		ConfigMapRefs:    configMaps,
		SecretRefs:       secrets,
	}, nil
}

// podMountRefs collects the names of configmaps and secrets a pod consumes
// through volumes, envFrom, env valueFrom and imagePullSecrets.
func podMountRefs(u *unstructured.Unstructured) (configMaps, secrets []string) {
	cmSet := map[string]bool{}
	secretSet := map[string]bool{}

	volumes, _, _ := unstructured.NestedSlice(u.Object, "spec", "volumes")
	for _, v := range volumes {
		vMap, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if name, _, _ := unstructured.NestedString(vMap, "configMap", "name"); name != "" {
			cmSet[name] = true
		}
		if name, _, _ := unstructured.NestedString(vMap, "secret", "secretName"); name != "" {
			secretSet[name] = true
		}
		// Projected volumes bundle several sources
		sources, _, _ := unstructured.NestedSlice(vMap, "projected", "sources")
		for _, s := range sources {
			sMap, ok := s.(map[string]interface{})
			if !ok {
				continue
			}
			if name, _, _ := unstructured.NestedString(sMap, "configMap", "name"); name != "" {
				cmSet[name] = true
			}
			if name, _, _ := unstructured.NestedString(sMap, "secret", "name"); name != "" {
				secretSet[name] = true
			}
		}
	}

	containers, _, _ := unstructured.NestedSlice(u.Object, "spec", "containers")
	initContainers, _, _ := unstructured.NestedSlice(u.Object, "spec", "initContainers")
	for _, c := range append(containers, initContainers...) {
		cMap, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		envFrom, _, _ := unstructured.NestedSlice(cMap, "envFrom")
		for _, e := range envFrom {
			eMap, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			if name, _, _ := unstructured.NestedString(eMap, "configMapRef", "name"); name != "" {
				cmSet[name] = true
			}
			if name, _, _ := unstructured.NestedString(eMap, "secretRef", "name"); name != "" {
				secretSet[name] = true
			}
		}
		env, _, _ := unstructured.NestedSlice(cMap, "env")
		for _, e := range env {
			eMap, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			if name, _, _ := unstructured.NestedString(eMap, "valueFrom", "configMapKeyRef", "name"); name != "" {
				cmSet[name] = true
			}
			if name, _, _ := unstructured.NestedString(eMap, "valueFrom", "secretKeyRef", "name"); name != "" {
				secretSet[name] = true
			}
		}
	}

	pullSecrets, _, _ := unstructured.NestedSlice(u.Object, "spec", "imagePullSecrets")
	for _, p := range pullSecrets {
		pMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		if name, _, _ := unstructured.NestedString(pMap, "name"); name != "" {
			secretSet[name] = true
		}
	}

	return sortedKeys(cmSet), sortedKeys(secretSet)
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// transformDeployment converts an unstructured deployment to a typed Deployment
func transformDeployment(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	ready, _, _ := unstructured.NestedInt64(u.Object, "status", "readyReplicas")
	desired, _, _ := unstructured.NestedInt64(u.Object, "spec", "replicas")
	upToDate, _, _ := unstructured.NestedInt64(u.Object, "status", "updatedReplicas")
	available, _, _ := unstructured.NestedInt64(u.Object, "status", "availableReplicas")
	selector, _, _ := unstructured.NestedStringMap(u.Object, "spec", "selector", "matchLabels")

	return Deployment{
		ResourceMetadata: common,
		Ready:            fmt.Sprintf("%d/%d", ready, desired),
		UpToDate:         int32(upToDate),
		Available:        int32(available),
		Selector:         selector,
	}, nil
}

// transformService converts an unstructured service to a typed Service
func transformService(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	svcType, _, _ := unstructured.NestedString(u.Object, "spec", "type")

	clusterIP, _, _ := unstructured.NestedString(u.Object, "spec", "clusterIP")
	if clusterIP == "" {
		clusterIP = "<none>"
	}

	externalIP := "<none>"
	lbIngress, _, _ := unstructured.NestedSlice(u.Object, "status", "loadBalancer", "ingress")
	if len(lbIngress) > 0 {
		if ingressMap, ok := lbIngress[0].(map[string]interface{}); ok {
			if ip, _, _ := unstructured.NestedString(ingressMap, "ip"); ip != "" {
				externalIP = ip
			} else if hostname, _, _ := unstructured.NestedString(ingressMap, "hostname"); hostname != "" {
				externalIP = hostname
			}
		}
	}
	if externalIP == "<none>" {
		externalIPs, _, _ := unstructured.NestedStringSlice(u.Object, "spec", "externalIPs")
		if len(externalIPs) > 0 {
			externalIP = strings.Join(externalIPs, ",")
		}
	}

	portsSlice, _, _ := unstructured.NestedSlice(u.Object, "spec", "ports")
	ports := make([]string, 0, len(portsSlice))
	for _, p := range portsSlice {
		portMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		port, _, _ := unstructured.NestedInt64(portMap, "port")
		nodePort, found, _ := unstructured.NestedInt64(portMap, "nodePort")
		protocol, _, _ := unstructured.NestedString(portMap, "protocol")

		portStr := fmt.Sprintf("%d", port)
		if found && nodePort != 0 {
			portStr = fmt.Sprintf("%d:%d", port, nodePort)
		}
		ports = append(ports, fmt.Sprintf("%s/%s", portStr, protocol))
	}

	portsStr := strings.Join(ports, ",")
	if portsStr == "" {
		portsStr = "<none>"
	}

	selector, _, _ := unstructured.NestedStringMap(u.Object, "spec", "selector")

	return Service{
		ResourceMetadata: common,
		Type:             svcType,
		ClusterIP:        clusterIP,
		ExternalIP:       externalIP,
		Ports:            portsStr,
		Selector:         selector,
	}, nil
}

// transformConfigMap converts an unstructured configmap to a typed ConfigMap
func transformConfigMap(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	data, _, _ := unstructured.NestedMap(u.Object, "data")
	binaryData, _, _ := unstructured.NestedMap(u.Object, "binaryData")

	return ConfigMap{
		ResourceMetadata: common,
		Data:             len(data) + len(binaryData),
	}, nil
}

// transformSecret converts an unstructured secret to a typed Secret
func transformSecret(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	secretType, _, _ := unstructured.NestedString(u.Object, "type")
	data, _, _ := unstructured.NestedMap(u.Object, "data")

	return Secret{
		ResourceMetadata: common,
		Type:             secretType,
		Data:             len(data),
	}, nil
}

// transformNamespace converts an unstructured namespace to a typed Namespace
func transformNamespace(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	status, _, _ := unstructured.NestedString(u.Object, "status", "phase")

	return Namespace{
		ResourceMetadata: common,
		Status:           status,
	}, nil
}

// transformNode converts an unstructured node to a typed Node
func transformNode(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	// Ready condition determines status
	status := "Unknown"
	conditions, _, _ := unstructured.NestedSlice(u.Object, "status", "conditions")
	for _, c := range conditions {
		cMap, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		condType, _, _ := unstructured.NestedString(cMap, "type")
		if condType != "Ready" {
			continue
		}
		condStatus, _, _ := unstructured.NestedString(cMap, "status")
		if condStatus == "True" {
			status = "Ready"
		} else {
			status = "NotReady"
		}
	}

	// Roles come from node-role.kubernetes.io/<role> labels
	nodeLabels := u.GetLabels()
	roles := []string{}
	for label := range nodeLabels {
		if role, found := strings.CutPrefix(label, "node-role.kubernetes.io/"); found && role != "" {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	rolesStr := strings.Join(roles, ",")
	if rolesStr == "" {
		rolesStr = "<none>"
	}

	version, _, _ := unstructured.NestedString(u.Object, "status", "nodeInfo", "kubeletVersion")
	osImage, _, _ := unstructured.NestedString(u.Object, "status", "nodeInfo", "osImage")
	if osImage == "" {
		osImage = "<none>"
	}

	return Node{
		ResourceMetadata: common,
		Status:           status,
		Roles:            rolesStr,
		Version:          version,
		Hostname:         labelOr(nodeLabels, "<none>", "kubernetes.io/hostname"),
		InstanceType:     labelOr(nodeLabels, "<none>", "node.kubernetes.io/instance-type", "beta.kubernetes.io/instance-type"),
		Zone:             labelOr(nodeLabels, "<none>", "topology.kubernetes.io/zone", "failure-domain.beta.kubernetes.io/zone"),
		NodePool:         labelOr(nodeLabels, "<none>", "karpenter.sh/nodepool", "cloud.google.com/gke-nodepool", "eks.amazonaws.com/nodegroup"),
		OSImage:          osImage,
	}, nil
}

// labelOr returns the first matching label value, or fallback when none is set
func labelOr(labels map[string]string, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := labels[key]; ok && v != "" {
			return v
		}
	}
	return fallback
}

// transformStatefulSet converts an unstructured statefulset to a typed StatefulSet
func transformStatefulSet(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	ready, _, _ := unstructured.NestedInt64(u.Object, "status", "readyReplicas")
	desired, _, _ := unstructured.NestedInt64(u.Object, "spec", "replicas")
	selector, _, _ := unstructured.NestedStringMap(u.Object, "spec", "selector", "matchLabels")

	return StatefulSet{
		ResourceMetadata: common,
		Ready:            fmt.Sprintf("%d/%d", ready, desired),
		Selector:         selector,
	}, nil
}

// transformDaemonSet converts an unstructured daemonset to a typed DaemonSet
func transformDaemonSet(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	desired, _, _ := unstructured.NestedInt64(u.Object, "status", "desiredNumberScheduled")
	current, _, _ := unstructured.NestedInt64(u.Object, "status", "currentNumberScheduled")
	ready, _, _ := unstructured.NestedInt64(u.Object, "status", "numberReady")
	upToDate, _, _ := unstructured.NestedInt64(u.Object, "status", "updatedNumberScheduled")
	available, _, _ := unstructured.NestedInt64(u.Object, "status", "numberAvailable")

	return DaemonSet{
		ResourceMetadata: common,
		Desired:          int32(desired),
		Current:          int32(current),
		Ready:            int32(ready),
		UpToDate:         int32(upToDate),
		Available:        int32(available),
	}, nil
}

// transformJob converts an unstructured job to a typed Job
func transformJob(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	succeeded, _, _ := unstructured.NestedInt64(u.Object, "status", "succeeded")
	completions, _, _ := unstructured.NestedInt64(u.Object, "spec", "completions")

	// Duration mirrors kubectl: completion minus start, or elapsed when running
	var duration time.Duration
	if startStr, found, _ := unstructured.NestedString(u.Object, "status", "startTime"); found {
		if start, err := time.Parse(time.RFC3339, startStr); err == nil {
			end := time.Now()
			if completionStr, found, _ := unstructured.NestedString(u.Object, "status", "completionTime"); found {
				if completion, err := time.Parse(time.RFC3339, completionStr); err == nil {
					end = completion
				}
			}
			duration = end.Sub(start)
		}
	}

	return Job{
		ResourceMetadata: common,
		Completions:      fmt.Sprintf("%d/%d", succeeded, completions),
		Duration:         duration,
		OwnerUIDs:        ownerUIDs(u),
	}, nil
}

// transformCronJob converts an unstructured cronjob to a typed CronJob
func transformCronJob(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	schedule, _, _ := unstructured.NestedString(u.Object, "spec", "schedule")
	suspend, _, _ := unstructured.NestedBool(u.Object, "spec", "suspend")
	active, _, _ := unstructured.NestedSlice(u.Object, "status", "active")

	var lastSchedule time.Duration
	if lastStr, found, _ := unstructured.NestedString(u.Object, "status", "lastScheduleTime"); found {
		if last, err := time.Parse(time.RFC3339, lastStr); err == nil {
			lastSchedule = time.Since(last)
		}
	}

	return CronJob{
		ResourceMetadata: common,
		Schedule:         schedule,
		Suspend:          suspend,
		Active:           int32(len(active)),
		LastSchedule:     lastSchedule,
	}, nil
}

// transformReplicaSet converts an unstructured replicaset to a typed ReplicaSet
func transformReplicaSet(u *unstructured.Unstructured, common ResourceMetadata) (any, error) {
	desired, _, _ := unstructured.NestedInt64(u.Object, "spec", "replicas")
	current, _, _ := unstructured.NestedInt64(u.Object, "status", "replicas")
	ready, _, _ := unstructured.NestedInt64(u.Object, "status", "readyReplicas")

	return ReplicaSet{
		ResourceMetadata: common,
		Desired:          int32(desired),
		Current:          int32(current),
		Ready:            int32(ready),
		OwnerUIDs:        ownerUIDs(u),
	}, nil
}
