package monitor

// PodResourceUsage holds the observed resource consumption of a build pod.
type PodResourceUsage struct {
	CPUCores float32 `json:"cpuCores"`
	MemoryMB int     `json:"memoryMB"`
}

type PrometheusInterface interface {
	QueryPodCPUUsage(podName string) float32
	QueryPodMemoryUsage(podName string) int
	QueryPodUsage(podName string) PodResourceUsage
}
