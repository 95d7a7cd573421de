package monitor

import (
	"fmt"

	"github.com/vision-lab/trainforge/pkg/logutils"
)

const bytesPerMB = 1048576

func (p *PrometheusClient) QueryPodCPUUsage(podName string) float32 {
	query := fmt.Sprintf("sum(rate(container_cpu_usage_seconds_total{pod=%q}[5m]))", podName)
	data, err := p.float32SumQuery(query)
	if err != nil {
		logutils.Log.Errorf("QueryPodCPUUsage error: %v", err)
		return 0.0
	}
	return data
}

func (p *PrometheusClient) QueryPodMemoryUsage(podName string) int {
	query := fmt.Sprintf("max(container_memory_usage_bytes{pod=%q})", podName)
	data, err := p.float32SumQuery(query)
	if err != nil {
		logutils.Log.Errorf("QueryPodMemoryUsage error: %v", err)
		return 0
	}
	return int(data) / bytesPerMB
}

func (p *PrometheusClient) QueryPodUsage(podName string) PodResourceUsage {
	return PodResourceUsage{
		CPUCores: p.QueryPodCPUUsage(podName),
		MemoryMB: p.QueryPodMemoryUsage(podName),
	}
}
