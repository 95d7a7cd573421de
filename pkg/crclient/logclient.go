package crclient

import (
	"context"
	"io"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
)

type LogClient struct {
	KubeClient kubernetes.Interface
}

// StreamPodLogs follows the pod log, the caller reads until EOF or cancels
// the context.
func (lc *LogClient) StreamPodLogs(ctx context.Context, pod *corev1.Pod) (io.ReadCloser, error) {
	logOpts := &corev1.PodLogOptions{Follow: true}
	req := lc.KubeClient.CoreV1().Pods(pod.Namespace).GetLogs(pod.Name, logOpts)
	return req.Stream(ctx)
}
