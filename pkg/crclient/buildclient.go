package crclient

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// BuildJobController looks up the pods behind environment build jobs.
type BuildJobController struct {
	client.Client
}

// GetBuildPod returns the pod created for a build job, or nil if it has not
// been scheduled yet. Build jobs have parallelism 1, more than one live pod
// is impossible.
func (c *BuildJobController) GetBuildPod(ctx context.Context, jobName, namespace string) (*corev1.Pod, error) {
	podList := &corev1.PodList{}
	if err := c.List(ctx, podList,
		client.InNamespace(namespace),
		client.MatchingLabels{"job-name": jobName},
	); err != nil {
		return nil, err
	}
	if len(podList.Items) == 0 {
		return nil, nil
	}
	return &podList.Items[0], nil
}
