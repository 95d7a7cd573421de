package cronjob

import (
	"context"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/pkg/config"
)

// staleBuildCutoff returns the latest update time a terminal build may have
// before the cleaner removes it.
func staleBuildCutoff(now time.Time, ttlDays int) time.Time {
	return now.AddDate(0, 0, -ttlDays)
}

// cleanupRemovesImage reports whether removing a stale build also removes its
// registered image and registry artifact. Only finished builds ever pushed one.
func cleanupRemovesImage(status model.BuildStatus) bool {
	return status == model.BuildJobFinished
}

// CleanStaleBuilds removes terminal build records older than the TTL together
// with any build job objects still present in the cluster. Finished builds
// take their registered image and registry artifact with them, same as a
// removal through the API.
func (cm *CronJobManager) CleanStaleBuilds(ttlDays int) {
	ctx := context.Background()
	cutoff := staleBuildCutoff(time.Now(), ttlDays)

	var builds []model.Build
	if err := query.GetDB().WithContext(ctx).
		Where("status IN ?", []model.BuildStatus{model.BuildJobFinished, model.BuildJobFailed, model.BuildJobCanceled}).
		Where("updated_at < ?", cutoff).
		Find(&builds).Error; err != nil {
		klog.Errorf("CleanStaleBuilds: list builds: %v", err)
		return
	}
	if len(builds) == 0 {
		return
	}

	namespace := config.GetConfig().Namespaces.Image
	for i := range builds {
		build := &builds[i]
		job := &batchv1.Job{
			ObjectMeta: metav1.ObjectMeta{
				Name:      build.JobName,
				Namespace: namespace,
			},
		}
		if err := cm.Client.Delete(ctx, job); err != nil && !k8serrors.IsNotFound(err) {
			klog.Errorf("CleanStaleBuilds: delete job %s: %v", build.JobName, err)
			continue
		}
		if cleanupRemovesImage(build.Status) {
			if err := query.GetDB().WithContext(ctx).
				Where("job_name = ?", build.JobName).
				Delete(&model.Image{}).Error; err != nil {
				klog.Errorf("CleanStaleBuilds: delete image entity %s: %v", build.JobName, err)
				continue
			}
			if err := cm.imageRegistry.DeleteImageFromProject(ctx, build.ImageLink); err != nil {
				klog.Errorf("CleanStaleBuilds: delete artifact %s: %v", build.ImageLink, err)
			}
		}
		if err := query.GetDB().WithContext(ctx).
			Where("job_name = ?", build.JobName).
			Delete(&model.Build{}).Error; err != nil {
			klog.Errorf("CleanStaleBuilds: delete build %s: %v", build.JobName, err)
			continue
		}
		klog.Infof("CleanStaleBuilds: removed build %s (status %s)", build.JobName, build.Status)
	}
}
