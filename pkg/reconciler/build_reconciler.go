/*
Copyright 2023.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"gorm.io/gorm"
	batchv1 "k8s.io/api/batch/v1"
	v1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/pkg/alert"
	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/imageregistry"
	"github.com/vision-lab/trainforge/pkg/logutils"
	"github.com/vision-lab/trainforge/pkg/metrics"
)

// BuildKitReconciler syncs the status of BuildKit jobs into the database
// and registers finished images.
type BuildKitReconciler struct {
	client.Client
	Scheme        *runtime.Scheme
	log           logr.Logger
	imageRegistry imageregistry.ImageRegistryInterface
}

func NewBuildKitReconciler(
	crClient client.Client,
	scheme *runtime.Scheme,
	imageRegistry imageregistry.ImageRegistryInterface,
) *BuildKitReconciler {
	return &BuildKitReconciler{
		Client:        crClient,
		Scheme:        scheme,
		log:           ctrl.Log.WithName("buildkit-reconciler"),
		imageRegistry: imageRegistry,
	}
}

// SetupWithManager sets up the controller with the Manager.
func (r *BuildKitReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&batchv1.Job{}).
		Owns(&v1.Pod{}).
		WithOptions(controller.Options{}).
		Complete(r)
}

//+kubebuilder:rbac:groups=batch;"",resources=jobs;pods;secrets;configmaps,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=batch,resources=jobs/status,verbs=get;update;patch

// Reconcile mirrors the cluster state of a build job into the Build table.
// Status transitions are recorded once, but the finished branch stays
// re-entrant: registration may have failed after the status was committed,
// so it is retried until the Image row exists.
func (r *BuildKitReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if req.Namespace != config.GetConfig().Namespaces.Image {
		return ctrl.Result{}, nil
	}

	db := query.GetDB().WithContext(ctx)
	var job batchv1.Job

	err := r.Get(ctx, req.NamespacedName, &job)
	if err != nil && !k8serrors.IsNotFound(err) {
		logger.Error(err, "unable to fetch job")
		return ctrl.Result{}, nil
	}

	if k8serrors.IsNotFound(err) {
		return r.handleDeletedJob(ctx, req.Name)
	}

	var build model.Build
	err = db.Preload("User").Where("job_name = ?", job.Name).First(&build).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Info("build entity not found in database", "job", job.Name)
		return ctrl.Result{}, nil
	}
	if err != nil {
		logger.Error(err, "unable to fetch build entity")
		return ctrl.Result{Requeue: true}, err
	}

	jobStatus := r.getJobBuildStatus(&job)
	if !statusNeedsHandling(build.Status, jobStatus) {
		return ctrl.Result{}, nil
	}

	if jobStatus != build.Status {
		if err = db.Model(&model.Build{}).
			Where("job_name = ?", job.Name).
			Update("status", jobStatus).Error; err != nil {
			logger.Error(err, "build entity status update failed")
			return ctrl.Result{Requeue: true}, nil
		}
		logger.Info(fmt.Sprintf("buildkit job: %s, new stage: %s", job.Name, jobStatus))

		metrics.BuildsByStatus.WithLabelValues(string(jobStatus)).Inc()
		if jobStatus == model.BuildJobFinished || jobStatus == model.BuildJobFailed {
			metrics.BuildDuration.Observe(time.Since(build.CreatedAt).Seconds())
		}

		if jobStatus == model.BuildJobFailed {
			if alertErr := alert.GetAlertMgr().BuildFailureAlert(ctx, build.JobName); alertErr != nil {
				logger.Error(alertErr, "build failure alert failed")
			}
		}
	}

	if jobStatus == model.BuildJobFinished {
		return r.registerImage(ctx, &build)
	}
	return ctrl.Result{}, nil
}

// statusNeedsHandling reports whether a reconcile observing jobStatus still
// has work to do for a row recorded with rowStatus. Canceled rows are
// terminal even while the job object lingers. A finished job is handled on
// every reconcile because image registration may have failed after the
// Finished status was already committed.
func statusNeedsHandling(rowStatus, jobStatus model.BuildStatus) bool {
	if rowStatus == model.BuildJobCanceled {
		return false
	}
	if jobStatus == model.BuildJobFinished {
		return true
	}
	return jobStatus != rowStatus
}

// handleDeletedJob drops Build rows whose job vanished before reaching a
// terminal state. Finished and failed rows stay for the history views.
func (r *BuildKitReconciler) handleDeletedJob(ctx context.Context, jobName string) (ctrl.Result, error) {
	logger := log.FromContext(ctx)
	db := query.GetDB().WithContext(ctx)

	var build model.Build
	err := db.Where("job_name = ?", jobName).First(&build).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ctrl.Result{}, nil
	}
	if err != nil {
		logger.Error(err, "unable to fetch build entity")
		return ctrl.Result{Requeue: true}, err
	}

	if build.Status == model.BuildJobFailed || build.Status == model.BuildJobFinished || build.Status == model.BuildJobCanceled {
		return ctrl.Result{}, nil
	}

	if err = db.Where("job_name = ?", jobName).Delete(&model.Build{}).Error; err != nil {
		logger.Error(err, "unable to delete build entity in database")
		return ctrl.Result{Requeue: true}, err
	}
	return ctrl.Result{}, nil
}

// registerImage records the pushed image once per build job. The Image row
// is the dedupe marker: until it exists every step here is retried, after
// it exists the call is a no-op.
func (r *BuildKitReconciler) registerImage(ctx context.Context, build *model.Build) (ctrl.Result, error) {
	logger := log.FromContext(ctx)
	db := query.GetDB().WithContext(ctx)

	err := db.Where("job_name = ?", build.JobName).First(&model.Image{}).Error
	if err == nil {
		return ctrl.Result{}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error(err, "unable to fetch image entity")
		return ctrl.Result{Requeue: true}, err
	}

	size := r.getImageSize(ctx, build)
	if err = db.Model(&model.Build{}).
		Where("job_name = ?", build.JobName).
		Update("size", size).Error; err != nil {
		logger.Error(err, "build entity size update failed")
		return ctrl.Result{Requeue: true}, err
	}

	image := &model.Image{
		UserID:      build.UserID,
		ImageLink:   build.ImageLink,
		JobName:     &build.JobName,
		Description: build.Description,
		IsPublic:    false,
		Size:        size,
	}
	if err = db.Create(image).Error; err != nil {
		logger.Error(err, "image entity creation failed")
		return ctrl.Result{Requeue: true}, err
	}
	logger.Info("image entity created: " + build.ImageLink)

	if alertErr := alert.GetAlertMgr().BuildFinishedAlert(ctx, build.JobName); alertErr != nil {
		logger.Error(alertErr, "build finished alert failed")
	}
	return ctrl.Result{}, nil
}

func (r *BuildKitReconciler) getImageSize(ctx context.Context, build *model.Build) int64 {
	size, err := r.imageRegistry.GetImageSize(ctx, build.ImageLink)
	if err != nil {
		logutils.Log.Errorf("get image artifact size failed: %v", err)
		return 0
	}
	return size
}

func (r *BuildKitReconciler) getJobBuildStatus(job *batchv1.Job) model.BuildStatus {
	var status model.BuildStatus
	if job.Status.Succeeded == 1 {
		status = model.BuildJobFinished
	} else if job.Status.Failed == 1 {
		status = model.BuildJobFailed
	} else if job.Status.Active == 1 {
		status = model.BuildJobRunning
	} else {
		status = model.BuildJobPending
	}
	return status
}
