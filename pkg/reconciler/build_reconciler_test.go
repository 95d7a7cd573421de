package reconciler

import (
	"testing"

	batchv1 "k8s.io/api/batch/v1"

	"github.com/vision-lab/trainforge/dao/model"
)

func TestGetJobBuildStatus(t *testing.T) {
	r := &BuildKitReconciler{}

	tests := []struct {
		name   string
		status batchv1.JobStatus
		want   model.BuildStatus
	}{
		{"succeeded", batchv1.JobStatus{Succeeded: 1}, model.BuildJobFinished},
		{"failed", batchv1.JobStatus{Failed: 1}, model.BuildJobFailed},
		{"active", batchv1.JobStatus{Active: 1}, model.BuildJobRunning},
		{"pending", batchv1.JobStatus{}, model.BuildJobPending},
		// a failed job never restarts, so Succeeded and Failed cannot both be set
		{"failed wins over active", batchv1.JobStatus{Failed: 1, Active: 1}, model.BuildJobFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &batchv1.Job{Status: tt.status}
			if got := r.getJobBuildStatus(job); got != tt.want {
				t.Errorf("getJobBuildStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusNeedsHandling(t *testing.T) {
	tests := []struct {
		name      string
		rowStatus model.BuildStatus
		jobStatus model.BuildStatus
		want      bool
	}{
		// a Finished row is reconciled again so a registration that failed
		// after the status commit gets retried
		{"finished row retries registration", model.BuildJobFinished, model.BuildJobFinished, true},
		{"pending to running", model.BuildJobPending, model.BuildJobRunning, true},
		{"running to finished", model.BuildJobRunning, model.BuildJobFinished, true},
		{"running to failed", model.BuildJobRunning, model.BuildJobFailed, true},
		// submission records Pending, the first reconcile of an unscheduled
		// job must not flap the row
		{"freshly submitted", model.BuildJobPending, model.BuildJobPending, false},
		{"unchanged running", model.BuildJobRunning, model.BuildJobRunning, false},
		{"unchanged failed", model.BuildJobFailed, model.BuildJobFailed, false},
		{"canceled row ignores running job", model.BuildJobCanceled, model.BuildJobRunning, false},
		{"canceled row ignores finished job", model.BuildJobCanceled, model.BuildJobFinished, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusNeedsHandling(tt.rowStatus, tt.jobStatus); got != tt.want {
				t.Errorf("statusNeedsHandling(%v, %v) = %v, want %v", tt.rowStatus, tt.jobStatus, got, tt.want)
			}
		})
	}
}
