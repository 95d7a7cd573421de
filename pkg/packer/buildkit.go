package packer

import (
	"context"
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/constants"
)

// CreateBuildJob ships the build context as a ConfigMap and starts a buildctl
// Job against the shared buildkitd. The ConfigMap is owned by the Job so both
// disappear together.
func (b *buildKitPacker) CreateBuildJob(ctx context.Context, data *BuildReq) error {
	container := b.generateBuildKitContainer(data)
	volumes := b.generateVolumes(data.JobName)

	configMap, err := b.createContextConfigMap(ctx, data)
	if err != nil {
		return err
	}
	job, err := b.createJob(ctx, data, container, volumes)
	if err != nil {
		return err
	}

	return b.updateOwnerReference(ctx, configMap, job)
}

func (b *buildKitPacker) DeleteJob(ctx context.Context, jobName, ns string) error {
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      jobName,
			Namespace: ns,
		},
	}
	deletePolicy := metav1.DeletePropagationForeground
	return b.client.Delete(ctx, job, &client.DeleteOptions{PropagationPolicy: &deletePolicy})
}

// createContextConfigMap materializes the build context: the Dockerfile, the
// requirements file and every script of the bundle under its original
// filename. A script missing here would make the COPY instruction fail and
// abort the build, which is the intended contract.
func (b *buildKitPacker) createContextConfigMap(ctx context.Context, data *BuildReq) (*corev1.ConfigMap, error) {
	contextData, err := buildContextData(data)
	if err != nil {
		return nil, err
	}

	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      data.JobName,
			Namespace: data.Namespace,
		},
		Data: contextData,
	}
	if err := b.client.Create(ctx, configMap); err != nil {
		return nil, err
	}
	return configMap, nil
}

func buildContextData(data *BuildReq) (map[string]string, error) {
	contextData := map[string]string{
		"Dockerfile":       data.Dockerfile,
		"requirements.txt": data.Requirements,
	}
	for _, script := range data.Scripts {
		if _, ok := contextData[script.Name]; ok {
			return nil, fmt.Errorf("script %q collides with a build context file", script.Name)
		}
		contextData[script.Name] = script.Content
	}
	return contextData, nil
}

func (b *buildKitPacker) generateVolumes(jobName string) []corev1.Volume {
	return []corev1.Volume{
		{
			Name: "registrycredits",
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{
					SecretName: registryCredSecretName,
					Items: []corev1.KeyToPath{
						{
							Key:  ".dockerconfigjson",
							Path: "config.json",
						},
					},
				},
			},
		},
		{
			Name: "configmap-volume",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: jobName,
					},
				},
			},
		},
	}
}

func (b *buildKitPacker) generateBuildKitContainer(data *BuildReq) []corev1.Container {
	buildTools := config.GetConfig().ImageBuildTools
	output := fmt.Sprintf("type=image,name=%s,push=true", data.ImageLink)
	buildArgs := []string{
		"--addr", buildTools.BuildkitdAddr,
		"build",
		"--frontend", "dockerfile.v0",
		"--progress", "plain",
		"--local", "context=/workspace",
		"--local", "dockerfile=/workspace",
		"--output", output,
	}
	return []corev1.Container{
		{
			Name:  "buildkit",
			Image: buildTools.BuildctlImage,
			Args:  buildArgs,
			Env: []corev1.EnvVar{
				{
					Name:  "DOCKER_CONFIG",
					Value: "/.docker",
				},
			},
			VolumeMounts: []corev1.VolumeMount{
				{
					Name:      "registrycredits",
					MountPath: "/.docker",
				},
				{
					Name:      "configmap-volume",
					MountPath: "/workspace",
					ReadOnly:  true,
				},
			},
		},
	}
}

func (b *buildKitPacker) createJob(
	ctx context.Context,
	data *BuildReq,
	container []corev1.Container,
	volumes []corev1.Volume,
) (*batchv1.Job, error) {
	description := ""
	if data.Description != nil {
		description = *data.Description
	}
	jobMeta := metav1.ObjectMeta{
		Name:      data.JobName,
		Namespace: data.Namespace,
		Labels: map[string]string{
			constants.BuildJobLabelKey: constants.BuildJobLabelValue,
			constants.RecipeLabelKey:   data.RecipeName,
		},
		Annotations: map[string]string{
			AnnotationKeyUserID:      fmt.Sprint(data.UserID),
			AnnotationKeyImageLink:   data.ImageLink,
			AnnotationKeyDescription: description,
			AnnotationKeyRecipe:      data.RecipeName,
		},
	}

	jobSpec := batchv1.JobSpec{
		Template: corev1.PodTemplateSpec{
			ObjectMeta: metav1.ObjectMeta{
				Name:      data.JobName,
				Namespace: data.Namespace,
				Annotations: map[string]string{
					"container.apparmor.security.beta.kubernetes.io/buildkit": "unconfined",
				},
			},
			Spec: corev1.PodSpec{
				// No retry: any failed step aborts the whole build.
				RestartPolicy: corev1.RestartPolicyNever,
				Containers:    container,
				Volumes:       volumes,
				SecurityContext: &corev1.PodSecurityContext{
					SeccompProfile: &corev1.SeccompProfile{
						Type: corev1.SeccompProfileTypeUnconfined,
					},
					RunAsUser:  &runAsUserNumber,
					RunAsGroup: &runAsGroupNumber,
					FSGroup:    &fsAsGroupNumber,
				},
			},
		},
		TTLSecondsAfterFinished: &jobCleanTime,
		BackoffLimit:            &backoffLimitNumber,
		Completions:             &completionNumber,
		Parallelism:             &parallelismNumber,
	}

	job := &batchv1.Job{
		ObjectMeta: jobMeta,
		Spec:       jobSpec,
	}

	if err := b.client.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (b *buildKitPacker) updateOwnerReference(ctx context.Context, configMap *corev1.ConfigMap, job *batchv1.Job) error {
	ownerReference := metav1.OwnerReference{
		APIVersion:         "batch/v1",
		Kind:               "Job",
		Name:               job.Name,
		UID:                job.UID,
		Controller:         ptr.To(true),
		BlockOwnerDeletion: ptr.To(true),
	}
	configMap.OwnerReferences = append(configMap.OwnerReferences, ownerReference)
	return b.client.Update(ctx, configMap)
}
