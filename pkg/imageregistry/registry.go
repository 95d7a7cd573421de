package imageregistry

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	harbormodelv2 "github.com/mittwald/goharbor-client/v5/apiv2/model"

	"github.com/vision-lab/trainforge/pkg/logutils"
)

var (
	ProjectIsPublic = true
	//nolint:mnd // default project quota: 40GB
	DefaultQuotaSize = int64(40 * math.Pow(2, 30))
)

// CheckOrCreateProjectForUser checks if the project for the user exists, if not, create a new project for the user.
func (r *ImageRegistry) CheckOrCreateProjectForUser(ctx context.Context, username string) error {
	projectName := fmt.Sprintf("user-%s", username)
	if exist, _ := r.harborClient.ProjectExists(ctx, projectName); exist {
		return nil
	}

	if err := r.harborClient.NewProject(ctx, &harbormodelv2.ProjectReq{
		ProjectName:  projectName,
		Public:       &ProjectIsPublic,
		StorageLimit: &DefaultQuotaSize,
	}); err != nil {
		logutils.Log.Errorf("create harbor project failed! err:%+v", err)
		return err
	}

	return nil
}

func (r *ImageRegistry) getImageInfo(fullImageURL string) (projectName, imageName, imageTag string, err error) {
	// fullImageURL like: registry.example.com/user-alice/classification-train:0829-1030-ab12
	if !strings.HasPrefix(fullImageURL, r.harborClient.RegistryServer) {
		// skip if image is not in inner registry
		return "", "", "", fmt.Errorf("image is not in inner registry: %s", fullImageURL)
	}

	regexPattern := fmt.Sprintf(`%s/(.*?)/(.*?):(.*?)$`, r.harborClient.RegistryServer)
	re := regexp.MustCompile(regexPattern)
	matches := re.FindStringSubmatch(fullImageURL)
	expectedMatchesLen := 4
	if len(matches) != expectedMatchesLen {
		logutils.Log.Errorf("invalid full image url: %s", fullImageURL)
		return "", "", "", fmt.Errorf("invalid full image url: %s", fullImageURL)
	}
	projectName = matches[1]
	imageName = matches[2]
	imageTag = matches[3]
	return projectName, imageName, imageTag, nil
}

// DeleteImageFromProject deletes the image from the project.
func (r *ImageRegistry) DeleteImageFromProject(ctx context.Context, fullImageURL string) error {
	projectName, imageName, imageTag, err := r.getImageInfo(fullImageURL)
	if err != nil {
		return err
	}

	return r.harborClient.DeleteArtifact(ctx, projectName, imageName, imageTag)
}

func (r *ImageRegistry) UpdateQuotaForProject(ctx context.Context, projectName string, quotaSize int64) error {
	project, err := r.harborClient.GetProject(ctx, projectName)
	if err != nil {
		logutils.Log.Errorf("get harbor project failed, err: %+v", err)
		return err
	}
	return r.harborClient.UpdateStorageQuotaByProjectID(ctx, int64(project.ProjectID), quotaSize)
}

func (r *ImageRegistry) GetProjectDetail(ctx context.Context, username string) (ProjectDetail, error) {
	projectName := fmt.Sprintf("user-%s", username)
	project, err := r.harborClient.GetProject(ctx, projectName)
	if err != nil {
		return ProjectDetail{}, err
	}
	quota, err := r.harborClient.GetQuotaByProjectID(ctx, int64(project.ProjectID))
	if err != nil {
		return ProjectDetail{}, err
	}
	detail := ProjectDetail{
		ProjectName: projectName,
	}
	if quota.Used != nil {
		detail.UsedSize = quota.Used["storage"]
	}
	if quota.Hard != nil {
		detail.TotalSize = quota.Hard["storage"]
	}
	return detail, nil
}

func (r *ImageRegistry) GetImageSize(ctx context.Context, fullImageName string) (int64, error) {
	projectName, imageName, imageTag, err := r.getImageInfo(fullImageName)
	if err != nil {
		return 0, err
	}

	imageArtifact, err := r.harborClient.GetArtifact(ctx, projectName, imageName, imageTag)
	if err != nil {
		logutils.Log.Errorf("get image artifact failed! err:%+v", err)
		return 0, err
	}
	return imageArtifact.Size, nil
}

func (r *ImageRegistry) GetRegistryServer() string {
	return r.harborClient.RegistryServer
}
