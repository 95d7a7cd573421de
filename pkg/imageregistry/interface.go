package imageregistry

import (
	"context"
)

type ImageRegistryInterface interface {
	/// Project operations

	// CheckOrCreateProjectForUser checks if the project exists for the user, if not, create one.
	CheckOrCreateProjectForUser(ctx context.Context, userName string) error

	// UpdateQuotaForProject sets the storage quota for the project.
	UpdateQuotaForProject(ctx context.Context, projectName string, quotaSize int64) error

	// GetProjectDetail reports usage and quota for the user's project.
	GetProjectDetail(ctx context.Context, userName string) (ProjectDetail, error)

	/// Image operations

	// DeleteImageFromProject deletes the image from the project.
	DeleteImageFromProject(ctx context.Context, fullImageURL string) error

	// GetImageSize gets the size of the image.
	GetImageSize(ctx context.Context, fullImageName string) (int64, error)

	GetRegistryServer() string
}

type ProjectDetail struct {
	ProjectName string
	UsedSize    int64
	TotalSize   int64
}

type ImageRegistry struct {
	harborClient *HarborClient
}

func NewImageRegistry() ImageRegistryInterface {
	harborClient := NewHarborClient()
	return &ImageRegistry{
		harborClient: &harborClient,
	}
}
