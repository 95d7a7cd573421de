package build

import (
	"time"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/pkg/monitor"
)

type (
	SubmitBuildRequest struct {
		RecipeID    uint    `json:"recipeID" binding:"required"`
		Description *string `json:"description"`
	}

	RemoveBuildByIDListRequest struct {
		IDList []uint `json:"idList" binding:"required"`
	}

	JobNameRequest struct {
		JobName string `form:"jobname" binding:"required"`
	}

	BuildListItem struct {
		ID         uint              `json:"id"`
		JobName    string            `json:"jobName"`
		RecipeName string            `json:"recipeName"`
		ImageLink  string            `json:"imageLink"`
		Status     model.BuildStatus `json:"status"`
		Size       int64             `json:"size"`
		UserInfo   model.UserInfo    `json:"userInfo"`
		CreatedAt  time.Time         `json:"createdAt"`
	}

	BuildDetailResponse struct {
		BuildListItem
		Dockerfile  *string `json:"dockerfile"`
		Description *string `json:"description"`
		PodName     string  `json:"podName"`
		NameSpace   string  `json:"namespace"`
	}

	BuildPodUsageResponse struct {
		PodName string                   `json:"podName"`
		Usage   monitor.PodResourceUsage `json:"usage"`
	}

	ImageListItem struct {
		ID          uint           `json:"id"`
		ImageLink   string         `json:"imageLink"`
		Description *string        `json:"description"`
		IsPublic    bool           `json:"isPublic"`
		Size        int64          `json:"size"`
		UserInfo    model.UserInfo `json:"userInfo"`
		CreatedAt   time.Time      `json:"createdAt"`
	}

	ImageInfoLinkPair struct {
		ID        uint   `json:"id"`
		ImageLink string `json:"imageLink"`
	}

	CheckLinkValidityRequest struct {
		LinkPairs []ImageInfoLinkPair `json:"linkPairs" binding:"required"`
	}

	CheckLinkValidityResponse struct {
		InvalidPairs []ImageInfoLinkPair `json:"invalidPairs"`
	}

	GetProjectDetailResponse struct {
		Project string  `json:"project"`
		Quota   float64 `json:"quota"`
		Used    float64 `json:"used"`
	}

	UpdateProjectQuotaRequest struct {
		Username string `json:"username" binding:"required"`
		SizeGB   int64  `json:"sizeGB" binding:"required"`
	}
)
