package build

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/internal/resputil"
	"github.com/vision-lab/trainforge/internal/util"
	"github.com/vision-lab/trainforge/pkg/dockerfile"
	"github.com/vision-lab/trainforge/pkg/metrics"
	"github.com/vision-lab/trainforge/pkg/packer"
	"github.com/vision-lab/trainforge/pkg/utils"
)

// UserSubmitBuild godoc
//
//	@Summary		Submit a recipe build
//	@Description	Render the recipe, create the BuildKit job and record the build
//	@Tags			Build
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body	SubmitBuildRequest	true	"build parameters"
//	@Router			/v1/builds [POST]
func (mgr *BuildMgr) UserSubmitBuild(c *gin.Context) {
	req := &SubmitBuildRequest{}
	token := util.GetToken(c)
	if err := c.ShouldBindJSON(req); err != nil {
		resputil.BadRequestError(c, fmt.Sprintf("validate submit parameters failed, err %v", err))
		return
	}

	var recipe model.Recipe
	if err := query.GetDB().WithContext(c).
		Where("user_id = ?", token.UserID).
		First(&recipe, req.RecipeID).Error; err != nil {
		resputil.BadRequestError(c, "recipe not exist or have no permission")
		return
	}

	// the recipe may predate stricter validation rules
	if err := dockerfile.Validate(&recipe); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	rendered, requirements := dockerfile.Render(&recipe)

	if err := mgr.imageRegistry.CheckOrCreateProjectForUser(c, token.Username); err != nil {
		resputil.Error(c, "create harbor project failed", resputil.NotSpecified)
		return
	}

	jobName := fmt.Sprintf("%s-%s", token.Username, uuid.New().String()[:5])
	imageLink := utils.GenerateImageLink(recipe.Name, token.Username)

	buildReq := &packer.BuildReq{
		UserID:       token.UserID,
		Namespace:    UserNameSpace,
		JobName:      jobName,
		RecipeName:   recipe.Name,
		Dockerfile:   rendered,
		Requirements: requirements,
		Scripts:      recipe.Scripts.Data(),
		Description:  req.Description,
		ImageLink:    imageLink,
	}
	if err := mgr.imagePacker.CreateBuildJob(c, buildReq); err != nil {
		klog.Errorf("create build job failed, err: %+v", err)
		resputil.Error(c, "create build job failed", resputil.NotSpecified)
		return
	}

	entity := &model.Build{
		UserID:      token.UserID,
		RecipeID:    recipe.ID,
		JobName:     jobName,
		ImageLink:   imageLink,
		NameSpace:   UserNameSpace,
		Status:      model.BuildJobPending,
		Dockerfile:  &rendered,
		Description: req.Description,
	}
	if err := query.GetDB().WithContext(c).Create(entity).Error; err != nil {
		klog.Errorf("create build entity failed, err: %v", err)
		resputil.Error(c, "create build record failed", resputil.NotSpecified)
		return
	}
	metrics.BuildsSubmitted.Inc()
	resputil.Success(c, jobName)
}

// UserListBuild godoc
//
//	@Summary		List the builds of the current user
//	@Tags			Build
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/builds [GET]
func (mgr *BuildMgr) UserListBuild(c *gin.Context) {
	token := util.GetToken(c)
	var builds []model.Build
	if err := query.GetDB().WithContext(c).
		Where("user_id = ?", token.UserID).
		Preload("User").Preload("Recipe").
		Order("created_at DESC").
		Find(&builds).Error; err != nil {
		klog.Errorf("fetch build entities failed, err: %v", err)
	}
	resputil.Success(c, generateBuildListResponse(builds))
}

// AdminListBuild godoc
//
//	@Summary		List the builds of all users
//	@Tags			Build
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/admin/builds [GET]
func (mgr *BuildMgr) AdminListBuild(c *gin.Context) {
	var builds []model.Build
	if err := query.GetDB().WithContext(c).
		Preload("User").Preload("Recipe").
		Order("created_at DESC").
		Find(&builds).Error; err != nil {
		klog.Errorf("fetch build entities failed, err: %v", err)
	}
	resputil.Success(c, generateBuildListResponse(builds))
}

// UserGetBuildByJobName godoc
//
//	@Summary		Get one build with its Dockerfile snapshot and pod name
//	@Tags			Build
//	@Produce		json
//	@Security		Bearer
//	@Param			jobname	query	string	true	"build job name"
//	@Router			/v1/builds/getbyname [GET]
func (mgr *BuildMgr) UserGetBuildByJobName(c *gin.Context) {
	entity, ok := mgr.fetchOwnedBuild(c)
	if !ok {
		return
	}

	podName := ""
	if pod, err := mgr.buildClient.GetBuildPod(c, entity.JobName, entity.NameSpace); err != nil {
		klog.Errorf("fetch build pod failed, err: %v", err)
	} else if pod != nil {
		podName = pod.Name
	}

	resputil.Success(c, BuildDetailResponse{
		BuildListItem: buildListItem(entity),
		Dockerfile:    entity.Dockerfile,
		Description:   entity.Description,
		PodName:       podName,
		NameSpace:     entity.NameSpace,
	})
}

// UserGetBuildPodUsage godoc
//
//	@Summary		Report the resource usage of a running build pod
//	@Tags			Build
//	@Produce		json
//	@Security		Bearer
//	@Param			jobname	query	string	true	"build job name"
//	@Router			/v1/builds/usage [GET]
func (mgr *BuildMgr) UserGetBuildPodUsage(c *gin.Context) {
	entity, ok := mgr.fetchOwnedBuild(c)
	if !ok {
		return
	}
	pod, err := mgr.buildClient.GetBuildPod(c, entity.JobName, entity.NameSpace)
	if err != nil || pod == nil {
		resputil.BadRequestError(c, "build pod not found")
		return
	}
	resputil.Success(c, BuildPodUsageResponse{
		PodName: pod.Name,
		Usage:   mgr.promClient.QueryPodUsage(pod.Name),
	})
}

// UserRemoveBuildByIDList godoc
//
//	@Summary		Remove or cancel builds in batch
//	@Description	Terminal builds are deleted together with their image, running builds are canceled
//	@Tags			Build
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			idList	body	RemoveBuildByIDListRequest	true	"build id list"
//	@Router			/v1/builds/remove [POST]
func (mgr *BuildMgr) UserRemoveBuildByIDList(c *gin.Context) {
	var req RemoveBuildByIDListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, fmt.Sprintf("validate remove parameters failed, err %v", err))
		return
	}
	if mgr.removeBuildByIDList(c, false, req.IDList) {
		resputil.Success(c, "")
	} else {
		resputil.Error(c, "failed to remove builds", resputil.NotSpecified)
	}
}

// AdminRemoveBuildByIDList godoc
//
//	@Summary		Remove or cancel builds of any user in batch
//	@Tags			Build
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			idList	body	RemoveBuildByIDListRequest	true	"build id list"
//	@Router			/v1/admin/builds/remove [POST]
func (mgr *BuildMgr) AdminRemoveBuildByIDList(c *gin.Context) {
	var req RemoveBuildByIDListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, fmt.Sprintf("validate remove parameters failed, err %v", err))
		return
	}
	if mgr.removeBuildByIDList(c, true, req.IDList) {
		resputil.Success(c, "")
	} else {
		resputil.Error(c, "failed to remove builds", resputil.NotSpecified)
	}
}

func (mgr *BuildMgr) removeBuildByIDList(c *gin.Context, isAdminMode bool, idList []uint) (isSuccess bool) {
	flag := true
	userID := util.GetToken(c).UserID
	for _, buildID := range idList {
		if ok, errorMsg := mgr.removeBuildByID(c, isAdminMode, buildID, userID); !ok {
			flag = false
			klog.Errorf("remove build failed, err: %v", errorMsg)
		}
	}
	return flag
}

// removeBuildByID deletes terminal builds and cancels running ones.
func (mgr *BuildMgr) removeBuildByID(c *gin.Context, isAdminMode bool, buildID, userID uint) (isSuccess bool, msg string) {
	db := query.GetDB().WithContext(c)
	buildQuery := db
	if !isAdminMode {
		buildQuery = buildQuery.Where("user_id = ?", userID)
	}

	var entity model.Build
	if err := buildQuery.First(&entity, buildID).Error; err != nil {
		errorMsg := fmt.Sprintf("build not exist or have no permission %+v", err)
		klog.Error(errorMsg)
		return false, errorMsg
	}

	if entity.Status == model.BuildJobFinished ||
		entity.Status == model.BuildJobFailed ||
		entity.Status == model.BuildJobCanceled {
		return mgr.deleteBuild(c, &entity)
	}

	// running build, cancel it: remove the job and keep the row as history
	if err := mgr.imagePacker.DeleteJob(c, entity.JobName, entity.NameSpace); err != nil {
		klog.Errorf("delete build job failed, err: %v", err)
	}
	if err := db.Model(&model.Build{}).
		Where("id = ?", entity.ID).
		Update("status", model.BuildJobCanceled).Error; err != nil {
		errorMsg := fmt.Sprintf("mark build canceled failed, err: %v", err)
		klog.Error(errorMsg)
		return false, errorMsg
	}
	return true, ""
}

func (mgr *BuildMgr) deleteBuild(c *gin.Context, entity *model.Build) (isSuccess bool, errMsg string) {
	db := query.GetDB().WithContext(c)
	var errorMsg string

	if entity.Status == model.BuildJobFinished {
		if err := db.Where("job_name = ?", entity.JobName).Delete(&model.Image{}).Error; err != nil {
			errorMsg = fmt.Sprintf("delete image entity failed, err: %v", err)
			klog.Error(errorMsg)
		}
	}
	if err := db.Delete(&model.Build{}, entity.ID).Error; err != nil {
		errorMsg = fmt.Sprintf("delete build entity failed, err: %v", err)
		klog.Error(errorMsg)
		return false, errorMsg
	}
	if entity.Status == model.BuildJobFinished {
		if err := mgr.imageRegistry.DeleteImageFromProject(c, entity.ImageLink); err != nil {
			errorMsg = fmt.Sprintf("delete image artifact failed, err: %+v", err)
			klog.Error(errorMsg)
		}
	}
	return true, errorMsg
}

// UserListImage godoc
//
//	@Summary		List the registered images visible to the current user
//	@Description	Own images plus every public image
//	@Tags			Build
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/builds/image [GET]
func (mgr *BuildMgr) UserListImage(c *gin.Context) {
	token := util.GetToken(c)
	var images []model.Image
	if err := query.GetDB().WithContext(c).
		Where("user_id = ? OR is_public = ?", token.UserID, true).
		Preload("User").
		Order("created_at DESC").
		Find(&images).Error; err != nil {
		klog.Errorf("fetch image entities failed, err: %v", err)
	}
	items := lo.Map(images, func(entity model.Image, _ int) ImageListItem {
		nickname := entity.User.Name
		if entity.User.Nickname != nil {
			nickname = *entity.User.Nickname
		}
		return ImageListItem{
			ID:          entity.ID,
			ImageLink:   entity.ImageLink,
			Description: entity.Description,
			IsPublic:    entity.IsPublic,
			Size:        entity.Size,
			UserInfo: model.UserInfo{
				Username: entity.User.Name,
				Nickname: nickname,
			},
			CreatedAt: entity.CreatedAt,
		}
	})
	resputil.Success(c, items)
}

// fetchOwnedBuild loads a build by the jobname query parameter and checks
// ownership. Admins may access any build.
func (mgr *BuildMgr) fetchOwnedBuild(c *gin.Context) (*model.Build, bool) {
	var req JobNameRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return nil, false
	}
	token := util.GetToken(c)

	var entity model.Build
	if err := query.GetDB().WithContext(c).
		Preload("User").Preload("Recipe").
		Where("job_name = ?", req.JobName).
		First(&entity).Error; err != nil {
		resputil.BadRequestError(c, "build not found")
		return nil, false
	}
	if entity.UserID != token.UserID && token.RolePlatform != model.RoleAdmin {
		resputil.HTTPError(c, 403, "build belongs to another user", resputil.UserNotAllowed)
		return nil, false
	}
	return &entity, true
}

func generateBuildListResponse(builds []model.Build) []BuildListItem {
	return lo.Map(builds, func(entity model.Build, _ int) BuildListItem {
		return buildListItem(&entity)
	})
}

func buildListItem(entity *model.Build) BuildListItem {
	nickname := entity.User.Name
	if entity.User.Nickname != nil {
		nickname = *entity.User.Nickname
	}
	return BuildListItem{
		ID:         entity.ID,
		JobName:    entity.JobName,
		RecipeName: entity.Recipe.Name,
		ImageLink:  entity.ImageLink,
		Status:     entity.Status,
		Size:       entity.Size,
		UserInfo: model.UserInfo{
			Username: entity.User.Name,
			Nickname: nickname,
		},
		CreatedAt: entity.CreatedAt,
	}
}
