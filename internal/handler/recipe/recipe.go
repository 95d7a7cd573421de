package recipe

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/internal/resputil"
	"github.com/vision-lab/trainforge/internal/util"
	"github.com/vision-lab/trainforge/pkg/dockerfile"
)

// UserListRecipe godoc
//
//	@Summary		List the recipes of the current user
//	@Tags			Recipe
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/recipes [GET]
func (mgr *RecipeMgr) UserListRecipe(c *gin.Context) {
	token := util.GetToken(c)
	var recipes []model.Recipe
	if err := query.GetDB().WithContext(c).
		Where("user_id = ?", token.UserID).
		Preload("User").
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		klog.Errorf("fetch recipe entities failed, err: %v", err)
		resputil.Error(c, "list recipes failed", resputil.NotSpecified)
		return
	}
	resputil.Success(c, generateRecipeListResponse(recipes))
}

// AdminListRecipe godoc
//
//	@Summary		List the recipes of all users
//	@Tags			Recipe
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/admin/recipes [GET]
func (mgr *RecipeMgr) AdminListRecipe(c *gin.Context) {
	var recipes []model.Recipe
	if err := query.GetDB().WithContext(c).
		Preload("User").
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		klog.Errorf("fetch recipe entities failed, err: %v", err)
		resputil.Error(c, "list recipes failed", resputil.NotSpecified)
		return
	}
	resputil.Success(c, generateRecipeListResponse(recipes))
}

// UserCreateRecipe godoc
//
//	@Summary		Create a recipe
//	@Description	Validate the environment definition and store it
//	@Tags			Recipe
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body	CreateRecipeRequest	true	"recipe definition"
//	@Router			/v1/recipes [POST]
func (mgr *RecipeMgr) UserCreateRecipe(c *gin.Context) {
	req := &CreateRecipeRequest{}
	token := util.GetToken(c)
	if err := c.ShouldBindJSON(req); err != nil {
		resputil.BadRequestError(c, fmt.Sprintf("validate create parameters failed, err %v", err))
		return
	}

	entity := recipeFromRequest(req)
	entity.UserID = token.UserID
	if err := dockerfile.Validate(entity); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	if err := query.GetDB().WithContext(c).Create(entity).Error; err != nil {
		klog.Errorf("create recipe entity failed, err: %v", err)
		resputil.Error(c, "create recipe failed, the name may already be taken", resputil.NotSpecified)
		return
	}
	resputil.Success(c, entity.ID)
}

// UserGetRecipe godoc
//
//	@Summary		Get one recipe with the full package lists and scripts
//	@Tags			Recipe
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path	int	true	"recipe id"
//	@Router			/v1/recipes/{id} [GET]
func (mgr *RecipeMgr) UserGetRecipe(c *gin.Context) {
	entity, ok := mgr.fetchOwnedRecipe(c)
	if !ok {
		return
	}
	resputil.Success(c, generateRecipeDetailResponse(entity))
}

// UserUpdateRecipe godoc
//
//	@Summary		Replace the mutable fields of a recipe
//	@Description	Builds already submitted keep their Dockerfile snapshot
//	@Tags			Recipe
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path	int					true	"recipe id"
//	@Param			data	body	UpdateRecipeRequest	true	"new definition"
//	@Router			/v1/recipes/{id} [PUT]
func (mgr *RecipeMgr) UserUpdateRecipe(c *gin.Context) {
	entity, ok := mgr.fetchOwnedRecipe(c)
	if !ok {
		return
	}

	req := &UpdateRecipeRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		resputil.BadRequestError(c, fmt.Sprintf("validate update parameters failed, err %v", err))
		return
	}

	entity.Description = req.Description
	entity.BaseImage = req.BaseImage
	if req.WorkDir != "" {
		entity.WorkDir = req.WorkDir
	}
	entity.EntryScript = req.EntryScript
	entity.AptPackages = datatypes.NewJSONSlice(req.AptPackages)
	entity.PipPackages = datatypes.NewJSONSlice(req.PipPackages)
	entity.Scripts = datatypes.NewJSONType(scriptsFromRequest(req.Scripts))

	if err := dockerfile.Validate(entity); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := query.GetDB().WithContext(c).Save(entity).Error; err != nil {
		klog.Errorf("update recipe entity failed, err: %v", err)
		resputil.Error(c, "update recipe failed", resputil.NotSpecified)
		return
	}
	resputil.Success(c, "")
}

// UserDeleteRecipe godoc
//
//	@Summary		Delete a recipe
//	@Description	Refused while build records still reference the recipe
//	@Tags			Recipe
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path	int	true	"recipe id"
//	@Router			/v1/recipes/{id} [DELETE]
func (mgr *RecipeMgr) UserDeleteRecipe(c *gin.Context) {
	entity, ok := mgr.fetchOwnedRecipe(c)
	if !ok {
		return
	}

	db := query.GetDB().WithContext(c)
	var builds int64
	if err := db.Model(&model.Build{}).Where("recipe_id = ?", entity.ID).Count(&builds).Error; err != nil {
		resputil.Error(c, "delete recipe failed", resputil.NotSpecified)
		return
	}
	if builds > 0 {
		resputil.BadRequestError(c, "recipe still has build records, remove them first")
		return
	}
	if err := db.Delete(entity).Error; err != nil {
		klog.Errorf("delete recipe entity failed, err: %v", err)
		resputil.Error(c, "delete recipe failed", resputil.NotSpecified)
		return
	}
	resputil.Success(c, "")
}

// UserPreviewDockerfile godoc
//
//	@Summary		Render the Dockerfile of a recipe without building
//	@Tags			Recipe
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path	int	true	"recipe id"
//	@Router			/v1/recipes/{id}/dockerfile [GET]
func (mgr *RecipeMgr) UserPreviewDockerfile(c *gin.Context) {
	entity, ok := mgr.fetchOwnedRecipe(c)
	if !ok {
		return
	}
	rendered, requirements := dockerfile.Render(entity)
	resputil.Success(c, DockerfilePreviewResponse{
		Dockerfile:   rendered,
		Requirements: requirements,
	})
}

// fetchOwnedRecipe loads the recipe from the id path parameter and checks
// that it belongs to the caller. Admins may access any recipe.
func (mgr *RecipeMgr) fetchOwnedRecipe(c *gin.Context) (*model.Recipe, bool) {
	var req RecipeIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return nil, false
	}
	token := util.GetToken(c)

	var entity model.Recipe
	err := query.GetDB().WithContext(c).Preload("User").First(&entity, req.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resputil.BadRequestError(c, "recipe not found")
		return nil, false
	}
	if err != nil {
		klog.Errorf("fetch recipe entity failed, err: %v", err)
		resputil.Error(c, "get recipe failed", resputil.NotSpecified)
		return nil, false
	}
	if entity.UserID != token.UserID && token.RolePlatform != model.RoleAdmin {
		resputil.HTTPError(c, 403, "recipe belongs to another user", resputil.UserNotAllowed)
		return nil, false
	}
	return &entity, true
}

func recipeFromRequest(req *CreateRecipeRequest) *model.Recipe {
	workDir := req.WorkDir
	if workDir == "" {
		workDir = "/workspace"
	}
	return &model.Recipe{
		Name:        req.Name,
		Description: req.Description,
		BaseImage:   req.BaseImage,
		WorkDir:     workDir,
		EntryScript: req.EntryScript,
		AptPackages: datatypes.NewJSONSlice(req.AptPackages),
		PipPackages: datatypes.NewJSONSlice(req.PipPackages),
		Scripts:     datatypes.NewJSONType(scriptsFromRequest(req.Scripts)),
	}
}

func scriptsFromRequest(reqs []ScriptFileReq) []model.ScriptFile {
	scripts := make([]model.ScriptFile, len(reqs))
	for i := range reqs {
		scripts[i] = model.ScriptFile{Name: reqs[i].Name, Content: reqs[i].Content}
	}
	return scripts
}

func generateRecipeListResponse(recipes []model.Recipe) []RecipeListItem {
	return lo.Map(recipes, func(entity model.Recipe, _ int) RecipeListItem {
		return recipeListItem(&entity)
	})
}

func recipeListItem(entity *model.Recipe) RecipeListItem {
	nickname := entity.User.Name
	if entity.User.Nickname != nil {
		nickname = *entity.User.Nickname
	}
	return RecipeListItem{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		BaseImage:   entity.BaseImage,
		EntryScript: entity.EntryScript,
		UserInfo: model.UserInfo{
			Username: entity.User.Name,
			Nickname: nickname,
		},
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func generateRecipeDetailResponse(entity *model.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeListItem: recipeListItem(entity),
		WorkDir:        entity.WorkDir,
		AptPackages:    entity.AptPackages,
		PipPackages:    entity.PipPackages,
		Scripts:        entity.Scripts.Data(),
	}
}
