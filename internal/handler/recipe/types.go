package recipe

import (
	"time"

	"github.com/vision-lab/trainforge/dao/model"
)

type (
	ScriptFileReq struct {
		Name    string `json:"name" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	CreateRecipeRequest struct {
		Name        string          `json:"name" binding:"required"`
		Description *string         `json:"description"`
		BaseImage   string          `json:"baseImage" binding:"required"`
		WorkDir     string          `json:"workDir"`
		EntryScript string          `json:"entryScript" binding:"required"`
		AptPackages []string        `json:"aptPackages"`
		PipPackages []string        `json:"pipPackages"`
		Scripts     []ScriptFileReq `json:"scripts" binding:"required"`
	}

	// UpdateRecipeRequest replaces every mutable field, the name is fixed
	// at creation time.
	UpdateRecipeRequest struct {
		Description *string         `json:"description"`
		BaseImage   string          `json:"baseImage" binding:"required"`
		WorkDir     string          `json:"workDir"`
		EntryScript string          `json:"entryScript" binding:"required"`
		AptPackages []string        `json:"aptPackages"`
		PipPackages []string        `json:"pipPackages"`
		Scripts     []ScriptFileReq `json:"scripts" binding:"required"`
	}

	RecipeIDRequest struct {
		ID uint `uri:"id" binding:"required"`
	}

	RecipeListItem struct {
		ID          uint           `json:"id"`
		Name        string         `json:"name"`
		Description *string        `json:"description"`
		BaseImage   string         `json:"baseImage"`
		EntryScript string         `json:"entryScript"`
		UserInfo    model.UserInfo `json:"userInfo"`
		CreatedAt   time.Time      `json:"createdAt"`
		UpdatedAt   time.Time      `json:"updatedAt"`
	}

	RecipeDetailResponse struct {
		RecipeListItem
		WorkDir     string             `json:"workDir"`
		AptPackages []string           `json:"aptPackages"`
		PipPackages []string           `json:"pipPackages"`
		Scripts     []model.ScriptFile `json:"scripts"`
	}

	DockerfilePreviewResponse struct {
		Dockerfile   string `json:"dockerfile"`
		Requirements string `json:"requirements"`
	}
)
