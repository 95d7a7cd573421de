package recipe

import (
	"github.com/gin-gonic/gin"

	"github.com/vision-lab/trainforge/internal/handler"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	handler.Registers = append(handler.Registers, NewRecipeMgr)
}

type RecipeMgr struct {
	name string
}

func NewRecipeMgr(_ *handler.RegisterConfig) handler.Manager {
	return &RecipeMgr{
		name: "recipes",
	}
}

func (mgr *RecipeMgr) GetName() string { return mgr.name }

func (mgr *RecipeMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *RecipeMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.UserListRecipe)
	g.POST("", mgr.UserCreateRecipe)
	g.GET("/:id", mgr.UserGetRecipe)
	g.PUT("/:id", mgr.UserUpdateRecipe)
	g.DELETE("/:id", mgr.UserDeleteRecipe)
	g.GET("/:id/dockerfile", mgr.UserPreviewDockerfile)
}

func (mgr *RecipeMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("", mgr.AdminListRecipe)
}
