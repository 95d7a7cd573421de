package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/internal/resputil"
	"github.com/vision-lab/trainforge/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewUserMgr)
}

type UserMgr struct {
	name string
}

func NewUserMgr(_ *RegisterConfig) Manager {
	return &UserMgr{
		name: "users",
	}
}

func (mgr *UserMgr) GetName() string { return mgr.name }

func (mgr *UserMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/:name", mgr.GetUser)
}

func (mgr *UserMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("", mgr.ListUser)
	g.DELETE("/:name", mgr.DeleteUser)
	g.PUT("/:name/role", mgr.UpdateRole)
}

type UserResp struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Nickname  *string      `json:"nickname"`
	Email     *string      `json:"email"`
	Role      model.Role   `json:"role"`
	Status    model.Status `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

type UpdateRoleReq struct {
	Role model.Role `json:"role" binding:"required"`
}

// GetUser godoc
//
//	@Summary		Get a single user by name
//	@Tags			User
//	@Produce		json
//	@Security		Bearer
//	@Param			name	path	string	true	"username"
//	@Router			/v1/users/{name} [GET]
func (mgr *UserMgr) GetUser(c *gin.Context) {
	name := c.Param("name")
	var user model.User
	if err := query.GetDB().WithContext(c).Where("name = ?", name).First(&user).Error; err != nil {
		resputil.Error(c, fmt.Sprintf("get user failed, detail: %v", err), resputil.NotSpecified)
		return
	}
	resputil.Success(c, UserResp{
		ID:        user.ID,
		Name:      user.Name,
		Nickname:  user.Nickname,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	})
}

// ListUser godoc
//
//	@Summary		List all users
//	@Tags			User
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/admin/users [GET]
func (mgr *UserMgr) ListUser(c *gin.Context) {
	var users []model.User
	if err := query.GetDB().WithContext(c).Order("id DESC").Find(&users).Error; err != nil {
		resputil.Error(c, fmt.Sprintf("list users failed, detail: %v", err), resputil.NotSpecified)
		return
	}
	resp := make([]UserResp, len(users))
	for i := range users {
		resp[i] = UserResp{
			ID:        users[i].ID,
			Name:      users[i].Name,
			Nickname:  users[i].Nickname,
			Email:     users[i].Email,
			Role:      users[i].Role,
			Status:    users[i].Status,
			CreatedAt: users[i].CreatedAt,
		}
	}
	resputil.Success(c, resp)
}

// DeleteUser godoc
//
//	@Summary		Delete a user
//	@Tags			User
//	@Produce		json
//	@Security		Bearer
//	@Param			name	path	string	true	"username"
//	@Router			/v1/admin/users/{name} [DELETE]
func (mgr *UserMgr) DeleteUser(c *gin.Context) {
	name := c.Param("name")
	if err := query.GetDB().WithContext(c).Where("name = ?", name).Delete(&model.User{}).Error; err != nil {
		resputil.Error(c, fmt.Sprintf("delete user failed, detail: %v", err), resputil.NotSpecified)
		return
	}
	logutils.Log.Infof("delete user success, username: %s", name)
	resputil.Success(c, "")
}

// UpdateRole godoc
//
//	@Summary		Update the platform role of a user
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			name	path	string			true	"username"
//	@Param			data	body	UpdateRoleReq	true	"new role"
//	@Router			/v1/admin/users/{name}/role [PUT]
func (mgr *UserMgr) UpdateRole(c *gin.Context) {
	name := c.Param("name")
	var req UpdateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if req.Role < model.RoleGuest || req.Role > model.RoleAdmin {
		resputil.BadRequestError(c, "unknown role")
		return
	}
	result := query.GetDB().WithContext(c).Model(&model.User{}).
		Where("name = ?", name).Update("role", req.Role)
	if result.Error != nil {
		resputil.Error(c, fmt.Sprintf("update role failed, detail: %v", result.Error), resputil.NotSpecified)
		return
	}
	if result.RowsAffected == 0 {
		resputil.BadRequestError(c, "user not found")
		return
	}
	resputil.Success(c, "")
}
