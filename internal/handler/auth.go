package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/internal/resputil"
	"github.com/vision-lab/trainforge/internal/util"
	"github.com/vision-lab/trainforge/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name     string
	tokenMgr *util.TokenManager
}

func NewAuthMgr(_ *RegisterConfig) Manager {
	return &AuthMgr{
		name:     "auth",
		tokenMgr: util.GetTokenMgr(),
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/login", mgr.Login)
	g.POST("/signup", mgr.Signup)
	g.POST("/refresh", mgr.RefreshToken)
}

func (mgr *AuthMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	LoginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	SignupReq struct {
		Username string  `json:"username" binding:"required"`
		Password string  `json:"password" binding:"required"`
		Nickname *string `json:"nickname"`
		Email    *string `json:"email"`
	}

	RefreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	LoginResp struct {
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
		Context      UserContext `json:"context"`
	}

	UserContext struct {
		Username     string     `json:"username"`
		RolePlatform model.Role `json:"rolePlatform"`
	}
)

// Login godoc
//
//	@Summary		User login
//	@Description	Verify credentials and issue a JWT token pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			data	body	LoginReq	true	"login parameters"
//	@Router			/v1/auth/login [POST]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	l := logutils.Log.WithFields(logutils.Fields{"username": req.Username})

	var user model.User
	err := query.GetDB().WithContext(c).Where("name = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("user not found")
			resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
			return
		}
		l.Error(err)
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if user.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)) != nil {
		l.Error("invalid credentials")
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}
	if user.Status != model.StatusActive {
		l.Error("user is not active")
		resputil.HTTPError(c, http.StatusUnauthorized, "User is not active", resputil.UserNotAllowed)
		return
	}

	mgr.issueTokens(c, &user)
}

// Signup godoc
//
//	@Summary		User signup
//	@Description	Create a new active user and issue a JWT token pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			data	body	SignupReq	true	"signup parameters"
//	@Router			/v1/auth/signup [POST]
func (mgr *AuthMgr) Signup(c *gin.Context) {
	var req SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	db := query.GetDB().WithContext(c)
	var count int64
	if err := db.Model(&model.User{}).Where("name = ?", req.Username).Count(&count).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if count > 0 {
		resputil.BadRequestError(c, "username already taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	password := string(hashed)
	user := model.User{
		Name:     req.Username,
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: &password,
		Role:     model.RoleUser,
		Status:   model.StatusActive,
	}
	if err = db.Create(&user).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	mgr.issueTokens(c, &user)
}

// RefreshToken godoc
//
//	@Summary		Refresh the token pair
//	@Description	Validate the refresh token and issue a new pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			data	body	RefreshReq	true	"refresh parameters"
//	@Router			/v1/auth/refresh [POST]
func (mgr *AuthMgr) RefreshToken(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	msg, err := mgr.tokenMgr.CheckRefreshToken(req.RefreshToken)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid refresh token", resputil.TokenInvalid)
		return
	}

	// the role may have changed since the refresh token was issued
	var user model.User
	if err = query.GetDB().WithContext(c).First(&user, msg.UserID).Error; err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "User no longer exists", resputil.TokenInvalid)
		return
	}
	if user.Status != model.StatusActive {
		resputil.HTTPError(c, http.StatusUnauthorized, "User is not active", resputil.UserNotAllowed)
		return
	}

	mgr.issueTokens(c, &user)
}

func (mgr *AuthMgr) issueTokens(c *gin.Context, user *model.User) {
	jwtMessage := util.JWTMessage{
		UserID:       user.ID,
		Username:     user.Name,
		RolePlatform: user.Role,
	}
	accessToken, refreshToken, err := mgr.tokenMgr.CreateTokens(&jwtMessage)
	if err != nil {
		resputil.HTTPError(c, http.StatusInternalServerError, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, LoginResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Context: UserContext{
			Username:     user.Name,
			RolePlatform: user.Role,
		},
	})
}
