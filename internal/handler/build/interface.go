package build

import (
	"math"

	"github.com/gin-gonic/gin"
	imrocreq "github.com/imroc/req/v3"

	"github.com/vision-lab/trainforge/internal/handler"
	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/crclient"
	"github.com/vision-lab/trainforge/pkg/imageregistry"
	"github.com/vision-lab/trainforge/pkg/monitor"
	"github.com/vision-lab/trainforge/pkg/packer"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	handler.Registers = append(handler.Registers, NewBuildMgr)
}

type BuildMgr struct {
	name          string
	buildClient   *crclient.BuildJobController
	imagePacker   packer.BuilderInterface
	imageRegistry imageregistry.ImageRegistryInterface
	promClient    monitor.PrometheusInterface
	req           *imrocreq.Client
}

func NewBuildMgr(conf *handler.RegisterConfig) handler.Manager {
	return &BuildMgr{
		name:          "builds",
		buildClient:   &crclient.BuildJobController{Client: conf.Client},
		imagePacker:   conf.ImagePacker,
		imageRegistry: conf.ImageRegistry,
		promClient:    conf.PrometheusClient,
		req:           imrocreq.C(),
	}
}

func (mgr *BuildMgr) GetName() string { return mgr.name }

func (mgr *BuildMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *BuildMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.UserListBuild)
	g.POST("", mgr.UserSubmitBuild)
	g.POST("/remove", mgr.UserRemoveBuildByIDList)
	g.GET("/getbyname", mgr.UserGetBuildByJobName)
	g.GET("/usage", mgr.UserGetBuildPodUsage)

	g.GET("/image", mgr.UserListImage)
	g.POST("/valid", mgr.CheckLinkValidity)
	g.GET("/quota", mgr.UserGetProjectDetail)
}

func (mgr *BuildMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("", mgr.AdminListBuild)
	g.POST("/remove", mgr.AdminRemoveBuildByIDList)
	g.POST("/quota", mgr.AdminUpdateProjectQuota)
}

var (
	UserNameSpace = config.GetConfig().Namespaces.Image
	//nolint:mnd // 1 GiB in bytes
	GBit = int64(math.Pow(2, 30))
)
