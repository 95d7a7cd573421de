package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vision-lab/trainforge/internal/handler"
	"github.com/vision-lab/trainforge/internal/middleware"
	"github.com/vision-lab/trainforge/pkg/constants"
)

type Backend struct {
	R *gin.Engine
}

func Register(registerConfig *handler.RegisterConfig) *Backend {
	s := new(Backend)
	s.R = gin.Default()

	// Kubernetes health check
	s.R.GET("/"+constants.APIPrefix+"/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})

	s.registerService(registerConfig)

	return s
}

func (b *Backend) registerService(registerConfig *handler.RegisterConfig) {
	// Enable CORS for http://localhost:XXXX in debug mode
	if gin.Mode() == gin.DebugMode {
		fe := os.Getenv("TRAINFORGE_FE_PORT")
		if fe != "" {
			url := "http://localhost:" + fe
			corsConf := cors.DefaultConfig()
			corsConf.AllowOrigins = []string{url}
			corsConf.AllowHeaders = append(corsConf.AllowHeaders, "Authorization")
			b.R.Use(cors.New(corsConf))
		}
	}

	managers := registerManagers(registerConfig)

	publicRouter := b.R.Group(constants.APIPrefix)

	protectedRouter := b.R.Group(constants.APIPrefix)
	protectedRouter.Use(middleware.AuthProtected())

	adminRouter := b.R.Group(constants.APIPrefix + "/admin")
	adminRouter.Use(middleware.AuthProtected(), middleware.AuthAdmin())

	for _, manager := range managers {
		manager.RegisterPublic(publicRouter.Group(manager.GetName()))
		manager.RegisterProtected(protectedRouter.Group(manager.GetName()))
		manager.RegisterAdmin(adminRouter.Group(manager.GetName()))
	}
}
