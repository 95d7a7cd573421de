package handler

import (
	"github.com/gin-gonic/gin"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/vision-lab/trainforge/pkg/imageregistry"
	"github.com/vision-lab/trainforge/pkg/monitor"
	"github.com/vision-lab/trainforge/pkg/packer"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared clients handed to every manager.
type RegisterConfig struct {
	Client           client.Client
	KubeClient       kubernetes.Interface
	KubeConfig       *rest.Config
	ImagePacker      packer.BuilderInterface
	ImageRegistry    imageregistry.ImageRegistryInterface
	PrometheusClient monitor.PrometheusInterface
}

type RegisterFunc func(*RegisterConfig) Manager

// Registers collects the manager constructors added by package init funcs.
var Registers []RegisterFunc
