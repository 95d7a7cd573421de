package helper

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/internal/handler"
	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/monitor"
)

// ConfigInitializer wires the configuration and the shared clients.
type ConfigInitializer struct {
	backendConfig *config.Config
}

func NewConfigInitializer() *ConfigInitializer {
	return &ConfigInitializer{
		backendConfig: config.GetConfig(),
	}
}

func (ci *ConfigInitializer) GetBackendConfig() *config.Config {
	return ci.backendConfig
}

// LoadDebugEnvironment overrides the listen addresses from .debug.env so a
// local instance never collides with an in-cluster one.
func (ci *ConfigInitializer) LoadDebugEnvironment() error {
	if gin.Mode() != gin.DebugMode {
		return nil
	}

	err := godotenv.Load(".debug.env")
	if err != nil {
		return err
	}

	be := os.Getenv("TRAINFORGE_BE_PORT")
	if be == "" {
		panic("TRAINFORGE_BE_PORT is not set")
	}
	ms := os.Getenv("TRAINFORGE_MS_PORT")
	if ms == "" {
		panic("TRAINFORGE_MS_PORT is not set")
	}
	hp := os.Getenv("TRAINFORGE_HP_PORT")
	if hp == "" {
		panic("TRAINFORGE_HP_PORT is not set")
	}

	ci.backendConfig.ProbeAddr = ":" + hp
	ci.backendConfig.MetricsAddr = ":" + ms
	ci.backendConfig.ServerAddr = ":" + be

	return nil
}

// InitializeRegisterConfig builds the shared clients handed to the managers.
func (ci *ConfigInitializer) InitializeRegisterConfig() (*handler.RegisterConfig, error) {
	registerConfig := &handler.RegisterConfig{}

	// get k8s config
	cfg := ctrl.GetConfigOrDie()
	registerConfig.KubeConfig = cfg

	// kube clientset
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, err
	}
	registerConfig.KubeClient = clientset

	// init db and run schema migrations
	if err = query.Migrate(query.GetDB()); err != nil {
		return nil, err
	}

	// init prometheus client
	registerConfig.PrometheusClient = monitor.NewPrometheusClient(ci.backendConfig.PrometheusAPI)

	return registerConfig, nil
}

// SetupManagerDependencies fills in the clients that need a started manager.
func (ci *ConfigInitializer) SetupManagerDependencies(registerConfig *handler.RegisterConfig, mgr ctrl.Manager) {
	registerConfig.Client = mgr.GetClient()
}
