package helper

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/vision-lab/trainforge/internal/handler"
	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/cronjob"
	"github.com/vision-lab/trainforge/pkg/imageregistry"
	"github.com/vision-lab/trainforge/pkg/packer"
	"github.com/vision-lab/trainforge/pkg/reconciler"
)

// ManagerSetup wires the controller-runtime manager and the build addons.
type ManagerSetup struct {
	cfg           *rest.Config
	backendConfig *config.Config
}

func NewManagerSetup(cfg *rest.Config, backendConfig *config.Config) *ManagerSetup {
	return &ManagerSetup{
		cfg:           cfg,
		backendConfig: backendConfig,
	}
}

func (ms *ManagerSetup) CreateManager() (manager.Manager, error) {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	mgr, err := ctrl.NewManager(ms.cfg, ctrl.Options{
		Scheme: scheme,
		Metrics: metricsserver.Options{
			BindAddress: ms.backendConfig.MetricsAddr,
		},
		HealthProbeBindAddress: ms.backendConfig.ProbeAddr,
		LeaderElection:         ms.backendConfig.EnableLeaderElection,
		LeaderElectionID:       ms.backendConfig.LeaderElectionID,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create manager: %w", err)
	}

	return mgr, nil
}

// SetupBuildAddons installs the BuildKit packer, the registry client, the
// status reconciler and the stale build cleaner.
func (ms *ManagerSetup) SetupBuildAddons(mgr manager.Manager, registerConfig *handler.RegisterConfig) error {
	imageRegistry := imageregistry.NewImageRegistry()

	buildkitReconciler := reconciler.NewBuildKitReconciler(
		mgr.GetClient(),
		mgr.GetScheme(),
		imageRegistry,
	)
	if err := buildkitReconciler.SetupWithManager(mgr); err != nil {
		return fmt.Errorf("unable to set up buildkit controller: %w", err)
	}

	registerConfig.ImagePacker = packer.GetBuilderMgr(mgr.GetClient())
	registerConfig.ImageRegistry = imageRegistry

	cronMgr := cronjob.NewCronJobManager(mgr.GetClient(), imageRegistry)
	if err := cronMgr.Start(); err != nil {
		return fmt.Errorf("unable to start cron scheduler: %w", err)
	}
	return nil
}
