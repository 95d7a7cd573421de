package cronjob

import (
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/imageregistry"
)

type CronJobManager struct {
	Client        client.Client
	imageRegistry imageregistry.ImageRegistryInterface
	cron          *cron.Cron
}

func NewCronJobManager(cli client.Client, registry imageregistry.ImageRegistryInterface) *CronJobManager {
	return &CronJobManager{
		Client:        cli,
		imageRegistry: registry,
		cron:          cron.New(cron.WithLocation(time.Local)),
	}
}

// Start registers the stale build cleaner and launches the scheduler.
func (cm *CronJobManager) Start() error {
	cleanJob := config.GetConfig().CleanJob
	if _, err := cm.cron.AddFunc(cleanJob.Spec, func() {
		cm.CleanStaleBuilds(cleanJob.TTLDays)
	}); err != nil {
		klog.Error(err)
		return err
	}
	cm.cron.Start()
	klog.Infof("cron scheduler started, clean spec %q, ttl %d days", cleanJob.Spec, cleanJob.TTLDays)
	return nil
}

func (cm *CronJobManager) Stop() {
	cm.cron.Stop()
}
