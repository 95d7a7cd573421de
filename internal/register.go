package internal

import (
	"k8s.io/klog/v2"

	"github.com/vision-lab/trainforge/internal/handler"
	_ "github.com/vision-lab/trainforge/internal/handler/build"
	_ "github.com/vision-lab/trainforge/internal/handler/recipe"
	_ "github.com/vision-lab/trainforge/internal/handler/tool"
)

// registerManagers registers all the managers.
func registerManagers(config *handler.RegisterConfig) []handler.Manager {
	var managers []handler.Manager
	for _, register := range handler.Registers {
		manager := register(config)
		managers = append(managers, manager)
		klog.Infof("Registered manager: %s", manager.GetName())
	}
	return managers
}
