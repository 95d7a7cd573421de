package imageregistry

import (
	"fmt"

	harborapiv2 "github.com/mittwald/goharbor-client/v5/apiv2"

	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/logutils"
)

type AuthInfo struct {
	RegistryServer  string
	RegistryUser    string
	RegistryPass    string
	RegistryProject string
}

type HarborClient struct {
	harborapiv2.RESTClient
	AuthInfo
}

func NewHarborClient() HarborClient {
	registryConfig := config.GetConfig().ImageRegistry
	harborAPIServer := fmt.Sprintf("https://%s/api/", registryConfig.Server)
	restClient, err := harborapiv2.NewRESTClientForHost(
		harborAPIServer, registryConfig.Admin, registryConfig.AdminPassword, nil)
	if err != nil {
		logutils.Log.Errorf("establish harbor client failed, err: %+v", err)
	}
	authInfo := AuthInfo{
		RegistryServer:  registryConfig.Server,
		RegistryUser:    registryConfig.User,
		RegistryPass:    registryConfig.Password,
		RegistryProject: registryConfig.Project,
	}
	return HarborClient{*restClient, authInfo}
}
