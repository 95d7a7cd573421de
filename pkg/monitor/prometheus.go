package monitor

import (
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"

	"github.com/vision-lab/trainforge/pkg/logutils"
)

const (
	queryTimeout = 10 * time.Second
)

type PrometheusClient struct {
	client api.Client
	v1api  v1.API
}

func NewPrometheusClient(apiURL string) PrometheusInterface {
	client, err := api.NewClient(api.Config{
		Address: apiURL,
	})
	if err != nil {
		logutils.Log.Errorf("failed to create Prometheus client: %v", err)
		panic(err)
	}
	return &PrometheusClient{
		client: client,
		v1api:  v1.NewAPI(client),
	}
}
