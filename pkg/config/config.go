package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

type Config struct {
	// Leader Election Settings
	EnableLeaderElection bool   `json:"enableLeaderElection"`
	LeaderElectionID     string `json:"leaderElectionID"`

	// Monitoring Settings
	PrometheusAPI string `json:"prometheusAPI"`

	// Port Settings
	Host        string `json:"host"`        // The domain name of the server.
	ServerAddr  string `json:"serverAddr"`  // The address the server endpoint binds to.
	MetricsAddr string `json:"metricsAddr"` // The address the metric endpoint binds to.
	ProbeAddr   string `json:"probeAddr"`   // The address the probe endpoint binds to.

	Auth struct {
		AccessTokenSecret      string `json:"accessTokenSecret"`
		RefreshTokenSecret     string `json:"refreshTokenSecret"`
		AccessTokenExpiryHour  int    `json:"accessTokenExpiryHour"`
		RefreshTokenExpiryHour int    `json:"refreshTokenExpiryHour"`
	} `json:"auth"`

	Postgres struct {
		Host     string `json:"host"`
		Port     string `json:"port"`
		DBName   string `json:"dbname"`
		User     string `json:"user"`
		Password string `json:"password"`
		SSLMode  string `json:"sslmode"`
		TimeZone string `json:"TimeZone"`
	} `json:"postgres"`

	// Namespace Settings
	Namespaces struct {
		Image string `json:"image"` // Namespace the environment build jobs run in.
	} `json:"namespaces"`

	ImageRegistry struct {
		Server        string `json:"server"`
		User          string `json:"user"`
		Password      string `json:"password"`
		Project       string `json:"project"`
		Admin         string `json:"admin"`
		AdminPassword string `json:"adminPassword"`
	} `json:"imageRegistry"`

	// image build tools
	ImageBuildTools struct {
		BuildctlImage string `json:"buildctlImage"` // Image providing the buildctl CLI.
		BuildkitdAddr string `json:"buildkitdAddr"` // Address of the shared buildkitd.
	} `json:"imageBuildTools"`

	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		User     string `json:"user"`
		Password string `json:"password"`
		Notify   string `json:"notify"`
	} `json:"smtp"`

	CleanJob struct {
		Spec    string `json:"spec"`    // Cron spec for the build job cleaner.
		TTLDays int    `json:"ttlDays"` // Finished build jobs older than this are removed.
	} `json:"cleanJob"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads the configuration file. In debug mode it reads
// ./etc/debug-config.yaml (or TRAINFORGE_DEBUG_CONFIG_PATH), otherwise the
// config.yaml mounted from the ConfigMap.
func initConfig() *Config {
	config := &Config{}
	var configPath string
	if IsDebugMode() {
		if os.Getenv("TRAINFORGE_DEBUG_CONFIG_PATH") != "" {
			configPath = os.Getenv("TRAINFORGE_DEBUG_CONFIG_PATH")
		} else {
			configPath = "./etc/debug-config.yaml"
		}
	} else {
		configPath = "/etc/config/config.yaml"
	}
	klog.Info("config path: ", configPath)

	err := readConfig(configPath, config)
	if err != nil {
		klog.Error("init config", err)
		panic(err)
	}
	return config
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return err
	}
	return nil
}
