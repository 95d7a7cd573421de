package packer

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/vision-lab/trainforge/dao/model"
)

// BuildReq carries everything the packer needs to run one environment build:
// the rendered Dockerfile, the requirements file and the script bundle that
// make up the build context, and the registry reference to push to.
type BuildReq struct {
	UserID       uint
	Namespace    string
	JobName      string
	RecipeName   string
	Dockerfile   string
	Requirements string
	Scripts      []model.ScriptFile
	Description  *string
	ImageLink    string
}

type BuilderInterface interface {
	CreateBuildJob(ctx context.Context, data *BuildReq) error
	DeleteJob(ctx context.Context, jobName, ns string) error
}

type buildKitPacker struct {
	client client.Client
}

var (
	runAsUserNumber  int64 = 1000
	runAsGroupNumber int64 = 1000
	fsAsGroupNumber  int64 = 1000

	registryCredSecretName = "buildkit-secret"

	jobCleanTime       int32 = 259200
	backoffLimitNumber int32 = 0
	completionNumber   int32 = 1
	parallelismNumber  int32 = 1
)

const (
	AnnotationKeyUserID      = "build-data/UserID"
	AnnotationKeyImageLink   = "build-data/ImageLink"
	AnnotationKeyDescription = "build-data/Description"
	AnnotationKeyRecipe      = "build-data/Recipe"
)

func GetBuilderMgr(cli client.Client) BuilderInterface {
	return &buildKitPacker{
		client: cli,
	}
}
