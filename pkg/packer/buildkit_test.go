package packer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vision-lab/trainforge/dao/model"
)

func TestBuildContextData(t *testing.T) {
	data := &BuildReq{
		JobName:      "alice-a1b2c",
		Dockerfile:   "FROM python:3.10\n",
		Requirements: "pandas\n",
		Scripts: []model.ScriptFile{
			{Name: "classification_train.py", Content: "print('train')"},
			{Name: "classification_models.py", Content: "print('models')"},
		},
	}

	contextData, err := buildContextData(data)
	require.NoError(t, err)

	assert.Equal(t, "FROM python:3.10\n", contextData["Dockerfile"])
	assert.Equal(t, "pandas\n", contextData["requirements.txt"])
	assert.Equal(t, "print('train')", contextData["classification_train.py"])
	assert.Len(t, contextData, 4)
}

func TestBuildContextDataRejectsCollision(t *testing.T) {
	data := &BuildReq{
		Dockerfile: "FROM python:3.10\n",
		Scripts: []model.ScriptFile{
			{Name: "Dockerfile", Content: "FROM scratch"},
		},
	}
	_, err := buildContextData(data)
	assert.ErrorContains(t, err, "collides")
}

func TestGenerateVolumesMountsContextConfigMap(t *testing.T) {
	b := &buildKitPacker{}
	volumes := b.generateVolumes("alice-a1b2c")

	require.Len(t, volumes, 2)
	assert.Equal(t, registryCredSecretName, volumes[0].Secret.SecretName)
	assert.Equal(t, "alice-a1b2c", volumes[1].ConfigMap.Name)
}
