package dockerfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/vision-lab/trainforge/dao/model"
)

func classificationRecipe() *model.Recipe {
	return &model.Recipe{
		Name:        "pytorch-classification",
		BaseImage:   "pytorch/pytorch:1.12.1-cuda11.3-cudnn8-runtime",
		WorkDir:     "/workspace",
		EntryScript: "classification_train.py",
		AptPackages: datatypes.NewJSONSlice([]string{"libgl1-mesa-glx", "libglib2.0-0", "vim"}),
		PipPackages: datatypes.NewJSONSlice([]string{
			"pandas", "scikit-learn", "matplotlib", "opencv-python==4.8.1.78", "tensorboard", "torchsummary",
		}),
		Scripts: datatypes.NewJSONType([]model.ScriptFile{
			{Name: "classification_train.py", Content: "print('train')"},
			{Name: "classification_datasets.py", Content: "print('datasets')"},
			{Name: "classification_models.py", Content: "print('models')"},
		}),
	}
}

func TestRenderFullRecipe(t *testing.T) {
	rendered, requirements := Render(classificationRecipe())

	expected := `FROM pytorch/pytorch:1.12.1-cuda11.3-cudnn8-runtime
USER root

# Install APT packages
RUN apt-get update && apt-get install -y libgl1-mesa-glx libglib2.0-0 vim && \
    rm -rf /var/lib/apt/lists/*

# Install Python dependencies
COPY requirements.txt /requirements.txt
RUN pip install --no-cache-dir -r /requirements.txt

# Copy scripts into the working directory
COPY classification_train.py /workspace/classification_train.py
COPY classification_datasets.py /workspace/classification_datasets.py
COPY classification_models.py /workspace/classification_models.py

WORKDIR /workspace
CMD ["python", "classification_train.py"]
`
	assert.Equal(t, expected, rendered)

	// requirements carries the listed order and the exact pins
	assert.Equal(t, "pandas\nscikit-learn\nmatplotlib\nopencv-python==4.8.1.78\ntensorboard\ntorchsummary\n", requirements)
}

func TestRenderEmptySections(t *testing.T) {
	recipe := &model.Recipe{
		Name:        "bare",
		BaseImage:   "python:3.10",
		WorkDir:     "/workspace",
		EntryScript: "main.py",
		Scripts: datatypes.NewJSONType([]model.ScriptFile{
			{Name: "main.py", Content: "print('hi')"},
		}),
	}
	rendered, requirements := Render(recipe)

	assert.Empty(t, requirements)
	assert.Contains(t, rendered, "# No APT packages specified")
	assert.Contains(t, rendered, "# No Python dependencies specified")
	assert.NotContains(t, rendered, "requirements.txt")
	assert.Contains(t, rendered, "COPY main.py /workspace/main.py")
}

func TestRenderIsDeterministic(t *testing.T) {
	recipe := classificationRecipe()
	first, _ := Render(recipe)
	second, _ := Render(recipe)
	assert.Equal(t, first, second)
}
