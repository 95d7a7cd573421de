// Package dockerfile renders environment recipes into Dockerfiles for the
// BuildKit packer. Rendering is pure: the same recipe always produces the
// same bytes, so the Dockerfile snapshot on a build row is reproducible.
package dockerfile

import (
	"fmt"
	"strings"

	"github.com/vision-lab/trainforge/dao/model"
)

// Render produces the Dockerfile and the requirements.txt content for a
// recipe. Package order is preserved exactly as listed and version pins are
// carried bit-for-bit; both are part of the environment contract.
func Render(recipe *model.Recipe) (dockerfile, requirements string) {
	aptSection := "\n# No APT packages specified"
	if len(recipe.AptPackages) > 0 {
		aptSection = fmt.Sprintf(`
# Install APT packages
RUN apt-get update && apt-get install -y %s && \
    rm -rf /var/lib/apt/lists/*`, strings.Join(recipe.AptPackages, " "))
	}

	pipSection := "\n# No Python dependencies specified"
	if len(recipe.PipPackages) > 0 {
		requirements = strings.Join(recipe.PipPackages, "\n") + "\n"
		pipSection = `
# Install Python dependencies
COPY requirements.txt /requirements.txt
RUN pip install --no-cache-dir -r /requirements.txt`
	}

	var copySection strings.Builder
	scripts := recipe.Scripts.Data()
	if len(scripts) > 0 {
		copySection.WriteString("\n# Copy scripts into the working directory\n")
		for _, script := range scripts {
			fmt.Fprintf(&copySection, "COPY %s %s/%s\n", script.Name, recipe.WorkDir, script.Name)
		}
	}

	dockerfile = fmt.Sprintf(`FROM %s
USER root
%s
%s
%s
WORKDIR %s
CMD ["python", "%s"]
`, recipe.BaseImage, aptSection, pipSection, copySection.String(), recipe.WorkDir, recipe.EntryScript)

	return dockerfile, requirements
}
