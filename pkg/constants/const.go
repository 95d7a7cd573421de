package constants

const (
	APIPrefix = "v1"

	// Labels attached to build jobs so the reconciler and the cleaner can
	// tell them apart from anything else running in the image namespace.
	BuildJobLabelKey   = "trainforge.org/build-job"
	BuildJobLabelValue = "buildkit"

	// RecipeLabelKey carries the recipe name on build jobs.
	RecipeLabelKey = "trainforge.org/recipe"
)
