package dockerfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vision-lab/trainforge/dao/model"
)

var (
	// image references like pytorch/pytorch:1.12.1-cuda11.3-cudnn8-runtime,
	// optionally with a registry host prefix
	imageRefRegexp = regexp.MustCompile(`^([a-z0-9.\-]+(:[0-9]+)?/)?[a-z0-9]+([._\-/][a-z0-9]+)*(:[A-Za-z0-9._\-]+)?$`)

	pipNameRegexp = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._\-]*[A-Za-z0-9])?$`)
	aptNameRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.+\-]*$`)

	// script names become COPY operands and ConfigMap keys, both choke on
	// anything outside this set
	scriptNameRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]*$`)
)

// SplitPin splits a pip requirement into name and pinned version. The version
// is empty for unpinned packages; anything other than a bare name or an exact
// `name==version` pin is rejected, the install order contract does not cover
// range constraints.
func SplitPin(pkg string) (name, version string, err error) {
	parts := strings.Split(pkg, "==")
	switch len(parts) {
	case 1:
		name = parts[0]
	case 2:
		name, version = parts[0], parts[1]
		if version == "" {
			return "", "", fmt.Errorf("empty version in pin %q", pkg)
		}
	default:
		return "", "", fmt.Errorf("invalid pin %q", pkg)
	}
	if !pipNameRegexp.MatchString(name) {
		return "", "", fmt.Errorf("invalid package name %q", name)
	}
	return name, version, nil
}

// Validate checks a recipe against the environment contract before it may be
// stored or built.
func Validate(recipe *model.Recipe) error {
	if recipe.Name == "" {
		return fmt.Errorf("recipe name is empty")
	}
	if !imageRefRegexp.MatchString(recipe.BaseImage) {
		return fmt.Errorf("invalid base image reference %q", recipe.BaseImage)
	}
	if !strings.HasPrefix(recipe.WorkDir, "/") {
		return fmt.Errorf("working directory %q is not absolute", recipe.WorkDir)
	}

	seen := make(map[string]struct{}, len(recipe.PipPackages))
	for _, pkg := range recipe.PipPackages {
		name, _, err := SplitPin(pkg)
		if err != nil {
			return err
		}
		lower := strings.ToLower(name)
		if _, ok := seen[lower]; ok {
			return fmt.Errorf("duplicate pip package %q", name)
		}
		seen[lower] = struct{}{}
	}

	for _, pkg := range recipe.AptPackages {
		if !aptNameRegexp.MatchString(pkg) {
			return fmt.Errorf("invalid apt package name %q", pkg)
		}
	}

	scripts := recipe.Scripts.Data()
	names := make(map[string]struct{}, len(scripts))
	for _, script := range scripts {
		if !scriptNameRegexp.MatchString(script.Name) {
			return fmt.Errorf("invalid script name %q", script.Name)
		}
		if script.Content == "" {
			return fmt.Errorf("script %q is empty", script.Name)
		}
		if _, ok := names[script.Name]; ok {
			return fmt.Errorf("duplicate script %q", script.Name)
		}
		names[script.Name] = struct{}{}
	}

	// The entry script imports from the rest of the bundle, all of it must be
	// present before the default command can run.
	if recipe.EntryScript == "" {
		return fmt.Errorf("entry script is empty")
	}
	if _, ok := names[recipe.EntryScript]; !ok {
		return fmt.Errorf("entry script %q is not part of the script bundle", recipe.EntryScript)
	}
	return nil
}
