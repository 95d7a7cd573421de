package utils

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/vision-lab/trainforge/pkg/config"
)

const (
	imageLinkRegExp = `([^/]+/){2}([^:]+):([^/]+)$`
	parts           = 4
)

func GetImageNameAndTag(imageLink string) (name, tag string, err error) {
	re := regexp.MustCompile(imageLinkRegExp)
	matches := re.FindStringSubmatch(imageLink)
	if len(matches) != parts {
		return "", "", fmt.Errorf("invalid image link: %s", imageLink)
	}
	name, tag = matches[2], matches[3]
	return name, tag, nil
}

// GenerateImageLink builds the registry reference a recipe build is pushed
// to: <registry>/user-<username>/<recipe>:<timestamp>-<rand>. The tag is
// unique per submission so rebuilds never overwrite earlier images.
func GenerateImageLink(recipeName, username string) string {
	registryServer := config.GetConfig().ImageRegistry.Server
	registryProject := fmt.Sprintf("user-%s", username)
	now := time.Now()
	imageTag := fmt.Sprintf("%02d%02d-%02d%02d-%s",
		now.Month(), now.Day(), now.Hour(), now.Minute(), uuid.New().String()[:4])
	return fmt.Sprintf("%s/%s/%s:%s", registryServer, registryProject, recipeName, imageTag)
}
