package alert

import (
	"context"
	"fmt"
	"sync"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/pkg/logutils"
)

type alertMgr struct {
	handler alertHandlerInterface
}

var (
	once    sync.Once
	alerter *alertMgr
)

func GetAlertMgr() AlertInterface {
	once.Do(func() {
		alerter = &alertMgr{
			handler: newSMTPAlerter(),
		}
	})
	return alerter
}

func (a *alertMgr) sendBuildMessage(ctx context.Context, jobName, subject, messageTemplate string) error {
	db := query.GetDB().WithContext(ctx)
	var build model.Build
	if err := db.Preload("User").Preload("Recipe").
		Where("job_name = ?", jobName).First(&build).Error; err != nil {
		return err
	}
	if build.User.Email == nil {
		logutils.Log.Warnf("user %s has no email address, skip alert for %s", build.User.Name, jobName)
		return nil
	}

	nickname := build.User.Name
	if build.User.Nickname != nil {
		nickname = *build.User.Nickname
	}
	body := fmt.Sprintf(messageTemplate, nickname, build.Recipe.Name, build.JobName)
	return a.handler.SendMessageTo(ctx, *build.User.Email, subject, body)
}

func (a *alertMgr) BuildFailureAlert(ctx context.Context, jobName string) error {
	subject := "Image build failed"
	messageTemplate := `Hi %s, the image build for recipe %s (job %s) has failed. ` +
		`Failed builds are not retried, please check the build logs and submit a new build.`
	return a.sendBuildMessage(ctx, jobName, subject, messageTemplate)
}

func (a *alertMgr) BuildFinishedAlert(ctx context.Context, jobName string) error {
	subject := "Image build finished"
	messageTemplate := `Hi %s, the image build for recipe %s (job %s) has finished and the image was pushed to the registry.`
	return a.sendBuildMessage(ctx, jobName, subject, messageTemplate)
}
