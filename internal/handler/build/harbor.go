package build

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vision-lab/trainforge/internal/resputil"
	"github.com/vision-lab/trainforge/internal/util"
	"github.com/vision-lab/trainforge/pkg/logutils"
	"github.com/vision-lab/trainforge/pkg/utils"
)

// CheckLinkValidity godoc
//
//	@Summary		Check whether image links still resolve in the registry
//	@Tags			Build
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/builds/valid [POST]
func (mgr *BuildMgr) CheckLinkValidity(c *gin.Context) {
	req := &CheckLinkValidityRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		logutils.Log.Errorf("validate link pairs failed, err %v", err)
		resputil.BadRequestError(c, "validate failed")
		return
	}
	invalidPairs := []ImageInfoLinkPair{}
	for _, linkPair := range req.LinkPairs {
		if !mgr.checkLinkValidity(linkPair.ImageLink) {
			invalidPairs = append(invalidPairs, linkPair)
		}
	}
	resputil.Success(c, CheckLinkValidityResponse{
		InvalidPairs: invalidPairs,
	})
}

func (mgr *BuildMgr) checkLinkValidity(link string) bool {
	server := mgr.imageRegistry.GetRegistryServer()
	rest, found := strings.CutPrefix(link, server+"/")
	if !found {
		logutils.Log.Errorf("image link %s does not belong to registry %s", link, server)
		return false
	}
	project, _, found := strings.Cut(rest, "/")
	if !found {
		return false
	}
	repository, tag, err := utils.GetImageNameAndTag(link)
	if err != nil {
		logutils.Log.Errorf("split image link failed, err %v", err)
		return false
	}
	encodedRepo := url.PathEscape(repository)
	encodedURL := fmt.Sprintf("https://%s/api/v2.0/projects/%s/repositories/%s/artifacts/%s",
		server, project, encodedRepo, tag)
	response, err := mgr.req.R().Get(encodedURL)
	if err != nil {
		logutils.Log.Errorf("check link validity failed, err %v", err)
		return false
	}
	return response.IsSuccessState()
}

// UserGetProjectDetail godoc
//
//	@Summary		Report quota and usage of the user's registry project
//	@Tags			Build
//	@Produce		json
//	@Security		Bearer
//	@Router			/v1/builds/quota [GET]
func (mgr *BuildMgr) UserGetProjectDetail(c *gin.Context) {
	token := util.GetToken(c)
	detail, err := mgr.imageRegistry.GetProjectDetail(c, token.Username)
	if err != nil {
		logutils.Log.Errorf("fetch project quota failed, err: %v", err)
		resputil.Error(c, "fetch project quota failed", resputil.NotSpecified)
		return
	}
	resputil.Success(c, GetProjectDetailResponse{
		Project: detail.ProjectName,
		Quota:   float64(detail.TotalSize) / float64(GBit),
		Used:    float64(detail.UsedSize) / float64(GBit),
	})
}

// AdminUpdateProjectQuota godoc
//
//	@Summary		Set the storage quota of a user's registry project
//	@Tags			Build
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body	UpdateProjectQuotaRequest	true	"quota parameters"
//	@Router			/v1/admin/builds/quota [POST]
func (mgr *BuildMgr) AdminUpdateProjectQuota(c *gin.Context) {
	req := &UpdateProjectQuotaRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	projectName := fmt.Sprintf("user-%s", req.Username)
	if err := mgr.imageRegistry.UpdateQuotaForProject(c, projectName, req.SizeGB*GBit); err != nil {
		logutils.Log.Errorf("update project quota failed, err: %v", err)
		resputil.Error(c, "update project quota failed", resputil.NotSpecified)
		return
	}
	resputil.Success(c, "")
}
