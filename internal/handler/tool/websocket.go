package tool

import (
	"bufio"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"

	"github.com/vision-lab/trainforge/dao/model"
	"github.com/vision-lab/trainforge/dao/query"
	"github.com/vision-lab/trainforge/internal/handler"
	"github.com/vision-lab/trainforge/internal/resputil"
	"github.com/vision-lab/trainforge/internal/util"
	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/crclient"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	handler.Registers = append(handler.Registers, NewWebsocketMgr)
}

type WebsocketMgr struct {
	name        string
	buildClient *crclient.BuildJobController
	logClient   *crclient.LogClient
}

func NewWebsocketMgr(conf *handler.RegisterConfig) handler.Manager {
	return &WebsocketMgr{
		name:        "websocket",
		buildClient: &crclient.BuildJobController{Client: conf.Client},
		logClient:   &crclient.LogClient{KubeClient: conf.KubeClient},
	}
}

func (mgr *WebsocketMgr) GetName() string { return mgr.name }

func (mgr *WebsocketMgr) RegisterPublic(_ *gin.RouterGroup) {}
func (mgr *WebsocketMgr) RegisterAdmin(_ *gin.RouterGroup)  {}

func (mgr *WebsocketMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/builds/:jobname/logs", mgr.StreamBuildLogs)
}

type BuildLogsReq struct {
	JobName string `uri:"jobname" binding:"required"`
}

// WriteTimeout specifies the maximum duration for completing a write operation.
const WriteTimeout = 10 * time.Second

// StreamBuildLogs follows the log of the build pod over a websocket, one
// text message per log line.
func (mgr *WebsocketMgr) StreamBuildLogs(c *gin.Context) {
	var req BuildLogsReq
	if err := c.ShouldBindUri(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	token := util.GetToken(c)

	var entity model.Build
	if err := query.GetDB().WithContext(c).
		Where("job_name = ?", req.JobName).
		First(&entity).Error; err != nil {
		resputil.BadRequestError(c, "build not found")
		return
	}
	if entity.UserID != token.UserID && token.RolePlatform != model.RoleAdmin {
		resputil.HTTPError(c, http.StatusForbidden, "build belongs to another user", resputil.UserNotAllowed)
		return
	}

	pod, err := mgr.buildClient.GetBuildPod(c, entity.JobName, entity.NameSpace)
	if err != nil || pod == nil {
		resputil.BadRequestError(c, "build pod not found")
		return
	}

	upgrade := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	// Allow all origins in debug mode
	if config.IsDebugMode() {
		upgrade.CheckOrigin = func(_ *http.Request) bool {
			return true
		}
	}
	ws, err := upgrade.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		klog.Errorf("upgrade websocket failed, err: %v", err)
		return
	}
	defer ws.Close()

	stream, err := mgr.logClient.StreamPodLogs(c.Request.Context(), pod)
	if err != nil {
		klog.Errorf("open log stream failed, err: %v", err)
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "log stream unavailable"))
		return
	}
	defer stream.Close()

	scanner := bufio.NewScanner(stream)
	// buildctl emits long progress lines, keep room for them
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err = ws.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
			return
		}
		if err = ws.WriteMessage(websocket.TextMessage, scanner.Bytes()); err != nil {
			return
		}
	}
	_ = ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "log stream ended"))
}
