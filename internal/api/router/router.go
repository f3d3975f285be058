package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"ats-parser-go/internal/api/handler"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler) {
	api := h.Group("/api/v1")

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload"
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Filename, sourceChannel)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:uuid", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		if submissionUUID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "缺少uuid参数"})
			return
		}

		resp, err := resumeHandler.HandleResumeQuery(c, submissionUUID)
		if err != nil {
			if errors.Is(err, handler.ErrSubmissionNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
