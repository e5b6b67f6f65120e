package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/models/autherrors"
)

// respondServiceError 将服务层错误统一转换为 HTTP 响应。
// 封闭的业务错误集合按类别映射状态码，系统错误与第三方错误单独处理，
// 各控制器不再重复这段分支。
func respondServiceError(c *gin.Context, logger *core.ZapLogger, operation string, err error) {
	if errors.Is(err, commonerrors.ErrSystemError) {
		logger.Error("服务返回系统错误", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		return
	}
	if autherrors.KindOf(err) == autherrors.KindThirdParty {
		logger.Error("依赖的第三方服务调用失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadGateway, response.ErrCodeServerInternal, "第三方服务暂时不可用，请稍后重试")
		return
	}

	logger.Warn("服务返回业务错误", zap.String("operation", operation), zap.Error(err))
	switch autherrors.KindOf(err) {
	case autherrors.KindValidation:
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
	case autherrors.KindConflict:
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, err.Error())
	case autherrors.KindNotFound:
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, err.Error())
	case autherrors.KindCredentialMismatch, autherrors.KindInvalidToken:
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, err.Error())
	case autherrors.KindAccountLocked, autherrors.KindAuthNotCompleted, autherrors.KindAccessDenied:
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, err.Error())
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
	}
}
