package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/constants"
	"github.com/Xushengqwer/member_hub/models/dto"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/service/member"
)

// MemberController 处理会员资料与账号生命周期相关的 HTTP 请求。
type MemberController struct {
	memberService member.MemberIdentityService
	logger        *core.ZapLogger
}

func NewMemberController(
	memberService member.MemberIdentityService,
	logger *core.ZapLogger,
) *MemberController {
	return &MemberController{
		memberService: memberService,
		logger:        logger,
	}
}

// currentMemberID 从 gin 上下文中取出认证中间件写入的会员 ID。
// 路由挂载了 RequireAuth，正常情况下一定存在。
func currentMemberID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyMemberID)
	if !exists {
		return "", false
	}
	memberID, ok := value.(string)
	return memberID, ok && memberID != ""
}

// GetMe 查询当前会员的账号详情。
// @Summary 查询我的账号
// @Description 返回当前登录会员的账号详情（用户名、昵称、签名、角色、验证状态等）。
// @Tags 会员管理 (Member Management)
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} docs.SwaggerAPIMemberDetailResponse "查询成功"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未登录"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "身份不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/members/me [get]
func (ctrl *MemberController) GetMe(c *gin.Context) {
	const operation = "MemberController.GetMe"

	memberID, ok := currentMemberID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "请先登录")
		return
	}

	detail, err := ctrl.memberService.GetAccountDetail(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess(c, detail, "查询成功")
}

// UpdateMe 修改当前会员的资料（昵称、签名，可同时修改密码）。
// @Summary 修改我的资料
// @Description 修改昵称、签名或密码，所有修改都要求提供当前密码。未验证的账号会先收到新的验证邮件并收到 403。
// @Tags 会员管理 (Member Management)
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateProfileData true "修改请求体"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "修改成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未登录或当前密码不正确"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "账号尚未完成邮箱验证 (新验证邮件已发出)"
// @Failure 409 {object} docs.SwaggerAPIErrorResponseString "昵称已被占用"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/members/me [put]
func (ctrl *MemberController) UpdateMe(c *gin.Context) {
	const operation = "MemberController.UpdateMe"

	memberID, ok := currentMemberID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "请先登录")
		return
	}

	var req dto.UpdateProfileData
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("修改资料请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	if err := ctrl.memberService.UpdateProfile(c.Request.Context(), memberID, req); err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess[vo.Empty](c, vo.Empty{}, "修改成功")
}

// DeleteMe 注销当前会员账号（软删除）。
// @Summary 注销账号
// @Description 校验密码后软删除当前会员。注销后该身份不允许再次登录；已签发的令牌随各自有效期自然过期。
// @Tags 会员管理 (Member Management)
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.SoftDeleteData true "注销请求体"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "注销成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未登录或密码不正确"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/members/me [delete]
func (ctrl *MemberController) DeleteMe(c *gin.Context) {
	const operation = "MemberController.DeleteMe"

	memberID, ok := currentMemberID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "请先登录")
		return
	}

	var req dto.SoftDeleteData
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("注销请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	if err := ctrl.memberService.SoftDelete(c.Request.Context(), memberID, req.Password); err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess[vo.Empty](c, vo.Empty{}, "注销成功")
}

// ChangeRole 修改指定会员的角色，仅管理员可用。
// @Summary 修改会员角色
// @Description 管理员将指定会员的角色设置为管理员或普通用户。
// @Tags 会员管理 (Member Management)
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param member_id path string true "目标会员 ID (UUID)"
// @Param request body dto.ChangeRoleData true "角色修改请求体"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "修改成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未登录"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "权限不足"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "目标会员不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/members/{member_id}/role [put]
func (ctrl *MemberController) ChangeRole(c *gin.Context) {
	const operation = "MemberController.ChangeRole"

	targetMemberID := c.Param("member_id")
	if targetMemberID == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少 member_id 路径参数")
		return
	}

	var req dto.ChangeRoleData
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("修改角色请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	if err := ctrl.memberService.ChangeRole(c.Request.Context(), targetMemberID, *req.Role); err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess[vo.Empty](c, vo.Empty{}, "角色修改成功")
}

// RegisterRoutes 注册会员管理路由。
// requireAuth / requireAdmin 由路由装配层传入，便于在测试中替换。
func (ctrl *MemberController) RegisterRoutes(group *gin.RouterGroup, requireAuth gin.HandlerFunc, requireAdmin gin.HandlerFunc) {
	memberRoutes := group.Group("/members")
	{
		memberRoutes.GET("/me", requireAuth, ctrl.GetMe)
		memberRoutes.PUT("/me", requireAuth, ctrl.UpdateMe)
		memberRoutes.DELETE("/me", requireAuth, ctrl.DeleteMe)
		memberRoutes.PUT("/:member_id/role", requireAuth, requireAdmin, ctrl.ChangeRole)
	}
}
