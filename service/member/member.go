package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	// 引入公共模块
	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core" // 引入日志包
	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/google/uuid"
	"go.uber.org/zap" // 引入 zap 用于日志字段

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/constants"
	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/autherrors"
	"github.com/Xushengqwer/member_hub/models/dto"
	"github.com/Xushengqwer/member_hub/models/entities"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/utils"

	"gorm.io/gorm"
)

// MemberIdentityService 定义了会员身份生命周期（认证子状态机）的服务接口。
// 状态模型:
//   - 邮箱验证状态: UNVERIFIED -> VERIFIED（可被显式重发验证强制回退）；
//   - 生命周期状态: ACTIVE -> SOFT_DELETED（正常使用下的终态）；
//   - 身份范式: 本地密码账号 / OAuth 关联账号，创建时确定，之后不可变。
type MemberIdentityService interface {
	// Register 处理会员使用邮箱密码进行注册的逻辑。
	// - 两次密码不一致返回 Validation 错误；用户名（不区分大小写）或昵称被占用返回 Conflict 错误。
	// - 成功时以 UNVERIFIED 状态落库，携带新的验证令牌（有效期 5 分钟），并异步发送验证邮件。
	// - 注意: 注册成功后不自动登录，不返回令牌。
	Register(ctx context.Context, data dto.MemberRegisterData) (vo.MemberInfo, error)

	// VerifyEmail 处理邮箱验证回调。
	// - 已验证的账号直接视为成功（幂等）。
	// - 令牌与挂起记录完全匹配且未过期时，转移到 VERIFIED 并记录验证时间。
	// - 令牌不匹配或已过期时，不报错，而是隐式触发一次 ResendVerification（轮换令牌并重发邮件）。
	//   这是刻意保留的自愈策略: 过期/陈旧的验证链接静默换发新链接，以可用性优先于严格报错。
	VerifyEmail(ctx context.Context, username string, token string) error

	// ResendVerification 重新生成验证令牌并重发验证邮件。
	// - 身份不存在返回 NotFound 错误。
	// - 强制将 verified 置为 false（即使之前已验证，这只会通过显式失效路径发生）。
	ResendVerification(ctx context.Context, username string) error

	// FindPassword 找回密码。
	// - 身份不存在返回 NotFound 错误。
	// - 未完成验证时，先触发 ResendVerification，再返回 AuthNotCompleted 错误。
	// - 否则生成随机强临时密码（长度 >= 20，大小写/数字/特殊字符各至少一个），
	//   覆盖存储的密码哈希，并将临时密码明文发送到会员邮箱。
	FindPassword(ctx context.Context, username string) error

	// UpdateProfile 修改会员资料，可同时修改密码。
	// - 未完成验证时，先触发 ResendVerification，再返回 AuthNotCompleted 错误。
	// - 当前密码不匹配返回 CredentialMismatch 错误。
	// - 新昵称与他人冲突返回 Conflict 错误。
	// - 提供新密码时必须与确认字段一致，否则返回 CredentialMismatch 错误。
	UpdateProfile(ctx context.Context, memberID string, data dto.UpdateProfileData) error

	// SoftDelete 注销账号（软删除）。
	// - 密码不匹配返回 CredentialMismatch 错误。
	// - 记录保留在存储中，之后该身份不允许再次认证。
	// - 注意: 已签发的刷新令牌不会被立即吊销，随 TTL 自然过期；
	//   刷新路径和认证中间件会重新确认会员未注销，实际暴露窗口只有访问令牌的剩余有效期。
	SoftDelete(ctx context.Context, memberID string, password string) error

	// ChangeRole 修改会员角色，仅管理员可调用（权限在协议层校验）。
	ChangeRole(ctx context.Context, memberID string, role enums.UserRole) error

	// GetAccountDetail 获取会员账号详情，用于个人中心展示。
	GetAccountDetail(ctx context.Context, memberID string) (vo.MemberDetailVO, error)
}

// memberIdentityService 是 MemberIdentityService 接口的实现。
type memberIdentityService struct {
	memberRepo mysql.MemberRepository  // 会员仓库
	mailClient dependencies.MailClient // 邮件客户端（异步发送）
	appCfg     config.AppConfig        // 应用配置，提供前端基础 URL
	db         *gorm.DB                // 数据库连接
	logger     *core.ZapLogger         // 日志记录器
}

func NewMemberIdentityService(
	memberRepo mysql.MemberRepository,
	mailClient dependencies.MailClient,
	appCfg config.AppConfig,
	db *gorm.DB,
	logger *core.ZapLogger,
) MemberIdentityService {
	return &memberIdentityService{
		memberRepo: memberRepo,
		mailClient: mailClient,
		appCfg:     appCfg,
		db:         db,
		logger:     logger,
	}
}

// Register 实现接口方法，处理会员注册。
func (s *memberIdentityService) Register(ctx context.Context, data dto.MemberRegisterData) (vo.MemberInfo, error) {
	const operation = "MemberIdentityService.Register"
	emptyMemberInfo := vo.MemberInfo{}

	// 1. 用户名小写规范化（唯一性比较不区分大小写）
	username := utils.NormalizeUsername(data.Username)

	// 2. 基本校验：密码与确认密码是否一致
	if data.Password != data.ConfirmPassword {
		s.logger.Warn("注册时密码与确认密码不一致", zap.String("operation", operation), zap.String("username", username))
		return emptyMemberInfo, autherrors.Validation("密码和确认密码不一致，请检查输入")
	}

	// 3. 检查用户名是否已被占用
	usernameTaken, err := s.memberRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("检查用户名是否占用时查询失败",
			zap.String("operation", operation),
			zap.String("username", username),
			zap.Error(err),
		)
		return emptyMemberInfo, commonerrors.ErrSystemError
	}
	if usernameTaken {
		s.logger.Warn("尝试注册已存在的用户名",
			zap.String("operation", operation),
			zap.String("username", username),
		)
		return emptyMemberInfo, autherrors.Conflict("该邮箱已被注册，请直接登录")
	}

	// 4. 检查昵称是否已被占用
	nicknameTaken, err := s.memberRepo.ExistsByNickname(ctx, data.Nickname)
	if err != nil {
		s.logger.Error("检查昵称是否占用时查询失败",
			zap.String("operation", operation),
			zap.String("nickname", data.Nickname),
			zap.Error(err),
		)
		return emptyMemberInfo, commonerrors.ErrSystemError
	}
	if nicknameTaken {
		s.logger.Warn("尝试注册已存在的昵称",
			zap.String("operation", operation),
			zap.String("nickname", data.Nickname),
		)
		return emptyMemberInfo, autherrors.Conflict("该昵称已被使用，请换一个")
	}

	// 5. 准备注册信息
	memberID := uuid.New().String()
	s.logger.Info("用户名可用，开始新会员注册流程",
		zap.String("operation", operation),
		zap.String("username", username),
		zap.String("newMemberID", memberID),
	)

	hashedPassword, err := utils.SetPassword(data.Password)
	if err != nil {
		s.logger.Error("密码加密失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.Error(err),
		)
		return emptyMemberInfo, commonerrors.ErrSystemError
	}

	// 以 UNVERIFIED 状态创建，携带新的验证令牌和过期时间（now + 5 分钟）
	authToken := utils.GenerateEmailAuthToken()
	expiresAt := time.Now().Add(constants.EmailAuthTokenTTL)
	newMember := &entities.Member{
		MemberID:     memberID,
		Username:     username,
		PasswordHash: hashedPassword,
		Nickname:     data.Nickname,
		Role:         enums.RoleUser, // 默认为普通用户
		Auth: entities.AuthInfo{
			Verified:           false,
			EmailAuthToken:     &authToken,
			EmailAuthExpiresAt: &expiresAt,
		},
	}

	// 6. 持久化会员记录（单记录写入，唯一索引兜底并发冲突）
	if err := s.memberRepo.CreateMember(ctx, s.db, newMember); err != nil {
		// 并发注册穿过了前面的占用预检查，被唯一索引拦下，按业务冲突返回
		if errors.Is(err, mysql.ErrDuplicateEntry) {
			s.logger.Warn("注册写入命中唯一索引冲突",
				zap.String("operation", operation),
				zap.String("username", username),
			)
			return emptyMemberInfo, autherrors.Conflict("该邮箱或昵称已被占用，请更换后重试")
		}
		s.logger.Error("会员注册写入失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.String("username", username),
			zap.Error(err),
		)
		return emptyMemberInfo, commonerrors.ErrSystemError
	}

	// 7. 异步发送验证邮件，请求路径不等待投递结果
	s.sendVerificationMail(username, authToken)

	// 8. 注册成功
	s.logger.Info("会员注册成功（UNVERIFIED 状态，验证邮件已派发）",
		zap.String("operation", operation),
		zap.String("memberID", memberID),
		zap.String("username", username),
	)
	return vo.MemberInfo{MemberID: memberID, Username: username, Nickname: data.Nickname}, nil
}

// VerifyEmail 实现接口方法，处理邮箱验证。
func (s *memberIdentityService) VerifyEmail(ctx context.Context, username string, token string) error {
	const operation = "MemberIdentityService.VerifyEmail"

	username = utils.NormalizeUsername(username)

	// 1. 查找会员（排除软删除）
	m, err := s.memberRepo.GetMemberByUsername(ctx, username, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("验证邮箱时身份不存在", zap.String("operation", operation), zap.String("username", username))
			return autherrors.NotFound("身份不存在")
		}
		s.logger.Error("验证邮箱时查询会员失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	// 2. 已验证则直接成功（幂等）
	if m.Auth.Verified {
		s.logger.Info("邮箱已验证，重复验证视为成功", zap.String("operation", operation), zap.String("memberID", m.MemberID))
		return nil
	}

	// 3. 校验挂起的令牌与过期时间
	now := time.Now()
	if m.Auth.EmailAuthToken != nil && *m.Auth.EmailAuthToken == token &&
		m.Auth.EmailAuthExpiresAt != nil && !now.After(*m.Auth.EmailAuthExpiresAt) {
		// 完全匹配且未过期：转移到 VERIFIED
		m.Auth.Verified = true
		m.Auth.VerifiedAt = &now
		// 验证完成后令牌字段即失效，清空
		m.Auth.EmailAuthToken = nil
		m.Auth.EmailAuthExpiresAt = nil

		if err := s.memberRepo.UpdateMember(ctx, m); err != nil {
			s.logger.Error("保存邮箱验证状态失败", zap.String("operation", operation), zap.String("memberID", m.MemberID), zap.Error(err))
			return commonerrors.ErrSystemError
		}
		s.logger.Info("邮箱验证成功", zap.String("operation", operation), zap.String("memberID", m.MemberID))
		return nil
	}

	// 4. 令牌不匹配或已过期：自愈策略，轮换令牌并重发邮件，不向调用方报错
	s.logger.Warn("验证令牌不匹配或已过期，触发隐式重发",
		zap.String("operation", operation),
		zap.String("memberID", m.MemberID),
		zap.String("username", username),
	)
	if err := s.rotateAndResend(ctx, m); err != nil {
		return err
	}
	return nil
}

// ResendVerification 实现接口方法，轮换验证令牌并重发邮件。
func (s *memberIdentityService) ResendVerification(ctx context.Context, username string) error {
	const operation = "MemberIdentityService.ResendVerification"

	username = utils.NormalizeUsername(username)

	m, err := s.memberRepo.GetMemberByUsername(ctx, username, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("重发验证邮件时身份不存在", zap.String("operation", operation), zap.String("username", username))
			return autherrors.NotFound("身份不存在")
		}
		s.logger.Error("重发验证邮件时查询会员失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	return s.rotateAndResend(ctx, m)
}

// rotateAndResend 轮换验证令牌（新随机值 + now + 5 分钟），强制 verified = false，
// 保存后异步重发验证邮件。Register 之外的所有验证邮件派发都走这里。
func (s *memberIdentityService) rotateAndResend(ctx context.Context, m *entities.Member) error {
	const operation = "MemberIdentityService.rotateAndResend"

	authToken := utils.GenerateEmailAuthToken()
	expiresAt := time.Now().Add(constants.EmailAuthTokenTTL)

	m.Auth.Verified = false
	m.Auth.VerifiedAt = nil
	m.Auth.EmailAuthToken = &authToken
	m.Auth.EmailAuthExpiresAt = &expiresAt

	if err := s.memberRepo.UpdateMember(ctx, m); err != nil {
		s.logger.Error("轮换验证令牌失败",
			zap.String("operation", operation),
			zap.String("memberID", m.MemberID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	s.sendVerificationMail(m.Username, authToken)
	s.logger.Info("验证令牌已轮换，验证邮件已派发",
		zap.String("operation", operation),
		zap.String("memberID", m.MemberID),
	)
	return nil
}

// sendVerificationMail 拼接验证深链并异步发送验证邮件。
func (s *memberIdentityService) sendVerificationMail(username string, token string) {
	link := utils.BuildVerifyEmailLink(s.appCfg.FrontendBaseURL, username, token)
	body := fmt.Sprintf(
		"<p>请在 5 分钟内点击以下链接完成邮箱验证：</p><p><a href=%q>%s</a></p>",
		link, link,
	)
	s.mailClient.SendAsync(username, "[member_hub] 邮箱验证", body)
}

// FindPassword 实现接口方法，找回密码。
func (s *memberIdentityService) FindPassword(ctx context.Context, username string) error {
	const operation = "MemberIdentityService.FindPassword"

	username = utils.NormalizeUsername(username)

	// 1. 查找会员
	m, err := s.memberRepo.GetMemberByUsername(ctx, username, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("找回密码时身份不存在", zap.String("operation", operation), zap.String("username", username))
			return autherrors.NotFound("身份不存在")
		}
		s.logger.Error("找回密码时查询会员失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	// 2. 未完成验证：先重发验证邮件，再拒绝本次找回
	if !m.Auth.Verified {
		s.logger.Warn("未验证账号尝试找回密码，触发重发验证邮件",
			zap.String("operation", operation),
			zap.String("memberID", m.MemberID),
		)
		if err := s.rotateAndResend(ctx, m); err != nil {
			return err
		}
		return autherrors.AuthNotCompleted("请先完成邮箱验证后再找回密码")
	}

	// 3. 生成随机强临时密码并覆盖存储的哈希
	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.String("operation", operation), zap.String("memberID", m.MemberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}
	hashed, err := utils.SetPassword(tempPassword)
	if err != nil {
		s.logger.Error("临时密码加密失败", zap.String("operation", operation), zap.String("memberID", m.MemberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}
	m.PasswordHash = hashed
	if err := s.memberRepo.UpdateMember(ctx, m); err != nil {
		s.logger.Error("覆盖临时密码失败", zap.String("operation", operation), zap.String("memberID", m.MemberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	// 4. 临时密码明文发送到会员邮箱（一次性使用仅靠策略约束，用户应尽快修改）
	body := fmt.Sprintf(
		"<p>您的临时密码为：<b>%s</b></p><p>请使用临时密码登录后立即修改密码。</p>",
		tempPassword,
	)
	s.mailClient.SendAsync(username, "[member_hub] 临时密码", body)

	s.logger.Info("临时密码已生成并派发",
		zap.String("operation", operation),
		zap.String("memberID", m.MemberID),
	)
	return nil
}

// UpdateProfile 实现接口方法，修改资料（可含密码）。
func (s *memberIdentityService) UpdateProfile(ctx context.Context, memberID string, data dto.UpdateProfileData) error {
	const operation = "MemberIdentityService.UpdateProfile"

	// 1. 查找会员
	m, err := s.memberRepo.GetMemberByID(ctx, memberID, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("修改资料时身份不存在", zap.String("operation", operation), zap.String("memberID", memberID))
			return autherrors.NotFound("身份不存在")
		}
		s.logger.Error("修改资料时查询会员失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	// 2. 未完成验证：先重发验证邮件，再拒绝本次修改
	if !m.Auth.Verified {
		s.logger.Warn("未验证账号尝试修改资料，触发重发验证邮件",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
		)
		if err := s.rotateAndResend(ctx, m); err != nil {
			return err
		}
		return autherrors.AuthNotCompleted("请先完成邮箱验证后再修改资料")
	}

	// 3. 校验当前密码
	if err := utils.CheckPassword(m.PasswordHash, data.CurrentPassword); err != nil {
		s.logger.Warn("修改资料时当前密码错误", zap.String("operation", operation), zap.String("memberID", memberID))
		return autherrors.CredentialMismatch("当前密码不正确")
	}

	// 4. 修改密码（可选）：新密码必须与确认字段一致
	if data.NewPassword != nil {
		if data.ConfirmNewPassword == nil || *data.NewPassword != *data.ConfirmNewPassword {
			s.logger.Warn("修改密码时新密码与确认不一致", zap.String("operation", operation), zap.String("memberID", memberID))
			return autherrors.CredentialMismatch("新密码和确认密码不一致")
		}
		hashed, err := utils.SetPassword(*data.NewPassword)
		if err != nil {
			s.logger.Error("新密码加密失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
			return commonerrors.ErrSystemError
		}
		m.PasswordHash = hashed
	}

	// 5. 修改昵称（可选）：检查与他人的冲突
	if data.Nickname != nil && *data.Nickname != m.Nickname {
		taken, err := s.memberRepo.ExistsByNickname(ctx, *data.Nickname)
		if err != nil {
			s.logger.Error("检查昵称冲突失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
			return commonerrors.ErrSystemError
		}
		if taken {
			s.logger.Warn("修改昵称与他人冲突",
				zap.String("operation", operation),
				zap.String("memberID", memberID),
				zap.String("nickname", *data.Nickname),
			)
			return autherrors.Conflict("该昵称已被使用，请换一个")
		}
		m.Nickname = *data.Nickname
	}

	// 6. 修改个性签名（可选）
	if data.Signature != nil {
		m.Signature = *data.Signature
	}

	// 7. 保存（单记录读-改-写，在一次 Save 中落库）
	if err := s.memberRepo.UpdateMember(ctx, m); err != nil {
		// 并发修改昵称穿过了预检查，被唯一索引拦下
		if errors.Is(err, mysql.ErrDuplicateEntry) {
			s.logger.Warn("保存资料修改命中唯一索引冲突", zap.String("operation", operation), zap.String("memberID", memberID))
			return autherrors.Conflict("该昵称已被使用，请换一个")
		}
		s.logger.Error("保存资料修改失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	s.logger.Info("会员资料修改成功", zap.String("operation", operation), zap.String("memberID", memberID))
	return nil
}

// SoftDelete 实现接口方法，注销账号。
func (s *memberIdentityService) SoftDelete(ctx context.Context, memberID string, password string) error {
	const operation = "MemberIdentityService.SoftDelete"

	m, err := s.memberRepo.GetMemberByID(ctx, memberID, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("注销时身份不存在", zap.String("operation", operation), zap.String("memberID", memberID))
			return autherrors.NotFound("身份不存在")
		}
		s.logger.Error("注销时查询会员失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	// 密码校验，防止他人误操作
	if err := utils.CheckPassword(m.PasswordHash, password); err != nil {
		s.logger.Warn("注销时密码错误", zap.String("operation", operation), zap.String("memberID", memberID))
		return autherrors.CredentialMismatch("密码不正确")
	}

	if err := s.memberRepo.SoftDeleteMember(ctx, s.db, memberID); err != nil {
		s.logger.Error("软删除会员失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	// 已签发的刷新令牌不在此处吊销，随 TTL 自然过期；
	// 软删除的身份在刷新路径的会员查询中即被拒绝。
	s.logger.Info("会员已注销（软删除）", zap.String("operation", operation), zap.String("memberID", memberID))
	return nil
}

// ChangeRole 实现接口方法，修改会员角色。
func (s *memberIdentityService) ChangeRole(ctx context.Context, memberID string, role enums.UserRole) error {
	const operation = "MemberIdentityService.ChangeRole"

	m, err := s.memberRepo.GetMemberByID(ctx, memberID, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("修改角色时身份不存在", zap.String("operation", operation), zap.String("memberID", memberID))
			return autherrors.NotFound("身份不存在")
		}
		s.logger.Error("修改角色时查询会员失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	m.Role = role
	if err := s.memberRepo.UpdateMember(ctx, m); err != nil {
		s.logger.Error("保存角色修改失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	s.logger.Info("会员角色修改成功",
		zap.String("operation", operation),
		zap.String("memberID", memberID),
		zap.Any("role", role),
	)
	return nil
}

// GetAccountDetail 实现接口方法，获取账号详情。
func (s *memberIdentityService) GetAccountDetail(ctx context.Context, memberID string) (vo.MemberDetailVO, error) {
	const operation = "MemberIdentityService.GetAccountDetail"
	emptyDetail := vo.MemberDetailVO{}

	m, err := s.memberRepo.GetMemberByID(ctx, memberID, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return emptyDetail, autherrors.NotFound("身份不存在")
		}
		s.logger.Error("查询账号详情失败", zap.String("operation", operation), zap.String("memberID", memberID), zap.Error(err))
		return emptyDetail, commonerrors.ErrSystemError
	}

	return vo.MemberDetailVO{
		MemberID:      m.MemberID,
		Username:      m.Username,
		Nickname:      m.Nickname,
		Signature:     m.Signature,
		Role:          m.Role,
		Verified:      m.Auth.Verified,
		VerifiedAt:    m.Auth.VerifiedAt,
		OAuthProvider: m.Auth.OAuthProvider,
		CreatedAt:     m.CreatedAt,
	}, nil
}
