package auth

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/models/autherrors"
	"github.com/Xushengqwer/member_hub/models/dto"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/service/token"
	"github.com/Xushengqwer/member_hub/utils"
)

// AccountService 定义了邮箱密码登录的服务接口。
type AccountService interface {
	// Login 处理邮箱密码登录。
	// - 身份不存在、已注销、密码错误统一返回同一个 CredentialMismatch 错误，
	//   响应内容与耗时路径不暴露"账号是否存在"（防枚举）。
	// - 账号未完成邮箱验证返回 AccountLocked 错误。
	// - 成功时签发令牌对（服务端覆盖保存刷新令牌）并返回会员信息。
	Login(ctx context.Context, data dto.MemberLoginData) (vo.LoginResponse, error)
}

type accountService struct {
	memberRepo   mysql.MemberRepository
	tokenService token.AuthTokenService
	logger       *core.ZapLogger
}

func NewAccountService(
	memberRepo mysql.MemberRepository,
	tokenService token.AuthTokenService,
	logger *core.ZapLogger,
) AccountService {
	return &accountService{
		memberRepo:   memberRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login 实现接口方法，处理邮箱密码登录。
func (s *accountService) Login(ctx context.Context, data dto.MemberLoginData) (vo.LoginResponse, error) {
	const operation = "AccountService.Login"
	emptyResponse := vo.LoginResponse{}

	username := utils.NormalizeUsername(data.Username)

	// 1. 查找会员（默认排除软删除，已注销身份走同一条失败路径）
	m, err := s.memberRepo.GetMemberByUsername(ctx, username, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("登录时身份不存在或已注销", zap.String("operation", operation), zap.String("username", username))
			// 与密码错误使用同一个对外错误，不暴露账号是否存在
			return emptyResponse, autherrors.CredentialMismatch("用户名或密码错误")
		}
		s.logger.Error("登录时查询会员失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return emptyResponse, commonerrors.ErrSystemError
	}

	// 2. 校验密码
	if err := utils.CheckPassword(m.PasswordHash, data.Password); err != nil {
		s.logger.Warn("登录时密码错误", zap.String("operation", operation), zap.String("memberID", m.MemberID))
		return emptyResponse, autherrors.CredentialMismatch("用户名或密码错误")
	}

	// 3. 未完成邮箱验证的账号不允许登录
	if !m.Auth.Verified {
		s.logger.Warn("未验证账号尝试登录", zap.String("operation", operation), zap.String("memberID", m.MemberID))
		return emptyResponse, autherrors.AccountLocked("账号尚未完成邮箱验证，请先验证邮箱")
	}

	// 4. 签发令牌对
	pair, err := s.tokenService.IssueTokenPair(ctx, username, m.Role)
	if err != nil {
		return emptyResponse, err
	}

	s.logger.Info("会员登录成功", zap.String("operation", operation), zap.String("memberID", m.MemberID))
	return vo.LoginResponse{
		Member: vo.MemberInfo{MemberID: m.MemberID, Username: m.Username, Nickname: m.Nickname},
		Token:  pair,
	}, nil
}
