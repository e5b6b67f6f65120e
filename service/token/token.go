package token

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/models/enums"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/autherrors"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/repository/redis"
	"github.com/Xushengqwer/member_hub/utils"
)

// AuthTokenService 定义了令牌签发、校验、刷新与注销的服务接口。
// 令牌模型:
//   - 访问令牌: 短期 JWT，无状态校验，签发后不落库；
//   - 刷新令牌: 长期 JWT，同时在服务端按用户名保存"当前唯一有效刷新令牌"（带 TTL），
//     每个用户名同一时刻只有最近签发的那一枚刷新令牌有效。
type AuthTokenService interface {
	// IssueTokenPair 为指定会员签发一对新令牌，并将刷新令牌写入服务端存储（覆盖旧值）。
	// 登录成功与 OAuth 登录成功后调用。
	IssueTokenPair(ctx context.Context, username string, role enums.UserRole) (vo.TokenPair, error)

	// ValidateAccessToken 校验访问令牌（无状态，仅验签与标准声明），
	// 成功时返回令牌中携带的声明。任何解析失败统一返回 InvalidToken 错误。
	ValidateAccessToken(ctx context.Context, accessToken string) (*dependencies.CustomClaims, error)

	// RefreshToken 用刷新令牌换取一对新令牌。
	// - 刷新令牌本身无效（验签失败、过期、签发者不符）返回 InvalidToken 错误。
	// - 刷新令牌与服务端存储的当前值不一致（已被更新的签发覆盖）同样返回 InvalidToken 错误。
	// - 对应会员不存在或已注销返回 InvalidToken 错误（对外不区分原因）。
	// - 成功时轮换：签发新令牌对并覆盖服务端存储的刷新令牌。
	RefreshToken(ctx context.Context, refreshToken string) (vo.TokenPair, error)

	// Logout 注销登录态，删除服务端保存的刷新令牌。
	// 刷新令牌解析失败不视为错误（幂等登出），访问令牌在剩余有效期内依然可无状态通过校验。
	Logout(ctx context.Context, refreshToken string) error
}

type authTokenService struct {
	jwtToken   dependencies.JWTTokenInterface // JWT 工具
	tokenRepo  redis.RefreshTokenRepo         // 刷新令牌的服务端存储
	memberRepo mysql.MemberRepository         // 会员仓库，刷新时确认身份仍然有效
	logger     *core.ZapLogger
}

func NewAuthTokenService(
	jwtToken dependencies.JWTTokenInterface,
	tokenRepo redis.RefreshTokenRepo,
	memberRepo mysql.MemberRepository,
	logger *core.ZapLogger,
) AuthTokenService {
	return &authTokenService{
		jwtToken:   jwtToken,
		tokenRepo:  tokenRepo,
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// IssueTokenPair 实现接口方法，签发令牌对并落库刷新令牌。
func (s *authTokenService) IssueTokenPair(ctx context.Context, username string, role enums.UserRole) (vo.TokenPair, error) {
	const operation = "AuthTokenService.IssueTokenPair"
	emptyPair := vo.TokenPair{}

	accessToken, err := s.jwtToken.GenerateAccessToken(username, role)
	if err != nil {
		s.logger.Error("生成访问令牌失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return emptyPair, commonerrors.ErrSystemError
	}

	refreshToken, err := s.jwtToken.GenerateRefreshToken(username)
	if err != nil {
		s.logger.Error("生成刷新令牌失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return emptyPair, commonerrors.ErrSystemError
	}

	// 覆盖写入：同一用户名并发签发时，后写者胜出，先写者的刷新令牌在下次刷新时被判为陈旧
	if err := s.tokenRepo.SetRefreshToken(ctx, username, refreshToken, s.jwtToken.RefreshTokenTTL()); err != nil {
		s.logger.Error("保存刷新令牌失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return emptyPair, commonerrors.ErrSystemError
	}

	s.logger.Info("令牌对签发成功", zap.String("operation", operation), zap.String("username", username))
	return vo.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateAccessToken 实现接口方法，无状态校验访问令牌。
func (s *authTokenService) ValidateAccessToken(ctx context.Context, accessToken string) (*dependencies.CustomClaims, error) {
	const operation = "AuthTokenService.ValidateAccessToken"

	claims, err := s.jwtToken.ParseAccessToken(accessToken)
	if err != nil {
		// 具体失败原因只记录日志，对外统一为无效令牌
		s.logger.Warn("访问令牌校验失败", zap.String("operation", operation), zap.Error(err))
		return nil, autherrors.InvalidToken("访问令牌无效或已过期")
	}
	return claims, nil
}

// RefreshToken 实现接口方法，校验并轮换刷新令牌。
func (s *authTokenService) RefreshToken(ctx context.Context, refreshToken string) (vo.TokenPair, error) {
	const operation = "AuthTokenService.RefreshToken"
	emptyPair := vo.TokenPair{}

	// 1. 解析刷新令牌本身（验签、过期、签发者）
	claims, err := s.jwtToken.ParseRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("刷新令牌解析失败", zap.String("operation", operation), zap.Error(err))
		return emptyPair, autherrors.InvalidToken("刷新令牌无效或已过期")
	}
	username := claims.Username

	// 2. 与服务端存储的当前刷新令牌精确比对。
	//    不一致说明该用户名之后又签发过新令牌，本枚已陈旧，直接拒绝。
	storedToken, err := s.tokenRepo.GetRefreshToken(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("刷新令牌在服务端不存在（已登出或已过期）",
				zap.String("operation", operation),
				zap.String("username", username),
			)
			return emptyPair, autherrors.InvalidToken("刷新令牌无效或已过期")
		}
		s.logger.Error("查询服务端刷新令牌失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return emptyPair, commonerrors.ErrSystemError
	}
	if storedToken != refreshToken {
		s.logger.Warn("刷新令牌与服务端当前值不一致，判为陈旧",
			zap.String("operation", operation),
			zap.String("username", username),
		)
		return emptyPair, autherrors.InvalidToken("刷新令牌无效或已过期")
	}

	// 3. 确认对应会员仍然有效（软删除的身份不允许刷新）
	m, err := s.memberRepo.GetMemberByUsername(ctx, username, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("刷新令牌对应的会员不存在或已注销",
				zap.String("operation", operation),
				zap.String("username", username),
			)
			return emptyPair, autherrors.InvalidToken("刷新令牌无效或已过期")
		}
		s.logger.Error("刷新时查询会员失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
		return emptyPair, commonerrors.ErrSystemError
	}

	// 4. 轮换：签发新令牌对并覆盖服务端存储
	pair, err := s.IssueTokenPair(ctx, utils.NormalizeUsername(m.Username), m.Role)
	if err != nil {
		return emptyPair, err
	}

	s.logger.Info("刷新令牌轮换成功", zap.String("operation", operation), zap.String("username", username))
	return pair, nil
}

// Logout 实现接口方法，幂等登出。
func (s *authTokenService) Logout(ctx context.Context, refreshToken string) error {
	const operation = "AuthTokenService.Logout"

	claims, err := s.jwtToken.ParseRefreshToken(refreshToken)
	if err != nil {
		// 解析失败也按成功处理：目标状态（登录态不存在）已经达成
		s.logger.Warn("登出时刷新令牌解析失败，按幂等成功处理", zap.String("operation", operation), zap.Error(err))
		return nil
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, claims.Username); err != nil {
		s.logger.Error("删除服务端刷新令牌失败", zap.String("operation", operation), zap.String("username", claims.Username), zap.Error(err))
		return commonerrors.ErrSystemError
	}

	s.logger.Info("登出成功", zap.String("operation", operation), zap.String("username", claims.Username))
	return nil
}
