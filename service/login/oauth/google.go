package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/autherrors"
	"github.com/Xushengqwer/member_hub/models/entities"
	myenums "github.com/Xushengqwer/member_hub/models/enums"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/service/token"
	"github.com/Xushengqwer/member_hub/utils"
)

// 昵称冲突时的最大重试次数，每次换一个随机后缀
const maxNicknameAttempts = 5

// GoogleOAuthService 定义了 Google OAuth 登录或注册的服务接口。
type GoogleOAuthService interface {
	// AuthCodeURL 生成跳转到 Google 授权页的 URL，state 由调用方生成并自行校验。
	AuthCodeURL(state string) string

	// LoginOrRegister 用授权码完成登录，身份不存在时自动注册。
	// - 自动注册的账号视为已验证（邮箱归属由 Google 背书），无本地可用密码。
	// - 用户名为 "google_{providerID}" 的小写形式，与邮箱注册的用户名空间天然隔离。
	// - 昵称取 Google 昵称加随机后缀，冲突时换后缀重试。
	// - Google 侧调用失败返回 ThirdParty 类别错误（协议层映射为 502）。
	LoginOrRegister(ctx context.Context, code string) (vo.LoginResponse, error)
}

type googleOAuthService struct {
	googleClient dependencies.GoogleClient
	memberRepo   mysql.MemberRepository
	tokenService token.AuthTokenService
	db           *gorm.DB
	logger       *core.ZapLogger
}

func NewGoogleOAuthService(
	googleClient dependencies.GoogleClient,
	memberRepo mysql.MemberRepository,
	tokenService token.AuthTokenService,
	db *gorm.DB,
	logger *core.ZapLogger,
) GoogleOAuthService {
	return &googleOAuthService{
		googleClient: googleClient,
		memberRepo:   memberRepo,
		tokenService: tokenService,
		db:           db,
		logger:       logger,
	}
}

// AuthCodeURL 实现接口方法。
func (s *googleOAuthService) AuthCodeURL(state string) string {
	return s.googleClient.AuthCodeURL(state)
}

// LoginOrRegister 实现接口方法，处理 Google 授权码登录。
func (s *googleOAuthService) LoginOrRegister(ctx context.Context, code string) (vo.LoginResponse, error) {
	const operation = "GoogleOAuthService.LoginOrRegister"
	emptyResponse := vo.LoginResponse{}

	// 1. 用授权码换取 Google 用户信息
	userInfo, err := s.googleClient.GetUserInfo(ctx, code)
	if err != nil {
		s.logger.Error("获取 Google 用户信息失败", zap.String("operation", operation), zap.Error(err))
		return emptyResponse, autherrors.Wrap(autherrors.KindThirdParty, "Google 服务调用失败", err)
	}

	// 2. 派生内部用户名并查找会员
	username := utils.NormalizeUsername(fmt.Sprintf("google_%s", userInfo.ID))
	m, err := s.memberRepo.GetMemberByUsername(ctx, username, false)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("查询 Google 关联会员失败", zap.String("operation", operation), zap.String("username", username), zap.Error(err))
			return emptyResponse, commonerrors.ErrSystemError
		}
		// 首次登录，自动注册
		m, err = s.registerGoogleMember(ctx, username, userInfo)
		if err != nil {
			return emptyResponse, err
		}
	}

	// 3. 签发令牌对
	pair, err := s.tokenService.IssueTokenPair(ctx, username, m.Role)
	if err != nil {
		return emptyResponse, err
	}

	s.logger.Info("Google 登录成功", zap.String("operation", operation), zap.String("memberID", m.MemberID))
	return vo.LoginResponse{
		Member: vo.MemberInfo{MemberID: m.MemberID, Username: m.Username, Nickname: m.Nickname},
		Token:  pair,
	}, nil
}

// registerGoogleMember 为首次 Google 登录的用户创建会员记录。
func (s *googleOAuthService) registerGoogleMember(ctx context.Context, username string, userInfo *dependencies.GoogleUserInfo) (*entities.Member, error) {
	const operation = "GoogleOAuthService.registerGoogleMember"

	memberID := uuid.New().String()
	s.logger.Info("首次 Google 登录，开始自动注册",
		zap.String("operation", operation),
		zap.String("username", username),
		zap.String("newMemberID", memberID),
	)

	// 写入一个随机的不可用密码哈希：明文不落地也不通知，本地密码登录对该账号永远失败
	randomPassword, err := utils.GenerateTempPassword()
	if err != nil {
		s.logger.Error("生成随机密码失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.ErrSystemError
	}
	hashedPassword, err := utils.SetPassword(randomPassword)
	if err != nil {
		s.logger.Error("随机密码加密失败", zap.String("operation", operation), zap.Error(err))
		return nil, commonerrors.ErrSystemError
	}

	// 选一个不冲突的昵称：Google 昵称截断后加随机后缀，冲突则换后缀重试
	nickname, err := s.pickNickname(ctx, userInfo.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	provider := myenums.ProviderGoogle
	providerID := userInfo.ID
	newMember := &entities.Member{
		MemberID:     memberID,
		Username:     username,
		PasswordHash: hashedPassword,
		Nickname:     nickname,
		Role:         enums.RoleUser,
		Auth: entities.AuthInfo{
			// Google 已经验证过邮箱归属，直接视为已验证
			Verified:        true,
			VerifiedAt:      &now,
			OAuthProvider:   &provider,
			OAuthProviderID: &providerID,
		},
	}

	if err := s.memberRepo.CreateMember(ctx, s.db, newMember); err != nil {
		// 同一 Google 账号并发首登时，后到者被唯一索引拦下
		if errors.Is(err, mysql.ErrDuplicateEntry) {
			s.logger.Warn("Google 会员并发注册命中唯一索引冲突",
				zap.String("operation", operation),
				zap.String("username", username),
			)
			return nil, autherrors.Conflict("账号正在创建中，请重试登录")
		}
		s.logger.Error("Google 会员注册写入失败",
			zap.String("operation", operation),
			zap.String("memberID", memberID),
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	s.logger.Info("Google 会员自动注册成功",
		zap.String("operation", operation),
		zap.String("memberID", memberID),
		zap.String("nickname", nickname),
	)
	return newMember, nil
}

// pickNickname 基于 Google 昵称生成一个未被占用的本地昵称。
func (s *googleOAuthService) pickNickname(ctx context.Context, hint string) (string, error) {
	const operation = "GoogleOAuthService.pickNickname"

	base := strings.TrimSpace(hint)
	if base == "" {
		base = "google_user"
	}
	// 昵称列上限为 64，给随机后缀留出空间
	if len(base) > 20 {
		base = base[:20]
	}

	for i := 0; i < maxNicknameAttempts; i++ {
		candidate := fmt.Sprintf("%s_%s", base, uuid.New().String()[:8])
		taken, err := s.memberRepo.ExistsByNickname(ctx, candidate)
		if err != nil {
			s.logger.Error("检查昵称冲突失败", zap.String("operation", operation), zap.String("nickname", candidate), zap.Error(err))
			return "", commonerrors.ErrSystemError
		}
		if !taken {
			return candidate, nil
		}
	}

	s.logger.Error("多次重试后仍未找到可用昵称", zap.String("operation", operation), zap.String("base", base))
	return "", commonerrors.ErrSystemError
}
