package initialization

import (
	"github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/repository/redis"
	"github.com/Xushengqwer/member_hub/service/login/auth"
	"github.com/Xushengqwer/member_hub/service/login/oauth"
	"github.com/Xushengqwer/member_hub/service/member"
	"github.com/Xushengqwer/member_hub/service/token"
)

// AppServices 封装了应用所需的所有服务层实例。
type AppServices struct {
	MemberService member.MemberIdentityService
	TokenService  token.AuthTokenService
	Account       auth.AccountService
	GoogleOAuth   oauth.GoogleOAuthService
	MemberRepo    mysql.MemberRepository
}

// SetupServices 初始化所有仓库层和服务层实例。
func SetupServices(deps *AppDependencies) *AppServices {
	// 1. 初始化仓库实例
	memberRepo := mysql.NewMemberRepository(deps.DB)
	tokenRepo := redis.NewRefreshTokenRepo(deps.RedisClient)

	// 2. 初始化服务层实例
	// TokenService 先初始化，登录相关服务都依赖它签发令牌
	tokenService := token.NewAuthTokenService(
		deps.JwtToken,
		tokenRepo,
		memberRepo,
		deps.Logger,
	)

	memberService := member.NewMemberIdentityService(
		memberRepo,
		deps.MailClient,
		deps.Config.AppConfig,
		deps.DB,
		deps.Logger,
	)

	accountService := auth.NewAccountService(
		memberRepo,
		tokenService,
		deps.Logger,
	)

	googleService := oauth.NewGoogleOAuthService(
		deps.GoogleClient,
		memberRepo,
		tokenService,
		deps.DB,
		deps.Logger,
	)

	// 3. 封装所有初始化完成的服务实例
	return &AppServices{
		MemberService: memberService,
		TokenService:  tokenService,
		Account:       accountService,
		GoogleOAuth:   googleService,
		MemberRepo:    memberRepo,
	}
}
