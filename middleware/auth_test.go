package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/constants"
	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/entities"
	"github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/service/token"
)

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) CreateMember(ctx context.Context, db *gorm.DB, member *entities.Member) error {
	args := m.Called(ctx, db, member)
	return args.Error(0)
}

func (m *mockMemberRepo) GetMemberByID(ctx context.Context, memberID string, includeDeleted bool) (*entities.Member, error) {
	args := m.Called(ctx, memberID, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *mockMemberRepo) GetMemberByUsername(ctx context.Context, username string, includeDeleted bool) (*entities.Member, error) {
	args := m.Called(ctx, username, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Member), args.Error(1)
}

func (m *mockMemberRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockMemberRepo) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

func (m *mockMemberRepo) UpdateMember(ctx context.Context, member *entities.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *mockMemberRepo) SoftDeleteMember(ctx context.Context, db *gorm.DB, memberID string) error {
	args := m.Called(ctx, db, memberID)
	return args.Error(0)
}

// fakeTokenStore 内存版刷新令牌存储，中间件测试只需要它能签发访问令牌
type fakeTokenStore struct {
	tokens map[string]string
}

func (s *fakeTokenStore) SetRefreshToken(ctx context.Context, username string, tok string, ttl time.Duration) error {
	s.tokens[username] = tok
	return nil
}

func (s *fakeTokenStore) GetRefreshToken(ctx context.Context, username string) (string, error) {
	tok, ok := s.tokens[username]
	if !ok {
		return "", commonerrors.ErrRepoNotFound
	}
	return tok, nil
}

func (s *fakeTokenStore) DeleteRefreshToken(ctx context.Context, username string) error {
	delete(s.tokens, username)
	return nil
}

func newTestEnv(t *testing.T) (*gin.Engine, token.AuthTokenService, *mockMemberRepo, *core.ZapLogger) {
	gin.SetMode(gin.TestMode)

	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)

	jwtUtil := dependencies.NewJWTUtility(&config.JWTConfig{
		SecretKey:         "access-secret-for-test",
		RefreshSecret:     "refresh-secret-for-test",
		Issuer:            "member_hub_test",
		AccessExpiration:  900,
		RefreshExpiration: 3600,
	})
	repo := new(mockMemberRepo)
	tokenService := token.NewAuthTokenService(jwtUtil, &fakeTokenStore{tokens: make(map[string]string)}, repo, logger)

	router := gin.New()
	router.Use(AuthMiddleware(tokenService, mysql.MemberRepository(repo), logger))
	return router, tokenService, repo, logger
}

func activeMember(role enums.UserRole) *entities.Member {
	now := time.Now().Add(-time.Hour)
	return &entities.Member{
		MemberID: "member-1",
		Username: "alice@mail.com",
		Nickname: "alice",
		Role:     role,
		Auth:     entities.AuthInfo{Verified: true, VerifiedAt: &now},
	}
}

func TestAuthMiddlewareEstablishesIdentity(t *testing.T) {
	router, tokenService, repo, logger := newTestEnv(t)

	repo.On("GetMemberByUsername", mock.Anything, "alice@mail.com", false).Return(activeMember(enums.RoleUser), nil)

	var seenMemberID string
	router.GET("/protected", RequireAuth(logger), func(c *gin.Context) {
		seenMemberID = c.GetString(constants.ContextKeyMemberID)
		c.Status(http.StatusOK)
	})

	pair, err := tokenService.IssueTokenPair(context.Background(), "alice@mail.com", enums.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "member-1", seenMemberID)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	router, _, _, logger := newTestEnv(t)

	router.GET("/protected", RequireAuth(logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// 无令牌
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 无法解析的令牌同样按匿名处理
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAllowsAnonymousOnPublicRoutes(t *testing.T) {
	router, _, _, _ := newTestEnv(t)

	router.GET("/public", func(c *gin.Context) {
		_, exists := c.Get(constants.ContextKeyMemberID)
		assert.False(t, exists)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareIgnoresDeletedMember(t *testing.T) {
	router, tokenService, repo, logger := newTestEnv(t)

	// 令牌有效但会员已软删除: 不建立身份
	repo.On("GetMemberByUsername", mock.Anything, "alice@mail.com", false).Return(nil, commonerrors.ErrRepoNotFound)

	router.GET("/protected", RequireAuth(logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	pair, err := tokenService.IssueTokenPair(context.Background(), "alice@mail.com", enums.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	router, tokenService, repo, logger := newTestEnv(t)

	repo.On("GetMemberByUsername", mock.Anything, "alice@mail.com", false).Return(activeMember(enums.RoleUser), nil)
	repo.On("GetMemberByUsername", mock.Anything, "root@mail.com", false).Return(&entities.Member{
		MemberID: "member-root",
		Username: "root@mail.com",
		Nickname: "root",
		Role:     enums.RoleAdmin,
		Auth:     entities.AuthInfo{Verified: true},
	}, nil)

	router.GET("/admin", RequireAuth(logger), RequireAdmin(logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	userPair, err := tokenService.IssueTokenPair(context.Background(), "alice@mail.com", enums.RoleUser)
	require.NoError(t, err)
	adminPair, err := tokenService.IssueTokenPair(context.Background(), "root@mail.com", enums.RoleAdmin)
	require.NoError(t, err)

	// 普通用户被拒
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userPair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员放行
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminPair.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
