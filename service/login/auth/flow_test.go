package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/autherrors"
	"github.com/Xushengqwer/member_hub/models/dto"
	"github.com/Xushengqwer/member_hub/models/entities"
	mysqlrepo "github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/service/member"
	"github.com/Xushengqwer/member_hub/service/token"
)

// memoryMemberRepo 是 MemberRepository 的内存实现，以用户名为键，
// 保留软删除语义和唯一索引冲突语义，用于跨服务的链路测试。
type memoryMemberRepo struct {
	mu      sync.Mutex
	members map[string]*entities.Member
}

func newMemoryMemberRepo() *memoryMemberRepo {
	return &memoryMemberRepo{members: make(map[string]*entities.Member)}
}

func (r *memoryMemberRepo) CreateMember(ctx context.Context, db *gorm.DB, m *entities.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.Username]; ok {
		return mysqlrepo.ErrDuplicateEntry
	}
	for _, existing := range r.members {
		if existing.Nickname == m.Nickname {
			return mysqlrepo.ErrDuplicateEntry
		}
	}
	cp := *m
	r.members[m.Username] = &cp
	return nil
}

func (r *memoryMemberRepo) GetMemberByID(ctx context.Context, memberID string, includeDeleted bool) (*entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.MemberID == memberID {
			if !includeDeleted && m.DeletedAt.Valid {
				return nil, commonerrors.ErrRepoNotFound
			}
			cp := *m
			return &cp, nil
		}
	}
	return nil, commonerrors.ErrRepoNotFound
}

func (r *memoryMemberRepo) GetMemberByUsername(ctx context.Context, username string, includeDeleted bool) (*entities.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[username]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	if !includeDeleted && m.DeletedAt.Valid {
		return nil, commonerrors.ErrRepoNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memoryMemberRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[username]
	return ok, nil
}

func (r *memoryMemberRepo) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryMemberRepo) UpdateMember(ctx context.Context, m *entities.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.members[m.Username] = &cp
	return nil
}

func (r *memoryMemberRepo) SoftDeleteMember(ctx context.Context, db *gorm.DB, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.MemberID == memberID && !m.DeletedAt.Valid {
			m.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
			return nil
		}
	}
	return commonerrors.ErrRepoNotFound
}

// byUsername 取出落库实体的一份拷贝，供断言读取验证令牌等内部状态。
func (r *memoryMemberRepo) byUsername(username string) *entities.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[username]
	if !ok {
		return nil
	}
	cp := *m
	return &cp
}

// memoryTokenStore 是 RefreshTokenRepo 的内存实现，保留覆盖写语义。
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]string)}
}

func (s *memoryTokenStore) SetRefreshToken(ctx context.Context, username string, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[username] = token
	return nil
}

func (s *memoryTokenStore) GetRefreshToken(ctx context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[username]
	if !ok {
		return "", commonerrors.ErrRepoNotFound
	}
	return token, nil
}

func (s *memoryTokenStore) DeleteRefreshToken(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, username)
	return nil
}

// nullMailClient 丢弃所有邮件，链路测试不关心投递。
type nullMailClient struct{}

func (nullMailClient) SendAsync(to string, subject string, htmlBody string) {}
func (nullMailClient) Send(to string, subject string, htmlBody string) error {
	return nil
}

func newFlowEnv(t *testing.T) (member.MemberIdentityService, AccountService, token.AuthTokenService, *memoryMemberRepo) {
	t.Helper()
	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)

	repo := newMemoryMemberRepo()
	store := newMemoryTokenStore()
	jwtUtil := dependencies.NewJWTUtility(&config.JWTConfig{
		SecretKey:         "access-secret-for-test",
		RefreshSecret:     "refresh-secret-for-test",
		Issuer:            "member_hub_test",
		AccessExpiration:  900,
		RefreshExpiration: 3600,
	})

	tokenSvc := token.NewAuthTokenService(jwtUtil, store, repo, logger)
	memberSvc := member.NewMemberIdentityService(
		repo,
		nullMailClient{},
		config.AppConfig{FrontendBaseURL: "https://bbs.example.com"},
		nil,
		logger,
	)
	accountSvc := NewAccountService(repo, tokenSvc, logger)
	return memberSvc, accountSvc, tokenSvc, repo
}

// 注册到刷新的完整链路: 注册后未验证不能登录，验证后登录拿到令牌对，
// 刷新轮换出新对之后，被轮换掉的旧刷新令牌复用时被判陈旧。
func TestRegisterVerifyLoginRefreshFlow(t *testing.T) {
	memberSvc, accountSvc, tokenSvc, repo := newFlowEnv(t)
	ctx := context.Background()

	// 1. 注册（用户名在服务层做小写规范化）
	info, err := memberSvc.Register(ctx, dto.MemberRegisterData{
		Username:        "Flow@Mail.com",
		Password:        "Secret1234",
		ConfirmPassword: "Secret1234",
		Nickname:        "flow",
	})
	require.NoError(t, err)
	assert.Equal(t, "flow@mail.com", info.Username)

	// 2. 未完成邮箱验证前登录被拒
	_, err = accountSvc.Login(ctx, dto.MemberLoginData{Username: "flow@mail.com", Password: "Secret1234"})
	assert.Equal(t, autherrors.KindAccountLocked, autherrors.KindOf(err))

	// 3. 用落库的验证令牌完成邮箱验证
	pending := repo.byUsername("flow@mail.com")
	require.NotNil(t, pending)
	require.NotNil(t, pending.Auth.EmailAuthToken)
	require.NoError(t, memberSvc.VerifyEmail(ctx, "flow@mail.com", *pending.Auth.EmailAuthToken))

	verified := repo.byUsername("flow@mail.com")
	require.NotNil(t, verified)
	assert.True(t, verified.Auth.Verified)

	// 4. 登录拿到第一对令牌
	resp, err := accountSvc.Login(ctx, dto.MemberLoginData{Username: "flow@mail.com", Password: "Secret1234"})
	require.NoError(t, err)
	first := resp.Token
	require.NotEmpty(t, first.AccessToken)
	require.NotEmpty(t, first.RefreshToken)

	// 5. 刷新轮换出第二对令牌
	second, err := tokenSvc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// 6. 被轮换掉的第一枚刷新令牌复用被判陈旧
	_, err = tokenSvc.RefreshToken(ctx, first.RefreshToken)
	assert.Equal(t, autherrors.KindInvalidToken, autherrors.KindOf(err))

	// 7. 最新的刷新令牌仍然可用
	_, err = tokenSvc.RefreshToken(ctx, second.RefreshToken)
	assert.NoError(t, err)
}
