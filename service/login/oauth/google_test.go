package oauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/autherrors"
	"github.com/Xushengqwer/member_hub/models/entities"
	myenums "github.com/Xushengqwer/member_hub/models/enums"
	"github.com/Xushengqwer/member_hub/models/vo"
)

type mockGoogleClient struct {
	mock.Mock
}

func (m *mockGoogleClient) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *mockGoogleClient) GetUserInfo(ctx context.Context, code string) (*dependencies.GoogleUserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dependencies.GoogleUserInfo), args.Error(1)
}

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

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) IssueTokenPair(ctx context.Context, username string, role enums.UserRole) (vo.TokenPair, error) {
	args := m.Called(ctx, username, role)
	return args.Get(0).(vo.TokenPair), args.Error(1)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, accessToken string) (*dependencies.CustomClaims, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dependencies.CustomClaims), args.Error(1)
}

func (m *mockTokenService) RefreshToken(ctx context.Context, refreshToken string) (vo.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(vo.TokenPair), args.Error(1)
}

func (m *mockTokenService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func newTestGoogleService(t *testing.T) (GoogleOAuthService, *mockGoogleClient, *mockMemberRepo, *mockTokenService) {
	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)

	google := new(mockGoogleClient)
	repo := new(mockMemberRepo)
	tokens := new(mockTokenService)
	svc := NewGoogleOAuthService(google, repo, tokens, nil, logger)
	return svc, google, repo, tokens
}

func TestLoginOrRegisterFirstLoginCreatesVerifiedMember(t *testing.T) {
	svc, google, repo, tokens := newTestGoogleService(t)
	ctx := context.Background()

	google.On("GetUserInfo", mock.Anything, "auth-code").Return(&dependencies.GoogleUserInfo{
		ID:    "1234567890",
		Email: "alice@gmail.com",
		Name:  "Alice",
	}, nil)

	var created *entities.Member
	repo.On("GetMemberByUsername", mock.Anything, "google_1234567890", false).
		Return(nil, commonerrors.ErrRepoNotFound)
	repo.On("ExistsByNickname", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("CreateMember", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*entities.Member)
		}).
		Return(nil)
	tokens.On("IssueTokenPair", mock.Anything, "google_1234567890", enums.RoleUser).
		Return(vo.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil)

	resp, err := svc.LoginOrRegister(ctx, "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "google_1234567890", resp.Member.Username)
	assert.Equal(t, "at", resp.Token.AccessToken)

	// 自动注册的账号直接视为已验证，关联信息创建时写入
	require.NotNil(t, created)
	assert.True(t, created.Auth.Verified)
	assert.NotNil(t, created.Auth.VerifiedAt)
	require.NotNil(t, created.Auth.OAuthProvider)
	assert.Equal(t, myenums.ProviderGoogle, *created.Auth.OAuthProvider)
	require.NotNil(t, created.Auth.OAuthProviderID)
	assert.Equal(t, "1234567890", *created.Auth.OAuthProviderID)
	assert.Contains(t, created.Nickname, "Alice")
	assert.NotEmpty(t, created.PasswordHash)
}

func TestLoginOrRegisterExistingMemberSkipsCreate(t *testing.T) {
	svc, google, repo, tokens := newTestGoogleService(t)

	google.On("GetUserInfo", mock.Anything, "auth-code").Return(&dependencies.GoogleUserInfo{
		ID:   "1234567890",
		Name: "Alice",
	}, nil)

	now := time.Now().Add(-time.Hour)
	provider := myenums.ProviderGoogle
	providerID := "1234567890"
	existing := &entities.Member{
		MemberID: "member-1",
		Username: "google_1234567890",
		Nickname: "Alice_abcd1234",
		Role:     enums.RoleUser,
		Auth: entities.AuthInfo{
			Verified:        true,
			VerifiedAt:      &now,
			OAuthProvider:   &provider,
			OAuthProviderID: &providerID,
		},
	}
	repo.On("GetMemberByUsername", mock.Anything, "google_1234567890", false).Return(existing, nil)
	tokens.On("IssueTokenPair", mock.Anything, "google_1234567890", enums.RoleUser).
		Return(vo.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil)

	resp, err := svc.LoginOrRegister(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "member-1", resp.Member.MemberID)
	repo.AssertNotCalled(t, "CreateMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginOrRegisterGoogleFailure(t *testing.T) {
	svc, google, _, _ := newTestGoogleService(t)

	google.On("GetUserInfo", mock.Anything, "bad-code").Return(nil, errors.New("exchange failed"))

	_, err := svc.LoginOrRegister(context.Background(), "bad-code")
	assert.ErrorIs(t, err, autherrors.ErrThirdParty)
	assert.Equal(t, autherrors.KindThirdParty, autherrors.KindOf(err))
}

func TestLoginOrRegisterRetriesNicknameOnConflict(t *testing.T) {
	svc, google, repo, tokens := newTestGoogleService(t)

	google.On("GetUserInfo", mock.Anything, "auth-code").Return(&dependencies.GoogleUserInfo{
		ID:   "1234567890",
		Name: "Alice",
	}, nil)

	repo.On("GetMemberByUsername", mock.Anything, "google_1234567890", false).
		Return(nil, commonerrors.ErrRepoNotFound)
	// 第一个候选昵称冲突，第二个可用
	repo.On("ExistsByNickname", mock.Anything, mock.Anything).Return(true, nil).Once()
	repo.On("ExistsByNickname", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("CreateMember", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	tokens.On("IssueTokenPair", mock.Anything, "google_1234567890", enums.RoleUser).
		Return(vo.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil)

	_, err := svc.LoginOrRegister(context.Background(), "auth-code")
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "ExistsByNickname", 2)
}

func TestAuthCodeURLDelegatesToClient(t *testing.T) {
	svc, google, _, _ := newTestGoogleService(t)

	google.On("AuthCodeURL", "state-1").Return("https://accounts.google.com/o/oauth2/auth?state=state-1")

	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?state=state-1", svc.AuthCodeURL("state-1"))
}
