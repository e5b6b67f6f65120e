package auth

import (
	"context"
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
	"github.com/Xushengqwer/member_hub/models/dto"
	"github.com/Xushengqwer/member_hub/models/entities"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/utils"
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

func newTestAccountService(t *testing.T) (AccountService, *mockMemberRepo, *mockTokenService) {
	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error"})
	require.NoError(t, err)

	repo := new(mockMemberRepo)
	tokens := new(mockTokenService)
	return NewAccountService(repo, tokens, logger), repo, tokens
}

func storedMember(t *testing.T, password string, verified bool) *entities.Member {
	hashed, err := utils.SetPassword(password)
	require.NoError(t, err)
	m := &entities.Member{
		MemberID:     "member-1",
		Username:     "alice@mail.com",
		PasswordHash: hashed,
		Nickname:     "alice",
		Role:         enums.RoleUser,
	}
	if verified {
		now := time.Now().Add(-time.Hour)
		m.Auth = entities.AuthInfo{Verified: true, VerifiedAt: &now}
	}
	return m
}

func TestLoginSuccess(t *testing.T) {
	svc, repo, tokens := newTestAccountService(t)

	repo.On("GetMemberByUsername", mock.Anything, "alice@mail.com", false).
		Return(storedMember(t, "Secret1234", true), nil)
	tokens.On("IssueTokenPair", mock.Anything, "alice@mail.com", enums.RoleUser).
		Return(vo.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil)

	resp, err := svc.Login(context.Background(), dto.MemberLoginData{
		Username: "Alice@Mail.com",
		Password: "Secret1234",
	})
	require.NoError(t, err)

	assert.Equal(t, "member-1", resp.Member.MemberID)
	assert.Equal(t, "at", resp.Token.AccessToken)
	assert.Equal(t, "rt", resp.Token.RefreshToken)
	tokens.AssertExpectations(t)
}

func TestLoginUnknownAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc, repo, tokens := newTestAccountService(t)

	repo.On("GetMemberByUsername", mock.Anything, "unknown@mail.com", false).
		Return(nil, commonerrors.ErrRepoNotFound)
	repo.On("GetMemberByUsername", mock.Anything, "alice@mail.com", false).
		Return(storedMember(t, "Secret1234", true), nil)

	_, errUnknown := svc.Login(context.Background(), dto.MemberLoginData{
		Username: "unknown@mail.com",
		Password: "Secret1234",
	})
	_, errWrongPassword := svc.Login(context.Background(), dto.MemberLoginData{
		Username: "alice@mail.com",
		Password: "WrongPass1",
	})

	// 两条失败路径返回完全相同的错误类别和消息，调用方无法区分账号是否存在
	require.Error(t, errUnknown)
	require.Error(t, errWrongPassword)
	assert.Equal(t, autherrors.KindCredentialMismatch, autherrors.KindOf(errUnknown))
	assert.Equal(t, autherrors.KindCredentialMismatch, autherrors.KindOf(errWrongPassword))
	assert.Equal(t, errUnknown.Error(), errWrongPassword.Error())

	tokens.AssertNotCalled(t, "IssueTokenPair", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginUnverifiedAccountIsLocked(t *testing.T) {
	svc, repo, tokens := newTestAccountService(t)

	repo.On("GetMemberByUsername", mock.Anything, "alice@mail.com", false).
		Return(storedMember(t, "Secret1234", false), nil)

	_, err := svc.Login(context.Background(), dto.MemberLoginData{
		Username: "alice@mail.com",
		Password: "Secret1234",
	})

	assert.Equal(t, autherrors.KindAccountLocked, autherrors.KindOf(err))
	tokens.AssertNotCalled(t, "IssueTokenPair", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginSoftDeletedMemberFails(t *testing.T) {
	svc, repo, tokens := newTestAccountService(t)

	// 软删除的身份在默认查询中即不存在，与未注册走同一条失败路径
	repo.On("GetMemberByUsername", mock.Anything, "alice@mail.com", false).
		Return(nil, commonerrors.ErrRepoNotFound)

	_, err := svc.Login(context.Background(), dto.MemberLoginData{
		Username: "alice@mail.com",
		Password: "Secret1234",
	})

	assert.Equal(t, autherrors.KindCredentialMismatch, autherrors.KindOf(err))
	tokens.AssertNotCalled(t, "IssueTokenPair", mock.Anything, mock.Anything, mock.Anything)
}
