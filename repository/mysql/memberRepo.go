package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Xushengqwer/member_hub/models/entities"
)

// ErrDuplicateEntry 表示写入命中了唯一索引（用户名或昵称已被占用）。
// 服务层的预检查通过后，并发写入仍可能触发该冲突，由数据库唯一索引兜底。
var ErrDuplicateEntry = errors.New("唯一索引冲突")

// MySQL 唯一索引冲突的错误码（Duplicate entry）
const mysqlDupEntryNumber = 1062

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDupEntryNumber
}

// MemberRepository 定义了与会员身份（Member）数据存储相关的操作接口。
// - 它抽象了数据库交互的细节，允许服务层以统一的方式访问和管理会员身份数据。
// - 所有查询默认排除软删除的记录；需要包含软删除记录的查询通过 includeDeleted 参数显式声明。
type MemberRepository interface {
	// CreateMember 持久化一个新的会员身份记录。
	// - 接收应用上下文、可参与外部事务的 GORM 句柄和待创建的会员实体。
	// - 用户名/昵称的唯一性由数据库唯一索引兜底；冲突时返回包装了 ErrDuplicateEntry 的错误。
	CreateMember(ctx context.Context, db *gorm.DB, member *entities.Member) error

	// GetMemberByID 根据主键 ID 检索单个会员的完整信息。
	// - includeDeleted 为 true 时包含软删除的记录。
	// - 如果未找到匹配的会员，将返回 commonerrors.ErrRepoNotFound。
	// - 其他数据库错误将被包装后返回。
	GetMemberByID(ctx context.Context, memberID string, includeDeleted bool) (*entities.Member, error)

	// GetMemberByUsername 根据用户名（小写规范化后的邮箱）检索单个会员的完整信息。
	// - includeDeleted 为 true 时包含软删除的记录。
	// - 如果未找到匹配的会员，将返回 commonerrors.ErrRepoNotFound。
	// - 其他数据库错误将被包装后返回。
	GetMemberByUsername(ctx context.Context, username string, includeDeleted bool) (*entities.Member, error)

	// ExistsByUsername 检查指定用户名是否已被占用（含软删除的记录，用户名不可复用）。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByNickname 检查指定昵称是否已被占用（含软删除的记录，昵称不可复用）。
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)

	// UpdateMember 更新一个已存在的会员身份记录。
	// - 注意：此方法使用 GORM 的 Save，会更新所有字段。服务层应确保传入的实体是期望的状态。
	// - 如果数据库操作失败，则返回包装后的错误。
	UpdateMember(ctx context.Context, member *entities.Member) error

	// SoftDeleteMember 根据主键 ID 软删除一个会员记录（设置 deleted_at）。
	// - 记录不会被物理删除；被软删除的身份不允许再次认证。
	// - 如果数据库操作失败，则返回包装后的错误。
	SoftDeleteMember(ctx context.Context, db *gorm.DB, memberID string) error
}

// memberRepository 是 MemberRepository 接口基于 GORM 的实现。
type memberRepository struct {
	db *gorm.DB // db 是 GORM 数据库连接实例
}

// NewMemberRepository 创建一个新的 memberRepository 实例。
// - 依赖注入 GORM 数据库连接。
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// CreateMember 实现接口方法，持久化会员身份记录。
func (r *memberRepository) CreateMember(ctx context.Context, db *gorm.DB, member *entities.Member) error {
	// 执行数据库创建操作
	if err := db.WithContext(ctx).Create(member).Error; err != nil {
		// 唯一索引冲突单独识别，服务层据此返回业务冲突错误而非系统错误
		if isDuplicateEntry(err) {
			return fmt.Errorf("memberRepo.CreateMember: %w: %v", ErrDuplicateEntry, err)
		}
		// 包装创建操作时发生的错误，添加中文上下文信息
		return fmt.Errorf("memberRepo.CreateMember: 创建会员失败: %w", err)
	}
	// 操作成功，返回 nil
	return nil
}

// GetMemberByID 实现接口方法，根据 ID 获取会员信息。
func (r *memberRepository) GetMemberByID(ctx context.Context, memberID string, includeDeleted bool) (*entities.Member, error) {
	var member entities.Member

	query := r.db.WithContext(ctx)
	if includeDeleted {
		// Unscoped 使查询包含软删除的记录
		query = query.Unscoped()
	}

	err := query.Where("member_id = ?", memberID).First(&member).Error
	if err != nil {
		// 检查是否是 GORM 的“记录未找到”错误
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 根据约定，记录未找到时返回统一的公共错误
			return nil, commonerrors.ErrRepoNotFound
		}
		// 包装其他查询错误，添加中文上下文信息
		return nil, fmt.Errorf("memberRepo.GetMemberByID: 查询会员失败 (ID: %s): %w", memberID, err)
	}
	// 查询成功，返回找到的会员实体和 nil 错误
	return &member, nil
}

// GetMemberByUsername 实现接口方法，根据用户名获取会员信息。
func (r *memberRepository) GetMemberByUsername(ctx context.Context, username string, includeDeleted bool) (*entities.Member, error) {
	var member entities.Member

	query := r.db.WithContext(ctx)
	if includeDeleted {
		query = query.Unscoped()
	}

	err := query.Where("username = ?", username).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("memberRepo.GetMemberByUsername: 查询会员失败 (username: %s): %w", username, err)
	}
	return &member, nil
}

// ExistsByUsername 实现接口方法，检查用户名占用情况。
func (r *memberRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	// 包含软删除的记录：软删除的会员仍占用其用户名
	err := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Member{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("memberRepo.ExistsByUsername: 检查用户名占用失败 (username: %s): %w", username, err)
	}
	return count > 0, nil
}

// ExistsByNickname 实现接口方法，检查昵称占用情况。
func (r *memberRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Member{}).
		Where("nickname = ?", nickname).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("memberRepo.ExistsByNickname: 检查昵称占用失败 (nickname: %s): %w", nickname, err)
	}
	return count > 0, nil
}

// UpdateMember 实现接口方法，更新会员身份信息。
func (r *memberRepository) UpdateMember(ctx context.Context, member *entities.Member) error {
	// 注意：Save 会更新所有字段。确保调用方传入的是完整的、期望状态的实体。
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		// 昵称唯一索引在并发修改下仍可能冲突
		if isDuplicateEntry(err) {
			return fmt.Errorf("memberRepo.UpdateMember: %w: %v", ErrDuplicateEntry, err)
		}
		return fmt.Errorf("memberRepo.UpdateMember: 更新会员失败 (ID: %s): %w", member.MemberID, err)
	}
	return nil
}

// SoftDeleteMember 实现接口方法，软删除会员。
// - 使用传入的 db 对象执行操作，使其能够参与外部事务。
func (r *memberRepository) SoftDeleteMember(ctx context.Context, db *gorm.DB, memberID string) error {
	// 对于软删除模型 (Member 包含 gorm.DeletedAt)，GORM 的 Delete 会更新 deleted_at 字段。
	result := db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&entities.Member{})
	if result.Error != nil {
		return fmt.Errorf("memberRepo.SoftDeleteMember: 软删除会员失败 (ID: %s): %w", memberID, result.Error)
	}
	if result.RowsAffected == 0 {
		// 目标记录不存在或已被删除
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
