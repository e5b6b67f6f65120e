package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	// 使用 go-redis/v9
	"github.com/redis/go-redis/v9"

	// 引入公共错误包
	"github.com/Xushengqwer/go-common/commonerrors"

	"github.com/Xushengqwer/member_hub/constants" // 引入常量包获取前缀
)

// TODO: 考虑为刷新令牌记录使用单独的、启用持久化（RDB+AOF）的 Redis 实例。
// 原因: 防止 Redis 实例重启导致刷新令牌记录丢失。记录丢失后，所有持有未过期
// 刷新令牌的用户都会在下一次刷新时被迫重新登录。

// RefreshTokenRepo 定义了基于用户名的刷新令牌记录仓库接口。
// 语义约定:
//   - 每个用户名同一时刻最多只有一条受信任的刷新令牌记录；
//   - Set 采用覆盖写（last-writer-wins），签发新令牌即隐式吊销旧令牌；
//   - 记录通过 TTL 自动过期，TTL 应等于刷新令牌本身的有效期。
type RefreshTokenRepo interface {
	// SetRefreshToken 写入（或覆盖）指定用户名当前受信任的刷新令牌，并设置过期时间。
	// - username: 会员用户名，作为键。
	// - token: 刷新令牌字符串。
	// - ttl: 记录的存活时间，应等于刷新令牌的有效期。
	// - 如果 Redis 操作失败，则返回包装后的错误。
	SetRefreshToken(ctx context.Context, username string, token string, ttl time.Duration) error

	// GetRefreshToken 查询指定用户名当前受信任的刷新令牌。
	// - 如果记录不存在（已过期或已被删除），将返回 commonerrors.ErrRepoNotFound。
	// - 其他 Redis 查询错误将被包装后返回。
	GetRefreshToken(ctx context.Context, username string) (string, error)

	// DeleteRefreshToken 删除指定用户名的刷新令牌记录（退出登录 / 显式吊销）。
	// - 记录不存在不视为错误。
	// - 如果 Redis 操作失败，则返回包装后的错误。
	DeleteRefreshToken(ctx context.Context, username string) error
}

// refreshTokenRepo 是 RefreshTokenRepo 接口基于 go-redis/v9 的实现。
type refreshTokenRepo struct {
	client *redis.Client // client 是 Redis v9 客户端实例
}

// NewRefreshTokenRepo 创建一个新的 refreshTokenRepo 实例。
// - 依赖注入 Redis v9 客户端。
func NewRefreshTokenRepo(client *redis.Client) RefreshTokenRepo {
	return &refreshTokenRepo{client: client}
}

// buildKey 根据用户名生成用于 Redis 操作的键名。
// - 使用常量中定义的前缀，示例键: "refresh_token:alice@mail.com"
func (r *refreshTokenRepo) buildKey(username string) string {
	return constants.RefreshTokenKeyPrefix + ":" + username
}

// SetRefreshToken 实现接口方法，覆盖写入刷新令牌记录。
func (r *refreshTokenRepo) SetRefreshToken(ctx context.Context, username string, token string, ttl time.Duration) error {
	// 确保 TTL 是有效的正数，防止写入永不过期的记录
	if ttl <= 0 {
		return fmt.Errorf("refreshTokenRepo.SetRefreshToken: 无效的 TTL (%v)", ttl)
	}

	key := r.buildKey(username)
	// 直接 SET 覆盖旧值：签发新令牌即隐式吊销旧令牌（覆盖语义，并发时 last-writer-wins）
	if err := r.client.Set(ctx, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("refreshTokenRepo.SetRefreshToken: 写入刷新令牌失败 (username: %s): %w", username, err)
	}
	return nil
}

// GetRefreshToken 实现接口方法，查询刷新令牌记录。
func (r *refreshTokenRepo) GetRefreshToken(ctx context.Context, username string) (string, error) {
	key := r.buildKey(username)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Key 不存在，表示该用户名当前没有受信任的刷新令牌
			return "", commonerrors.ErrRepoNotFound
		}
		return "", fmt.Errorf("refreshTokenRepo.GetRefreshToken: 查询刷新令牌失败 (username: %s): %w", username, err)
	}
	return val, nil
}

// DeleteRefreshToken 实现接口方法，删除刷新令牌记录。
func (r *refreshTokenRepo) DeleteRefreshToken(ctx context.Context, username string) error {
	key := r.buildKey(username)
	// DEL 对不存在的 key 返回 0，不视为错误
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("refreshTokenRepo.DeleteRefreshToken: 删除刷新令牌失败 (username: %s): %w", username, err)
	}
	return nil
}
