package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetValue 设置键值对
func SetValue(ctx context.Context, key string, value interface{}) error {
	return Rdb.Set(ctx, key, value, 0).Err()
}

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值
func GetValue(ctx context.Context, key string) (string, error) {
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetDel 原子读取并删除，回刷计数用
func GetDel(ctx context.Context, key string) (string, error) {
	value, err := Rdb.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// TryLock 基于 SetNX 的简易分布式锁，retryTimes 为 -1 表示无限重试
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		time.Sleep(time.Millisecond * 200)
	}
	return false, nil
}

// UnLock 释放锁，仅当持有者一致时删除
func UnLock(ctx context.Context, key string, value interface{}) {
	Rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}

// Incr 自增计数器
func Incr(ctx context.Context, key string) (int64, error) {
	return Rdb.Incr(ctx, key).Result()
}

// IncrBy 按步长自增
func IncrBy(ctx context.Context, key string, value int64) (int64, error) {
	return Rdb.IncrBy(ctx, key, value).Result()
}

// SAdd 向集合添加成员
func SAdd(ctx context.Context, key string, members ...string) error {
	return Rdb.SAdd(ctx, key, members).Err()
}

// SRem 从集合移除成员
func SRem(ctx context.Context, key string, members ...string) error {
	return Rdb.SRem(ctx, key, members).Err()
}

// SIsMember 判断成员是否在集合内
func SIsMember(ctx context.Context, key string, member string) (bool, error) {
	return Rdb.SIsMember(ctx, key, member).Result()
}

// GetSet 获取集合
func GetSet(ctx context.Context, key string) ([]string, error) {
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// HSet 设置哈希字段
func HSet(ctx context.Context, key, field string, value interface{}) error {
	return Rdb.HSet(ctx, key, field, value).Err()
}

// HGet 获取哈希字段
func HGet(ctx context.Context, key, field string) (string, error) {
	value, err := Rdb.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// HDel 删除哈希字段
func HDel(ctx context.Context, key string, fields ...string) error {
	return Rdb.HDel(ctx, key, fields...).Err()
}

// HGetAll 获取哈希全部字段
func HGetAll(ctx context.Context, key string) (map[string]string, error) {
	value, err := Rdb.HGetAll(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// ZAdd 向有序集合添加一个或多个成员，或者更新已存在成员的分数
func ZAdd(ctx context.Context, key string, score float64, member string) error {
	return Rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRem 从有序集合移除成员
func ZRem(ctx context.Context, key string, member string) error {
	return Rdb.ZRem(ctx, key, member).Err()
}

// Rename 重命名键
func Rename(ctx context.Context, oldKey string, newKey string) error {
	return Rdb.Rename(ctx, oldKey, newKey).Err()
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	return Rdb.Del(ctx, key).Err()
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}
