// Package store 提供归一化元数据的键值存储：
// 内存实现用于测试/开发/原型，Redis 实现用于生产共享。
package store

import "context"

// KeyValueStore 是字节级键值存储抽象。
// ttl 单位为秒，省略或 <=0 表示永不过期。
type KeyValueStore interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl ...int) error
	Delete(ctx context.Context, key string) error
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error
}
