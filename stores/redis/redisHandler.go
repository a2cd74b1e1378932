package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	logger "github.com/zerok-ai/zk-utils-go/logs"
	zkconfig "github.com/zerok-ai/zk-utils-go/storage/redis/config"
	zktick "github.com/zerok-ai/zk-utils-go/ticker"
)

var redisHandlerLogTag = "RedisHandler"

type RedisHandler struct {
	RedisClient *redis.Client
	ctx         context.Context
	config      *zkconfig.RedisConfig
	dbName      string
	Pipeline    redis.Pipeliner
	ticker      *zktick.TickerTask
	count       int
	batchSize   int
	tag         string
}

func NewRedisHandler(redisConfig *zkconfig.RedisConfig, dbName string, syncInterval int, batchSize int, tag string) (*RedisHandler, error) {
	handler := RedisHandler{
		ctx:    context.Background(),
		config: redisConfig,
		dbName: dbName,
	}

	err := handler.InitializeRedisConn()
	if err != nil {
		logger.Error(redisHandlerLogTag, "Error while initializing redis connection ", err)
		return nil, err
	}

	handler.Pipeline = handler.RedisClient.Pipeline()

	timerDuration := time.Duration(syncInterval) * time.Second
	handler.ticker = zktick.GetNewTickerTask("sync_pipeline", timerDuration, handler.SyncPipeline)
	handler.ticker.Start()

	handler.batchSize = batchSize
	handler.tag = tag

	return &handler, nil
}

func (h *RedisHandler) InitializeRedisConn() error {
	db := h.config.DBs[h.dbName]
	redisAddr := h.config.Host + ":" + h.config.Port
	opt := &redis.Options{
		Addr:     redisAddr,
		Password: h.config.Password,
		DB:       db,
	}
	h.RedisClient = redis.NewClient(opt)
	return h.PingRedis()
}

func (h *RedisHandler) PingRedis() error {
	if err := h.RedisClient.Ping(h.ctx).Err(); err != nil {
		logger.Error(redisHandlerLogTag, "Error caught while pinging redis ", err)
		return err
	}
	return nil
}

func (h *RedisHandler) CheckRedisConnection() error {
	return h.PingRedis()
}

// HMSetPipeline queues a hash write with a ttl, flushing when the batch fills.
func (h *RedisHandler) HMSetPipeline(key string, value map[string]string, ttl time.Duration) error {
	h.Pipeline.HSet(h.ctx, key, value)
	if ttl > 0 {
		h.Pipeline.Expire(h.ctx, key, ttl)
	}
	h.count++
	if h.count >= h.batchSize {
		h.SyncPipeline()
	}
	return nil
}

func (h *RedisHandler) HGetAll(key string) (map[string]string, error) {
	return h.RedisClient.HGetAll(h.ctx, key).Result()
}

func (h *RedisHandler) SyncPipeline() {
	if h.count == 0 {
		return
	}
	_, err := h.Pipeline.Exec(h.ctx)
	if err != nil && err != redis.Nil {
		logger.Error(redisHandlerLogTag, h.tag, " error while syncing pipeline ", err)
		return
	}
	logger.Debug(redisHandlerLogTag, h.tag, " synced pipeline with ", h.count, " commands")
	h.count = 0
}

func (h *RedisHandler) Shutdown() {
	h.ticker.Stop()
	h.SyncPipeline()
	if err := h.RedisClient.Close(); err != nil {
		logger.Error(redisHandlerLogTag, "Error while closing redis client ", err)
	}
}
