package redis

import (
	"context"
	"encoding/json"
	"time"

	logger "github.com/zerok-ai/zk-utils-go/logs"
	"github.com/zerok-ai/zk-utils-go/storage/redis/clientDBNames"

	"github.com/zerok-ai/zk-otlp-verifier/config"
	"github.com/zerok-ai/zk-otlp-verifier/model"
)

var verdictRedisHandlerLogTag = "VerdictRedisHandler"

// VerdictRedisHandler stores span verdicts as a per-trace hash, spanId to
// verdict JSON, with the configured ttl.
type VerdictRedisHandler struct {
	redisHandler *RedisHandler
	ctx          context.Context
	config       *config.OtlpConfig
}

func NewVerdictRedisHandler(otlpConfig *config.OtlpConfig) (*VerdictRedisHandler, error) {
	redisHandler, err := NewRedisHandler(&otlpConfig.Redis, clientDBNames.TraceDBName, otlpConfig.Traces.SyncDuration, otlpConfig.Traces.BatchSize, verdictRedisHandlerLogTag)
	if err != nil {
		logger.Error(verdictRedisHandlerLogTag, "Error while creating redis client ", err)
		return nil, err
	}

	handler := &VerdictRedisHandler{
		redisHandler: redisHandler,
		ctx:          context.Background(),
		config:       otlpConfig,
	}

	return handler, nil
}

func (h *VerdictRedisHandler) CheckRedisConnection() error {
	return h.redisHandler.CheckRedisConnection()
}

func (h *VerdictRedisHandler) PutVerdict(verdict model.SpanVerdict) error {
	verdictJSON, err := json.Marshal(verdict)
	if err != nil {
		logger.Debug(verdictRedisHandlerLogTag, "Error encoding verdict for spanId ", verdict.SpanId, " error ", err)
		return err
	}
	verdictJsonMap := map[string]string{verdict.SpanId: string(verdictJSON)}
	err = h.redisHandler.HMSetPipeline(verdict.TraceId, verdictJsonMap, time.Duration(h.config.Traces.Ttl)*time.Second)
	if err != nil {
		logger.Error(verdictRedisHandlerLogTag, "Error while setting verdict for traceId ", verdict.TraceId, " error ", err)
		return err
	}
	return nil
}

// GetVerdicts returns the stored verdicts of one trace, keyed by spanId.
func (h *VerdictRedisHandler) GetVerdicts(traceId string) (map[string]model.SpanVerdict, error) {
	verdictJsonMap, err := h.redisHandler.HGetAll(traceId)
	if err != nil {
		logger.Error(verdictRedisHandlerLogTag, "Error while fetching verdicts for traceId ", traceId, " error ", err)
		return nil, err
	}
	verdicts := make(map[string]model.SpanVerdict, len(verdictJsonMap))
	for spanId, verdictJSON := range verdictJsonMap {
		var verdict model.SpanVerdict
		if err := json.Unmarshal([]byte(verdictJSON), &verdict); err != nil {
			logger.Error(verdictRedisHandlerLogTag, "Error decoding verdict for spanId ", spanId, " error ", err)
			continue
		}
		verdicts[spanId] = verdict
	}
	return verdicts, nil
}

func (h *VerdictRedisHandler) SyncPipeline() {
	h.redisHandler.SyncPipeline()
}

func (h *VerdictRedisHandler) Shutdown() {
	h.redisHandler.Shutdown()
}
