package handler

import (
	"encoding/hex"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/kataras/iris/v12"
	logger "github.com/zerok-ai/zk-utils-go/logs"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"
	"k8s.io/utils/strings/slices"

	"github.com/zerok-ai/zk-otlp-verifier/common"
	"github.com/zerok-ai/zk-otlp-verifier/config"
	promMetrics "github.com/zerok-ai/zk-otlp-verifier/metrics"
	"github.com/zerok-ai/zk-otlp-verifier/model"
	"github.com/zerok-ai/zk-otlp-verifier/stores/badger"
	"github.com/zerok-ai/zk-otlp-verifier/transform"
	"github.com/zerok-ai/zk-otlp-verifier/verify"
)

var verifyLogTag = "VerifyHandler"
var delimiter = "__"
var podIp = os.Getenv("POD_IP")

// VerdictStore is the durable sink for flushed verdicts.
type VerdictStore interface {
	CheckRedisConnection() error
	PutVerdict(verdict model.SpanVerdict) error
	GetVerdicts(traceId string) (map[string]model.SpanVerdict, error)
	SyncPipeline()
}

// VerifyHandler checks incoming export payloads against the canonical mock
// span expectations and records a verdict per checked span.
type VerifyHandler struct {
	stagedVerdicts       sync.Map
	verdictStore         VerdictStore
	payloadBadgerHandler *badger.PayloadBadgerHandler
	otlpConfig           *config.OtlpConfig
}

// NewVerifyHandler builds a handler; either store may be nil, verdicts are
// then held in memory only.
func NewVerifyHandler(otlpConfig *config.OtlpConfig, verdictStore VerdictStore, payloadBadgerHandler *badger.PayloadBadgerHandler) *VerifyHandler {
	return &VerifyHandler{
		verdictStore:         verdictStore,
		payloadBadgerHandler: payloadBadgerHandler,
		otlpConfig:           otlpConfig,
	}
}

func (vh *VerifyHandler) ServeHTTP(ctx iris.Context) {
	promMetrics.TotalExportRequests.WithLabelValues(podIp).Inc()

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		promMetrics.TotalExportRequestsError.WithLabelValues(podIp).Inc()
		ctx.StatusCode(iris.StatusInternalServerError)
		return
	}

	if err := vh.HandleExportPayload(body); err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		return
	}

	ctx.StatusCode(iris.StatusOK)
}

// HandleExportPayload decodes a marshaled TracesData payload, records a
// verdict per verifiable span and flushes the staged verdicts.
func (vh *VerifyHandler) HandleExportPayload(body []byte) error {
	var traceData tracev1.TracesData
	if err := proto.Unmarshal(body, &traceData); err != nil {
		promMetrics.TotalExportRequestsError.WithLabelValues(podIp).Inc()
		return err
	}

	vh.ProcessTraceData(traceData.ResourceSpans)
	if err := vh.PushVerdicts(); err != nil {
		logger.Error(verifyLogTag, "Error while pushing verdicts to redis ", err)
	}
	return nil
}

// ProcessTraceData walks the resource/scope/span nesting and records a
// verdict for every span whose name is in the verifiable list.
func (vh *VerifyHandler) ProcessTraceData(resourceSpans []*tracev1.ResourceSpans) {
	var processedSpanCount = 0
	if len(resourceSpans) == 0 {
		logger.Info(verifyLogTag, "No resources found in the call")
		return
	}
	for _, resourceSpan := range resourceSpans {
		resourceErr := verify.CheckExportedResource(resourceSpan.Resource)
		if resourceErr != nil {
			logger.Debug(verifyLogTag, "Resource for service ", ResourceServiceName(resourceSpan), " failed verification: ", resourceErr)
		}
		for _, scopeSpans := range resourceSpan.ScopeSpans {
			for _, span := range scopeSpans.Spans {
				promMetrics.TotalSpansReceived.WithLabelValues(podIp).Inc()
				traceId := hex.EncodeToString(span.TraceId)
				spanId := hex.EncodeToString(span.SpanId)
				if traceId == "" || spanId == "" {
					logger.Warn(verifyLogTag, "TraceId or SpanId is empty for span ", span.Name)
					continue
				}

				if !slices.Contains(vh.otlpConfig.Verify.SpanNames, span.Name) {
					promMetrics.TotalSpansSkipped.WithLabelValues(podIp).Inc()
					logger.Debug(verifyLogTag, "Skipping span ", spanId, " with name ", span.Name)
					continue
				}

				processedSpanCount++
				verdict := vh.checkSpan(span, resourceErr)
				key := traceId + delimiter + spanId
				vh.stagedVerdicts.Store(key, verdict)

				vh.storePayload(traceId, spanId, span)
			}
		}
	}
	defer logger.InfoF(verifyLogTag, "Checked %v spans", processedSpanCount)
}

func (vh *VerifyHandler) checkSpan(span *tracev1.Span, resourceErr error) model.SpanVerdict {
	verdict := model.SpanVerdict{
		TraceId:   hex.EncodeToString(span.TraceId),
		SpanId:    hex.EncodeToString(span.SpanId),
		SpanName:  span.Name,
		Pass:      true,
		CheckedNs: uint64(time.Now().UnixNano()),
	}

	promMetrics.TotalSpansVerified.WithLabelValues(podIp).Inc()

	if err := verify.CheckExportedSpan(span); err != nil {
		verdict.Pass = false
		verdict.Failures = append(verdict.Failures, err.Error())
	}
	if resourceErr != nil {
		verdict.Pass = false
		verdict.Failures = append(verdict.Failures, "resource: "+resourceErr.Error())
	}

	if !verdict.Pass {
		promMetrics.TotalSpansFailed.WithLabelValues(podIp).Inc()
		logger.Info(verifyLogTag, "Span ", verdict.SpanId, " failed verification: ", verdict.Failures)
	}
	return verdict
}

func (vh *VerifyHandler) storePayload(traceId string, spanId string, span *tracev1.Span) {
	if vh.payloadBadgerHandler == nil {
		return
	}
	payload, err := proto.Marshal(span)
	if err != nil {
		logger.Error(verifyLogTag, "Error while marshaling span payload for spanId ", spanId, " error ", err)
		return
	}
	if err := vh.payloadBadgerHandler.PutSpanPayload(traceId, spanId, payload); err != nil {
		logger.Error(verifyLogTag, "Error while storing span payload for spanId ", spanId, " error ", err)
	}
}

// PushVerdicts flushes staged verdicts to the verdict store and prunes the
// flushed keys from the staging map. Without a store the verdicts stay staged
// for the in-memory fetch path.
func (vh *VerifyHandler) PushVerdicts() error {
	if vh.verdictStore == nil {
		return nil
	}

	var err error
	if err = vh.verdictStore.CheckRedisConnection(); err != nil {
		logger.Error(verifyLogTag, "Error while checking redis conn ", err)
		return err
	}

	var keysToDelete []string
	vh.stagedVerdicts.Range(func(key, value interface{}) bool {
		verdict := value.(model.SpanVerdict)
		if putErr := vh.verdictStore.PutVerdict(verdict); putErr != nil {
			logger.Debug(verifyLogTag, "Error while putting verdict to redis ", putErr)
			// Returning false to stop the iteration
			err = putErr
			return false
		}
		keysToDelete = append(keysToDelete, key.(string))
		return true
	})

	// Delete the flushed keys from the staging map after the iteration
	for _, key := range keysToDelete {
		vh.stagedVerdicts.Delete(key)
	}

	vh.verdictStore.SyncPipeline()
	return err
}

// GetVerdicts returns verdicts for the given traceIds, keyed by traceId.
// Flushed verdicts come from the verdict store, unflushed ones from the
// staging map.
func (vh *VerifyHandler) GetVerdicts(traceIds []string) map[string][]model.SpanVerdict {
	verdicts := map[string][]model.SpanVerdict{}
	flushed := map[string]bool{}

	if vh.verdictStore != nil {
		for _, traceId := range traceIds {
			stored, err := vh.verdictStore.GetVerdicts(traceId)
			if err != nil {
				logger.Error(verifyLogTag, "Error while fetching verdicts for traceId ", traceId, " error ", err)
				continue
			}
			for spanId, verdict := range stored {
				verdicts[traceId] = append(verdicts[traceId], verdict)
				flushed[traceId+delimiter+spanId] = true
			}
		}
	}

	vh.stagedVerdicts.Range(func(key, value interface{}) bool {
		verdict := value.(model.SpanVerdict)
		if !slices.Contains(traceIds, verdict.TraceId) {
			return true
		}
		if flushed[verdict.TraceId+delimiter+verdict.SpanId] {
			return true
		}
		verdicts[verdict.TraceId] = append(verdicts[verdict.TraceId], verdict)
		return true
	})
	return verdicts
}

// GetBulkPayloadsForPrefix returns raw stored payloads for the given trace
// prefixes from the badger store.
func (vh *VerifyHandler) GetBulkPayloadsForPrefix(prefixList []string) (map[string]string, error) {
	if vh.payloadBadgerHandler == nil {
		return map[string]string{}, nil
	}
	return vh.payloadBadgerHandler.GetBulkDataForPrefixList(prefixList)
}

// ResourceServiceName pulls service.name out of a resource attribute list,
// empty when unset.
func ResourceServiceName(resourceSpan *tracev1.ResourceSpans) string {
	if resourceSpan == nil || resourceSpan.Resource == nil {
		return ""
	}
	attrMap := transform.ConvertKVListToMap(resourceSpan.Resource.Attributes)
	if serviceName, ok := attrMap[common.OTelResourceServiceName].(string); ok {
		return serviceName
	}
	return ""
}
