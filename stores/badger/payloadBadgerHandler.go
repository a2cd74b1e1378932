package badger

import (
	"time"

	badgerdb "github.com/dgraph-io/badger"
	logger "github.com/zerok-ai/zk-utils-go/logs"
	zktick "github.com/zerok-ai/zk-utils-go/ticker"

	"github.com/zerok-ai/zk-otlp-verifier/config"
)

var payloadBadgerHandlerLogTag = "PayloadBadgerHandler"

// PayloadBadgerHandler keeps the raw exported span protos so a failing
// verdict can be inspected against the bytes the exporter actually sent.
type PayloadBadgerHandler struct {
	db       *badgerdb.DB
	config   *config.OtlpConfig
	gcTicker *zktick.TickerTask
}

func NewPayloadBadgerHandler(otlpConfig *config.OtlpConfig) (*PayloadBadgerHandler, error) {
	opts := badgerdb.DefaultOptions(otlpConfig.Badger.Path)
	db, err := badgerdb.Open(opts)
	if err != nil {
		logger.Error(payloadBadgerHandlerLogTag, "Error while opening badger db ", err)
		return nil, err
	}

	handler := &PayloadBadgerHandler{
		db:     db,
		config: otlpConfig,
	}

	gcDuration := time.Duration(otlpConfig.Badger.GcDuration) * time.Second
	handler.gcTicker = zktick.GetNewTickerTask("badger_gc", gcDuration, handler.runValueLogGC)
	handler.gcTicker.Start()

	return handler, nil
}

// PutSpanPayload stores the marshaled span proto under traceId-o-spanId.
func (h *PayloadBadgerHandler) PutSpanPayload(traceId string, spanId string, payload []byte) error {
	key := traceId + "-o-" + spanId
	ttl := time.Duration(h.config.Traces.Ttl) * time.Second
	err := h.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(key), payload).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		logger.ErrorF(payloadBadgerHandlerLogTag, "Error while storing payload for key %s with error %v", key, err)
		return err
	}
	return nil
}

// GetBulkDataForPrefixList returns every stored payload whose key starts with
// one of the given prefixes.
func (h *PayloadBadgerHandler) GetBulkDataForPrefixList(prefixList []string) (map[string]string, error) {
	payloadMap := map[string]string{}
	err := h.db.View(func(txn *badgerdb.Txn) error {
		for _, prefix := range prefixList {
			it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
			prefixBytes := []byte(prefix)
			for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
				item := it.Item()
				value, err := item.ValueCopy(nil)
				if err != nil {
					it.Close()
					return err
				}
				payloadMap[string(item.Key())] = string(value)
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		logger.ErrorF(payloadBadgerHandlerLogTag, "Error while fetching payloads for prefix list %v with error %v", prefixList, err)
		return nil, err
	}
	return payloadMap, nil
}

func (h *PayloadBadgerHandler) runValueLogGC() {
	err := h.db.RunValueLogGC(0.5)
	if err != nil && err != badgerdb.ErrNoRewrite {
		logger.Error(payloadBadgerHandlerLogTag, "Error while running badger value log GC ", err)
	}
}

func (h *PayloadBadgerHandler) Shutdown() {
	h.gcTicker.Stop()
	if err := h.db.Close(); err != nil {
		logger.Error(payloadBadgerHandlerLogTag, "Error while closing badger db ", err)
	}
}
