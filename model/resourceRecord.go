package model

// ResourceAttribute is one key/value entry of a resource. A slice keeps the
// emission order, which is part of the exporter contract.
type ResourceAttribute struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// ResourceRecord describes the entity reporting telemetry. Attributes are
// ordered: SDK identity entries first, user-supplied entries after.
type ResourceRecord struct {
	Attributes []ResourceAttribute `json:"attributes"`
}

// Get returns the value for key, nil when absent.
func (r ResourceRecord) Get(key string) interface{} {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return nil
}
