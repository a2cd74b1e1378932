package verify

import (
	"fmt"

	"google.golang.org/grpc/metadata"

	"github.com/zerok-ai/zk-otlp-verifier/common"
)

// CompareMetadata checks the metadata a transport delivered against the
// metadata the exporter was configured to send. The user-agent entry is
// removed from both sides before comparing, its value varies with the
// transport build. A nil expected map is treated as empty.
func CompareMetadata(actual, expected metadata.MD) error {
	delete(actual, common.UserAgentHeaderKey)
	delete(expected, common.UserAgentHeaderKey)

	for key, wantValues := range expected {
		gotValues, ok := actual[key]
		if !ok {
			return fmt.Errorf("metadata %q is missing", key)
		}
		if len(gotValues) != len(wantValues) {
			return fmt.Errorf("metadata %q is wrong, got %v want %v", key, gotValues, wantValues)
		}
		for i := range wantValues {
			if gotValues[i] != wantValues[i] {
				return fmt.Errorf("metadata %q is wrong, got %v want %v", key, gotValues, wantValues)
			}
		}
	}
	for key := range actual {
		if _, ok := expected[key]; !ok {
			return fmt.Errorf("metadata %q is unexpected", key)
		}
	}
	return nil
}
