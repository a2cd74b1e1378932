package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func TestCompareMetadataExactMatch(t *testing.T) {
	actual := metadata.New(map[string]string{"authorization": "token", "x-scope": "load"})
	expected := metadata.New(map[string]string{"authorization": "token", "x-scope": "load"})

	require.NoError(t, CompareMetadata(actual, expected))
}

func TestCompareMetadataIgnoresUserAgent(t *testing.T) {
	actual := metadata.New(map[string]string{"authorization": "token", "user-agent": "grpc-go/1.58.2"})
	expected := metadata.New(map[string]string{"authorization": "token", "user-agent": "something else entirely"})

	require.NoError(t, CompareMetadata(actual, expected))

	// The removal is a visible side effect on both inputs.
	assert.NotContains(t, actual, "user-agent")
	assert.NotContains(t, expected, "user-agent")
}

func TestCompareMetadataNilExpected(t *testing.T) {
	actual := metadata.New(map[string]string{"user-agent": "grpc-go/1.58.2"})
	require.NoError(t, CompareMetadata(actual, nil))

	actual = metadata.New(map[string]string{"authorization": "token"})
	err := CompareMetadata(actual, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `metadata "authorization" is unexpected`)
}

func TestCompareMetadataMismatches(t *testing.T) {
	actual := metadata.New(map[string]string{"authorization": "wrong"})
	expected := metadata.New(map[string]string{"authorization": "token"})
	err := CompareMetadata(actual, expected)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `metadata "authorization" is wrong`)

	actual = metadata.New(map[string]string{})
	expected = metadata.New(map[string]string{"authorization": "token"})
	err = CompareMetadata(actual, expected)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `metadata "authorization" is missing`)

	actual = metadata.MD{"x-scope": {"a", "b"}}
	expected = metadata.MD{"x-scope": {"a"}}
	err = CompareMetadata(actual, expected)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `metadata "x-scope" is wrong`)
}
