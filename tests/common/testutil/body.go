//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body before it is sent.
type Mutation = func(body map[string]any)

// RequestBody renders v the way a client would send it and applies muts in order.
func RequestBody(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err, "request body must marshal")
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body), "request body must be a JSON object")

	for _, mut := range muts {
		if mut != nil {
			mut(body)
		}
	}
	return body
}

func Set(key string, value any) Mutation {
	return func(body map[string]any) { body[key] = value }
}

func Drop(key string) Mutation {
	return func(body map[string]any) { delete(body, key) }
}
