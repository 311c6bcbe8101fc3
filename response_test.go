package runway

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestResponseCaseCrossCompatibility(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{
		"jobName": "train",
		"cpuRequest": 2,
		"nested": {"innerValue": {"deepKey": true}}
	}`), nil)

	for _, key := range []string{"jobName", "job_name"} {
		v, err := r.Index(key)
		require.NoError(t, err)
		assert.Equal(t, "train", v)

		v, err = r.Field(key)
		require.NoError(t, err)
		assert.Equal(t, "train", v)
	}

	nested, err := r.Field("nested")
	require.NoError(t, err)
	inner := nested.(*Response)

	for _, key := range []string{"innerValue", "inner_value"} {
		v, err := inner.Index(key)
		require.NoError(t, err)
		deep := v.(*Response)
		for _, deepKey := range []string{"deepKey", "deep_key"} {
			dv, err := deep.Field(deepKey)
			require.NoError(t, err)
			assert.Equal(t, true, dv)
		}
	}
}

func TestResponseCaseExemptSubtrees(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{
		"environmentVariables": {"MY_VAR": "1", "MixedCase": "2"},
		"arguments": {"INPUT_PATH": {"NESTED_KEY": "deep"}}
	}`), nil)

	env, err := r.Field("environment_variables")
	require.NoError(t, err)
	envResp := env.(*Response)

	v, err := envResp.Index("MY_VAR")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// The verbatim keys must not grow folded aliases.
	_, err = envResp.Index("my_var")
	assert.Error(t, err)
	_, err = envResp.Index("mixed_case")
	assert.Error(t, err)

	// Suppression continues below the exempt key.
	args, err := r.Field("arguments")
	require.NoError(t, err)
	input, err := args.(*Response).Index("INPUT_PATH")
	require.NoError(t, err)
	deep, err := input.(*Response).Index("NESTED_KEY")
	require.NoError(t, err)
	assert.Equal(t, "deep", deep)
	_, err = input.(*Response).Index("nested_key")
	assert.Error(t, err)
}

func TestResponseListElementWrapping(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"runItems": [{"runId": 1}, "plain", 7]}`), nil)

	v, err := r.Field("run_items")
	require.NoError(t, err)
	items := v.([]any)
	require.Len(t, items, 3)

	first := items[0].(*Response)
	id, err := first.Field("run_id")
	require.NoError(t, err)
	assert.Equal(t, float64(1), id)

	assert.Equal(t, "plain", items[1])
	assert.Equal(t, float64(7), items[2])
}

func TestResponseImmutable(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"jobName": "train"}`), nil)

	err := r.Set("jobName", "other")
	assert.ErrorIs(t, err, ErrImmutable)
	err = r.SetField("job_name", "other")
	assert.ErrorIs(t, err, ErrImmutable)

	// No observable change.
	v, err := r.Field("job_name")
	require.NoError(t, err)
	assert.Equal(t, "train", v)
}

func TestResponseAsMapReturnsIndependentCopies(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"jobName": "train", "spec": {"cpuCount": 2}}`), nil)

	first := r.AsMap(true)
	second := r.AsMap(true)
	assert.Equal(t, first, second)

	first["job_name"] = "mutated"
	first["spec"].(map[string]any)["cpu_count"] = float64(99)

	assert.Equal(t, "train", second["job_name"])
	assert.Equal(t, float64(2), second["spec"].(map[string]any)["cpu_count"])

	v, err := r.Field("job_name")
	require.NoError(t, err)
	assert.Equal(t, "train", v)
}

func TestResponseAsMapOriginalCasing(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"jobName": "train"}`), nil)

	orig := r.AsMap(false)
	assert.Equal(t, map[string]any{"jobName": "train"}, orig)

	snake := r.AsMap(true)
	assert.Equal(t, map[string]any{"job_name": "train"}, snake)
}

func TestResponseEqual(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"jobName": "train", "spec": {"cpuCount": 2}}`), nil)
	other := NewResponse(decodeJSON(t, `{"jobName": "train", "spec": {"cpuCount": 2}}`), nil)

	eq, err := r.Equal(other)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = r.Equal(map[string]any{
		"job_name": "train",
		"spec":     map[string]any{"cpu_count": float64(2)},
	})
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = r.Equal(map[string]any{"job_name": "other"})
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = r.Equal(42)
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestResponseRateLimitHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-RateLimit-Remaining", "41")
	h.Set("X-RateLimit-Limit", "100")

	r := NewResponse(decodeJSON(t, `{}`), h)
	remaining, ok := r.RateLimitRemaining()
	require.True(t, ok)
	assert.Equal(t, 41, remaining)
	limit, ok := r.RateLimitLimit()
	require.True(t, ok)
	assert.Equal(t, 100, limit)

	bare := NewResponse(decodeJSON(t, `{}`), http.Header{})
	_, ok = bare.RateLimitRemaining()
	assert.False(t, ok)
	_, ok = bare.RateLimitLimit()
	assert.False(t, ok)
}

func TestResponseJSONValueUnwrapping(t *testing.T) {
	doc := `{"name": "settings", "value": {"fooBar": {"innerKey": 1}}}`

	// Explicit flag from the caller that issued a JSON-values call.
	r := NewResponse(decodeJSON(t, doc), nil, WithJSONValue())
	v, err := r.Field("value")
	require.NoError(t, err)
	plain, ok := v.(map[string]any)
	require.True(t, ok, "value must stay a plain map, got %T", v)
	assert.Equal(t, map[string]any{"innerKey": 1.0}, plain["fooBar"])

	// objectType marker triggers the same treatment.
	marked := NewResponse(decodeJSON(t, `{"objectType": "JSONValue", "value": [1, {"a": 2}]}`), nil)
	mv, err := marked.Field("value")
	require.NoError(t, err)
	list, ok := mv.([]any)
	require.True(t, ok)
	assert.IsType(t, map[string]any{}, list[1])
}

func TestResponseMissingKeyErrors(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"jobName": "train"}`), nil)

	_, err := r.Field("absent")
	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "absent", fieldErr.Name)

	_, err = r.Index("absent")
	var keyErr *KeyError
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, "absent", keyErr.Key)
}

func TestResponseLookupAndDefaults(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"jobName": "train"}`), nil)

	v, ok := r.Lookup("job_name")
	require.True(t, ok)
	assert.Equal(t, "train", v)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, "fallback", r.GetDefault("missing", "fallback"))
	assert.Equal(t, "train", r.GetDefault("jobName", "fallback"))
}

func TestResponseKeysAndLen(t *testing.T) {
	r := NewResponse(decodeJSON(t, `{"jobName": "a", "runCount": 1}`), nil)
	assert.Equal(t, []string{"job_name", "run_count"}, r.Keys())
	assert.Equal(t, 2, r.Len())
}

func TestResponseListMode(t *testing.T) {
	r := NewResponse(decodeJSON(t, `[{"runId": 1}, {"runId": 2}]`), nil)
	require.True(t, r.IsList())
	assert.Equal(t, 2, r.Len())

	items := r.Items()
	require.Len(t, items, 2)
	id, err := items[1].(*Response).Field("run_id")
	require.NoError(t, err)
	assert.Equal(t, float64(2), id)

	exported := r.AsSlice(true)
	assert.Equal(t, []any{
		map[string]any{"run_id": float64(1)},
		map[string]any{"run_id": float64(2)},
	}, exported)
}
