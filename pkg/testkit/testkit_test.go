package testkit_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/unistore/pkg/testkit"
)

var echo = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("Authorization") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":401,"message":"Unauthorized"}`)) //nolint:errcheck
		return
	}
	var body map[string]any
	json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"status": 200,
		"data": map[string]any{
			"method": r.Method,
			"key":    r.Header.Get("Idempotency-Key"),
			"body":   body,
		},
	})
})

func TestClientSendsTokenAndHeaders(t *testing.T) {
	api := testkit.New(t, echo)

	res := api.Get("/x").AssertStatus(http.StatusUnauthorized)
	assert.Equal(t, "Unauthorized", res.Message())

	res = api.As("tok").With("Idempotency-Key", "k1").Post("/x", map[string]any{"a": 1})
	res.AssertStatus(http.StatusOK)

	var data struct {
		Method string         `json:"method"`
		Key    string         `json:"key"`
		Body   map[string]any `json:"body"`
	}
	res.Data(&data)
	assert.Equal(t, http.MethodPost, data.Method)
	assert.Equal(t, "k1", data.Key)
	assert.Equal(t, 1.0, data.Body["a"])

	res.AssertJSONBody(`{"data":{"key":"k1","method":"POST","body":{"a":1}},"status":200}`)
}

func TestDiffJSON(t *testing.T) {
	var exp, act any
	json.Unmarshal([]byte(`{"a":1,"b":[1,2],"c":"x"}`), &exp) //nolint:errcheck
	json.Unmarshal([]byte(`{"a":2,"b":[1],"d":true}`), &act)  //nolint:errcheck

	diffs := testkit.DiffJSON("", exp, act)
	assert.Len(t, diffs, 3)
}
