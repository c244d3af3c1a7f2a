package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info  struct{ Title string }                `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "Campus Booking API", doc.Info.Title)

	routes := map[string][]string{
		"/health":                            {"get"},
		"/auth/signup":                       {"post"},
		"/auth/login":                        {"post"},
		"/events":                            {"get", "post"},
		"/events/{eventID}":                  {"get", "patch", "delete"},
		"/events/{eventID}/availability":     {"get"},
		"/events/{eventID}/tickets":          {"post"},
		"/tickets/me":                        {"get"},
		"/tickets/code/{code}":               {"get"},
		"/tickets/{ticketID}":                {"get"},
		"/tickets/{ticketID}/cancel":         {"post"},
		"/tickets/{ticketID}/redeem":         {"post"},
		"/event-requests":                    {"get", "post"},
		"/event-requests/{requestID}":        {"get"},
		"/event-requests/{requestID}/review": {"post"},
	}
	for path, methods := range routes {
		ops, ok := doc.Paths[path]
		require.True(t, ok, path)
		for _, m := range methods {
			assert.Contains(t, ops, m, path)
		}
	}
}
