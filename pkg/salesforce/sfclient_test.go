package salesforce

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSFClient returns a Client backed by an httptest server.
func newTestSFClient(t *testing.T, handler http.Handler, opts ...ClientOption) Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	sf, err := gosf.Init(gosf.Creds{
		AccessToken: "test-token",
		Domain:      ts.URL,
	},
		gosf.WithValidateAuthentication(false),
		gosf.WithRoundTripper(http.DefaultTransport),
	)
	require.NoError(t, err)
	require.NotNil(t, sf)

	return NewClient(sf, opts...)
}

func TestSFClient_Query(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/query")
		assert.Contains(t, r.URL.Query().Get("q"), "FROM Contact")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 1,
			"done":      true,
			"records": []map[string]any{
				{
					"attributes":          map[string]any{"type": "Contact"},
					"Id":                  "003xx",
					"Name":                "Jane Doe",
					"Apollo_Person_Id__c": "p1",
				},
			},
		})
	})

	client := newTestSFClient(t, handler)

	var contacts []Contact
	err := client.Query(context.Background(), "SELECT Id, Name FROM Contact", &contacts)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "003xx", contacts[0].ID)
	assert.Equal(t, "p1", contacts[0].ApolloPersonID)
}

func TestSFClient_Query_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"message": "invalid SOQL", "errorCode": "MALFORMED_QUERY"},
		})
	})

	client := newTestSFClient(t, handler)

	var contacts []Contact
	err := client.Query(context.Background(), "INVALID SOQL", &contacts)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sf: query")
}

func TestSFClient_InsertOne(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "003new",
				"success": true,
				"errors":  []any{},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestSFClient(t, handler)

	id, err := client.InsertOne(context.Background(), "Contact", map[string]any{"LastName": "Doe"})
	require.NoError(t, err)
	assert.Equal(t, "003new", id)
}

func TestSFClient_InsertOne_Failure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "",
				"success": false,
				"errors":  []map[string]any{{"message": "required field missing"}},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestSFClient(t, handler)

	_, err := client.InsertOne(context.Background(), "Contact", map[string]any{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert Contact failed")
}

func TestSFClient_UpdateOne(t *testing.T) {
	var body map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			assert.Contains(t, r.URL.Path, "/sobjects/Contact/003xx")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestSFClient(t, handler)

	fields := map[string]any{"Phone": "+15550001111"}
	err := client.UpdateOne(context.Background(), "Contact", "003xx", fields)
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", body["Phone"])
	_, mutated := fields["Id"]
	assert.False(t, mutated, "caller's field map must not be modified")
}

func TestSFClient_UpdateOne_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"message": "invalid field", "errorCode": "INVALID_FIELD"},
		})
	})

	client := newTestSFClient(t, handler)

	err := client.UpdateOne(context.Background(), "Contact", "003xx", map[string]any{"BadField": "value"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sf: update")
}

func TestSFClient_RateLimitRespectsContext(t *testing.T) {
	client := newTestSFClient(t, http.NotFoundHandler(), WithRateLimit(0.001))

	// First call consumes the single burst token; the query itself fails on 404.
	_ = client.Query(context.Background(), "SELECT Id FROM Contact", &[]Contact{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := client.Query(ctx, "SELECT Id FROM Contact", &[]Contact{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: rate limit")
}

func TestConnect_Validation(t *testing.T) {
	_, err := Connect(Creds{})
	assert.ErrorContains(t, err, "client id is required")

	_, err = Connect(Creds{ClientID: "abc"})
	assert.ErrorContains(t, err, "private key is required")
}
