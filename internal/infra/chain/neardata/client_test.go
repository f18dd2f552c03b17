package neardata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/ftindexer/internal/core/domain"
	"github.com/vietddude/ftindexer/internal/infra/chain"
)

const blockJSON = `{
  "block": {
    "author": "node0",
    "header": {
      "height": 129190044,
      "hash": "5rdXvqzKhSFG5UBrKh1gBjyDSv5DBbWAUsJ8r3xRBsAs",
      "timestamp": 1727606400123456789,
      "timestamp_nanosec": "1727606400123456789"
    },
    "chunks": []
  },
  "shards": [
    {
      "shard_id": 0,
      "chunk": null,
      "receipt_execution_outcomes": [
        {
          "execution_outcome": {
            "id": "rcpt1",
            "outcome": {
              "logs": ["EVENT_JSON:{\"standard\":\"nep141\",\"version\":\"1.0.0\",\"event\":\"ft_mint\",\"data\":[{\"owner_id\":\"bob.near\",\"amount\":\"100\"}]}"],
              "receipt_ids": [],
              "executor_id": "token.near",
              "status": {"SuccessValue": ""}
            }
          },
          "receipt": {
            "predecessor_id": "alice.near",
            "receiver_id": "token.near",
            "receipt_id": "rcpt1",
            "receipt": {
              "Action": {
                "signer_id": "alice.near",
                "signer_public_key": "ed25519:abc",
                "gas_price": "100000000",
                "actions": [
                  "CreateAccount",
                  {"Transfer": {"deposit": "1000000000000000000000000"}},
                  {"FunctionCall": {"method_name": "ft_transfer", "args": "e30=", "gas": 30000000000000, "deposit": "1"}},
                  {"AddKey": {"public_key": "ed25519:abc", "access_key": {"nonce": 0, "permission": "FullAccess"}}}
                ]
              }
            }
          },
          "tx_hash": "7xTxHash"
        }
      ]
    },
    {
      "shard_id": 1,
      "chunk": null,
      "receipt_execution_outcomes": [
        {
          "execution_outcome": {
            "id": "rcpt2",
            "outcome": {"logs": [], "executor_id": "bob.near", "status": {"Failure": {"ActionError": {}}}}
          },
          "receipt": {
            "predecessor_id": "system",
            "receiver_id": "bob.near",
            "receipt_id": "rcpt2",
            "receipt": {"Data": {"data_id": "abc", "data": null}}
          },
          "tx_hash": null
        },
        {
          "execution_outcome": {
            "id": "rcpt3",
            "outcome": {"logs": [], "executor_id": "bob.near", "status": "Unknown"}
          },
          "receipt": {
            "predecessor_id": "bob.near",
            "receiver_id": "bob.near",
            "receipt_id": "rcpt3",
            "receipt": {"Action": {"signer_id": "bob.near", "actions": []}}
          },
          "tx_hash": "8xTxHash"
        }
      ]
    }
  ]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{URL: server.URL + "/", Timeout: 2 * time.Second, RetryBase: time.Millisecond, MaxRetries: 3})
}

func TestClient_GetBlock(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/block/129190044", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(blockJSON))
	})

	block, err := c.GetBlock(context.Background(), 129190044)
	require.NoError(t, err)

	assert.Equal(t, uint64(129190044), block.Height)
	assert.Equal(t, "5rdXvqzKhSFG5UBrKh1gBjyDSv5DBbWAUsJ8r3xRBsAs", block.Hash)
	assert.Equal(t, uint64(1727606400123456789), block.TimestampNanosec)
	require.Len(t, block.Receipts, 3)

	first := block.Receipts[0]
	require.NotNil(t, first.Transaction)
	assert.Equal(t, "7xTxHash", first.Transaction.Hash)
	assert.Equal(t, domain.AccountID("alice.near"), first.Transaction.SignerID)

	r := first.Receipt
	assert.Equal(t, "rcpt1", r.ReceiptID)
	assert.Equal(t, domain.AccountID("alice.near"), r.PredecessorID)
	assert.Equal(t, domain.AccountID("token.near"), r.ReceiverID)
	assert.Equal(t, domain.AccountID("alice.near"), r.SignerID)
	assert.True(t, r.IsAction)
	assert.Equal(t, domain.StatusSuccessValue, r.Status)
	assert.Equal(t, uint64(129190044), r.BlockHeight)
	assert.Equal(t, uint64(1727606400123456789), r.BlockTimestampNanosec)
	require.Len(t, r.Logs, 1)

	require.Len(t, r.Actions, 4)
	assert.Equal(t, domain.ActionOther, r.Actions[0].Kind)
	assert.Equal(t, "CreateAccount", r.Actions[0].Name)
	assert.Equal(t, domain.ActionTransfer, r.Actions[1].Kind)
	assert.Equal(t, "1000000000000000000000000", r.Actions[1].Deposit.String())
	assert.Equal(t, domain.ActionFunctionCall, r.Actions[2].Kind)
	assert.Equal(t, "ft_transfer", r.Actions[2].MethodName)
	assert.Equal(t, "1", r.Actions[2].Deposit.String())
	assert.Equal(t, domain.ActionOther, r.Actions[3].Kind)
	assert.Equal(t, "AddKey", r.Actions[3].Name)

	data := block.Receipts[1]
	assert.Nil(t, data.Transaction)
	assert.False(t, data.Receipt.IsAction)
	assert.Equal(t, domain.StatusFailure, data.Receipt.Status)

	assert.Equal(t, domain.StatusUnknown, block.Receipts[2].Receipt.Status)
	assert.Empty(t, block.Receipts[2].Receipt.Actions)
}

func TestClient_GetBlock_Skipped(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})

	_, err := c.GetBlock(context.Background(), 5)
	assert.ErrorIs(t, err, chain.ErrBlockSkipped)
}

func TestClient_GetBlock_NotReady(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.GetBlock(context.Background(), 5)
	assert.ErrorIs(t, err, chain.ErrBlockNotReady)
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(blockJSON))
		}
	})

	block, err := c.GetBlock(context.Background(), 129190044)
	require.NoError(t, err)
	assert.Equal(t, uint64(129190044), block.Height)
	assert.Equal(t, int32(3), calls.Load())
	assert.InDelta(t, 2.0/3.0, c.GetHealth().ErrorRate, 0.001)
	// the final success restores availability
	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetBlock(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())
	assert.False(t, c.GetHealth().Available)
	assert.ErrorContains(t, c.Health(context.Background()), "unavailable")
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.GetBlock(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedBlock(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"block":{"header":{"height":1}},"shards":[{"receipt_execution_outcomes":[{"receipt":{"predecessor_id":"NOT VALID"}}]}]}`))
	})

	_, err := c.GetBlock(context.Background(), 1)
	assert.Error(t, err)
}

func TestClient_GetLatestBlock(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v0/last_block/final" {
			http.Redirect(w, r, "/v0/block/129190044", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte(blockJSON))
	})

	h, err := c.GetLatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(129190044), h)
	assert.Equal(t, c.endpoint, c.Name())
}

func TestClient_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	c := NewClient(Config{URL: server.URL, RateLimit: 20})
	start := time.Now()
	for i := range 5 {
		_, _ = c.GetBlock(context.Background(), uint64(i))
	}
	// burst of 20 covers all five
	assert.Less(t, time.Since(start), time.Second)
}
