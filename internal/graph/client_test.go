package graph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenSource string

func (ts fakeTokenSource) Token(ctx context.Context) (string, error) {
	if ts == "" {
		return "", errors.New("no token for you")
	}
	return string(ts), nil
}

const testPage = `{
	"@odata.context": "https://graph.microsoft.com/v1.0/$metadata#teams('T')/channels('C')/messages",
	"@odata.nextLink": "https://graph.microsoft.com/v1.0/teams/T/channels/C/messages?$skiptoken=opaque",
	"value": [
		{"id": "1", "createdDateTime": "2023-01-02T15:04:05Z", "from": {"user": {"displayName": "Spock"}}, "body": {"contentType": "html", "content": "<p>fascinating</p>"}},
		{"id": "2", "createdDateTime": "2023-01-02T15:05:06Z", "body": {"contentType": "text", "content": "hello"}}
	]
}`

func TestClient_Messages(t *testing.T) {
	var gotPath, gotAuth, gotTop string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotTop = r.URL.Query().Get("$top")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testPage))
	}))
	defer srv.Close()

	cl := New(fakeTokenSource("xoxpretend"), WithBaseURL(srv.URL))
	page, err := cl.Messages(t.Context(), "TEAM", "CHANNEL", 50)
	require.NoError(t, err)

	assert.Equal(t, "/teams/TEAM/channels/CHANNEL/messages", gotPath)
	assert.Equal(t, "Bearer xoxpretend", gotAuth)
	assert.Equal(t, "50", gotTop)

	assert.Len(t, page.Value, 2)
	assert.Equal(t, "Spock", page.Value[0].Sender())
	assert.Equal(t, "", page.Value[1].Sender())
	assert.NotEmpty(t, page.NextLink)
}

func TestClient_Replies(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"value": []}`))
	}))
	defer srv.Close()

	cl := New(fakeTokenSource("t"), WithBaseURL(srv.URL))
	page, err := cl.Replies(t.Context(), "T", "C", "1645551829971", 50)
	require.NoError(t, err)
	assert.Equal(t, "/teams/T/channels/C/messages/1645551829971/replies", gotPath)
	assert.Empty(t, page.Value)
}

func TestClient_errors(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		cl := New(fakeTokenSource("t"), WithBaseURL(srv.URL))
		_, err := cl.Messages(t.Context(), "T", "C", 50)
		var rle *RateLimitedError
		require.ErrorAs(t, err, &rle)
		assert.Equal(t, 30*time.Second, rle.RetryAfter)
	})
	t.Run("rate limited, no header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		cl := New(fakeTokenSource("t"), WithBaseURL(srv.URL))
		_, err := cl.Messages(t.Context(), "T", "C", 50)
		var rle *RateLimitedError
		require.ErrorAs(t, err, &rle)
		assert.Equal(t, defRetryAfter, rle.RetryAfter)
	})
	t.Run("server error carries the body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":"Forbidden"}}`))
		}))
		defer srv.Close()

		cl := New(fakeTokenSource("t"), WithBaseURL(srv.URL))
		_, err := cl.Messages(t.Context(), "T", "C", 50)
		var sce *StatusCodeError
		require.ErrorAs(t, err, &sce)
		assert.Equal(t, http.StatusForbidden, sce.Code)
		assert.Contains(t, sce.Body, "Forbidden")
	})
	t.Run("token source failure", func(t *testing.T) {
		cl := New(fakeTokenSource(""))
		_, err := cl.Messages(t.Context(), "T", "C", 50)
		assert.Error(t, err)
	})
}

func TestChatMessage_Datetime(t *testing.T) {
	m := ChatMessage{CreatedDateTime: "2023-01-02T15:04:05Z"}
	ts, err := m.Datetime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC), ts)

	_, err = ChatMessage{}.Datetime()
	assert.Error(t, err)
}
