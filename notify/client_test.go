package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seann-Moser/notify-mcp/oauth/oserver"
)

func TestListChannels(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/channels", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(ChannelPage{
			Channels:   []Channel{{ID: "C1", Name: "general"}, {ID: "C2", Name: "alerts", IsPrivate: true}},
			NextCursor: "cursor-2",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-token", nil)
	page, err := c.ListChannels(context.Background(), ListChannelsOptions{Limit: 50, Cursor: "cursor-1"})
	require.NoError(t, err)
	require.Len(t, page.Channels, 2)
	assert.Equal(t, "general", page.Channels[0].Name)
	assert.Equal(t, "cursor-2", page.NextCursor)
	assert.Equal(t, "Bearer service-token", gotAuth)
	assert.Contains(t, gotQuery, "limit=50")
	assert.Contains(t, gotQuery, "cursor=cursor-1")
}

func TestSendMessage(t *testing.T) {
	var gotBody sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(Message{ID: "M1", ChannelID: gotBody.ChannelID, Text: gotBody.Text, Timestamp: "1700000000.000100"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-token", nil)
	msg, err := c.SendMessage(context.Background(), "C1", "deploy finished")
	require.NoError(t, err)
	assert.Equal(t, "M1", msg.ID)
	assert.Equal(t, "C1", msg.ChannelID)
	assert.Equal(t, "deploy finished", msg.Text)
	assert.Equal(t, "C1", gotBody.ChannelID)
	assert.NotEmpty(t, gotBody.ClientMsgID, "each send carries a client_msg_id")
}

func TestForwardsAuthContextToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(ChannelPage{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-token", nil)
	ctx := oserver.WithAuthContext(context.Background(), &oserver.AuthContext{Token: "forwarded-token"})
	_, err := c.ListChannels(ctx, ListChannelsOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer forwarded-token", gotAuth, "validated request token wins over service token")
}

func TestAPIErrorSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(apiError{Err: "not_authed", Message: "invalid token"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token", nil)
	_, err := c.SendMessage(context.Background(), "C1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_authed")
}

func TestNonJSONErrorSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	_, err := c.ListChannels(context.Background(), ListChannelsOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
