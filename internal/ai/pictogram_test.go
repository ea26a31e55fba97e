package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPictogramServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestPictogramSearchPrefersAACResults(t *testing.T) {
	srv := newPictogramServer(t, http.StatusOK,
		`[{"_id":100,"aac":false,"schematic":true},{"_id":200,"aac":true,"schematic":false},{"_id":300,"aac":false,"schematic":false}]`)
	defer srv.Close()

	client := NewPictogramClient(srv.URL, "https://static.example.org/pictograms", "en", time.Second, zap.NewNop())
	match, err := client.Search(context.Background(), "wash hands")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 200, match.ID)
	assert.Equal(t, "https://static.example.org/pictograms/200/200_300.png", match.URL)
}

func TestPictogramSearchFallsBackToSchematic(t *testing.T) {
	srv := newPictogramServer(t, http.StatusOK,
		`[{"_id":100,"aac":false,"schematic":false},{"_id":200,"aac":false,"schematic":true}]`)
	defer srv.Close()

	client := NewPictogramClient(srv.URL, "https://static.example.org", "en", time.Second, zap.NewNop())
	match, err := client.Search(context.Background(), "lunch")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 200, match.ID)
}

func TestPictogramSearchFirstResultWhenNoFlags(t *testing.T) {
	srv := newPictogramServer(t, http.StatusOK,
		`[{"_id":7,"aac":false,"schematic":false},{"_id":8,"aac":false,"schematic":false}]`)
	defer srv.Close()

	client := NewPictogramClient(srv.URL, "https://static.example.org", "en", time.Second, zap.NewNop())
	match, err := client.Search(context.Background(), "play")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 7, match.ID)
}

func TestPictogramSearchEmptyAndErrorResponsesDegrade(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"empty set", http.StatusOK, `[]`},
		{"not found", http.StatusNotFound, `{"message":"no results"}`},
		{"server error", http.StatusInternalServerError, `boom`},
		{"malformed body", http.StatusOK, `{"not":"an array"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newPictogramServer(t, tc.status, tc.body)
			defer srv.Close()

			client := NewPictogramClient(srv.URL, "https://static.example.org", "en", time.Second, zap.NewNop())
			match, err := client.Search(context.Background(), "anything")
			require.NoError(t, err)
			assert.Nil(t, match)
		})
	}
}

func TestPictogramSearchTimeoutDegradesToNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewPictogramClient(srv.URL, "https://static.example.org", "en", 20*time.Millisecond, zap.NewNop())
	match, err := client.Search(context.Background(), "slow")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestPictogramSearchBlankKeyword(t *testing.T) {
	client := NewPictogramClient("http://unused", "http://unused", "en", time.Second, zap.NewNop())
	match, err := client.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, match)
}
