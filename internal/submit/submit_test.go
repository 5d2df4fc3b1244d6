package submit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/huntboard/internal/hunt"
)

func TestBuildPayloadIncludesEveryItem(t *testing.T) {
	s := hunt.NewSeedState()
	s.Items[0].Found = true
	s.Items[0].Photo = []byte{0x01, 0x02}

	p := BuildPayload(&s)

	assert.Equal(t, 1, p.FoundCount)
	require.Len(t, p.Items, hunt.SeedItemCount)
	assert.Equal(t, s.Items[0].Title, p.Items[0].Title)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x01, 0x02}), p.Items[0].PhotoBase64)

	// Items without photos serialize an empty string, not null.
	for _, item := range p.Items[1:] {
		assert.Equal(t, "", item.PhotoBase64)
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"photoBase64":""`)
}

func TestHTTPSubmitterPostsJSON(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, srv.Client())
	s := hunt.NewSeedState()
	err := sub.Submit(context.Background(), BuildPayload(&s))

	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)

	var decoded Payload
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Len(t, decoded.Items, hunt.SeedItemCount)
}

func TestHTTPSubmitterIgnoresRemoteStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, srv.Client())
	s := hunt.NewSeedState()

	// Only transport failures fail a submission.
	assert.NoError(t, sub.Submit(context.Background(), BuildPayload(&s)))
}

func TestHTTPSubmitterReportsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Immediately closed: connections will be refused.

	sub := NewHTTPSubmitter(srv.URL, nil)
	s := hunt.NewSeedState()

	assert.Error(t, sub.Submit(context.Background(), BuildPayload(&s)))
}
