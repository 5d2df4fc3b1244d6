package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/huntboard/internal/events"
	"git.home.luguber.info/inful/huntboard/internal/hunt"
	"git.home.luguber.info/inful/huntboard/internal/state"
	"git.home.luguber.info/inful/huntboard/internal/storage"
	"git.home.luguber.info/inful/huntboard/internal/submit"
)

func testServer(t *testing.T) (*Server, *state.Tracker, *submit.FakeSubmitter) {
	t.Helper()
	fake := &submit.FakeSubmitter{}
	tracker := state.NewTracker(storage.NewMockStore(), fake, state.WithBus(events.NewBus()))
	require.NoError(t, tracker.Initialize(context.Background()))
	return NewServer(":0", tracker, events.NewBus()), tracker, fake
}

func pngUpload(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func TestGetHuntSnapshot(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/hunt", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	huntResp := decodeData[HuntResponse](t, rec)
	assert.Equal(t, 0, huntResp.FoundCount)
	assert.Equal(t, hunt.SeedItemCount, huntResp.Total)
	assert.Nil(t, huntResp.Reward)
	assert.Len(t, huntResp.Items, hunt.SeedItemCount)
	for _, item := range huntResp.Items {
		assert.False(t, item.Found)
		assert.False(t, item.HasPhoto)
	}
}

func TestMarkFoundAndPhotoRoundTrip(t *testing.T) {
	s, tracker, _ := testServer(t)
	id := tracker.Snapshot().Items[0].ID

	rec := doRequest(t, s, http.MethodPost, "/hunt/items/"+id+"/found", pngUpload(t))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, tracker.FoundCount())

	rec = doRequest(t, s, http.MethodGet, "/hunt/items/"+id+"/photo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0xff, 0xd8}, rec.Body.Bytes()[:2])
}

func TestMarkFoundUnknownIDIsSilent(t *testing.T) {
	s, tracker, _ := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/hunt/items/no-such-id/found", pngUpload(t))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, tracker.FoundCount())
}

func TestMarkFoundRejectsBadUpload(t *testing.T) {
	s, tracker, _ := testServer(t)
	id := tracker.Snapshot().Items[0].ID

	rec := doRequest(t, s, http.MethodPost, "/hunt/items/"+id+"/found", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/hunt/items/"+id+"/found", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearFoundAndReset(t *testing.T) {
	s, tracker, _ := testServer(t)
	items := tracker.Snapshot().Items

	for _, it := range items[:3] {
		doRequest(t, s, http.MethodPost, "/hunt/items/"+it.ID+"/found", pngUpload(t))
	}
	require.Equal(t, 3, tracker.FoundCount())

	rec := doRequest(t, s, http.MethodDelete, "/hunt/items/"+items[0].ID+"/found", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 2, tracker.FoundCount())

	rec = doRequest(t, s, http.MethodPost, "/hunt/reset", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, tracker.FoundCount())
}

func TestGetItemAndClue(t *testing.T) {
	s, tracker, _ := testServer(t)
	item := tracker.Snapshot().Items[0]

	rec := doRequest(t, s, http.MethodGet, "/hunt/items/"+item.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[ItemResponse](t, rec)
	assert.Equal(t, item.Title, got.Title)

	rec = doRequest(t, s, http.MethodGet, "/hunt/items/"+item.ID+"/clue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, item.Clue, rec.Body.String())

	rec = doRequest(t, s, http.MethodGet, "/hunt/items/"+item.ID+"/clue?format=html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<p>")

	rec = doRequest(t, s, http.MethodGet, "/hunt/items/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRewardEndpoint(t *testing.T) {
	s, tracker, _ := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/hunt/reward", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unlocked":false`)

	for _, it := range tracker.Snapshot().Items[:5] {
		doRequest(t, s, http.MethodPost, "/hunt/items/"+it.ID+"/found", pngUpload(t))
	}

	rec = doRequest(t, s, http.MethodGet, "/hunt/reward", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), hunt.RewardCodeDiscount10)
}

func TestSubmitEndpoint(t *testing.T) {
	s, tracker, fake := testServer(t)

	// Incomplete hunt is rejected before any network I/O.
	rec := doRequest(t, s, http.MethodPost, "/hunt/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, fake.Calls())

	for _, it := range tracker.Snapshot().Items {
		doRequest(t, s, http.MethodPost, "/hunt/items/"+it.ID+"/found", pngUpload(t))
	}

	rec = doRequest(t, s, http.MethodPost, "/hunt/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	outcome := decodeData[state.SubmitOutcome](t, rec)
	assert.True(t, outcome.OK)
	assert.Equal(t, "Submission successful!", outcome.Message)
	assert.Equal(t, 1, fake.Calls())
}

func TestHealth(t *testing.T) {
	s, _, _ := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
