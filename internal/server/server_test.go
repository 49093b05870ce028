package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/board"
	"github.com/rcliao/arsip-kita/internal/metrics"
	"github.com/rcliao/arsip-kita/internal/model"
	"github.com/rcliao/arsip-kita/internal/store"
)

func newTestServer(t *testing.T) (http.Handler, *board.Board) {
	t.Helper()
	s, err := store.NewSQLiteStore(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	b := board.New(board.Options{Store: s, Logger: zap.NewNop()})
	t.Cleanup(func() { b.Close() })

	srv := New(b, zap.NewNop(), metrics.NewCollector("test"), []string{"http://localhost:3000"})
	return srv.Handler(), b
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateAndList(t *testing.T) {
	h, b := newTestServer(t)

	w := do(t, h, "POST", "/api/memories", `{"content":"Hari ini bahagia","author":"Ana"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Memory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Hari ini bahagia", created.Content)
	assert.Equal(t, model.MoodNeutral, created.Mood)
	assert.Equal(t, "#f3f4f6", created.Color)

	w = do(t, h, "GET", "/api/memories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Memory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	b.Flush()
	w = do(t, h, "GET", "/api/memories/"+created.ID+"/write-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"persisted"`)
}

func TestCreateBlankReturnsNoContent(t *testing.T) {
	h, b := newTestServer(t)
	w := do(t, h, "POST", "/api/memories", `{"content":"   "}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, b.Memories())
}

func TestCreateValidation(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/api/memories", `{"content":"`+strings.Repeat("a", 301)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "content too long")

	w = do(t, h, "POST", "/api/memories", `{"content":"ok","author":"`+strings.Repeat("b", 51)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "author too long")

	w = do(t, h, "POST", "/api/memories", `{"author":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "content is required")

	w = do(t, h, "POST", "/api/memories", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateLimitsApplyAfterTrim(t *testing.T) {
	h, b := newTestServer(t)

	content := strings.Repeat("a", 300)
	w := do(t, h, "POST", "/api/memories", `{"content":"   `+content+`   ","author":"  Ana  "}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Memory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, content, created.Content)
	assert.Equal(t, "Ana", created.Author)
	assert.Len(t, b.Memories(), 1)
}

func TestDeleteFlow(t *testing.T) {
	h, b := newTestServer(t)
	m, err := b.Create(context.Background(), "X", "")
	require.NoError(t, err)

	w := do(t, h, "POST", "/api/memories/"+m.ID+"/delete", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"open":true,"target":"`+m.ID+`","error":false}`, w.Body.String())

	w = do(t, h, "POST", "/api/gate/confirm", `{"secret":"wrong"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Len(t, b.Memories(), 1)

	w = do(t, h, "GET", "/api/state", "")
	assert.Contains(t, w.Body.String(), `"error":true`)

	w = do(t, h, "POST", "/api/gate/confirm", `{"secret":"admin123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":true}`, w.Body.String())
	assert.Empty(t, b.Memories())
}

func TestConfirmWithoutPendingDelete(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "POST", "/api/gate/confirm", `{"secret":"admin123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, "POST", "/api/gate/confirm", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEmptySecretIsMismatch(t *testing.T) {
	h, b := newTestServer(t)
	m, err := b.Create(context.Background(), "X", "")
	require.NoError(t, err)
	b.RequestDelete(m.ID)

	w := do(t, h, "POST", "/api/gate/confirm", `{"secret":""}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	g := b.Gate()
	assert.True(t, g.Open)
	assert.True(t, g.Error)
	assert.Equal(t, m.ID, g.Target)
	assert.Len(t, b.Memories(), 1)
}

func TestCancel(t *testing.T) {
	h, b := newTestServer(t)
	b.RequestDelete("X")

	w := do(t, h, "POST", "/api/gate/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, b.Gate().Open)
}

func TestDraft(t *testing.T) {
	h, b := newTestServer(t)

	w := do(t, h, "PUT", "/api/draft", `{"content":"setengah jadi","author":"Ana"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, board.Draft{Content: "setengah jadi", Author: "Ana"}, b.Draft())

	w = do(t, h, "GET", "/api/state", "")
	var snap board.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "setengah jadi", snap.Draft.Content)
	assert.False(t, snap.Classifying)
}

func TestSubmitDraft(t *testing.T) {
	h, b := newTestServer(t)

	w := do(t, h, "PUT", "/api/draft", `{"content":"  lagi senang ","author":"Ana"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "POST", "/api/draft/submit", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Memory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "lagi senang", created.Content)
	assert.Equal(t, "Ana", created.Author)
	assert.Equal(t, board.Draft{}, b.Draft())
	assert.Len(t, b.Memories(), 1)

	w = do(t, h, "POST", "/api/draft/submit", "")
	assert.Equal(t, http.StatusNoContent, w.Code, "empty draft is a no-op")
	assert.Len(t, b.Memories(), 1)
}

func TestStreamWrites(t *testing.T) {
	h, b := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/writes", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	m, err := b.Create(context.Background(), "tersimpan", "")
	require.NoError(t, err)

	sc := bufio.NewScanner(resp.Body)
	var data string
	for sc.Scan() {
		if line := sc.Text(); strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NotEmpty(t, data, "no event received: %v", sc.Err())

	var ev board.WriteEvent
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, m.ID, ev.ID)
	assert.Equal(t, board.OpPut, ev.Op)
	assert.Equal(t, board.WritePersisted, ev.State)
}

func TestWriteStatusUnknown(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "GET", "/api/memories/nope/write-status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)
	do(t, h, "GET", "/health", "")

	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}
