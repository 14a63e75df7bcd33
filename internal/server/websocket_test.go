package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griefbot/memeforge/internal/pipeline"
	"github.com/griefbot/memeforge/internal/server"
	"github.com/griefbot/memeforge/pkg/api"
	"github.com/griefbot/memeforge/pkg/events"
)

type testSocketEnv struct {
	Server *httptest.Server
	Hub    *events.Hub
	Conn   *websocket.Conn
}

const wsReadTimeout = 500 * time.Millisecond

func (e *testSocketEnv) Cleanup() {
	if e.Conn != nil {
		_ = e.Conn.Close()
	}
	if e.Server != nil {
		e.Server.Close()
	}
	if e.Hub != nil {
		e.Hub.Close()
	}
}

func testSocket(t *testing.T, p *pipeline.Pipeline) *testSocketEnv {
	t.Helper()
	hub := events.NewHub()
	router := server.NewServer(p, hub, nil).SetupRoutes()
	srv := httptest.NewServer(router)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return &testSocketEnv{
		Server: srv,
		Hub:    hub,
		Conn:   conn,
	}
}

func stubHubPipeline(t *testing.T, hub *events.Hub) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New("meme-generation", []*pipeline.Step{
		{
			Name:   "render-meme",
			Input:  memeInput,
			Output: memeOutput,
			Handler: func(
				context.Context, api.Args,
			) (api.Args, error) {
				return api.Args{
					"imageUrl": "https://i.imgflip.com/ok.jpg",
					"pageUrl":  "https://imgflip.com/i/ok",
				}, nil
			},
		},
	}, pipeline.WithHub(hub))
	require.NoError(t, err)
	return p
}

func TestSocketIdle(t *testing.T) {
	env := testSocket(t, stubPipeline(t, nil))
	defer env.Cleanup()

	_ = env.Conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := env.Conn.ReadMessage()
	assert.Error(t, err, "no events means nothing to read")
}

func TestSocketReceivesPublishedEvent(t *testing.T) {
	env := testSocket(t, stubPipeline(t, nil))
	defer env.Cleanup()

	time.Sleep(50 * time.Millisecond)
	runID := api.NewRunID()
	env.Hub.Publish(events.RunStartedEvent("meme-generation", runID))

	_ = env.Conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	var ev events.Event
	require.NoError(t, env.Conn.ReadJSON(&ev))
	assert.Equal(t, events.RunStarted, ev.Type)
	assert.Equal(t, runID, ev.RunID)
	assert.Equal(t, api.Name("meme-generation"), ev.Pipeline)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestSocketStreamsRunLifecycle(t *testing.T) {
	hub := events.NewHub()
	p := stubHubPipeline(t, hub)
	router := server.NewServer(p, hub, nil).SetupRoutes()
	srv := httptest.NewServer(router)
	env := &testSocketEnv{Server: srv, Hub: hub}
	defer env.Cleanup()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	env.Conn = conn

	// let the server attach its consumer before publishing begins
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/meme", "application/json",
		strings.NewReader(`{"text": "meetings run over time"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	expected := []events.Type{
		events.RunStarted,
		events.StepStarted,
		events.StepCompleted,
		events.RunCompleted,
	}
	for _, want := range expected {
		_ = env.Conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		var ev events.Event
		require.NoError(t, env.Conn.ReadJSON(&ev))
		assert.Equal(t, want, ev.Type)
	}
}

func TestSocketPeerDisconnect(t *testing.T) {
	env := testSocket(t, stubPipeline(t, nil))
	defer env.Cleanup()

	_ = env.Conn.Close()

	// a second client still works after the first disconnects
	wsURL := "ws" + strings.TrimPrefix(env.Server.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	env.Conn = conn

	time.Sleep(50 * time.Millisecond)
	runID := api.NewRunID()
	env.Hub.Publish(events.RunStartedEvent("meme-generation", runID))

	_ = env.Conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	var ev events.Event
	require.NoError(t, env.Conn.ReadJSON(&ev))
	assert.Equal(t, runID, ev.RunID)
}
