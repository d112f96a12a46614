package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/prefabs"
	"github.com/milk9111/tilepath/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sim/ws?" + query
}

func TestStreamArenaUntilArrival(t *testing.T) {
	srv := httptest.NewServer(NewRouter(newTestService(t, 0)))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "level=arena&interval=0&frames=400"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var recs []system.FrameRecord
	for {
		var rec system.FrameRecord
		if err := conn.ReadJSON(&rec); err != nil {
			require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err)
			assert.Contains(t, err.Error(), "arrived")
			break
		}
		recs = append(recs, rec)
	}

	require.NotEmpty(t, recs)
	assert.Equal(t, 1, recs[0].Frame)
	assert.Equal(t, "arena", recs[0].Level)
	require.Len(t, recs[0].Events, 1)
	assert.Equal(t, ecs.PathEventFound, recs[0].Events[0].Kind)
	assert.Less(t, len(recs), 400)
}

func TestStreamFrameBudget(t *testing.T) {
	srv := httptest.NewServer(NewRouter(newTestService(t, 0)))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "level=corridor&interval=0&frames=3"), nil)
	require.NoError(t, err)
	defer conn.Close()

	n := 0
	for {
		var rec system.FrameRecord
		if err := conn.ReadJSON(&rec); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err)
			break
		}
		n++
	}
	assert.Equal(t, 3, n)
}

func TestStreamRejects(t *testing.T) {
	srv := httptest.NewServer(NewRouter(newTestService(t, 0)))
	defer srv.Close()

	cases := map[string]int{
		"level=nowhere":             http.StatusNotFound,
		"level=arena&frames=0":      http.StatusBadRequest,
		"level=arena&frames=x":      http.StatusBadRequest,
		"level=arena&interval=fast": http.StatusBadRequest,
		"level=arena&interval=-1s":  http.StatusBadRequest,
	}
	for query, code := range cases {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, query), nil)
		require.Error(t, err, query)
		require.NotNil(t, resp, query)
		assert.Equal(t, code, resp.StatusCode, query)
	}
}

// splitLevel walls the second agent off from the target with a solid column.
const splitLevel = `{
  "name": "split",
  "width": 8,
  "height": 2,
  "tile_size": 32,
  "layers": [[0,0,0,0,0,1,0,0,
              0,0,0,0,0,1,0,0]],
  "layer_meta": [{"name": "ground", "physics": true}],
  "entities": [
    {"type": "agent", "x": 16, "y": 16},
    {"type": "agent", "x": 208, "y": 16},
    {"type": "target", "x": 144, "y": 48}
  ]
}`

func TestStreamWaitsForEveryAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "split.json")
	require.NoError(t, os.WriteFile(path, []byte(splitLevel), 0o644))

	spec, err := prefabs.LoadNavigatorSpec("navigator.yaml")
	require.NoError(t, err)
	svc, err := NewService(spec, path)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(svc))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "level=split&interval=0&frames=300"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var recs []system.FrameRecord
	var closeErr error
	for {
		var rec system.FrameRecord
		if err := conn.ReadJSON(&rec); err != nil {
			closeErr = err
			break
		}
		recs = append(recs, rec)
	}

	require.True(t, websocket.IsCloseError(closeErr, websocket.CloseNormalClosure), closeErr)
	assert.Contains(t, closeErr.Error(), "done")
	assert.NotContains(t, closeErr.Error(), "arrived")
	require.Len(t, recs, 300)

	arrived := 0
	for _, rec := range recs {
		for _, evt := range rec.Events {
			if evt.Kind == ecs.PathEventArrived {
				arrived++
			}
		}
	}
	assert.Equal(t, 1, arrived, "only the reachable agent arrives")

	last := recs[len(recs)-1]
	require.Len(t, last.Agents, 2)
	for _, agent := range last.Agents {
		assert.False(t, agent.HasWaypoint)
	}
}

func TestArrivalsObserve(t *testing.T) {
	const a, b = ecs.Entity(2), ecs.Entity(3)
	agents := []system.AgentState{{Entity: a}, {Entity: b}}
	ev := func(e ecs.Entity, kind ecs.PathEventKind) []system.EventRecord {
		return []system.EventRecord{{Entity: e, Kind: kind}}
	}

	tests := []struct {
		name string
		recs []system.FrameRecord
		want bool
	}{
		{
			name: "no_events",
			recs: []system.FrameRecord{{Agents: agents}},
		},
		{
			name: "one_of_two",
			recs: []system.FrameRecord{{Agents: agents, Events: ev(a, ecs.PathEventArrived)}},
		},
		{
			name: "both",
			recs: []system.FrameRecord{
				{Agents: agents, Events: ev(a, ecs.PathEventArrived)},
				{Agents: agents, Events: ev(b, ecs.PathEventArrived)},
			},
			want: true,
		},
		{
			name: "left_again",
			recs: []system.FrameRecord{
				{Agents: agents, Events: ev(a, ecs.PathEventArrived)},
				{Agents: agents, Events: ev(b, ecs.PathEventArrived)},
				{Agents: agents, Events: ev(a, ecs.PathEventFound)},
			},
		},
		{
			name: "no_agents",
			recs: []system.FrameRecord{{Events: ev(a, ecs.PathEventArrived)}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen := arrivals{}
			var got bool
			for _, rec := range tc.recs {
				got = seen.observe(rec)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
