package stub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(zerolog.Nop())
	s.now = func() time.Time { return time.Date(2026, 4, 1, 8, 0, 0, 123456000, time.UTC) }
	s.pick = func(int) int { return 4 }
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func createGoal(t *testing.T, s *Server, body string) map[string]any {
	t.Helper()
	resp, out := do(t, s, http.MethodPost, "/goals", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["success"])
	return out["goal"].(map[string]any)
}

func TestServer_Root(t *testing.T) {
	resp, out := do(t, testServer(t), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out["message"], "running")
}

func TestServer_CreateGoal(t *testing.T) {
	s := testServer(t)

	g := createGoal(t, s, `{"goal":"Drink water","goal_type":"daily","category":"health","priority":"high","target_date":"2026-12-31","description":null}`)

	assert.NotEmpty(t, g["id"])
	assert.Equal(t, "Drink water", g["goal"])
	assert.Equal(t, "daily", g["type"])
	assert.Equal(t, "2026-12-31T00:00:00", g["target_date"])
	assert.Nil(t, g["description"])
	assert.Equal(t, "2026-04-01T08:00:00.123456", g["created_at"])
	assert.Equal(t, false, g["completed"])
	assert.Equal(t, 0.0, g["progress"])
}

func TestServer_CreateGoal_RequiresText(t *testing.T) {
	resp, out := do(t, testServer(t), http.MethodPost, "/goals", `{"goal":"  ","goal_type":"daily"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, out["success"])
}

func TestServer_CompleteDailyIncrementsStreak(t *testing.T) {
	s := testServer(t)
	daily := createGoal(t, s, `{"goal":"Stretch","goal_type":"daily"}`)
	weekly := createGoal(t, s, `{"goal":"Hike","goal_type":"weekly"}`)

	_, out := do(t, s, http.MethodPut, "/goals/"+daily["id"].(string), `{"goal_id":"x","completed":true}`)
	g := out["goal"].(map[string]any)
	assert.Equal(t, 1.0, g["streak"])
	assert.Equal(t, 100.0, g["progress"])
	assert.NotNil(t, g["last_completed"])

	_, out = do(t, s, http.MethodPut, "/goals/"+weekly["id"].(string), `{"goal_id":"x","completed":true}`)
	assert.Equal(t, 0.0, out["goal"].(map[string]any)["streak"])

	_, out = do(t, s, http.MethodPut, "/goals/"+daily["id"].(string), `{"goal_id":"x","completed":false}`)
	g = out["goal"].(map[string]any)
	assert.Equal(t, 0.0, g["progress"])
	assert.Equal(t, 1.0, g["streak"])
}

func TestServer_ProgressClampsAndDerivesCompletion(t *testing.T) {
	s := testServer(t)
	id := createGoal(t, s, `{"goal":"Read","goal_type":"monthly"}`)["id"].(string)

	_, out := do(t, s, http.MethodPut, "/goals/"+id+"/progress", `{"goal_id":"`+id+`","progress":140}`)
	g := out["goal"].(map[string]any)
	assert.Equal(t, 100.0, g["progress"])
	assert.Equal(t, true, g["completed"])

	_, out = do(t, s, http.MethodPut, "/goals/"+id+"/progress", `{"goal_id":"`+id+`","progress":-5}`)
	g = out["goal"].(map[string]any)
	assert.Equal(t, 0.0, g["progress"])
	assert.Equal(t, false, g["completed"])
}

func TestServer_UnknownIDIsNotFound(t *testing.T) {
	s := testServer(t)
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPut, "/goals/nope", `{"goal_id":"nope","completed":true}`},
		{http.MethodPut, "/goals/nope/progress", `{"goal_id":"nope","progress":10}`},
		{http.MethodDelete, "/goals/nope", ""},
	} {
		resp, out := do(t, s, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.method+" "+tc.path)
		assert.Equal(t, false, out["success"])
	}
}

func TestServer_DeleteAndList(t *testing.T) {
	s := testServer(t)
	a := createGoal(t, s, `{"goal":"A","goal_type":"daily"}`)["id"].(string)
	createGoal(t, s, `{"goal":"B","goal_type":"daily"}`)

	resp, _ := do(t, s, http.MethodDelete, "/goals/"+a, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, out := do(t, s, http.MethodGet, "/goals", "")
	goals := out["goals"].([]any)
	require.Len(t, goals, 1)
	assert.Equal(t, "B", goals[0].(map[string]any)["goal"])
}

func TestServer_StatsAndCategories(t *testing.T) {
	s := testServer(t)
	a := createGoal(t, s, `{"goal":"A","goal_type":"daily","category":"health"}`)["id"].(string)
	b := createGoal(t, s, `{"goal":"B","goal_type":"daily","category":"health"}`)["id"].(string)
	createGoal(t, s, `{"goal":"C","goal_type":"weekly"}`)

	do(t, s, http.MethodPut, "/goals/"+a, `{"goal_id":"a","completed":true}`)
	do(t, s, http.MethodPut, "/goals/"+b+"/progress", `{"goal_id":"b","progress":25}`)

	_, out := do(t, s, http.MethodGet, "/goals/stats", "")
	assert.Equal(t, 3.0, out["total_goals"])
	assert.Equal(t, 1.0, out["completed_goals"])
	assert.InDelta(t, 33.33, out["completion_rate"], 0.01)
	assert.Equal(t, 41.7, out["average_progress"])
	assert.Equal(t, 1.0, out["total_streak"])

	_, out = do(t, s, http.MethodGet, "/goals/categories", "")
	cats := out["categories"].(map[string]any)
	assert.Equal(t, map[string]any{"total": 2.0, "completed": 1.0}, cats["health"])
	assert.Equal(t, map[string]any{"total": 1.0, "completed": 0.0}, cats[models.DefaultCategory])
}

func TestServer_MotivationAndCoach(t *testing.T) {
	s := testServer(t)

	_, out := do(t, s, http.MethodGet, "/motivation", "")
	assert.Equal(t, FallbackQuotes[4], out["quote"])

	_, out = do(t, s, http.MethodPost, "/coach", `{"message":"Help me create a MORNING routine","conversation_history":[]}`)
	assert.Contains(t, out["reply"], "morning routine")

	assert.Equal(t, DefaultReply, Reply("what now?"))
	assert.Contains(t, Reply("hello, any habit tips?"), "Hello!", "first keyword wins")
}

func TestServer_Fail(t *testing.T) {
	s := testServer(t)
	s.Fail(http.MethodGet, "/goals/stats", http.StatusServiceUnavailable)

	resp, out := do(t, s, http.MethodGet, "/goals/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, false, out["success"])

	s.Fail(http.MethodGet, "/goals/stats", 0)
	resp, _ = do(t, s, http.MethodGet, "/goals/stats", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDoer_DrivesRemoteClient(t *testing.T) {
	s := testServer(t)
	client := remote.NewClient("http://stub.local", 0, zerolog.Nop())
	client.SetHTTPClient(s.Doer())

	res := client.CreateGoal(testContext(t), models.GoalDraft{
		Text: "Drink water", Type: models.Daily, Category: "health", Priority: models.Medium, TargetDate: "2026-05-01",
	})
	require.True(t, res.IsOK(), res.String())
	assert.Equal(t, "2026-05-01T00:00:00", res.Payload.TargetDate)
	assert.Equal(t, 2026, res.Payload.CreatedAt.Year())
	require.NotNil(t, res.Payload.UpdatedAt)
	assert.Nil(t, res.Payload.LastCompleted)

	assert.True(t, client.DeleteGoal(testContext(t), "missing").IsRejected())
	assert.Equal(t, FallbackQuotes[4], client.FetchMotivation(testContext(t)).Payload)
}

// testContext returns a context canceled when the test finishes
// (stand-in for testing.T.Context, which needs Go 1.24).
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
