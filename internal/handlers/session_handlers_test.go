package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-live/internal/ai"
	"classroom-live/internal/models"
	"classroom-live/internal/services"
	"classroom-live/internal/sound"
)

func testServer(t *testing.T) (*httptest.Server, *services.SessionManager, *clock.Mock) {
	t.Helper()

	mock := clock.NewMock()
	wsService := services.NewWebSocketService()
	go wsService.Run()

	aiClient := ai.NewClient("http://unused", "", "test-model", true)
	manager := services.NewSessionManager(mock, nil, nil, wsService, aiClient)
	t.Cleanup(manager.CloseAll)

	router := SetupRoutes(
		NewSessionHandler(manager),
		NewStoreHandler(nil),
		NewSoundHandler(sound.NewSynth()),
		NewWebSocketHandler(wsService, manager),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, manager, mock
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestGetStateDefaults(t *testing.T) {
	server, _, _ := testServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/classes/c1/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state SessionState
	decodeBody(t, resp, &state)
	assert.Equal(t, services.ToolNone, state.ActiveTool)
	assert.Equal(t, "green", state.TrafficLight)
	assert.False(t, state.PenActive)
	require.NotNil(t, state.Deck)
	assert.Len(t, state.Deck.Pages, 1)
	assert.Equal(t, services.QuizAwaitingInput, state.Quiz.State)
}

func TestDeckNavigation(t *testing.T) {
	server, _, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPost, base+"/deck/pages", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/deck/goto", GoToRequest{Index: 99})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var nav map[string]int
	decodeBody(t, resp, &nav)
	assert.Equal(t, 1, nav["currentIndex"], "navigation clamps past the end")

	resp = doJSON(t, http.MethodPut, base+"/deck/content", ContentRequest{
		Kind: models.ContentImage,
		Ref:  "slide.png",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deck models.DeckSnapshot
	decodeBody(t, resp, &deck)
	assert.Equal(t, "slide.png", deck.Pages[1].ContentRef)

	resp = doJSON(t, http.MethodDelete, base+"/deck/pages/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &deck)
	assert.Len(t, deck.Pages, 1)
}

func TestSetContentRejectsUnknownKind(t *testing.T) {
	server, _, _ := testServer(t)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/classes/c1/deck/content",
		map[string]string{"kind": "hologram"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestOverlayToggleFlow(t *testing.T) {
	server, _, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPost, base+"/overlay/toggle", ToggleRequest{Tool: services.ToolPicker})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled map[string]services.OverlayTool
	decodeBody(t, resp, &toggled)
	assert.Equal(t, services.ToolPicker, toggled["activeTool"])

	resp = doJSON(t, http.MethodPost, base+"/overlay/toggle", ToggleRequest{Tool: services.ToolPicker})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &toggled)
	assert.Equal(t, services.ToolNone, toggled["activeTool"])

	resp = doJSON(t, http.MethodPost, base+"/overlay/toggle", ToggleRequest{Tool: "jukebox"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTrafficLightValidation(t *testing.T) {
	server, _, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPost, base+"/trafficlight", TrafficLightRequest{Color: "red"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/trafficlight", map[string]string{"color": "purple"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPickerSpinWithoutStudents(t *testing.T) {
	server, _, _ := testServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/classes/c1/picker/spin", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPickerSpinFlow(t *testing.T) {
	server, _, mock := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPut, base+"/roster", RosterRequest{
		Students: []*models.Student{{Name: "Amal"}, {Name: "Badr"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/picker/spin", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	mock.Add(3 * time.Second)

	resp = doJSON(t, http.MethodGet, base+"/picker", nil)
	var picker map[string]any
	decodeBody(t, resp, &picker)
	assert.Equal(t, false, picker["rolling"])
	assert.Contains(t, []string{"Amal", "Badr"}, picker["winner"])
}

func TestTimerEndpoints(t *testing.T) {
	server, _, mock := testServer(t)
	base := server.URL + "/api/classes/c1"

	seconds := 90
	resp := doJSON(t, http.MethodPut, base+"/timer", TimerRequest{Seconds: &seconds})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/timer/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mock.Add(10 * time.Second)

	resp = doJSON(t, http.MethodGet, base+"/timer", nil)
	var timer map[string]any
	decodeBody(t, resp, &timer)
	assert.Equal(t, float64(80), timer["timeLeft"])
	assert.Equal(t, true, timer["active"])

	resp = doJSON(t, http.MethodPost, base+"/timer/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &timer)
	assert.Equal(t, float64(90), timer["timeLeft"])
	assert.Equal(t, false, timer["active"])

	// A set with neither field is rejected.
	resp = doJSON(t, http.MethodPut, base+"/timer", TimerRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPollEndpoints(t *testing.T) {
	server, _, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPost, base+"/poll/vote", VoteRequest{Option: "B"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var counts map[string]int
	decodeBody(t, resp, &counts)
	assert.Equal(t, 1, counts["B"])

	resp = doJSON(t, http.MethodPost, base+"/poll/vote", map[string]string{"option": "E"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/poll/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &counts)
	assert.Equal(t, 0, counts["B"])
}

func TestHallPassEndpoints(t *testing.T) {
	server, _, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPost, base+"/hallpass", HallPassRequest{StudentName: "Amal"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pass models.HallPass
	decodeBody(t, resp, &pass)
	require.NotEmpty(t, pass.ID)

	resp = doJSON(t, http.MethodDelete, base+"/hallpass/"+pass.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, base+"/hallpass/"+pass.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExitTicketEndpoints(t *testing.T) {
	server, _, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPost, base+"/exitticket", ExitTicketRequest{Question: "Main idea?"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/exitticket/answer", ExitAnswerRequest{StudentID: "s1", Option: "C"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base+"/exitticket", nil)
	var results struct {
		Question string         `json:"question"`
		Counts   map[string]int `json:"counts"`
	}
	decodeBody(t, resp, &results)
	assert.Equal(t, "Main idea?", results.Question)
	assert.Equal(t, 1, results.Counts["C"])
}

func TestQuizEndpointValidation(t *testing.T) {
	server, _, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	// Neither topic nor image slide: refused by the flow.
	resp := doJSON(t, http.MethodPost, base+"/quiz", QuizRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base+"/quiz", nil)
	var status services.QuizStatus
	decodeBody(t, resp, &status)
	assert.Equal(t, services.QuizAwaitingInput, status.State)
}

func TestSoundEndpoint(t *testing.T) {
	server, _, _ := testServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/sound/bell", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))

	resp = doJSON(t, http.MethodGet, server.URL+"/api/sound/kazoo", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStrokeEndpointsRespectPenGate(t *testing.T) {
	server, manager, _ := testServer(t)
	base := server.URL + "/api/classes/c1"

	resp := doJSON(t, http.MethodPost, base+"/stroke/begin", map[string]any{
		"point": map[string]float64{"x": 10, "y": 10},
		"tool":  map[string]any{"color": "#ff0000", "width": 4},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, manager.Get("c1").Surface().Blank(), "pen mode off: nothing drawn")

	resp = doJSON(t, http.MethodPost, base+"/overlay/pen", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/stroke/begin", map[string]any{
		"point": map[string]float64{"x": 10, "y": 10},
		"tool":  map[string]any{"color": "#ff0000", "width": 4},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, base+"/stroke/end", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, manager.Get("c1").Surface().Blank())
}

func TestInvalidJSONBody(t *testing.T) {
	server, _, _ := testServer(t)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/classes/c1/deck/goto",
		bytes.NewReader([]byte("{nope")))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
