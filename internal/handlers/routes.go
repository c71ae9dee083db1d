package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(sessionHandler *SessionHandler, storeHandler *StoreHandler,
	soundHandler *SoundHandler, wsHandler *WebSocketHandler) *mux.Router {

	router := mux.NewRouter()

	// WebSocket endpoint for display clients
	router.HandleFunc("/ws/{classID}", wsHandler.Connect)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Synthesized cue audio
	api.HandleFunc("/sound/{cue}", soundHandler.GetCue).Methods("GET")

	// School-level reference data
	api.HandleFunc("/schedules", storeHandler.GetSchedules).Methods("GET")
	api.HandleFunc("/assignments", storeHandler.GetAssignments).Methods("GET")
	api.HandleFunc("/lesson-links", storeHandler.GetLessonLinks).Methods("GET")
	api.HandleFunc("/lesson-links", storeHandler.SaveLessonLinks).Methods("PUT")

	// Per-class session routes
	class := api.PathPrefix("/classes/{classID}").Subrouter()

	class.HandleFunc("/state", sessionHandler.GetState).Methods("GET")
	class.HandleFunc("/roster", sessionHandler.SetRoster).Methods("PUT")
	class.HandleFunc("/present", sessionHandler.GetPresent).Methods("GET")

	// Slide deck and annotation
	class.HandleFunc("/deck/pages", sessionHandler.AddPage).Methods("POST")
	class.HandleFunc("/deck/pages/{index}", sessionHandler.DeletePage).Methods("DELETE")
	class.HandleFunc("/deck/goto", sessionHandler.GoToPage).Methods("POST")
	class.HandleFunc("/deck/content", sessionHandler.SetContent).Methods("PUT")
	class.HandleFunc("/stroke/begin", sessionHandler.BeginStroke).Methods("POST")
	class.HandleFunc("/stroke/extend", sessionHandler.ExtendStroke).Methods("POST")
	class.HandleFunc("/stroke/end", sessionHandler.EndStroke).Methods("POST")
	class.HandleFunc("/annotation/clear", sessionHandler.ClearAnnotation).Methods("POST")
	class.HandleFunc("/surface/resize", sessionHandler.ResizeSurface).Methods("POST")

	// Floating tool overlay
	class.HandleFunc("/overlay/toggle", sessionHandler.ToggleTool).Methods("POST")
	class.HandleFunc("/overlay/close", sessionHandler.CloseOverlay).Methods("POST")
	class.HandleFunc("/overlay/pen", sessionHandler.TogglePen).Methods("POST")
	class.HandleFunc("/overlay/laser", sessionHandler.ToggleLaser).Methods("POST")
	class.HandleFunc("/trafficlight", sessionHandler.SetTrafficLight).Methods("POST")

	// Utility widgets
	class.HandleFunc("/picker/spin", sessionHandler.SpinPicker).Methods("POST")
	class.HandleFunc("/picker/stop", sessionHandler.StopPicker).Methods("POST")
	class.HandleFunc("/picker", sessionHandler.GetPicker).Methods("GET")
	class.HandleFunc("/timer", sessionHandler.SetTimer).Methods("PUT")
	class.HandleFunc("/timer", sessionHandler.GetTimer).Methods("GET")
	class.HandleFunc("/timer/start", sessionHandler.StartTimer).Methods("POST")
	class.HandleFunc("/timer/stop", sessionHandler.StopTimer).Methods("POST")
	class.HandleFunc("/timer/reset", sessionHandler.ResetTimer).Methods("POST")
	class.HandleFunc("/groups", sessionHandler.GenerateGroups).Methods("POST")
	class.HandleFunc("/groups", sessionHandler.GetGroups).Methods("GET")
	class.HandleFunc("/rewards/{studentID}", sessionHandler.AwardPoint).Methods("POST")
	class.HandleFunc("/rewards", sessionHandler.GetRewards).Methods("GET")
	class.HandleFunc("/hallpass", sessionHandler.IssueHallPass).Methods("POST")
	class.HandleFunc("/hallpass/{id}", sessionHandler.ReturnHallPass).Methods("DELETE")
	class.HandleFunc("/hallpass", sessionHandler.GetHallPasses).Methods("GET")
	class.HandleFunc("/poll/vote", sessionHandler.VotePoll).Methods("POST")
	class.HandleFunc("/poll/reset", sessionHandler.ResetPoll).Methods("POST")
	class.HandleFunc("/poll", sessionHandler.GetPoll).Methods("GET")
	class.HandleFunc("/exitticket", sessionHandler.SetExitTicket).Methods("POST")
	class.HandleFunc("/exitticket/answer", sessionHandler.AnswerExitTicket).Methods("POST")
	class.HandleFunc("/exitticket", sessionHandler.GetExitTicket).Methods("GET")
	class.HandleFunc("/sound", sessionHandler.PlaySound).Methods("POST")

	// AI flows
	class.HandleFunc("/quiz", sessionHandler.GenerateQuiz).Methods("POST")
	class.HandleFunc("/quiz/new", sessionHandler.NewQuiz).Methods("POST")
	class.HandleFunc("/quiz", sessionHandler.GetQuiz).Methods("GET")
	class.HandleFunc("/activity", sessionHandler.SuggestActivity).Methods("POST")
	class.HandleFunc("/activity/again", sessionHandler.ActivityAgain).Methods("POST")
	class.HandleFunc("/activity", sessionHandler.GetActivity).Methods("GET")

	// Sticky notes
	class.HandleFunc("/notes", sessionHandler.SaveNote).Methods("POST")
	class.HandleFunc("/notes", sessionHandler.GetNotes).Methods("GET")

	return router
}

// corsMiddleware allows the teacher console to call the API from its
// own origin during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
