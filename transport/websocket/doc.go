// Package websocket pushes live session updates to browser and CLI watchers.
//
// A single Hub owns every connection. Clients subscribe to one session by ID
// (matched case-insensitively) and receive a JSON Message whenever that
// session changes:
//
//	{"session_id":"ab12","event":"run_complete","game_state":{...},"data":{...run report...}}
//
// Events are state_update, robot_added, program_updated, run_complete,
// session_reset and session_deleted. Incoming frames are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastEvent(id, websocket.EventRunComplete, state, report)
//
// Concurrency:
//
// Registration, removal and fan-out all run on the Run goroutine; the other
// methods only send on its channels. A client whose send buffer fills up is
// dropped. Cancelling the context passed to Run closes every connection, and
// later broadcasts are discarded.
package websocket
