// Package api provides the HTTP REST API for the RoboRally turn server.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session, body {"scenario_id": "classic"} (optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Robots and turns:
//   - GET /api/sessions/{id}/state - Game state as JSON, or an ASCII board with ?format=text
//   - POST /api/sessions/{id}/robots - Add a robot {"name","x","y","heading","program"}
//   - POST /api/sessions/{id}/robots/{name}/cards - Queue cards {"program":"F2 L","cards":[...],"replace":false}
//   - POST /api/sessions/{id}/run - Play every queued card, optional {"turn_order":"priority"} or ?order=
//   - POST /api/sessions/{id}/reset - Rebuild robots from the scenario, keeping history
//   - GET /api/sessions/{id}/history - Paginated events (?page&limit&order&robot)
//
// Scenarios:
//   - GET /api/scenarios - List scenarios
//   - GET /api/scenarios/{name} - Get one scenario
//   - POST /api/scenarios - Save a scenario (?id= defaults to its name)
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket live updates
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Missing sessions, robots and
// scenarios are 404, a duplicate robot name is 409, and malformed requests,
// programs, turn orders or scenarios are 400.
//
// Every mutating call is broadcast to WebSocket watchers of the session.
package api
