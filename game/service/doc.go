// Package service provides the business logic layer for the RoboRally turn server.
//
// The service package implements:
//   - Multi-session game management
//   - Robot registration and card programming
//   - Turn execution with a selectable turn order
//   - Event history with pagination
//   - Scenario listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ScenarioManager loads and validates scenarios.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the turn engine. Each session owns its own engine. All engine access goes
// through the service, which serialises mutations per service instance.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	scenarioMgr, _ := config.NewManager("scenarios")
//	gameService := service.NewGameService(sessionMgr, scenarioMgr)
//
//	info, err := gameService.CreateSession(ctx, "push_chain")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.ProgramRobot(ctx, info.ID, "Twonky", service.ProgramRequest{Program: "F3 L"})
//	result, err := gameService.Run(ctx, info.ID, service.RunOptions{})
//
// Errors:
//
// ErrSessionNotFound, ErrScenarioNotFound, ErrRobotNotFound, ErrDuplicateRobot
// and ErrInvalidRequest are returned wrapped; test with errors.Is.
package service
