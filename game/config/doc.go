// Package config provides scenario management for the RoboRally turn server.
//
// The config package handles:
//   - Loading scenarios from JSON files
//   - Scenario validation before load and save
//   - Default scenario selection
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios are stored as JSON files in the scenarios directory. The file name
// (without .json) is the scenario id used when creating sessions. Each scenario
// defines a name, a description, an optional turn order ("sequential" or
// "priority") and the starting robots:
//
//	{
//	  "name": "Push Chain",
//	  "turn_order": "sequential",
//	  "robots": [
//	    {"name": "Twonky", "x": 0, "y": 0, "heading": 0, "program": "F2 L"},
//	    {"name": "Hammer", "x": 1, "y": 0}
//	  ]
//	}
//
// A robot's program uses the compact card syntax understood by
// engine.ParseProgram. Cards may also be given as a JSON list.
//
// Usage:
//
//	manager, err := config.NewManager("scenarios")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scenario, err := manager.LoadScenario("push_chain")
//	defaultScenario := manager.GetDefault()
//	infos, err := manager.ListScenarios()
//
// The default scenario is classic.json when present, otherwise the first valid
// scenario in the directory, otherwise engine.DefaultScenario.
package config
