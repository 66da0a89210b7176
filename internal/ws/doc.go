// Package ws streams factory events to WebSocket clients.
//
// The Hub observes the dispatch actor and broadcasts every successful
// command's event in its wire encoding:
//
//	{"type":"event","event":{"ProgramCreated":{...}},"timestamp":1700000000}
//
// Clients only listen; inbound text is ignored except "ping", which is
// answered with {"type":"pong"}. Slow clients are disconnected.
//
// Example Usage:
//
//	hub := ws.NewHub(logger, metrics)
//	actor := dispatch.New(cfg, spawner, dispatch.Observers(metrics, hub), logger)
//	router.GET("/events", hub.HandleConnection)
package ws
