// Package events carries board change notifications (task created, updated,
// deleted) from the services to whatever delivers them, such as the websocket
// hub, without the services knowing who listens.
package events
