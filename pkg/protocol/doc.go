// Package protocol defines the JSON message envelope exchanged with a feed
// transport.
//
// Every message carries a route naming the collection it targets, an
// arbitrary JSON payload, a status and a send timestamp:
//
//	{"route": "rooms", "data": [{"id": "r1", "title": "Lobby"}], "status": 1, "timestamp": 1730000000000}
//
// # Status
//
//   - StatusError (0): the payload describes a failure and is not rendered
//   - StatusOK (1): the payload is a snapshot to render
//   - StatusDone (2): the payload is the final snapshot of a stream
//
// # Limits
//
// Decode rejects messages larger than MaxMessageSize and payloads nested
// deeper than MaxDataDepth before handing them to encoding/json.
package protocol
