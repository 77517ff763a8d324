// Package websocket manages websocket endpoints on top of
// github.com/gorilla/websocket.
//
// An endpoint is a Manager identified by a string. Each upgraded connection
// becomes a Peer with a generated identifier, and messages can be sent to a
// single peer or broadcast to every peer of the endpoint:
//
//	reg := websocket.NewRegistry()
//	m, _ := reg.Manager("chat")
//	peer, err := m.Accept(w, r)
//	...
//	m.Broadcast(websocket.TextMessage, []byte("hello"))
//
// Closing the registry closes every endpoint with a going-away close frame.
package websocket
