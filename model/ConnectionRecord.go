package model

// ConnectionRecord is a point-in-time snapshot of one peer connection.
// Records are collected synchronously per call and never cached.
type ConnectionRecord struct {
	PeerID   string
	Address  string
	Incoming bool
	State    string
}
