package log

const (
	// Connection
	FieldClientID = "client_id"
	FieldRemote   = "remote_addr"

	// Actor
	FieldUser = "user"

	// Chat
	FieldRoom    = "room"
	FieldEvent   = "event"
	FieldEventID = "event_id"

	// Service
	FieldService = "service"
)
