package ws

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgReady        = "ready"
	MsgPong         = "pong"
	MsgAchievements = "achievements_unlocked"
	MsgError        = "error"
)
