package domain

import "strings"

// GlobalRoom is the shared channel every authenticated connection joins.
const GlobalRoom = "global"

const (
	privatePrefix    = "private_"
	privateSeparator = "__"
)

// NormalizeUser canonicalizes a user identifier.
func NormalizeUser(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// PrivateRoom derives the room identifier for the private channel between
// two users. The result is independent of argument order, so both parties
// always resolve the same room.
func PrivateRoom(a, b string) string {
	x, y := NormalizeUser(a), NormalizeUser(b)
	if y < x {
		x, y = y, x
	}
	return privatePrefix + x + privateSeparator + y
}

// PrivateRoomMembers parses a private room identifier into its two
// participants. ok is false for the global room or a malformed identifier.
func PrivateRoomMembers(room string) (string, string, bool) {
	rest, found := strings.CutPrefix(room, privatePrefix)
	if !found {
		return "", "", false
	}
	a, b, found := strings.Cut(rest, privateSeparator)
	if !found || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// RoomAuthorized reports whether user may participate in room: the global
// room is open to everyone, a private room only to its two encoded
// participants.
func RoomAuthorized(room, user string) bool {
	if user == "" || room == "" {
		return false
	}
	if room == GlobalRoom {
		return true
	}
	a, b, ok := PrivateRoomMembers(room)
	if !ok {
		return false
	}
	return user == a || user == b
}
