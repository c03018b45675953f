package domain

import "testing"

func TestPrivateRoomSymmetric(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{name: "already sorted", a: "alice", b: "bob", want: "private_alice__bob"},
		{name: "reversed", a: "bob", b: "alice", want: "private_alice__bob"},
		{name: "case normalized", a: "Bob", b: "ALICE", want: "private_alice__bob"},
		{name: "whitespace trimmed", a: " alice ", b: "bob", want: "private_alice__bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrivateRoom(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("PrivateRoom(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
			if got != PrivateRoom(tt.b, tt.a) {
				t.Errorf("PrivateRoom is not symmetric for (%q, %q)", tt.a, tt.b)
			}
		})
	}
}

func TestPrivateRoomMembers(t *testing.T) {
	a, b, ok := PrivateRoomMembers("private_alice__bob")
	if !ok || a != "alice" || b != "bob" {
		t.Fatalf("PrivateRoomMembers() = (%q, %q, %v), want (alice, bob, true)", a, b, ok)
	}

	for _, room := range []string{GlobalRoom, "private_alice", "random", "private___", ""} {
		if _, _, ok := PrivateRoomMembers(room); ok {
			t.Errorf("PrivateRoomMembers(%q) ok = true, want false", room)
		}
	}
}

func TestRoomAuthorized(t *testing.T) {
	tests := []struct {
		name string
		room string
		user string
		want bool
	}{
		{name: "global open to all", room: GlobalRoom, user: "alice", want: true},
		{name: "participant first", room: "private_alice__bob", user: "alice", want: true},
		{name: "participant second", room: "private_alice__bob", user: "bob", want: true},
		{name: "outsider", room: "private_alice__bob", user: "carol", want: false},
		{name: "substring of participant", room: "private_alice__bob", user: "bo", want: false},
		{name: "malformed room", room: "private_alice", user: "alice", want: false},
		{name: "unknown room", room: "backstage", user: "alice", want: false},
		{name: "empty user", room: GlobalRoom, user: "", want: false},
		{name: "empty room", room: "", user: "alice", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoomAuthorized(tt.room, tt.user); got != tt.want {
				t.Errorf("RoomAuthorized(%q, %q) = %v, want %v", tt.room, tt.user, got, tt.want)
			}
		})
	}
}

func TestNewMessageOut(t *testing.T) {
	msg := &Message{
		ID:     "id-1",
		Kind:   KindImage,
		RoomID: GlobalRoom,
		Author: "alice",
		SeenBy: []string{"alice"},
	}

	out := NewMessageOut(msg, "blobdata")
	if out.Type != EventMessage {
		t.Errorf("Type = %q, want %q", out.Type, EventMessage)
	}
	if out.Image != "blobdata" || out.Data != "" {
		t.Errorf("inline content on wrong field: image=%q data=%q", out.Image, out.Data)
	}

	msg.Kind = KindFile
	out = NewMessageOut(msg, "blobdata")
	if out.Data != "blobdata" || out.Image != "" {
		t.Errorf("inline content on wrong field: image=%q data=%q", out.Image, out.Data)
	}
}
