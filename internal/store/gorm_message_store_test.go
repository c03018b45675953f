package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Uzbeksil125/chatcore/internal/config"
	"github.com/Uzbeksil125/chatcore/internal/database"
	"github.com/Uzbeksil125/chatcore/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.New(config.DatabaseConfig{Driver: "sqlite", FilePath: dsn})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db, domain.Models()...); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func textMessage(id, room, author, body string) *domain.Message {
	return &domain.Message{
		ID:        id,
		Kind:      domain.KindText,
		RoomID:    room,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now().UTC(),
		SeenBy:    []string{author},
	}
}

func TestAppendReadAll(t *testing.T) {
	ctx := context.Background()
	s := NewGormMessageStore(newTestDB(t))

	if got, err := s.ReadAll(ctx, "global"); err != nil || len(got) != 0 {
		t.Fatalf("ReadAll(empty room) = (%d msgs, %v), want (0, nil)", len(got), err)
	}

	for i := 0; i < 3; i++ {
		msg := textMessage(fmt.Sprintf("ev-%d", i), "global", "alice", fmt.Sprintf("msg %d", i))
		if err := s.Append(ctx, msg); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}

	got, err := s.ReadAll(ctx, "global")
	if err != nil {
		t.Fatalf("ReadAll() unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadAll() returned %d messages, want 3", len(got))
	}
	for i, m := range got {
		if m.ID != fmt.Sprintf("ev-%d", i) {
			t.Errorf("message %d id = %q, append order not preserved", i, m.ID)
		}
		if len(m.SeenBy) != 1 || m.SeenBy[0] != "alice" {
			t.Errorf("message %d seen_by = %v, want [alice]", i, m.SeenBy)
		}
	}

	// Other rooms are unaffected.
	if got, _ := s.ReadAll(ctx, "private_alice__bob"); len(got) != 0 {
		t.Errorf("ReadAll(other room) returned %d messages, want 0", len(got))
	}
}

func TestMarkSeenIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewGormMessageStore(newTestDB(t))

	if err := s.Append(ctx, textMessage("ev-1", "global", "alice", "hi")); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}

	newly, err := s.MarkSeen(ctx, "global", []string{"ev-1"}, "bob")
	if err != nil {
		t.Fatalf("MarkSeen() unexpected error: %v", err)
	}
	if len(newly) != 1 || newly[0] != "ev-1" {
		t.Fatalf("MarkSeen() first call = %v, want [ev-1]", newly)
	}

	newly, err = s.MarkSeen(ctx, "global", []string{"ev-1"}, "bob")
	if err != nil {
		t.Fatalf("MarkSeen() second call unexpected error: %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("MarkSeen() second call = %v, want no newly marked ids", newly)
	}

	got, err := s.ReadAll(ctx, "global")
	if err != nil {
		t.Fatalf("ReadAll() unexpected error: %v", err)
	}
	want := []string{"alice", "bob"}
	if len(got[0].SeenBy) != len(want) {
		t.Fatalf("seen_by = %v, want %v", got[0].SeenBy, want)
	}
	for i, u := range want {
		if got[0].SeenBy[i] != u {
			t.Errorf("seen_by = %v, want %v", got[0].SeenBy, want)
		}
	}
}

func TestMarkSeenAuthorBackfill(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := NewGormMessageStore(db)

	// A log written before receipts were indexed: message row only.
	legacy := domain.MessageModel{
		EventID: "legacy-1",
		RoomID:  "global",
		Kind:    domain.KindText,
		Author:  "alice",
		Body:    "old",
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("failed to seed legacy row: %v", err)
	}

	got, err := s.ReadAll(ctx, "global")
	if err != nil {
		t.Fatalf("ReadAll() unexpected error: %v", err)
	}
	if len(got) != 1 || len(got[0].SeenBy) != 1 || got[0].SeenBy[0] != "alice" {
		t.Fatalf("legacy seen_by = %v, want [alice]", got[0].SeenBy)
	}

	// Marking a reader must not lose the defaulted author.
	if _, err := s.MarkSeen(ctx, "global", []string{"legacy-1"}, "bob"); err != nil {
		t.Fatalf("MarkSeen() unexpected error: %v", err)
	}
	got, _ = s.ReadAll(ctx, "global")
	if len(got[0].SeenBy) != 2 || got[0].SeenBy[0] != "alice" || got[0].SeenBy[1] != "bob" {
		t.Fatalf("legacy seen_by after mark = %v, want [alice bob]", got[0].SeenBy)
	}
}

func TestMarkSeenConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	s := NewGormMessageStore(newTestDB(t))

	const n = 100
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("ev-%03d", i)
		ids = append(ids, id)
		if err := s.Append(ctx, textMessage(id, "global", "carol", "x")); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, reader := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			if _, err := s.MarkSeen(ctx, "global", ids, user); err != nil {
				errs <- err
			}
		}(reader)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent MarkSeen() error: %v", err)
	}

	got, err := s.ReadAll(ctx, "global")
	if err != nil {
		t.Fatalf("ReadAll() unexpected error: %v", err)
	}
	if len(got) != n {
		t.Fatalf("ReadAll() returned %d messages, want %d", len(got), n)
	}
	for _, m := range got {
		for _, u := range []string{"carol", "alice", "bob"} {
			if !m.Seen(u) {
				t.Fatalf("event %s seen_by = %v, missing %q", m.ID, m.SeenBy, u)
			}
		}
	}
}
