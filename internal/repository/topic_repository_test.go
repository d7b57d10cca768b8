package repository

import (
	"context"
	"strings"
	"testing"
)

func TestTopicRepository_GetOrCreate(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewTopicRepository(db)
	ctx := context.Background()
	name := prefix + "_python"

	first, created, err := repo.GetOrCreate(ctx, name)
	if err != nil {
		t.Fatalf("Failed to create topic: %v", err)
	}
	if !created {
		t.Error("Expected a new topic to be created")
	}

	second, created, err := repo.GetOrCreate(ctx, name)
	if err != nil {
		t.Fatalf("Failed to get topic: %v", err)
	}
	if created {
		t.Error("Expected the existing topic to be reused")
	}
	if second.ID != first.ID {
		t.Errorf("Expected topic %s, got %s", first.ID, second.ID)
	}

	var count int
	_ = db.GetContext(ctx, &count, `SELECT COUNT(*) FROM topics WHERE name = $1`, name)
	if count != 1 {
		t.Errorf("Expected exactly one topic row, got %d", count)
	}
}

func TestTopicRepository_Search(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewTopicRepository(db)
	ctx := context.Background()
	owner := CreateIsolatedTestUser(t, db, prefix, "owner")
	python := CreateIsolatedTestTopic(t, db, prefix, "Python")
	CreateIsolatedTestTopic(t, db, prefix, "Go")
	CreateIsolatedTestRoom(t, db, prefix, owner, python)

	topics, err := repo.Search(ctx, strings.ToUpper(prefix+"_python"))
	if err != nil {
		t.Fatalf("Failed to search topics: %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("Expected 1 topic, got %d", len(topics))
	}
	if topics[0].RoomCount != 1 {
		t.Errorf("Expected room count 1, got %d", topics[0].RoomCount)
	}

	all, _ := repo.Search(ctx, prefix)
	if len(all) != 2 {
		t.Errorf("Expected 2 topics, got %d", len(all))
	}

	// Wildcards in the query are matched literally.
	none, _ := repo.Search(ctx, prefix+"%Go")
	if len(none) != 0 {
		t.Errorf("Expected no topics, got %d", len(none))
	}

	count, err := repo.Count(ctx)
	if err != nil || count < 2 {
		t.Errorf("Expected at least 2 topics, got %d (%v)", count, err)
	}
}
