package failures

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"appshots/models"
)

func openTestStore(t *testing.T) {
	t.Helper()
	if err := Init(filepath.Join(t.TempDir(), "failures.db")); err != nil {
		t.Fatalf("Failed to initialize failure store: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func TestFailureStore(t *testing.T) {
	openTestStore(t)

	res := models.Result{
		Rank:   2,
		Source: "attached_assets/IMG_9_1206x2622.png",
		Target: "6.7-inch",
		Err:    errors.New("decode image/png: png: invalid format"),
	}
	if err := StoreFailure("run-a", res, StageSave, "", nil); err != nil {
		t.Fatalf("Failed to store failure: %v", err)
	}

	record, err := GetFailure(Key("run-a", res, StageSave, ""))
	if err != nil {
		t.Fatalf("Failed to get failure: %v", err)
	}
	if record == nil {
		t.Fatal("Expected failure record, got nil")
	}
	if record.Error != res.Err.Error() {
		t.Errorf("Expected error %s, got %s", res.Err, record.Error)
	}
	if record.Stage != StageSave || record.Source != res.Source {
		t.Errorf("Unexpected record %+v", record)
	}

	if err := DeleteFailure(Key("run-a", res, StageSave, "")); err != nil {
		t.Fatalf("Failed to delete failure: %v", err)
	}
	record, err = GetFailure(Key("run-a", res, StageSave, ""))
	if err != nil {
		t.Fatalf("Failed to get deleted failure: %v", err)
	}
	if record != nil {
		t.Error("Expected nil after delete")
	}
}

func TestPublishFailureDoesNotOverwriteSave(t *testing.T) {
	openTestStore(t)

	res := models.Result{Rank: 1, Target: "6.5-inch", Err: errors.New("write failed")}
	if err := StoreFailure("run-b", res, StageSave, "", nil); err != nil {
		t.Fatal(err)
	}
	if err := StoreFailure("run-b", res, StagePublish, "s3", errors.New("access denied")); err != nil {
		t.Fatal(err)
	}

	records, err := ListRun("run-b")
	if err != nil {
		t.Fatalf("ListRun failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	key := Key("run-b", res, StagePublish, "s3")
	if !strings.HasSuffix(key, "/publish/s3") {
		t.Errorf("Unexpected publish key %s", key)
	}
	record, _ := GetFailure(key)
	if record == nil || record.Error != "access denied" || record.Backend != "s3" {
		t.Errorf("Unexpected publish record %+v", record)
	}
}

func TestFailureStoreCleanup(t *testing.T) {
	openTestStore(t)

	for rank := 1; rank <= 3; rank++ {
		res := models.Result{Rank: rank, Target: "t", Err: errors.New("boom")}
		if err := StoreFailure("run-c", res, StageSave, "", nil); err != nil {
			t.Fatal(err)
		}
	}

	time.Sleep(2 * time.Millisecond)
	removed, err := CleanupOldRecords(time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to cleanup: %v", err)
	}
	if removed != 3 {
		t.Errorf("Expected 3 removed, got %d", removed)
	}

	remaining, err := ListFailures()
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected all records to be cleaned up, but %d remain", len(remaining))
	}
}
