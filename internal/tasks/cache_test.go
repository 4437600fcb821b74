package tasks

import "testing"

func task(id, incidentID string, status Status) Task {
	return Task{
		ID:         id,
		IncidentID: incidentID,
		Source:     SourcePopulation,
		Title:      "Limpeza de resíduos reportada",
		Status:     status,
	}
}

func TestUpsertRejectsDuplicateID(t *testing.T) {
	c := NewCache()

	if !c.Upsert(task("dup1", "dup1", StatusTodo)) {
		t.Fatal("first insert should succeed")
	}
	if c.Upsert(task("dup1", "dup1", StatusTodo)) {
		t.Fatal("second insert with same id should be rejected")
	}
	if c.Len() != 1 {
		t.Errorf("cache length = %d, want 1", c.Len())
	}
}

func TestUpsertRejectsDuplicateIncidentID(t *testing.T) {
	c := NewCache()

	c.Upsert(task("a", "inc-9", StatusTodo))
	if c.Upsert(task("b", "inc-9", StatusTodo)) {
		t.Fatal("insert sharing an incident_id should be rejected")
	}
}

func TestUpsertPrepends(t *testing.T) {
	c := NewCache()
	c.Upsert(task("a", "a", StatusTodo))
	c.Upsert(task("b", "b", StatusTodo))

	list := c.List()
	if list[0].ID != "b" {
		t.Errorf("newest task should be first, got %q", list[0].ID)
	}
}

func TestUpdateStatus(t *testing.T) {
	c := NewCache()
	c.Upsert(task("a", "a", StatusTodo))

	if !c.UpdateStatus("a", StatusInProgress) {
		t.Fatal("UpdateStatus should find the task")
	}
	got, _ := c.Get("a")
	if got.Status != StatusInProgress {
		t.Errorf("status = %q, want in-progress", got.Status)
	}

	if c.UpdateStatus("a", Status("bogus")) {
		t.Error("invalid status should be rejected")
	}
	if c.UpdateStatus("missing", StatusDone) {
		t.Error("unknown id should report false")
	}
}

func TestDelete(t *testing.T) {
	c := NewCache()
	c.Upsert(task("a", "a", StatusTodo))

	if !c.Delete("a") {
		t.Fatal("Delete should remove the task")
	}
	if c.Len() != 0 {
		t.Errorf("cache length = %d, want 0", c.Len())
	}
	if c.Delete("a") {
		t.Error("second delete should report false")
	}
}

func TestBoardPartitionsExactly(t *testing.T) {
	c := NewCache()
	c.Upsert(task("a", "a", StatusTodo))
	c.Upsert(task("b", "b", StatusInProgress))
	c.Upsert(task("c", "c", StatusDone))
	c.Upsert(task("d", "d", StatusTodo))

	board := c.Board()
	total := 0
	for _, col := range Columns {
		total += len(board[col])
	}
	if total != c.Len() {
		t.Errorf("board holds %d tasks, cache holds %d", total, c.Len())
	}
	if len(board[StatusTodo]) != 2 || len(board[StatusInProgress]) != 1 || len(board[StatusDone]) != 1 {
		t.Errorf("unexpected column sizes: %d/%d/%d",
			len(board[StatusTodo]), len(board[StatusInProgress]), len(board[StatusDone]))
	}
}
