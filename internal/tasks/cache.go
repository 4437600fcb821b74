package tasks

import "sync"

// Cache is the keyed task list the board renders from. Webhook-derived tasks
// and user-created tasks both land here; duplicate incident ids are rejected
// on insert so re-delivered webhooks cannot produce a second card.
type Cache struct {
	mu    sync.RWMutex
	tasks []Task
}

func NewCache() *Cache {
	return &Cache{}
}

// Upsert inserts the task at the head of the list, mirroring how incoming
// webhook tasks are prepended in the UI. It reports false without inserting
// when any existing task shares the id or incident_id.
func (c *Cache) Upsert(t Task) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.tasks {
		if existing.ID == t.ID {
			return false
		}
		if t.IncidentID != "" && existing.IncidentID == t.IncidentID {
			return false
		}
	}
	c.tasks = append([]Task{t}, c.tasks...)
	return true
}

// Append adds a user-created task at the end of the list without incident
// dedup. The id is the caller's responsibility.
func (c *Cache) Append(t Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, t)
}

func (c *Cache) Get(id string) (Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// List returns a snapshot of all tasks in cache order.
func (c *Cache) List() []Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// UpdateStatus moves a task between board columns.
func (c *Cache) UpdateStatus(id string, status Status) bool {
	if !status.IsValid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Status = status
			return true
		}
	}
	return false
}

// Delete removes a task by id. The board has no delete action wired; this
// exists for programmatic cleanup.
func (c *Cache) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Board partitions the cache into the three kanban columns. Every task lands
// in exactly one column.
func (c *Cache) Board() map[Status][]Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	board := make(map[Status][]Task, len(Columns))
	for _, col := range Columns {
		board[col] = []Task{}
	}
	for _, t := range c.tasks {
		board[t.Status] = append(board[t.Status], t)
	}
	return board
}
