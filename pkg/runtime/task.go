package runtime

import "sync"

// Task is the host-level handle for a spawned script task. Scripts never see
// it as a value; the interpreter's registry uses it to wait for completion
// and to observe the failure, if any.
type Task struct {
	ID   int64
	Name string

	once sync.Once
	done chan struct{}
	mu   sync.Mutex
	err  Value
}

func NewTask(id int64, name string) *Task {
	return &Task{ID: id, Name: name, done: make(chan struct{})}
}

// Finish marks the task complete, recording err (nil on success). Later
// calls are ignored.
func (t *Task) Finish(err Value) {
	t.once.Do(func() {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		close(t.done)
	})
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the failure value, or nil. Only meaningful once Done is closed.
func (t *Task) Err() Value {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task finishes and returns its failure value, if any.
func (t *Task) Wait() Value {
	<-t.done
	return t.Err()
}
