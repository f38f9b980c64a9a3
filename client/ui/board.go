package ui

import (
	"context"
	"errors"
	"strings"

	"todo-app/app/models"
)

// TaskAPI is the server surface the board needs.
type TaskAPI interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, text string) (*models.Task, error)
	Update(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// Action is a mutation to send to the server.
type Action func(ctx context.Context, api TaskAPI) error

// ActionError reports that the mutation itself failed, as opposed to the
// list fetch that follows it.
type ActionError struct {
	Err error
}

func (e *ActionError) Error() string {
	return e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Refresh runs action, if any, and then fetches the full list. The list is
// only fetched when the action succeeded.
func Refresh(ctx context.Context, api TaskAPI, action Action) ([]models.Task, error) {
	if action != nil {
		if err := action(ctx, api); err != nil {
			return nil, &ActionError{Err: err}
		}
	}
	return api.List(ctx)
}

// draft is a submitted input kept until the server has accepted it.
type draft struct {
	input     string
	editingID string
}

// Board is the client-side state: the input line, the mirrored task list and
// the ID of the task being edited, if any.
type Board struct {
	Input     string
	Tasks     []models.Task
	EditingID string
	Cursor    int
	Err       error

	pending *draft
}

// Submit turns the input into a create, or into a text update when a task is
// being edited. Blank input yields no action. The input and edit marker are
// cleared right away and restored by Apply if the server rejects the change.
func (b *Board) Submit() (Action, bool) {
	if strings.TrimSpace(b.Input) == "" {
		return nil, false
	}

	text := b.Input
	editingID := b.EditingID
	b.pending = &draft{input: text, editingID: editingID}
	b.Input = ""
	b.EditingID = ""

	if editingID != "" {
		return func(ctx context.Context, api TaskAPI) error {
			_, err := api.Update(ctx, editingID, models.TaskUpdate{Text: &text})
			return err
		}, true
	}
	return func(ctx context.Context, api TaskAPI) error {
		_, err := api.Create(ctx, text)
		return err
	}, true
}

// Toggle flips the completed flag of the selected task.
func (b *Board) Toggle() (Action, bool) {
	task, ok := b.Selected()
	if !ok {
		return nil, false
	}

	id := task.ID
	completed := !task.Completed
	return func(ctx context.Context, api TaskAPI) error {
		_, err := api.Update(ctx, id, models.TaskUpdate{Completed: &completed})
		return err
	}, true
}

// Edit copies the selected task's text into the input and marks it as being
// edited. Nothing is sent to the server.
func (b *Board) Edit() bool {
	task, ok := b.Selected()
	if !ok {
		return false
	}
	b.Input = task.Text
	b.EditingID = task.ID
	return true
}

// CancelEdit leaves edit mode and clears the input.
func (b *Board) CancelEdit() {
	b.Input = ""
	b.EditingID = ""
}

// Delete removes the selected task.
func (b *Board) Delete() (Action, bool) {
	task, ok := b.Selected()
	if !ok {
		return nil, false
	}

	id := task.ID
	if b.EditingID == id {
		b.CancelEdit()
	}
	return func(ctx context.Context, api TaskAPI) error {
		return api.Delete(ctx, id)
	}, true
}

// Apply records the outcome of a refresh. On error the current list is kept.
// A submitted input comes back when its create or update failed, unless
// something new was typed meanwhile.
func (b *Board) Apply(tasks []models.Task, err error) {
	pending := b.pending
	b.pending = nil

	b.Err = err
	if err != nil {
		var actionErr *ActionError
		if pending != nil && errors.As(err, &actionErr) && b.Input == "" {
			b.Input = pending.input
			b.EditingID = pending.editingID
		}
		return
	}
	b.Tasks = tasks
	b.clampCursor()
}

// Selected returns the task under the cursor.
func (b *Board) Selected() (models.Task, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.Tasks) {
		return models.Task{}, false
	}
	return b.Tasks[b.Cursor], true
}

// Move shifts the cursor by delta, staying inside the list.
func (b *Board) Move(delta int) {
	b.Cursor += delta
	b.clampCursor()
}

func (b *Board) clampCursor() {
	if b.Cursor >= len(b.Tasks) {
		b.Cursor = len(b.Tasks) - 1
	}
	if b.Cursor < 0 {
		b.Cursor = 0
	}
}

// Counts returns the number of completed tasks and the total.
func (b *Board) Counts() (completed, total int) {
	for _, task := range b.Tasks {
		if task.Completed {
			completed++
		}
	}
	return completed, len(b.Tasks)
}
