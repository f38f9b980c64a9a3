package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"todo-app/app/models"
)

const (
	neo4jReturnTask = "RETURN t.id AS id, t.text AS text, t.completed AS completed, " +
		"t.createdAt AS createdAt, t.updatedAt AS updatedAt"
	neo4jTaskConstraint = "CREATE CONSTRAINT task_id_unique IF NOT EXISTS " +
		"FOR (t:Task) REQUIRE t.id IS UNIQUE"
)

// Neo4jStore keeps tasks as :Task nodes.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore creates the driver, verifies connectivity and makes sure the
// uniqueness constraint on task IDs exists.
func NewNeo4jStore(ctx context.Context, uri, username, password, database string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(context.Background())
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	s := &Neo4jStore{driver: driver, database: database}
	if err := s.ensureConstraint(ctx); err != nil {
		_ = driver.Close(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Neo4jStore) ensureConstraint(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	// Schema changes run in their own auto-commit transaction.
	res, err := session.Run(ctx, neo4jTaskConstraint, nil)
	if err != nil {
		return fmt.Errorf("create task constraint: %w", err)
	}
	if _, err := res.Consume(ctx); err != nil {
		return fmt.Errorf("create task constraint: %w", err)
	}
	return nil
}

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// List retrieves all tasks, newest first.
func (s *Neo4jStore) List(ctx context.Context) ([]models.Task, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) "+neo4jReturnTask+" ORDER BY createdAt DESC, id DESC",
			nil,
		)
		if err != nil {
			return nil, err
		}

		tasks := make([]models.Task, 0)
		for res.Next(ctx) {
			task, err := taskFromRecord(res.Record())
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}

		// Check for any errors during iteration
		if err := res.Err(); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]models.Task), nil
}

// Create adds a task node under a new UUIDv7.
func (s *Neo4jStore) Create(ctx context.Context, task models.Task) (*models.Task, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate task id: %w", err)
	}
	task.ID = id.String()

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"CREATE (t:Task {id: $id, text: $text, completed: $completed, "+
				"createdAt: $createdAt, updatedAt: $updatedAt})",
			map[string]any{
				"id":        task.ID,
				"text":      task.Text,
				"completed": task.Completed,
				"createdAt": task.CreatedAt,
				"updatedAt": task.UpdatedAt,
			},
		)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Update sets the supplied fields and returns the node after the change.
func (s *Neo4jStore) Update(ctx context.Context, id string, update models.TaskUpdate, updatedAt time.Time) (*models.Task, error) {
	// coalesce keeps the stored value when a parameter is null.
	params := map[string]any{
		"id":        id,
		"updatedAt": updatedAt,
		"text":      nil,
		"completed": nil,
	}
	if update.Text != nil {
		params["text"] = *update.Text
	}
	if update.Completed != nil {
		params["completed"] = *update.Completed
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) "+
				"SET t.updatedAt = $updatedAt, "+
				"t.text = coalesce($text, t.text), "+
				"t.completed = coalesce($completed, t.completed) "+
				neo4jReturnTask,
			params,
		)
		if err != nil {
			return nil, err
		}

		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, ErrNotFound
		}
		return taskFromRecord(res.Record())
	})
	if err != nil {
		return nil, err
	}

	task := result.(models.Task)
	return &task, nil
}

// Delete removes the task node and its relationships.
func (s *Neo4jStore) Delete(ctx context.Context, id string) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) DETACH DELETE t",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}

		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return err
	}

	if deleted.(int) == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the driver and its connection pool.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func taskFromRecord(record *neo4j.Record) (models.Task, error) {
	var task models.Task
	var ok bool

	values := record.Values
	if len(values) != 5 {
		return task, fmt.Errorf("unexpected task record with %d values", len(values))
	}
	if task.ID, ok = values[0].(string); !ok {
		return task, fmt.Errorf("task id has type %T", values[0])
	}
	if task.Text, ok = values[1].(string); !ok {
		return task, fmt.Errorf("task text has type %T", values[1])
	}
	if task.Completed, ok = values[2].(bool); !ok {
		return task, fmt.Errorf("task completed has type %T", values[2])
	}
	if task.CreatedAt, ok = values[3].(time.Time); !ok {
		return task, fmt.Errorf("task createdAt has type %T", values[3])
	}
	if task.UpdatedAt, ok = values[4].(time.Time); !ok {
		return task, fmt.Errorf("task updatedAt has type %T", values[4])
	}

	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}
