package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Status is the lifecycle state of an export job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// ErrNotFound is returned for unknown or expired export ids.
var ErrNotFound = errors.New("export: not found")

// Job describes one asynchronous export.
type Job struct {
	ID        string    `json:"id"`
	Report    string    `json:"report"`
	Format    Format    `json:"format"`
	Filters   string    `json:"filters"`
	Lang      string    `json:"lang"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Size      int       `json:"size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps export jobs and their payloads in Redis. Both keys expire after
// the configured TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewStore instantiates the store. A non-positive ttl defaults to one hour.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{client: client, ttl: ttl, now: time.Now}
}

func jobKey(id string) string  { return "muzaini:export:" + id }
func dataKey(id string) string { return "muzaini:export:" + id + ":data" }

// Create assigns an id and persists the job in the queued state.
func (s *Store) Create(ctx context.Context, job Job) (Job, error) {
	now := s.now().UTC()
	job.ID = uuid.NewString()
	job.Status = StatusQueued
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := s.save(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get loads a job.
func (s *Store) Get(ctx context.Context, id string) (Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Job{}, ErrNotFound
	}
	raw, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("export: load %s: %w", id, err)
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return Job{}, fmt.Errorf("export: decode %s: %w", id, err)
	}
	return job, nil
}

// MarkRunning flags the job as picked up by a worker.
func (s *Store) MarkRunning(ctx context.Context, id string) error {
	return s.update(ctx, id, func(job *Job) {
		job.Status = StatusRunning
		job.Error = ""
	})
}

// Complete stores the payload and marks the job done.
func (s *Store) Complete(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, dataKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("export: store payload %s: %w", id, err)
	}
	return s.update(ctx, id, func(job *Job) {
		job.Status = StatusDone
		job.Size = len(data)
		job.Error = ""
	})
}

// Fail records a terminal failure.
func (s *Store) Fail(ctx context.Context, id string, cause error) error {
	return s.update(ctx, id, func(job *Job) {
		job.Status = StatusFailed
		if cause != nil {
			job.Error = cause.Error()
		}
	})
}

// Payload returns the rendered file of a finished job.
func (s *Store) Payload(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, dataKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("export: load payload %s: %w", id, err)
	}
	return data, nil
}

func (s *Store) update(ctx context.Context, id string, mutate func(*Job)) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	mutate(&job)
	job.UpdatedAt = s.now().UTC()
	return s.save(ctx, job)
}

func (s *Store) save(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, jobKey(job.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("export: save %s: %w", job.ID, err)
	}
	return nil
}
