package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/vinoventas/dashboard/internal/domain"
	"github.com/vinoventas/dashboard/internal/jobs"
)

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	job := &jobs.ExportReportJob{
		JobID:      "job-1",
		Filter:     domain.DefaultFilter(),
		OutputPath: "/tmp/reporte.xlsx",
		Status:     jobs.JobStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.OutputPath != "/tmp/reporte.xlsx" || got.Status != jobs.JobStatusPending {
		t.Errorf("unexpected job: %+v", got)
	}

	// Stored copy must be isolated from caller mutations.
	job.Status = jobs.JobStatusFailed
	got, _ = store.GetJob(ctx, "job-1")
	if got.Status != jobs.JobStatusPending {
		t.Error("store returned a shared pointer")
	}
}

func TestStore_SaveRequiresID(t *testing.T) {
	if err := NewStore().SaveJob(context.Background(), &jobs.ExportReportJob{}); err == nil {
		t.Error("expected error for missing job ID")
	}
}

func TestStore_ListJobs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	base := time.Now()
	for i := 0; i < 3; i++ {
		status := jobs.JobStatusPending
		if i == 2 {
			status = jobs.JobStatusCompleted
		}
		err := store.SaveJob(ctx, &jobs.ExportReportJob{
			JobID:     fmt.Sprintf("job-%d", i),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	all, err := store.ListJobs(ctx, jobs.JobFilter{})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(all))
	}
	// Newest first.
	if all[0].JobID != "job-2" || all[2].JobID != "job-0" {
		t.Errorf("unexpected order: %s, %s, %s", all[0].JobID, all[1].JobID, all[2].JobID)
	}

	pending, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending jobs, got %d", len(pending))
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(limited) != 1 || limited[0].JobID != "job-1" {
		t.Errorf("limit/offset gave %+v", limited)
	}
}

func TestQueue_ProcessesJob(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	queue := NewQueue(10, store)

	var mu sync.Mutex
	processed := make(map[string]bool)
	done := make(chan struct{}, 1)

	handler := func(ctx context.Context, job jobs.Job) error {
		mu.Lock()
		processed[job.GetID()] = true
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	if err := queue.Start(ctx, handler); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	job := &jobs.ExportReportJob{Filter: domain.DefaultFilter(), OutputPath: "out.xlsx"}
	if err := queue.PublishExportReport(ctx, job); err != nil {
		t.Fatalf("PublishExportReport failed: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("publish should assign a job ID")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job was not processed")
	}

	mu.Lock()
	if !processed[job.JobID] {
		t.Error("handler did not see the published job")
	}
	mu.Unlock()

	if err := queue.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	got, err := store.GetJob(ctx, job.JobID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != jobs.JobStatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.StartedAt == nil || got.CompletedAt == nil {
		t.Error("timestamps not recorded")
	}
}

func TestQueue_RejectsAfterClose(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue(1, nil)

	if err := queue.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := queue.PublishExportReport(ctx, &jobs.ExportReportJob{}); err == nil {
		t.Error("expected publish to fail on a closed queue")
	}
}

func TestQueue_MarksFailureAfterRetries(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	queue := NewQueue(10, store)

	attempts := make(chan struct{}, 10)
	handler := func(ctx context.Context, job jobs.Job) error {
		attempts <- struct{}{}
		return fmt.Errorf("disk full")
	}

	if err := queue.Start(ctx, handler); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer queue.Close()

	job := &jobs.ExportReportJob{MaxRetries: 1}
	if err := queue.PublishExportReport(ctx, job); err != nil {
		t.Fatalf("PublishExportReport failed: %v", err)
	}

	// Initial attempt plus one retry.
	for i := 0; i < 2; i++ {
		select {
		case <-attempts:
		case <-time.After(10 * time.Second):
			t.Fatalf("attempt %d never ran", i+1)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := store.GetJob(ctx, job.JobID)
		if err != nil {
			t.Fatalf("GetJob failed: %v", err)
		}
		if got.Status == jobs.JobStatusFailed {
			if got.Error == "" {
				t.Error("failure should record the handler error")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never reached failed status, last = %s", got.Status)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
