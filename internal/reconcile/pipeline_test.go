package reconcile

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPipelineRunsSubmittedSave(t *testing.T) {
	var got []SaveRequest
	p := NewPipeline(func(req SaveRequest) error {
		got = append(got, req)
		return nil
	})
	defer p.Close()

	if err := p.Submit(SaveRequest{Notify: true}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(got) != 1 || !got[0].Notify {
		t.Errorf("runs = %+v, want one notifying save", got)
	}
}

func TestPipelineSerializesConcurrentSaves(t *testing.T) {
	var mu sync.Mutex
	running := 0
	maxRunning := 0
	total := 0

	p := NewPipeline(func(SaveRequest) error {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		running--
		total++
		mu.Unlock()
		return nil
	})
	defer p.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Submit(SaveRequest{}); err != nil {
				t.Errorf("Submit: %v", err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if maxRunning != 1 {
		t.Errorf("max concurrent runs = %d, want 1", maxRunning)
	}
	if total != 8 {
		t.Errorf("completed runs = %d, want all 8", total)
	}
}

func TestPipelineBothQueuedSavesComplete(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var notifies []bool
	var mu sync.Mutex

	p := NewPipeline(func(req SaveRequest) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		mu.Lock()
		notifies = append(notifies, req.Notify)
		mu.Unlock()
		return nil
	})
	defer p.Close()

	done := make(chan error, 2)
	go func() { done <- p.Submit(SaveRequest{Notify: false}) }()
	<-started
	go func() { done <- p.Submit(SaveRequest{Notify: true}) }()

	close(release)
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("queued save failed: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	// The autosave that was in flight completes first, then the queued
	// user save runs with its own notify flag intact.
	if len(notifies) != 2 || notifies[0] != false || notifies[1] != true {
		t.Errorf("notify order = %v, want [false true]", notifies)
	}
}

func TestPipelineOverflowingSubmissionsQueueInsteadOfDropping(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	total := 0

	p := NewPipeline(func(SaveRequest) error {
		once.Do(func() { close(started) })
		<-release
		mu.Lock()
		total++
		mu.Unlock()
		return nil
	})
	defer p.Close()

	// Far more submitters than the queue buffer can hold, all while the
	// first save is stuck in flight.
	const submits = 40
	errs := make(chan error, submits)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- p.Submit(SaveRequest{})
	}()
	<-started
	for i := 1; i < submits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- p.Submit(SaveRequest{})
		}()
	}
	time.Sleep(20 * time.Millisecond)

	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if total != submits {
		t.Errorf("completed %d of %d submitted saves", total, submits)
	}
}

func TestPipelinePropagatesErrors(t *testing.T) {
	boom := errors.New("persist failed")
	p := NewPipeline(func(SaveRequest) error { return boom })
	defer p.Close()

	if err := p.Submit(SaveRequest{}); !errors.Is(err, boom) {
		t.Errorf("Submit err = %v, want run error", err)
	}
	// The pipeline keeps draining after a failure.
	if err := p.Submit(SaveRequest{}); !errors.Is(err, boom) {
		t.Errorf("second Submit err = %v, want run error", err)
	}
}

func TestPipelineClosedSubmit(t *testing.T) {
	p := NewPipeline(func(SaveRequest) error { return nil })
	p.Close()
	if err := p.Submit(SaveRequest{}); !errors.Is(err, ErrPipelineClosed) {
		t.Errorf("Submit after close err = %v, want ErrPipelineClosed", err)
	}
}

func TestPipelineBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := NewPipeline(func(SaveRequest) error {
		close(started)
		<-release
		return nil
	})
	defer p.Close()

	if p.Busy() {
		t.Error("idle pipeline reports busy")
	}
	done := make(chan error, 1)
	go func() { done <- p.Submit(SaveRequest{}) }()
	<-started
	if !p.Busy() {
		t.Error("pipeline with in-flight save reports idle")
	}
	close(release)
	<-done
	if p.Busy() {
		t.Error("drained pipeline reports busy")
	}
}
