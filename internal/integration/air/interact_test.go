package air

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// taskStatusHandler serves /tasks/{id} with a scripted status sequence,
// holding the last status once the script runs out.
func taskStatusHandler(statuses []string) http.Handler {
	var calls int64
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		writeEnvelope(w, 200, map[string]interface{}{
			"success": true, "statusCode": 200, "errors": []string{},
			"result": map[string]interface{}{
				"_id":    "t-1",
				"type":   "interact-shell",
				"status": statuses[idx],
			},
		})
	})
}

func TestWaitForSession_GoesLive(t *testing.T) {
	conn, _ := newTestIntegration(t, taskStatusHandler([]string{
		TaskStatusAssigned, TaskStatusScheduled, TaskStatusProcessing,
	}))

	result, err := conn.Execute(context.Background(), "wait_for_session", map[string]interface{}{
		"task_id": "t-1",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if status := result.Metadata["status"]; status != SessionStatusLive {
		t.Errorf("status = %v, want %q", status, SessionStatusLive)
	}
}

func TestWaitForSession_TerminalStatusReported(t *testing.T) {
	for _, terminal := range []string{TaskStatusCompleted, TaskStatusCancelled, TaskStatusFailed} {
		t.Run(terminal, func(t *testing.T) {
			conn, _ := newTestIntegration(t, taskStatusHandler([]string{TaskStatusAssigned, terminal}))

			result, err := conn.Execute(context.Background(), "wait_for_session", map[string]interface{}{
				"task_id": "t-1",
			})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if status := result.Metadata["status"]; status != terminal {
				t.Errorf("status = %v, want %q", status, terminal)
			}
		})
	}
}

// An elapsed timeout is a result, not an error.
func TestWaitForSession_TimeoutReturnsResult(t *testing.T) {
	conn, _ := newTestIntegration(t, taskStatusHandler([]string{TaskStatusAssigned}))

	result, err := conn.Execute(context.Background(), "wait_for_session", map[string]interface{}{
		"task_id": "t-1",
		"timeout": 1,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if status := result.Metadata["status"]; status != SessionStatusTimeout {
		t.Errorf("status = %v, want %q", status, SessionStatusTimeout)
	}
}

func TestWaitForSession_TransientErrorsSwallowed(t *testing.T) {
	var calls int64
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			// Transport-level garbage on the first poll.
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
			return
		}
		taskStatusHandler([]string{TaskStatusProcessing}).ServeHTTP(w, r)
	}))

	result, err := conn.Execute(context.Background(), "wait_for_session", map[string]interface{}{
		"task_id": "t-1",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, transient poll errors should be retried", err)
	}
	if status := result.Metadata["status"]; status != SessionStatusLive {
		t.Errorf("status = %v, want %q", status, SessionStatusLive)
	}
}

func TestWaitForSession_NotFoundAborts(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 404, map[string]interface{}{
			"success": false, "statusCode": 404,
			"errors": []string{"No task found"}, "result": nil,
		})
	}))

	done := make(chan error, 1)
	go func() {
		_, err := conn.Execute(context.Background(), "wait_for_session", map[string]interface{}{
			"task_id": "t-1",
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("missing task should abort the wait")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not abort on task-not-found")
	}
}

func TestWaitForSession_WrongTaskTypeAborts(t *testing.T) {
	conn, _ := newTestIntegration(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, map[string]interface{}{
			"success": true, "statusCode": 200, "errors": []string{},
			"result": map[string]interface{}{
				"_id": "t-1", "type": "triage", "status": TaskStatusAssigned,
			},
		})
	}))

	done := make(chan error, 1)
	go func() {
		_, err := conn.Execute(context.Background(), "wait_for_session", map[string]interface{}{
			"task_id": "t-1",
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("wrong task type should abort the wait")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not abort on wrong task type")
	}
}

func TestWaitForSession_ContextCancellation(t *testing.T) {
	conn, _ := newTestIntegration(t, taskStatusHandler([]string{TaskStatusAssigned}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := conn.Execute(ctx, "wait_for_session", map[string]interface{}{"task_id": "t-1"})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("cancellation should surface as an error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not observe cancellation")
	}
}
