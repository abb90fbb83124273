package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/odyssey-erp/backoffice/internal/jobs"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

type recorderStub struct {
	events []shared.AuditEvent
	err    error
}

func (r *recorderStub) Record(ctx context.Context, event shared.AuditEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func sampleEvent() shared.AuditEvent {
	return shared.AuditEvent{
		Entity:     "job_posting",
		EntityID:   "0d8f7f59-2b8a-4c1e-8c55-7e3a8d1b2c3d",
		Action:     shared.AuditActionSoftDelete,
		ActorID:    "r-1",
		ActorRole:  "HrRecruiter",
		OccurredAt: time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuditTaskRoundTrip(t *testing.T) {
	task, err := NewAuditTask(sampleEvent())
	require.NoError(t, err)
	assert.Equal(t, TaskTypeAuditRecord, task.Type())

	rec := &recorderStub{}
	require.NoError(t, NewAuditHandler(rec)(context.Background(), task))
	require.Len(t, rec.events, 1)
	assert.Equal(t, sampleEvent(), rec.events[0])
}

func TestAuditTaskRejectsIncompleteEvent(t *testing.T) {
	_, err := NewAuditTask(shared.AuditEvent{Entity: "x"})
	assert.Error(t, err)
}

func TestAuditHandlerSkipsRetryOnBadPayload(t *testing.T) {
	rec := &recorderStub{}
	err := NewAuditHandler(rec)(context.Background(), asynq.NewTask(TaskTypeAuditRecord, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	payload, _ := json.Marshal(shared.AuditEvent{Entity: "x"})
	err = NewAuditHandler(rec)(context.Background(), asynq.NewTask(TaskTypeAuditRecord, payload))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, rec.events)
}

func TestAuditHandlerRetriesStorageErrors(t *testing.T) {
	rec := &recorderStub{err: errors.New("db down")}
	task, err := NewAuditTask(sampleEvent())
	require.NoError(t, err)

	err = NewAuditHandler(rec)(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

type inspectorStub struct {
	info *asynq.QueueInfo
	err  error
}

func (i inspectorStub) GetQueueInfo(queue string) (*asynq.QueueInfo, error) { return i.info, i.err }

func TestHealthEndpoint(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(inspectorStub{info: &asynq.QueueInfo{Queue: "default", Pending: 3, Retry: 1, Archived: 2}}, nil, nil).MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":3,"retry":1,"failed":2}`, rr.Body.String())
}

func TestHealthEndpointInspectorFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(inspectorStub{err: errors.New("redis down")}, nil, nil).MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestInstrumentPassesThroughResult(t *testing.T) {
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	rec := &recorderStub{}
	task, err := NewAuditTask(sampleEvent())
	require.NoError(t, err)

	handler := Instrument(metrics, TaskTypeAuditRecord, NewAuditHandler(rec))
	require.NoError(t, handler(context.Background(), task))
	assert.Len(t, rec.events, 1)

	err = handler(context.Background(), asynq.NewTask(TaskTypeAuditRecord, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
