package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/bulkops/model"
)

// MockRegistry is a mock implementation of registry.Registry.
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Submit(ctx context.Context, op *model.Operation) (model.Job, error) {
	args := m.Called(ctx, op)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *MockRegistry) Cancel(jobID string) error {
	args := m.Called(jobID)
	return args.Error(0)
}

func (m *MockRegistry) Job(jobID string) (model.Job, error) {
	args := m.Called(jobID)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *MockRegistry) ActiveJobs(tenantID string) []model.Job {
	args := m.Called(tenantID)
	return args.Get(0).([]model.Job)
}

func (m *MockRegistry) CompletedResults(tenantID string) []model.Result {
	args := m.Called(tenantID)
	return args.Get(0).([]model.Result)
}

func (m *MockRegistry) ClearCompleted(tenantID string) {
	m.Called(tenantID)
}

func (m *MockRegistry) Result(jobID string) (model.Result, error) {
	args := m.Called(jobID)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockRegistry) Download(jobID string) (model.ExportFile, error) {
	args := m.Called(jobID)
	return args.Get(0).(model.ExportFile), args.Error(1)
}

func (m *MockRegistry) Close() {
	m.Called()
}

func newTestService(reg *MockRegistry) Service {
	return New(reg, zap.NewNop().Sugar())
}

func TestService_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reg := new(MockRegistry)
		svc := newTestService(reg)

		expected := model.Job{ID: "job-1", Kind: model.KindSuspend, Status: model.StatusProcessing}
		reg.On("Submit", mock.Anything, mock.MatchedBy(func(op *model.Operation) bool {
			return op.TenantID == "springfield" &&
				op.Kind == model.KindSuspend &&
				len(op.TargetUserIDs) == 2
		})).Return(expected, nil)

		resp, err := svc.Submit(context.Background(), "springfield", &model.SubmitRequest{
			Kind:          "suspend",
			TargetUserIDs: []string{"u1", "u2"},
		})

		require.NoError(t, err)
		assert.Equal(t, expected, resp.Job)
		assert.Empty(t, resp.Warnings)
		reg.AssertExpectations(t)
	})

	t.Run("unknown kind never reaches the registry", func(t *testing.T) {
		reg := new(MockRegistry)
		svc := newTestService(reg)

		_, err := svc.Submit(context.Background(), "springfield", &model.SubmitRequest{Kind: "promote"})

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		reg.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("malformed payload never reaches the registry", func(t *testing.T) {
		reg := new(MockRegistry)
		svc := newTestService(reg)

		_, err := svc.Submit(context.Background(), "springfield", &model.SubmitRequest{
			Kind:          "change_role",
			TargetUserIDs: []string{"u1"},
			Payload:       json.RawMessage(`{"new_role": "teacher", "force": true}`),
		})

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		reg.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("risk warnings accompany the job", func(t *testing.T) {
		reg := new(MockRegistry)
		svc := newTestService(reg)

		reg.On("Submit", mock.Anything, mock.Anything).
			Return(model.Job{ID: "job-1", Kind: model.KindChangeRole}, nil)

		resp, err := svc.Submit(context.Background(), "springfield", &model.SubmitRequest{
			Kind:          "change_role",
			TargetUserIDs: []string{"u1"},
			Payload:       json.RawMessage(`{"new_role": "admin"}`),
		})

		require.NoError(t, err)
		require.Len(t, resp.Warnings, 1)
		assert.Contains(t, resp.Warnings[0], "admin")
	})

	t.Run("registry errors pass through", func(t *testing.T) {
		reg := new(MockRegistry)
		svc := newTestService(reg)

		reg.On("Submit", mock.Anything, mock.Anything).
			Return(model.Job{}, model.NewValidationError([]string{"at least one target user is required"}))

		_, err := svc.Submit(context.Background(), "springfield", &model.SubmitRequest{Kind: "suspend"})

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestService_Cancel(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		svc := newTestService(new(MockRegistry))
		assert.ErrorIs(t, svc.Cancel(""), model.ErrJobNotFound)
	})

	t.Run("delegates to the registry", func(t *testing.T) {
		reg := new(MockRegistry)
		svc := newTestService(reg)

		reg.On("Cancel", "job-1").Return(nil)

		require.NoError(t, svc.Cancel("job-1"))
		reg.AssertExpectations(t)
	})
}

func TestService_GetJob(t *testing.T) {
	reg := new(MockRegistry)
	svc := newTestService(reg)

	reg.On("Job", "job-1").Return(model.Job{ID: "job-1"}, nil)
	reg.On("Job", "missing").Return(model.Job{}, model.ErrJobNotFound)

	resp, err := svc.GetJob("job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", resp.Job.ID)

	_, err = svc.GetJob("missing")
	assert.ErrorIs(t, err, model.ErrJobNotFound)
}

func TestService_ActiveJobs(t *testing.T) {
	reg := new(MockRegistry)
	svc := newTestService(reg)

	reg.On("ActiveJobs", "springfield").Return([]model.Job{{ID: "job-1"}})

	resp := svc.ActiveJobs("springfield")
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "job-1", resp.Jobs[0].ID)
}

func TestService_CompletedResults(t *testing.T) {
	reg := new(MockRegistry)
	svc := newTestService(reg)

	reg.On("CompletedResults", "springfield").Return([]model.Result{{JobID: "job-1"}})

	resp := svc.CompletedResults("springfield")
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "job-1", resp.Results[0].JobID)
}

func TestService_ClearCompleted(t *testing.T) {
	reg := new(MockRegistry)
	svc := newTestService(reg)

	reg.On("ClearCompleted", "springfield").Return()

	svc.ClearCompleted("springfield")
	reg.AssertExpectations(t)
}

func TestService_GetResult(t *testing.T) {
	reg := new(MockRegistry)
	svc := newTestService(reg)

	reg.On("Result", "job-1").Return(model.Result{JobID: "job-1", SuccessCount: 3}, nil)
	reg.On("Result", "running").Return(model.Result{}, model.ErrResultNotReady)

	resp, err := svc.GetResult("job-1")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Result.SuccessCount)

	_, err = svc.GetResult("running")
	assert.ErrorIs(t, err, model.ErrResultNotReady)
}

func TestService_Download(t *testing.T) {
	reg := new(MockRegistry)
	svc := newTestService(reg)

	file := model.ExportFile{FileName: "users.csv", ContentType: "text/csv"}
	reg.On("Download", "job-1").Return(file, nil)
	reg.On("Download", "job-2").Return(model.ExportFile{}, model.ErrNoExport)

	got, err := svc.Download("job-1")
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = svc.Download("job-2")
	assert.ErrorIs(t, err, model.ErrNoExport)
}
