//go:build e2e
// +build e2e

package e2e

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	bulkopsModel "github.com/brightclass/admin-api/internal/bulkops/model"
	directoryModel "github.com/brightclass/admin-api/internal/directory/model"
)

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (s *E2ETestSuite) TestSuspendLifecycle() {
	active := s.seedUser(directoryModel.User{UserID: "u1", Email: "a@school.edu", Role: "student"})
	suspended := s.seedUser(directoryModel.User{
		UserID: "u2", Email: "b@school.edu", Role: "student", Status: directoryModel.StatusSuspended,
	})

	submitResp := s.submitOperation(map[string]interface{}{
		"kind":            "suspend",
		"target_user_ids": []string{active.UserID, suspended.UserID, "missing"},
	})
	require.NotNil(s.T(), submitResp)
	assert.Equal(s.T(), bulkopsModel.StatusProcessing, submitResp.Job.Status)
	assert.Equal(s.T(), 3, submitResp.Job.TotalTargets)

	job := s.waitForJob(submitResp.Job.ID)
	assert.Equal(s.T(), bulkopsModel.StatusCompleted, job.Status)
	assert.Equal(s.T(), 100.0, job.Progress)

	result := s.getResult(job.ID)
	require.NotNil(s.T(), result)
	assert.Equal(s.T(), 1, result.Result.SuccessCount)
	assert.Equal(s.T(), 1, result.Result.SkippedCount)
	assert.Equal(s.T(), 1, result.Result.FailureCount)

	// The database reflects the mutation
	var refreshed directoryModel.User
	err := s.db.Where("tenant_id = ? AND user_id = ?", defaultTenant, active.UserID).First(&refreshed).Error
	require.NoError(s.T(), err)
	assert.Equal(s.T(), directoryModel.StatusSuspended, refreshed.Status)
}

func (s *E2ETestSuite) TestInviteCreatesUsers() {
	s.seedUser(directoryModel.User{UserID: "u1", Email: "taken@school.edu", Role: "student"})

	submitResp := s.submitOperation(map[string]interface{}{
		"kind": "invite",
		"payload": map[string]interface{}{
			"recipients": []map[string]interface{}{
				{"email": "new@school.edu", "first_name": "Jane", "last_name": "Doe", "role": "student"},
			},
			"recipients_text":         "extra@school.edu",
			"default_role":            "student",
			"require_password_change": true,
		},
	})
	require.NotNil(s.T(), submitResp)

	job := s.waitForJob(submitResp.Job.ID)
	assert.Equal(s.T(), bulkopsModel.StatusCompleted, job.Status)

	result := s.getResult(job.ID)
	require.NotNil(s.T(), result)
	assert.Equal(s.T(), 2, result.Result.SuccessCount)

	var count int64
	s.db.Model(&directoryModel.User{}).
		Where("tenant_id = ? AND status = ?", defaultTenant, directoryModel.StatusInvited).
		Count(&count)
	assert.Equal(s.T(), int64(2), count)
}

func (s *E2ETestSuite) TestInviteDuplicateEmailSkipped() {
	s.seedUser(directoryModel.User{UserID: "u1", Email: "taken@school.edu", Role: "student"})

	submitResp := s.submitOperation(map[string]interface{}{
		"kind": "invite",
		"payload": map[string]interface{}{
			"recipients": []map[string]interface{}{
				{"email": "taken@school.edu", "role": "student"},
			},
		},
	})
	require.NotNil(s.T(), submitResp)

	s.waitForJob(submitResp.Job.ID)
	result := s.getResult(submitResp.Job.ID)
	require.NotNil(s.T(), result)
	assert.Equal(s.T(), 1, result.Result.SkippedCount)
}

func (s *E2ETestSuite) TestExportDownload() {
	user := s.seedUser(directoryModel.User{
		UserID: "u1", Email: "amy@school.edu", FirstName: "Amy", LastName: "Adams", Role: "student",
	})

	submitResp := s.submitOperation(map[string]interface{}{
		"kind":            "export",
		"target_user_ids": []string{user.UserID},
		"payload": map[string]interface{}{
			"format":      "csv",
			"field_group": "contact",
		},
	})
	require.NotNil(s.T(), submitResp)

	s.waitForJob(submitResp.Job.ID)
	result := s.getResult(submitResp.Job.ID)
	require.NotNil(s.T(), result)
	require.NotEmpty(s.T(), result.Result.DownloadURL)

	resp, respBody := s.doRequest("GET", result.Result.DownloadURL, nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(s.T(), resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(s.T(), string(respBody), "amy@school.edu")
}

func (s *E2ETestSuite) TestValidationFailure() {
	resp, respBody := s.doRequest("POST", "/bulk-operations", map[string]interface{}{
		"kind":            "change_role",
		"target_user_ids": []string{"u1"},
		"payload":         map[string]interface{}{"new_role": "principal"},
	})

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	code, _ := s.parseErrorResponse(respBody)
	assert.Equal(s.T(), "VALIDATION_FAILED", code)
	assert.True(s.T(), strings.Contains(string(respBody), "principal"))
}

func (s *E2ETestSuite) TestDeleteSparesAdmins() {
	admin := s.seedUser(directoryModel.User{UserID: "u1", Email: "admin@school.edu", Role: "admin"})
	student := s.seedUser(directoryModel.User{UserID: "u2", Email: "kid@school.edu", Role: "student"})

	submitResp := s.submitOperation(map[string]interface{}{
		"kind":            "delete",
		"target_user_ids": []string{admin.UserID, student.UserID},
	})
	require.NotNil(s.T(), submitResp)

	s.waitForJob(submitResp.Job.ID)
	result := s.getResult(submitResp.Job.ID)
	require.NotNil(s.T(), result)
	assert.Equal(s.T(), 1, result.Result.FailureCount)
	assert.Equal(s.T(), 1, result.Result.SuccessCount)
	assert.Contains(s.T(), result.Result.Errors, "cannot delete admin users")

	var refreshed directoryModel.User
	err := s.db.Where("tenant_id = ? AND user_id = ?", defaultTenant, admin.UserID).First(&refreshed).Error
	require.NoError(s.T(), err)
	assert.Equal(s.T(), directoryModel.StatusActive, refreshed.Status)
}

func (s *E2ETestSuite) TestHealth() {
	resp, respBody := s.doRequest("GET", "/health", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(s.T(), string(respBody), `"status":"ok"`)
}
