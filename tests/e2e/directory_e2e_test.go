//go:build e2e
// +build e2e

package e2e

import (
	"encoding/json"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	directoryModel "github.com/brightclass/admin-api/internal/directory/model"
)

func (s *E2ETestSuite) TestListUsersWithFilters() {
	s.seedUser(directoryModel.User{UserID: "u1", Email: "a@school.edu", Role: "student", Grade: "7"})
	s.seedUser(directoryModel.User{UserID: "u2", Email: "b@school.edu", Role: "teacher"})
	s.seedUser(directoryModel.User{
		UserID: "u3", Email: "c@school.edu", Role: "student", Status: directoryModel.StatusSuspended,
	})

	resp, respBody := s.doRequest("GET", "/users?role=student&status=active", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var listResp directoryModel.ListUsersResponse
	require.NoError(s.T(), json.Unmarshal(respBody, &listResp))
	require.Len(s.T(), listResp.Users, 1)
	assert.Equal(s.T(), "u1", listResp.Users[0].UserID)
	assert.Equal(s.T(), int64(1), listResp.Total)
}

func (s *E2ETestSuite) TestListUsersRejectsUnknownRole() {
	resp, respBody := s.doRequest("GET", "/users?role=principal", nil)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)

	code, _ := s.parseErrorResponse(respBody)
	assert.Equal(s.T(), "INVALID_REQUEST", code)
}

func (s *E2ETestSuite) TestGetUser() {
	user := s.seedUser(directoryModel.User{UserID: "u1", Email: "a@school.edu", Role: "student"})

	resp, respBody := s.doRequest("GET", "/users/"+user.UserID, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var getResp directoryModel.GetUserResponse
	require.NoError(s.T(), json.Unmarshal(respBody, &getResp))
	assert.Equal(s.T(), "a@school.edu", getResp.User.Email)
}

func (s *E2ETestSuite) TestGetUserNotFound() {
	resp, respBody := s.doRequest("GET", "/users/missing", nil)
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)

	code, _ := s.parseErrorResponse(respBody)
	assert.Equal(s.T(), "NOT_FOUND", code)
}

func (s *E2ETestSuite) TestTenantIsolation() {
	s.seedUser(directoryModel.User{UserID: "u1", Email: "a@school.edu", Role: "student"})

	// A different tenant sees an empty directory
	req, err := http.NewRequest("GET", s.server.URL+"/users", nil)
	require.NoError(s.T(), err)
	req.Header.Set("X-Tenant-ID", "shelbyville")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	var listResp directoryModel.ListUsersResponse
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&listResp))
	assert.Empty(s.T(), listResp.Users)
}
