//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/brightclass/admin-api/internal/bulkops/executor"
	bulkopsModel "github.com/brightclass/admin-api/internal/bulkops/model"
	"github.com/brightclass/admin-api/internal/bulkops/registry"
	bulkopsRouter "github.com/brightclass/admin-api/internal/bulkops/router"
	"github.com/brightclass/admin-api/internal/config"
	"github.com/brightclass/admin-api/internal/database/migrate"
	directoryModel "github.com/brightclass/admin-api/internal/directory/model"
	directoryRepo "github.com/brightclass/admin-api/internal/directory/repository"
	directoryRouter "github.com/brightclass/admin-api/internal/directory/router"
	"github.com/brightclass/admin-api/internal/health"
	"github.com/brightclass/admin-api/internal/middleware"
)

const defaultTenant = "springfield-high"

// E2ETestSuite runs the API against a real PostgreSQL instance. The schema is
// applied through the production migration path.
type E2ETestSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	db          *gorm.DB
	registry    *registry.InMemory
	server      *httptest.Server
	httpClient  *http.Client
}

// SetupSuite runs once before all tests
func (s *E2ETestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgContainer, err := postgres.Run(s.ctx,
		"postgres:12-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(s.T(), err, "failed to start PostgreSQL container")
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "failed to get connection string")

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(s.T(), err, "failed to connect to database")
	s.db = db

	// Apply migrations through the same path the server uses at startup
	s.T().Setenv("MIGRATIONS_PATH", "../../migrations")
	require.NoError(s.T(), migrate.Migrate(db), "failed to apply migrations")

	// Wire the application in-process against the containerized database
	log := zap.NewNop().Sugar()
	repo := directoryRepo.New(db, log)
	s.registry = registry.New(executor.New(repo, log), config.BulkOpsConfig{
		Mode:              "live",
		TickInterval:      time.Millisecond,
		SecondsPerPercent: 0.001,
		SubmitDelay:       0,
	}, log)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Tenant())

	healthHandler := health.New(db, log)
	r.GET("/health", healthHandler.Check)
	directoryRouter.RegisterRoutes(r, db, log)
	bulkopsRouter.RegisterRoutes(r, s.registry, log)

	s.server = httptest.NewServer(r)
	s.httpClient = &http.Client{Timeout: 30 * time.Second}
}

// TearDownSuite runs once after all tests
func (s *E2ETestSuite) TearDownSuite() {
	if s.registry != nil {
		s.registry.Close()
	}
	if s.server != nil {
		s.server.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
}

// SetupTest runs before each test
func (s *E2ETestSuite) SetupTest() {
	s.db.Exec("TRUNCATE TABLE users")
	s.registry.ClearCompleted(defaultTenant)
}

// Helper methods for HTTP requests

// doRequest performs an HTTP request with the suite tenant header.
func (s *E2ETestSuite) doRequest(method, path string, body interface{}) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err, "failed to marshal request body")
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.T(), err, "failed to create request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.TenantHeader, defaultTenant)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "failed to read response body")
	resp.Body.Close()

	return resp, respBody
}

// seedUser inserts a directory user directly into the database.
func (s *E2ETestSuite) seedUser(user directoryModel.User) directoryModel.User {
	user.TenantID = defaultTenant
	if user.Status == "" {
		user.Status = directoryModel.StatusActive
	}
	require.NoError(s.T(), s.db.Create(&user).Error, "failed to seed user")
	return user
}

// submitOperation submits a bulk operation and returns the accepted job.
func (s *E2ETestSuite) submitOperation(body map[string]interface{}) *bulkopsModel.SubmitResponse {
	resp, respBody := s.doRequest("POST", "/bulk-operations", body)
	if resp.StatusCode != http.StatusAccepted {
		s.T().Logf("submit failed: status=%d body=%s", resp.StatusCode, string(respBody))
		return nil
	}

	var result bulkopsModel.SubmitResponse
	require.NoError(s.T(), json.Unmarshal(respBody, &result), "failed to unmarshal submit response")
	return &result
}

// waitForJob polls the job until it reaches a terminal state.
func (s *E2ETestSuite) waitForJob(jobID string) bulkopsModel.Job {
	var job bulkopsModel.Job
	require.Eventually(s.T(), func() bool {
		resp, respBody := s.doRequest("GET", "/bulk-operations/"+jobID, nil)
		if resp.StatusCode != http.StatusOK {
			return false
		}
		var jobResp bulkopsModel.JobResponse
		if err := json.Unmarshal(respBody, &jobResp); err != nil {
			return false
		}
		job = jobResp.Job
		return job.Status.Terminal()
	}, 10*time.Second, 10*time.Millisecond, "job %s did not finish in time", jobID)
	return job
}

// getResult fetches the completed result for a job.
func (s *E2ETestSuite) getResult(jobID string) *bulkopsModel.ResultResponse {
	resp, respBody := s.doRequest("GET", fmt.Sprintf("/bulk-operations/%s/result", jobID), nil)
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var result bulkopsModel.ResultResponse
	require.NoError(s.T(), json.Unmarshal(respBody, &result), "failed to unmarshal result response")
	return &result
}

// parseErrorResponse parses the error envelope.
func (s *E2ETestSuite) parseErrorResponse(respBody []byte) (string, string) {
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(s.T(), json.Unmarshal(respBody, &errResp), "failed to unmarshal error response")
	return errResp.Error.Code, errResp.Error.Message
}
