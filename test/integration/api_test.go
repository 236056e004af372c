package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// IntegrationTestSuite drives a running storefront over HTTP.
//
// - TEST_SERVER_URL points the suite at an already running server.
// - START_TEST_SERVER=true starts cmd/server in a subprocess and waits for /health.
// - Without either the suite is skipped.
type IntegrationTestSuite struct {
	suite.Suite
	serverCmd    *exec.Cmd
	serverCancel func()
	client       *http.Client
	baseURL      string
}

func (s *IntegrationTestSuite) SetupSuite() {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{Timeout: 5 * time.Second, Jar: jar}

	if base := os.Getenv("TEST_SERVER_URL"); base != "" {
		s.baseURL = base
		return
	}

	if os.Getenv("START_TEST_SERVER") != "true" {
		s.T().Skip("set TEST_SERVER_URL or START_TEST_SERVER=true to run integration tests")
	}

	required := []string{"SQUARE_ACCESS_TOKEN", "SQUARE_LOCATION_ID"}
	if missing := checkRequiredEnv(required); len(missing) > 0 {
		s.T().Fatalf("START_TEST_SERVER=true but required env vars missing: %v", missing)
	}

	cmd, cancel, err := startServerProcess()
	if err != nil {
		s.T().Fatalf("failed to start server subprocess: %v", err)
	}
	s.serverCmd = cmd
	s.serverCancel = cancel

	s.baseURL = "http://localhost:8080"
	timeoutSecs := 60
	if v := os.Getenv("TEST_SERVER_STARTUP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeoutSecs = n
		}
	}
	if ok := waitForServerUp(s.client, s.baseURL, timeoutSecs); !ok {
		_ = cmd.Process.Kill()
		s.T().Fatal("server did not come up in time")
	}
}

// checkRequiredEnv returns a slice of missing environment variable names.
func checkRequiredEnv(keys []string) []string {
	var missing []string
	for _, k := range keys {
		if os.Getenv(k) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// startServerProcess runs cmd/server with in-memory storage.
func startServerProcess() (*exec.Cmd, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	repoRoot := filepath.Join(wd, "..", "..")
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/server")
	cmd.Dir = repoRoot
	cmd.Env = append(os.Environ(), "CART_STORAGE=memory", "CACHE_BACKEND=memory")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, err
	}
	return cmd, cancel, nil
}

// waitForServerUp polls /health until the server answers at all. Upstream probes may
// still report degraded, so any status counts.
func waitForServerUp(client *http.Client, baseURL string, timeoutSecs int) bool {
	fmt.Fprintf(os.Stdout, "Waiting up to %ds for test server to come up...\n", timeoutSecs)
	deadline := time.Now().Add(time.Duration(timeoutSecs) * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.serverCmd != nil && s.serverCmd.Process != nil {
		if s.serverCancel != nil {
			s.serverCancel()
		} else {
			_ = s.serverCmd.Process.Signal(os.Interrupt)
		}

		done := make(chan struct{})
		go func() {
			_ = s.serverCmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			_ = s.serverCmd.Process.Kill()
		}
	}
}

type cartStateBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	CartState *struct {
		Items []struct {
			ID       string  `json:"id"`
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity"`
		} `json:"items"`
		Total     float64 `json:"total"`
		ItemCount int     `json:"itemCount"`
	} `json:"cartState"`
}

func (s *IntegrationTestSuite) postCart(body string) (int, cartStateBody) {
	resp, err := s.client.Post(s.baseURL+"/api/v1/cart", "application/json", bytes.NewBufferString(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out cartStateBody
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (s *IntegrationTestSuite) TestHealthCheck() {
	resp, err := s.client.Get(s.baseURL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	var health map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&health))
	s.Equal("storefront", health["service"])
	s.Contains([]string{"healthy", "degraded"}, health["status"])
}

func (s *IntegrationTestSuite) TestCartRoundTrip() {
	code, out := s.postCart(`{"action":"clear"}`)
	s.Equal(http.StatusOK, code)
	s.True(out.Success)

	s.postCart(`{"action":"add","data":{"id":"it-deck","title":"Deck","price":25.00,"quantity":2}}`)
	code, out = s.postCart(`{"action":"add","data":{"id":"it-deck","quantity":1}}`)
	s.Equal(http.StatusOK, code)
	s.Require().NotNil(out.CartState)
	s.Equal(3, out.CartState.ItemCount)
	s.InDelta(75.0, out.CartState.Total, 0.001)

	code, out = s.postCart(`{"action":"remove","data":{"id":"it-deck"}}`)
	s.Equal(http.StatusOK, code)
	s.Empty(out.CartState.Items)
}

func (s *IntegrationTestSuite) TestCartRejectsUnknownAction() {
	code, out := s.postCart(`{"action":"explode"}`)
	s.Equal(http.StatusBadRequest, code)
	s.False(out.Success)
	s.NotEmpty(out.Error)
}

func (s *IntegrationTestSuite) TestPricingValidation() {
	resp, err := s.client.Post(s.baseURL+"/api/v1/cart/pricing", "application/json",
		bytes.NewBufferString(`{"items":[{"id":"x","price":1,"quantity":1}],"fulfillmentMethod":"drone"}`))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
