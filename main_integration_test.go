package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	testAppBinary  = "./realestate_test_app"
	testAppPort    = "8089"
	testAppURL     = "http://localhost:" + testAppPort
	testDbName     = "realestate_integration_test"
	startupTimeout = 15 * time.Second
)

// integrationReady is false when the environment lacks the backing
// services; each test then skips instead of failing.
var integrationReady bool

// TestMain builds the binary, starts the API and background worker as
// separate processes and tears everything down afterwards.
func TestMain(m *testing.M) {
	godotenv.Load()
	mongoURI := os.Getenv("MONGO_URI_TEST")
	if mongoURI == "" {
		log.Println("MONGO_URI_TEST not set, integration tests will be skipped")
		os.Exit(m.Run())
	}

	defer func() {
		_ = os.Remove(testAppBinary)
	}()

	log.Println("Integration setup: building application...")
	buildCmd := exec.Command("go", "build", "-o", testAppBinary, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		log.Printf("Failed to build application: %v\n%s", err, out)
		os.Exit(1)
	}

	if err := dropTestDatabase(mongoURI); err != nil {
		log.Printf("Failed to reset test database: %v", err)
		os.Exit(1)
	}

	env := append(os.Environ(),
		"MONGO_URI="+mongoURI,
		"MONGO_DB_NAME="+testDbName,
		"API_PORT="+testAppPort,
		"APP_ENV=development",
		"JWT_SECRET=integration-test-secret",
		"GIN_MODE=release",
		"MOCK_SERVICES=true",
		"STORAGE_DRIVER=local",
		"UPLOAD_DIR="+os.TempDir()+"/realestate-test-uploads",
		"RATE_LIMIT_SOFT_BUCKET_SIZE=100",
		"RATE_LIMIT_SOFT_REFILL_RATE=100",
		"RATE_LIMIT_HARD_BUCKET_SIZE=200",
		"RATE_LIMIT_HARD_REFILL_RATE=200",
	)

	apiCmd := exec.Command(testAppBinary, "-m", "api")
	apiCmd.Env = env
	apiCmd.Stderr = os.Stderr
	if err := apiCmd.Start(); err != nil {
		log.Printf("Failed to start API process: %v", err)
		os.Exit(1)
	}

	bgCmd := exec.Command(testAppBinary, "-m", "bg")
	bgCmd.Env = env
	bgCmd.Stderr = os.Stderr
	if err := bgCmd.Start(); err != nil {
		_ = apiCmd.Process.Kill()
		log.Printf("Failed to start background worker: %v", err)
		os.Exit(1)
	}

	defer func() {
		for _, cmd := range []*exec.Cmd{bgCmd, apiCmd} {
			if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
				_ = cmd.Process.Kill()
				continue
			}
			_, _ = cmd.Process.Wait()
		}
	}()

	// Poll the health endpoint until the server answers.
	deadline := time.Now().Add(startupTimeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(testAppURL + "/")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				integrationReady = true
				break
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !integrationReady {
		log.Printf("Application failed to start within %v", startupTimeout)
		os.Exit(1)
	}

	m.Run()
}

func dropTestDatabase(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)
	return client.Database(testDbName).Drop(ctx)
}

func skipUnlessReady(t *testing.T) {
	t.Helper()
	if !integrationReady {
		t.Skip("MONGO_URI_TEST not set, skipping integration test")
	}
}

func postJSON(t *testing.T, path, token string, body any) (int, map[string]any) {
	t.Helper()
	return sendJSON(t, http.MethodPost, path, token, body)
}

func patchJSON(t *testing.T, path, token string, body any) (int, map[string]any) {
	t.Helper()
	return sendJSON(t, http.MethodPatch, path, token, body)
}

// sendJSON sends a JSON body and decodes the response envelope.
func sendJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, testAppURL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, req)
}

func getJSON(t *testing.T, path, token string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, testAppURL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, req)
}

func doRequest(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(raw, &envelope), "response was not JSON: %s", raw)
	return resp.StatusCode, envelope
}

// registerAndLogin creates a verified account through the public API and
// returns its auth token. The "0000" OTP bypass is active outside
// production.
func registerAndLogin(t *testing.T, fullName, mobile, email, role string) string {
	t.Helper()
	status, _ := postJSON(t, "/api/users/register", "", map[string]any{
		"fullName": fullName,
		"mobileNo": mobile,
		"email":    email,
		"address":  "Ahmedabad",
		"password": "integration-test-pw",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = postJSON(t, "/api/users/verifyotp", "", map[string]any{
		"mobileNo": mobile,
		"otp":      "0000",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := postJSON(t, "/api/users/login", "", map[string]any{
		"mobileNo": mobile,
		"password": "integration-test-pw",
	})
	require.Equal(t, http.StatusOK, status)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "login response missing data: %v", body)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestIntegration_Health(t *testing.T) {
	skipUnlessReady(t)

	status, body := getJSON(t, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestIntegration_RegisterLoginProfile(t *testing.T) {
	skipUnlessReady(t)

	token := registerAndLogin(t, "Integration User", "9890000001", "ituser@example.com", "user")

	status, body := getJSON(t, "/api/users/profile", token)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Integration User", data["fullName"])
	assert.NotContains(t, data, "password")

	// Unauthenticated profile access is rejected.
	status, _ = getJSON(t, "/api/users/profile", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIntegration_LoginBeforeVerificationFails(t *testing.T) {
	skipUnlessReady(t)

	status, _ := postJSON(t, "/api/users/register", "", map[string]any{
		"fullName": "Unverified User",
		"mobileNo": "9890000002",
		"email":    "unverified@example.com",
		"address":  "Ahmedabad",
		"password": "integration-test-pw",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = postJSON(t, "/api/users/login", "", map[string]any{
		"mobileNo": "9890000002",
		"password": "integration-test-pw",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestIntegration_PropertyAndShareFlow(t *testing.T) {
	skipUnlessReady(t)

	brokerToken := registerAndLogin(t, "Integration Broker", "9890000003", "itbroker@example.com", "broker")
	customerToken := registerAndLogin(t, "Integration Customer", "9890000004", "itcustomer@example.com", "user")

	// Customers cannot create listings.
	status, _ := postForm(t, "/api/property/addproperty", customerToken, map[string]string{
		"title": "Should Fail",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := postForm(t, "/api/property/addproperty", brokerToken, map[string]string{
		"title":     "Integration Flat",
		"price":     "25000",
		"area":      "Bodakdev",
		"location":  "Ahmedabad",
		"type":      "Residential",
		"category":  "Rent",
		"format":    "2BHK",
		"furnished": "Semi",
	})
	require.Equal(t, http.StatusCreated, status, "addproperty failed: %v", body)
	propertyID := body["data"].(map[string]any)["id"].(string)

	// The listing shows up in the catalogue with owner contact.
	status, body = getJSON(t, "/api/property/getallproperties?search=Integration+Flat", customerToken)
	require.Equal(t, http.StatusOK, status)
	listingData := body["data"].(map[string]any)
	properties := listingData["properties"].([]any)
	require.Len(t, properties, 1)
	first := properties[0].(map[string]any)
	assert.Equal(t, "Integration Flat", first["title"])
	require.Contains(t, first, "postedByDetails")
	assert.Equal(t, "Integration Broker", first["postedByDetails"].(map[string]any)["fullName"])

	// Broker shares the listing with the customer.
	customerID := profileID(t, customerToken)
	status, body = postJSON(t, "/api/shareproperty/share", brokerToken, map[string]any{
		"sharedWith": customerID,
		"propertyId": propertyID,
	})
	require.Equal(t, http.StatusCreated, status, "share failed: %v", body)
	shareID := body["data"].(map[string]any)["id"].(string)

	// Sharing the same listing twice is a conflict.
	status, _ = postJSON(t, "/api/shareproperty/share", brokerToken, map[string]any{
		"sharedWith": customerID,
		"propertyId": propertyID,
	})
	assert.Equal(t, http.StatusConflict, status)

	// The customer sees the share and marks interest.
	status, body = getJSON(t, "/api/shareproperty/sharedwithme", customerToken)
	require.Equal(t, http.StatusOK, status)
	view := body["data"].(map[string]any)
	shares := view["properties"].([]any)
	require.Len(t, shares, 1)
	assert.Equal(t, "Pending", shares[0].(map[string]any)["status"])
	assert.Nil(t, view["customerRequirement"])

	status, body = patchJSON(t, "/api/shareproperty/changestatus/"+shareID, customerToken, map[string]any{
		"status": "Interested",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Interested", body["data"].(map[string]any)["status"])

	// Dashboard reflects the listing and the share.
	status, body = getJSON(t, "/api/property/brokerdashboard", brokerToken)
	require.Equal(t, http.StatusOK, status)
	dashboard := body["data"].(map[string]any)
	assert.Equal(t, float64(1), dashboard["totalProperties"])
	assert.Equal(t, float64(1), dashboard["totalShares"])
}

func profileID(t *testing.T, token string) string {
	t.Helper()
	status, body := getJSON(t, "/api/users/profile", token)
	require.Equal(t, http.StatusOK, status)
	return body["data"].(map[string]any)["id"].(string)
}

// postForm sends multipart form fields the way the listing endpoints
// expect them.
func postForm(t *testing.T, path, token string, fields map[string]string) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, testAppURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, req)
}
