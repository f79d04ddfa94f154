package loandesk_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/loandesk/pkg/loansdk"
)

/*
 * Container setup and shared helpers for the loandesk end-to-end tests.
 * The image is built once in TestMain and every test gets a fresh container
 * with its own SQLite database.
 */

const (
	testImageName = "loandesk-test:latest"

	jwtSecret        = "e2e-test-secret-with-at-least-32-bytes!!"
	customerPassword = "Secret123"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "Skipping container tests in -short mode")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building LoanDesk Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up LoanDesk Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/loandesk/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // the image may already be gone
}

// baseEnv is the container environment shared by every test.
func baseEnv() map[string]string {
	return map[string]string{
		"ENV":                 "development",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
		"LOANDESK_JWT_SECRET": jwtSecret,
	}
}

// relaxedLimits lifts the rate limits so tests that make many quick calls
// do not trip them.
func relaxedLimits(env map[string]string) map[string]string {
	for _, prefix := range []string{"LOGIN", "SIGNUP", "MODERATE", "GENERAL"} {
		env["RATELIMIT_"+prefix+"_REQUESTS"] = "1000"
		env["RATELIMIT_"+prefix+"_WINDOW_SEC"] = "60"
		env["RATELIMIT_"+prefix+"_BURST"] = "1000"
	}
	return env
}

// setupContainer starts loandesk with relaxed rate limits and returns its
// base URL.
func setupContainer(t *testing.T) string {
	t.Helper()
	return startContainer(t, relaxedLimits(baseEnv()))
}

// setupContainerWithDefaultRateLimits is for tests that check the limits
// themselves.
func setupContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// signupCustomer registers a customer and returns its session.
func signupCustomer(t *testing.T, client *loansdk.Client, email string) *loansdk.Session {
	t.Helper()

	session, err := client.Signup(t.Context(), loansdk.SignupRequest{
		Email:     email,
		Password:  customerPassword,
		FirstName: "Casey",
		LastName:  "Morgan",
	})
	require.NoError(t, err, "signup should succeed")
	require.NotEmpty(t, session.Token())
	require.Equal(t, "customer", session.User().Role)
	return session
}

// requireStatus checks that err is an API error with the given status.
func requireStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err, msg)
	require.Equal(t, status, loansdk.StatusCode(err), "%s: %v", msg, err)
}
