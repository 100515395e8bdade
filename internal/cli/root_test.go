package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/appServer"
	repository "github.com/ds124wfegd/eventhive/internal/database/memory"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points the command line at srv with a session file in a
// temporary directory.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
api:
  base_url: %q
  timeout: 5s
session:
  driver: sqlite
  path: %q
log:
  level: error
`, baseURL, filepath.Join(dir, "session.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append(args, "--config", configPath))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler, err := appServer.NewHandler(context.Background(), &config.Config{Server: config.ServerConfig{
		Timeout:      5 * time.Second,
		JWTSecret:    "cli-test",
		TokenTTL:     time.Hour,
		SeedPassword: "password",
	}})
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// firstEventID reads the id column of the first row of an events table.
func firstEventID(t *testing.T, table string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.GreaterOrEqual(t, len(lines), 3, table)
	return strings.Fields(lines[2])[0]
}

// TestStudentSession тестирует сценарий студента от входа до выхода
func TestStudentSession(t *testing.T) {
	srv := newServer(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, cfg, "whoami")
	assert.Error(t, err)

	out, err := run(t, cfg, "login", "-e", repository.SeedStudentEmail, "-p", "password")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Signed in as Sample Student")

	out, err = run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, repository.SeedStudentEmail)

	out, err = run(t, cfg, "events", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Summer Music Festival")
	eventID := firstEventID(t, out)

	out, err = run(t, cfg, "events", "list", "--category", "technology")
	require.NoError(t, err)
	assert.Contains(t, out, "Tech Innovation Summit")
	assert.NotContains(t, out, "Summer Music Festival")

	out, err = run(t, cfg, "register", eventID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Registered for "+eventID)

	_, err = run(t, cfg, "register", eventID)
	assert.ErrorContains(t, err, "already registered")

	out, err = run(t, cfg, "registrations", "--past")
	require.NoError(t, err)
	assert.Contains(t, out, "0 upcoming, 1 past")

	_, err = run(t, cfg, "volunteers", "list", eventID)
	assert.ErrorContains(t, err, "forbidden")

	out, err = run(t, cfg, "unregister", eventID)
	require.NoError(t, err)
	assert.Contains(t, out, "Not registered for "+eventID)

	_, err = run(t, cfg, "logout")
	require.NoError(t, err)
	_, err = run(t, cfg, "events", "list")
	assert.Error(t, err)
}

// TestAdminVolunteers тестирует назначение волонтёра из командной строки
func TestAdminVolunteers(t *testing.T) {
	srv := newServer(t)
	studentCfg := writeConfig(t, srv.URL)
	adminCfg := writeConfig(t, srv.URL)

	_, err := run(t, studentCfg, "login", "-e", repository.SeedStudentEmail, "-p", "password")
	require.NoError(t, err)
	_, err = run(t, adminCfg, "login", "-e", repository.SeedAdminEmail, "-p", "password", "-r", "admin")
	require.NoError(t, err)

	out, err := run(t, adminCfg, "events", "list")
	require.NoError(t, err)
	eventID := firstEventID(t, out)

	_, err = run(t, studentCfg, "register", eventID)
	require.NoError(t, err)

	out, err = run(t, adminCfg, "volunteers", "list", eventID)
	require.NoError(t, err)
	assert.Contains(t, out, "Volunteers: none")
	assert.Contains(t, out, "Sample Student")

	whoami, err := run(t, studentCfg, "whoami")
	require.NoError(t, err)
	studentID := strings.TrimPrefix(strings.Fields(whoami)[len(strings.Fields(whoami))-1], "id=")

	out, err = run(t, adminCfg, "volunteers", "assign", eventID, studentID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Volunteers: Sample Student")

	out, err = run(t, adminCfg, "volunteers", "list", eventID)
	require.NoError(t, err)
	assert.Contains(t, out, "Nobody left to assign")

	out, err = run(t, adminCfg, "volunteers", "remove", eventID, studentID)
	require.NoError(t, err)
	assert.Contains(t, out, "Volunteers: none")

	out, err = run(t, adminCfg, "events", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Events:         3")
	assert.Contains(t, out, "Registrations:  1")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, context.Canceled)
	printError(&buf, fmt.Errorf("wrapped: %w", assert.AnError))
	printError(&buf, entity.ErrEventFull)
	assert.Equal(t, "cancelled\nerror (remote): operation failed, try again\nerror (conflict): event is full\n", buf.String())
}
