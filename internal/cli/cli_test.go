package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// cliEnv runs commands against an isolated data dir and a config file that
// does not exist, so the user's ~/.lucid is never read.
type cliEnv struct {
	t    *testing.T
	dir  string
	conf string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	root := t.TempDir()
	return &cliEnv{t: t, dir: filepath.Join(root, "data"), conf: filepath.Join(root, "config.toml")}
}

func (e *cliEnv) args(args ...string) []string {
	return append([]string{"--dir", e.dir, "--config", e.conf}, args...)
}

func (e *cliEnv) mustRun(args ...string) map[string]any {
	e.t.Helper()
	stdout, stderr, err := runCLI(e.t, e.args(args...))
	require.NoError(e.t, err, "lucid %v\nstderr:\n%s\nstdout:\n%s", args, stderr, stdout)
	var env map[string]any
	require.NoError(e.t, json.Unmarshal(stdout, &env), "stdout:\n%s", stdout)
	require.Contains(e.t, env, "data")
	return env
}

func (e *cliEnv) mustFail(args ...string) string {
	e.t.Helper()
	_, stderr, err := runCLI(e.t, e.args(args...))
	require.Error(e.t, err, "expected lucid %v to fail", args)
	return string(stderr)
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %#v", env["data"])
	return m
}

func dataList(t *testing.T, env map[string]any) []any {
	t.Helper()
	xs, ok := env["data"].([]any)
	require.True(t, ok, "data is not a list: %#v", env["data"])
	return xs
}

func TestTasksAddListComplete(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	proj := dataMap(t, e.mustRun("projects", "create", "--name", "Home", "--color", "teal"))
	projectID := proj["id"].(string)
	assert.Equal(t, "Teal", proj["color_name"])

	task := dataMap(t, e.mustRun("tasks", "add", "Call", "mom", "tomorrow", "about", "the", "meeting", "next", "Friday", "--project", "home"))
	taskID := task["id"].(string)
	assert.True(t, strings.HasPrefix(taskID, "task-"))
	assert.Equal(t, projectID, task["projectId"])
	assert.Equal(t, "Home", task["projectName"])
	assert.NotNil(t, task["due_date"], "date detected from content")

	listed := dataList(t, e.mustRun("tasks", "list"))
	require.Len(t, listed, 1)

	stdout, stderr, err := runCLI(t, e.args("tasks", "complete", taskID))
	require.NoError(t, err)
	assert.Contains(t, string(stderr), "Task completed")
	assert.Contains(t, string(stderr), "undo: lucid tasks reopen "+taskID)
	var env map[string]any
	require.NoError(t, json.Unmarshal(stdout, &env))
	assert.Equal(t, true, dataMap(t, env)["completed"])

	assert.Empty(t, dataList(t, e.mustRun("tasks", "list")))
	assert.Len(t, dataList(t, e.mustRun("tasks", "list", "--all")), 1)

	reopened := dataMap(t, e.mustRun("tasks", "reopen", taskID))
	assert.Equal(t, false, reopened["completed"])
}

func TestTasksAddExplicitDueWins(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	task := dataMap(t, e.mustRun("tasks", "add", "report tomorrow", "--due", "2030-01-02"))
	assert.True(t, strings.HasPrefix(task["due_date"].(string), "2030-01-02"), "got %v", task["due_date"])

	task = dataMap(t, e.mustRun("tasks", "add", "report tomorrow", "--natural-dates=false"))
	assert.Nil(t, task["due_date"])
}

func TestTasksEdit(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	e.mustRun("projects", "create", "--name", "Work")
	task := dataMap(t, e.mustRun("tasks", "add", "draft memo", "--project", "Work", "--due", "2030-05-01"))
	id := task["id"].(string)

	edited := dataMap(t, e.mustRun("tasks", "edit", id, "--content", "send memo"))
	assert.Equal(t, "send memo", edited["content"])
	assert.Equal(t, "Work", edited["projectName"], "untouched fields keep their values")
	assert.True(t, strings.HasPrefix(edited["due_date"].(string), "2030-05-01"))

	edited = dataMap(t, e.mustRun("tasks", "edit", id, "--no-project", "--no-due"))
	assert.Nil(t, edited["projectId"])
	assert.Nil(t, edited["due_date"])
}

func TestTasksValidationAndErrors(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	assert.Contains(t, e.mustFail("tasks", "add", "   "), "invalid task: content is required")
	assert.Contains(t, e.mustFail("tasks", "add", "x", "--project", "nope"), "project not found: nope")
	assert.Contains(t, e.mustFail("tasks", "add", "x", "--due", "someday"), "could not parse due date")
	assert.Contains(t, e.mustFail("tasks", "show", "task-missing"), "task not found: task-missing")

	stderr := e.mustFail("tasks", "complete", "task-missing")
	assert.Contains(t, stderr, "Could not update task")
	assert.Contains(t, stderr, "task not found")
}

func TestProjectsCreateWithGeneration(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	proj := dataMap(t, e.mustRun("projects", "create", "--name", "Trip", "--ai", "--prompt", "- book flights\n- pack"))
	assert.Equal(t, true, proj["ai_task_gen"])
	assert.Equal(t, "Slate", proj["color_name"], "default color")

	tasks := dataList(t, e.mustRun("tasks", "list", "--project", proj["id"].(string)))
	assert.Len(t, tasks, 2)

	assert.Contains(t, e.mustFail("projects", "create", "--name", "Empty prompt", "--ai"), "a prompt is required")
	assert.Contains(t, e.mustFail("projects", "create", "--name", "Bad", "--color", "plaid"), "color not found: plaid")
}

func TestProjectsEditAndDelete(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	proj := dataMap(t, e.mustRun("projects", "create", "--name", "Garden"))
	id := proj["id"].(string)
	task := dataMap(t, e.mustRun("tasks", "add", "weed", "--project", id))

	edited := dataMap(t, e.mustRun("projects", "edit", id, "--name", "Yard", "--color", "#22c55e"))
	assert.Equal(t, "Yard", edited["name"])
	assert.Equal(t, "Green", edited["color_name"])
	assert.Equal(t, "Yard", dataMap(t, e.mustRun("tasks", "show", task["id"].(string)))["projectName"])

	e.mustRun("projects", "delete", id)
	assert.Empty(t, dataList(t, e.mustRun("projects", "list")))
	assert.Nil(t, dataMap(t, e.mustRun("tasks", "show", task["id"].(string)))["projectId"])
}

func TestDashboardAndEvents(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	e.mustRun("tasks", "add", "overdue thing", "--due", "2001-01-01")
	e.mustRun("tasks", "add", "someday")

	d := dataMap(t, e.mustRun("dashboard"))
	assert.EqualValues(t, 2, d["total"])
	assert.EqualValues(t, 1, d["overdue"])

	evs := dataList(t, e.mustRun("events", "--limit", "1"))
	require.Len(t, evs, 1)
	assert.Equal(t, "task.create", evs[0].(map[string]any)["type"])
}

func TestColorsDatesDocs(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	colors := dataMap(t, e.mustRun("colors"))
	assert.Equal(t, "Slate", colors["default"])
	assert.NotEmpty(t, colors["colors"])

	parsed := dataMap(t, e.mustRun("dates", "parse", "pay rent 2030-02-01 or 2030-03-01"))
	assert.Len(t, parsed["matches"], 2)
	assert.Equal(t, "2030-03-01", parsed["due"])

	topics := dataMap(t, e.mustRun("docs"))
	assert.Contains(t, topics["topics"], "tasks")

	stdout, _, err := runCLI(t, e.args("docs", "tasks", "--raw"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(stdout), "# Tasks"))

	assert.Contains(t, e.mustFail("docs", "nope"), "unknown docs topic")
}

func TestYAMLFormat(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	stdout, _, err := runCLI(t, e.args("--format", "yaml", "colors"))
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "default: Slate")
}

func TestPublish(t *testing.T) {
	t.Parallel()
	e := newCLIEnv(t)

	e.mustRun("projects", "create", "--name", "Garden", "--color", "Green")
	e.mustRun("tasks", "add", "Buy soil", "--project", "garden")
	out := filepath.Join(t.TempDir(), "site")

	env := e.mustRun("publish", "--to", out)
	written, ok := dataMap(t, env)["written"].([]any)
	require.True(t, ok)
	assert.Len(t, written, 2)
	assert.FileExists(t, filepath.Join(out, "index.md"))

	stderr := e.mustFail("publish", "--to", out)
	assert.Contains(t, stderr, "file exists")

	stderr = e.mustFail("publish", "--to", out, "--project", "nope")
	assert.Contains(t, stderr, "project not found: nope")
}
