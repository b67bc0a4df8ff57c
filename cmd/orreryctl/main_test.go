package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/orrery"
)

const sceneScript = `
local sun = engine.create_object("Sun")
local earth = engine.create_object("Earth")
sun:add_child(earth)
earth:set_local_position(vec(1, 0, 0))
earth:add_component("Planet", {body = "Earth"})
engine.set_camera_zoom(2)
`

func quiet(t *testing.T) {
	t.Helper()
	t.Setenv("ORRERY_LOG_LEVEL", "error")
	t.Setenv("ORRERY_CONFIG", "")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRecordInspectConvertReplay(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	scriptPath := writeFile(t, dir, "scene.lua", sceneScript)
	logPath := filepath.Join(dir, "scene.json")

	out, err := runCLI(t, "run", "-record", logPath, scriptPath)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded 6 instructions")

	out, err = runCLI(t, "inspect", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "6 instructions")
	assert.Contains(t, out, "camera 1, object 3, component 1, other 1")

	yamlPath := filepath.Join(dir, "scene.yaml")
	_, err = runCLI(t, "convert", logPath, yamlPath)
	require.NoError(t, err)
	converted, err := orrery.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 6, converted.Len())

	out, err = runCLI(t, "replay", "-mode", "sequential", yamlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "sequential replay: 6 executed, 0 skipped")
	assert.Contains(t, out, "Earth")
	assert.Contains(t, out, "(1, 0, 0)")
}

func TestRunScriptExecutes(t *testing.T) {
	quiet(t)
	path := writeFile(t, t.TempDir(), "scene.lua", sceneScript)
	out, err := runCLI(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Sun")
	assert.Contains(t, out, "[Planet]")
}

func TestPlayTimeline(t *testing.T) {
	quiet(t)
	dir := t.TempDir()

	e := orrery.New(orrery.Config{})
	rec := orrery.NewRecorder(e)
	require.NoError(t, rec.Start())
	cmd := orrery.NewCommands(rec)
	n, err := cmd.CreateObject("Moon")
	require.NoError(t, err)
	require.NoError(t, n.SetPosition(orrery.V(0, 3, 0)))
	log, err := rec.Stop()
	require.NoError(t, err)
	require.NoError(t, orrery.SaveFile(filepath.Join(dir, "moon.yaml"), log))

	timeline := writeFile(t, dir, "timeline.yaml", "frames:\n  - frame: 1\n    log: moon.yaml\n")
	out, err := runCLI(t, "play", timeline)
	require.NoError(t, err)
	assert.Contains(t, out, "Moon")
	assert.Contains(t, out, "(0, 3, 0)")
}

func TestCLIErrors(t *testing.T) {
	quiet(t)
	_, err := runCLI(t)
	assert.Error(t, err)

	_, err = runCLI(t, "teleport")
	assert.ErrorContains(t, err, "unknown command")

	_, err = runCLI(t, "inspect")
	assert.Error(t, err)

	_, err = runCLI(t, "replay", "-mode", "sideways", "x.json")
	assert.Error(t, err)

	_, err = runCLI(t, "convert", "a.json", "b.txt")
	assert.Error(t, err)
}
