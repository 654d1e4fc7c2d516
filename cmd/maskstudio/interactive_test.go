package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/maskstudio/internal/session"
)

func newTestShell(t *testing.T) (*inferenceStub, *interactiveCmd, *bytes.Buffer) {
	t.Helper()
	stub, r := newStubRoot(t)
	i := newInteractiveCmd(r)
	var out bytes.Buffer
	i.stdout, i.stderr = &out, &out
	return stub, i, &out
}

func run(t *testing.T, i *interactiveCmd, lines ...string) {
	t.Helper()
	for _, l := range lines {
		_, err := i.executeLine(l)
		require.NoError(t, err, l)
	}
}

func TestInteractiveSession(t *testing.T) {
	stub, i, out := newTestShell(t)
	in := writePhoto(t, 120, 90)

	run(t, i,
		"load "+in,
		"display 512 512",
		"radius 15",
		"down 256,256",
		"move 260,256 264,256",
		"up",
		"prompt a small boat",
		"steps 12",
		"seed 3",
		"submit",
		"save result.png",
	)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "a small boat", stub.fields["prompt"])
	assert.Equal(t, "12", stub.fields["num_inference_steps"])
	assert.Equal(t, "3", stub.fields["seed"])
	rr, _, _, _ := stub.mask.At(512, 512).RGBA()
	assert.Equal(t, uint32(0xffff), rr)
	assert.Contains(t, out.String(), "saved "+filepath.Join(i.r.config.SaveDir, "result.png"))
}

func TestInteractiveErrors(t *testing.T) {
	_, i, _ := newTestShell(t)

	_, err := i.executeLine("submit")
	assert.Error(t, err)
	_, err = i.executeLine("down 1,1")
	assert.Error(t, err)
	_, err = i.executeLine("save")
	assert.EqualError(t, err, "nothing to save yet")
	_, err = i.executeLine("tool paint")
	assert.Error(t, err)
	_, err = i.executeLine("frobnicate")
	assert.EqualError(t, err, `unknown command "frobnicate"`)

	for _, l := range []string{"display NaN NaN", "display +Inf 512", "display 512 0", "down NaN,3", "move 1,Inf"} {
		_, err = i.executeLine(l)
		assert.Error(t, err, l)
	}
}

func TestInteractiveStrokeBlocksPreview(t *testing.T) {
	_, i, _ := newTestShell(t)
	run(t, i, "load "+writePhoto(t, 10, 10), "down 5,5")
	_, err := i.executeLine("preview")
	assert.ErrorIs(t, err, session.ErrStrokeActive)
	run(t, i, "up", "preview")
}

func TestInteractiveStatusAndExit(t *testing.T) {
	_, i, out := newTestShell(t)
	run(t, i, "tool erase", "mode unmark", "status")
	assert.Contains(t, out.String(), "tool erase, brush unmark r=20, idle")
	assert.Contains(t, out.String(), "no image loaded")

	done, err := i.executeLine("exit")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestInteractiveExecFlags(t *testing.T) {
	stub, r := newStubRoot(t)
	in := writePhoto(t, 20, 20)
	cli, err := parseInteractiveCmd([]string{
		"-file", in, "-tool", "erase",
		"-e", "down 100,100", "-e", "up", "-e", "submit", "-e", "exit", "-e", "submit",
	}, r)
	require.NoError(t, err)
	var out bytes.Buffer
	cli.stdout = &out
	require.NoError(t, cli.Run())
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "/erase", stub.path)
	assert.True(t, strings.Contains(out.String(), "erase done"))
}
