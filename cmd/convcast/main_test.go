package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout returns what fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	done := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(r)
		done <- b
	}()
	runErr := fn()
	require.NoError(t, w.Close())
	out := <-done
	require.NoError(t, r.Close())
	require.NoError(t, runErr)
	return string(out)
}

func TestWindowCommand(t *testing.T) {
	ctx := context.Background()
	t.Setenv("CONVCAST_LOG_LEVEL", "error")

	out := captureStdout(t, func() error {
		return runWindow(ctx, []string{"-fib", "30", "-size", "3", "-n", "2"})
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, out)
	for _, line := range lines {
		assert.Contains(t, line, "->")
	}

	out = captureStdout(t, func() error {
		return runWindow(ctx, []string{"-fib", "8", "-size", "5", "-n", "0"})
	})
	assert.Equal(t, 3, strings.Count(out, "->"), out)

	assert.Error(t, runWindow(context.Background(), []string{"-fib", "4", "-size", "4"}))
	assert.Error(t, runWindow(context.Background(), nil), "no input series")
}

func TestTrainThenForecast(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ckpt := filepath.Join(dir, "fib.cnvc")
	t.Setenv("CONVCAST_LOG_LEVEL", "error")
	t.Setenv("CONVCAST_STORE_PATH", filepath.Join(dir, "store"))
	t.Setenv("CONVCAST_DATA_TEST_SIZE", "3")

	require.NoError(t, runTrain(ctx, []string{"-fib", "25", "-epochs", "3", "-out", ckpt, "-save", "-name", "fib"}))
	require.NoError(t, runForecast(ctx, []string{"-fib", "25", "-model", ckpt, "-steps", "2", "-out", filepath.Join(dir, "next.csv.xz")}))
	require.NoError(t, runPredict(ctx, []string{"-fib", "25", "-id", "fib"}))
	require.NoError(t, runModels(ctx, nil))
}

func TestImportAndList(t *testing.T) {
	ctx := context.Background()
	t.Setenv("CONVCAST_STORE_PATH", filepath.Join(t.TempDir(), "store"))

	require.NoError(t, runImport(ctx, []string{"-fib", "12", "-name", "fib"}))
	require.NoError(t, runSeries(ctx, nil))
	require.NoError(t, runWindow(ctx, []string{"-series", "fib", "-size", "3"}))
	assert.Error(t, runImport(ctx, []string{"-fib", "12"}), "missing -name")
}
