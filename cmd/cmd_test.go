package cmd

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/kartoza/mof-predictor/internal/models"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPredictCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MOF-5.cif")
	if err := os.WriteFile(path, bytes.Repeat([]byte("#"), 1000), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	uploads := filepath.Join(dir, "uploads")

	out, err := runCLI(t, "predict", "--file", path, "-H", "1", "-K", "0", "-L", "0", "--temp-dir", uploads)
	if err != nil {
		t.Fatalf("predict failed: %v\n%s", err, out)
	}

	var resp models.PredictResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if resp.MillerIndices != (models.MillerIndices{H: 1, K: 0, L: 0}) {
		t.Errorf("Unexpected indices: %+v", resp.MillerIndices)
	}
	if len(resp.ShapValues) != 5 || resp.ShapValues[0].Feature != "PLD (Å)" {
		t.Errorf("Unexpected shap values: %+v", resp.ShapValues)
	}

	entries, _ := os.ReadDir(uploads)
	if len(entries) != 0 {
		t.Errorf("Expected temporary copy to be removed, found %d files", len(entries))
	}
}

func TestPredictCommandWrongExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structure.pdb")
	os.WriteFile(path, []byte("ATOM"), 0644)

	_, err := runCLI(t, "predict", "--file", path, "--temp-dir", dir)
	if err == nil {
		t.Fatal("Expected error for non-CIF file")
	}
	if !strings.Contains(err.Error(), "File must be a .cif file") || !strings.Contains(err.Error(), "400") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestPredictCommandMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "predict", "--file", filepath.Join(dir, "missing.cif"), "--temp-dir", dir)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "mofpredict v") {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestFindAvailablePort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer listener.Close()
	busy := listener.Addr().(*net.TCPAddr).Port

	port, err := findAvailablePort("127.0.0.1", busy, 10)
	if err != nil {
		t.Fatalf("findAvailablePort failed: %v", err)
	}
	if port == busy {
		t.Errorf("Expected a port other than the busy %d", busy)
	}
}

func TestServeFailsOnBusyPort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer listener.Close()
	busy := listener.Addr().(*net.TCPAddr).Port

	_, err = runCLI(t, "serve", "--host", "127.0.0.1", "--port", strconv.Itoa(busy), "--temp-dir", t.TempDir())
	if err == nil {
		t.Fatal("Expected serve to fail when the configured port is busy")
	}
	if !strings.Contains(err.Error(), "server error") {
		t.Errorf("Unexpected error: %v", err)
	}
}
