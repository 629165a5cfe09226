package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memoir.yml")
	content := `
backend: firestore
project: my-project
dimension: 1408
bucket: my-images
`
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := config{
		backend: backendChromem,
		dataDir: "data",
	}
	gt.NoError(t, cfg.applyFile(path))

	gt.Equal(t, cfg.backend, backendFirestore)
	gt.Equal(t, cfg.project, "my-project")
	gt.Equal(t, cfg.dimension, int64(1408))
	gt.Equal(t, cfg.bucket, "my-images")

	// Fields the file does not mention keep their values
	gt.Equal(t, cfg.dataDir, "data")
}

func TestApplyFileMissing(t *testing.T) {
	cfg := config{}
	gt.Error(t, cfg.applyFile(filepath.Join(t.TempDir(), "nope.yml")))
}

func TestApplyFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	gt.NoError(t, os.WriteFile(path, []byte("backend: [unclosed"), 0600))

	cfg := config{}
	gt.Error(t, cfg.applyFile(path))
}

func TestOneline(t *testing.T) {
	gt.Equal(t, oneline("multi\nline\ntext", 50), "multi line text")
	gt.Equal(t, oneline("0123456789", 4), "0123...")
}
