package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/adapter"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/repository"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
	"github.com/m-mizutani/memoir/pkg/utils/logging"
	"github.com/philippgille/chromem-go"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	backendChromem   = "chromem"
	backendFirestore = "firestore"
)

// config holds configuration values shared across commands
type config struct {
	logLevel   string
	configFile string

	// Index backend
	backend  string
	dataDir  string
	project  string
	database string

	// Embeddings
	geminiProject  string
	geminiLocation string
	textModel      string
	imageModel     string
	dimension      int64

	// Image content storage
	bucket string
}

// fileConfig is the optional YAML config file. Values from flags and
// environment variables win over file values only when the file leaves
// them empty; the file is for the settings that rarely change.
type fileConfig struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir"`
	Project    string `yaml:"project"`
	Database   string `yaml:"database"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
	Dimension  int64  `yaml:"dimension"`
	Bucket     string `yaml:"bucket"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("MEMOIR_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("MEMOIR_CONFIG"),
			Destination: &cfg.configFile,
		},
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "Vector index backend: chromem or firestore",
			Value:       backendChromem,
			Sources:     cli.EnvVars("MEMOIR_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory for the embedded vector database",
			Value:       "data",
			Sources:     cli.EnvVars("MEMOIR_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for the Firestore backend",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for image memory content",
			Sources:     cli.EnvVars("MEMOIR_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// embeddingFlags returns flags for embedding-model configuration
func embeddingFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "text-model",
			Usage:       "Embedding model for text memories",
			Sources:     cli.EnvVars("MEMOIR_TEXT_MODEL"),
			Destination: &cfg.textModel,
		},
		&cli.StringFlag{
			Name:        "image-model",
			Usage:       "Embedding model for image memories",
			Sources:     cli.EnvVars("MEMOIR_IMAGE_MODEL"),
			Destination: &cfg.imageModel,
		},
		&cli.IntFlag{
			Name:        "dimension",
			Usage:       "Embedding dimension shared by models and indexes",
			Value:       768,
			Sources:     cli.EnvVars("MEMOIR_DIMENSION"),
			Destination: &cfg.dimension,
		},
	}
}

// setup applies the optional config file and installs the logger on the
// context. Every command calls this first.
func (cfg *config) setup(ctx context.Context) (context.Context, error) {
	if cfg.configFile != "" {
		if err := cfg.applyFile(cfg.configFile); err != nil {
			return ctx, err
		}
	}

	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), nil
}

func (cfg *config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	if fc.Backend != "" {
		cfg.backend = fc.Backend
	}
	if fc.DataDir != "" {
		cfg.dataDir = fc.DataDir
	}
	if fc.Project != "" {
		cfg.project = fc.Project
	}
	if fc.Database != "" {
		cfg.database = fc.Database
	}
	if fc.TextModel != "" {
		cfg.textModel = fc.TextModel
	}
	if fc.ImageModel != "" {
		cfg.imageModel = fc.ImageModel
	}
	if fc.Dimension != 0 {
		cfg.dimension = fc.Dimension
	}
	if fc.Bucket != "" {
		cfg.bucket = fc.Bucket
	}

	return nil
}

// newEmbedder creates the Gemini embedding client
func (cfg *config) newEmbedder(ctx context.Context) (adapter.Embedder, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}

	opts := []adapter.GeminiOption{adapter.WithDimension(int(cfg.dimension))}
	if cfg.textModel != "" {
		opts = append(opts, adapter.WithTextModel(cfg.textModel))
	}
	if cfg.imageModel != "" {
		opts = append(opts, adapter.WithImageModel(cfg.imageModel))
	}

	embedder, err := adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create embedding client")
	}
	return embedder, nil
}

// newIndex creates one modality's vector index for the selected backend
func (cfg *config) newIndex(ctx context.Context, modality model.Modality, embedder adapter.Embedder) (repository.Index, error) {
	switch cfg.backend {
	case backendChromem:
		embedFn := chromem.EmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
			return embedder.EmbedText(ctx, text)
		})
		return repository.NewChromem(cfg.dataDir, modality, int(cfg.dimension), embedFn)

	case backendFirestore:
		if cfg.project == "" {
			return nil, goerr.New("project is required for the firestore backend")
		}
		return repository.NewFirestore(ctx, cfg.project, cfg.database, modality, int(cfg.dimension))

	default:
		return nil, goerr.New("unknown backend", goerr.V("backend", cfg.backend))
	}
}

// newUseCase wires the whole engine: embedder, per-modality indexes, and
// optional image storage.
func (cfg *config) newUseCase(ctx context.Context) (*memory.UseCase, error) {
	embedder, err := cfg.newEmbedder(ctx)
	if err != nil {
		return nil, err
	}

	textIndex, err := cfg.newIndex(ctx, model.ModalityText, embedder)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create text index")
	}

	imageIndex, err := cfg.newIndex(ctx, model.ModalityImage, embedder)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create image index")
	}

	var opts []memory.Option
	if cfg.bucket != "" {
		storage, err := adapter.NewStorage(ctx, cfg.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage client")
		}
		opts = append(opts, memory.WithStorage(storage))
	}

	return memory.New(
		memory.ModalitySet{Embedder: embedder, Index: textIndex},
		memory.ModalitySet{Embedder: embedder, Index: imageIndex},
		opts...,
	)
}
