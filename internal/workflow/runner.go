package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"anthologiser/internal/bucket"
	"anthologiser/internal/catalog"
	"anthologiser/internal/config"
	"anthologiser/internal/contentstore"
	"anthologiser/internal/logging"
	"anthologiser/internal/markup"
	"anthologiser/internal/naming"
	"anthologiser/internal/organizer"
	"anthologiser/internal/splitter"
	"anthologiser/internal/staging"
	"anthologiser/internal/textutil"
	"anthologiser/internal/versions"
)

// LockName is the lock file held in the target folder during a run.
const LockName = ".anthologiser.lock"

var (
	// ErrInput marks problems with the source document or the auxiliary
	// tables. Nothing has been written when it is returned.
	ErrInput = errors.New("input error")
	// ErrLocked reports that another run holds the target folder.
	ErrLocked = errors.New("target folder is in use by another run")
)

// Runner executes split runs for one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner constructs a runner.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Result summarizes a split run.
type Result struct {
	RunID      string
	Source     string
	Units      int
	Skipped    int
	Ingested   int
	Identities int
	Buckets    []bucket.Bucket
	Placements []organizer.Placement
	Catalog    *catalog.Catalog
	// Empty is set when no identity was left to write.
	Empty  bool
	Joined *catalog.JoinResult
}

type inputs struct {
	name    string
	root    *markup.Node
	aliases *naming.Aliases
	works   naming.Works
}

// Split splits the document at sourcePath into the configured target folder.
func (r *Runner) Split(ctx context.Context, sourcePath string) (*Result, error) {
	in, err := r.readInputs(sourcePath)
	if err != nil {
		return nil, err
	}

	cfg := r.cfg
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(cfg.Paths.TargetDir, LockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, cfg.Paths.TargetDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release target lock", logging.Error(err))
		}
	}()

	staging.CleanStale(ctx, cfg.Paths.StagingDir, time.Duration(cfg.Staging.MaxAgeHours)*time.Hour, r.logger)
	run, err := staging.NewRun(cfg.Paths.StagingDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := run.Remove(); err != nil {
			r.logger.Warn("failed to remove staging run", logging.Error(err), logging.String("path", run.Path))
		}
	}()

	ctx = logging.WithRunID(ctx, run.ID)
	ctx = logging.WithSource(ctx, in.name)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("split started",
		logging.String("target", cfg.Paths.TargetDir),
		logging.Bool("sub_folders", cfg.Layout.SubFolders),
		logging.String("catalog_format", cfg.Catalog.Format),
	)

	result := &Result{RunID: run.ID, Source: in.name}
	if err := r.execute(ctx, logger, run, in, result); err != nil {
		logger.Error("split failed", logging.Error(err))
		return result, err
	}
	logger.Info("split completed",
		logging.Int("units", result.Units),
		logging.Int("identities", result.Identities),
		logging.Int("buckets", len(result.Buckets)),
	)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, run *staging.Run, in inputs, result *Result) error {
	cfg := r.cfg
	store, err := contentstore.New(contentstore.Options{
		ScratchDir: filepath.Join(run.Path, "blobs"),
		Compress:   cfg.Staging.Compress,
		Marker:     cfg.Layout.IdentityMarker,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	registry, err := versions.Load(cfg.Paths.TargetDir, logger)
	if err != nil {
		return err
	}
	catalogs, err := catalog.NewStore(cfg.Catalog.Format, cfg.MiscDir(), cfg.Layout.IdentityMarker)
	if err != nil {
		return err
	}
	short := textutil.SimpleName(in.name)
	cat, err := catalog.Load(catalogs, short, logger)
	if err != nil {
		return err
	}
	result.Catalog = cat

	ingested, err := store.Ingest(cfg.Paths.TargetDir)
	if err != nil {
		return fmt.Errorf("ingest previous output: %w", err)
	}
	result.Ingested = ingested.Identities

	root := in.root
	if cfg.Split.ConvertNotes {
		root = markup.ConvertNotes(root)
	}
	split, err := splitter.New(splitter.Options{
		Marker:         cfg.Split.Marker,
		VersionRole:    cfg.Split.VersionRole,
		VersionPrefix:  cfg.Split.VersionPrefix,
		SourceRole:     cfg.Split.SourceRole,
		IdentityMarker: cfg.Layout.IdentityMarker,
		Aliases:        in.aliases,
		Works:          in.works,
		Logger:         logger,
	}, store, cat, registry)
	if err != nil {
		return err
	}
	splitResult, err := split.Split(ctx, in.name, root)
	if err != nil {
		return fmt.Errorf("split %s: %w", in.name, err)
	}
	result.Units = splitResult.Units
	result.Skipped = splitResult.Skipped
	result.Identities = store.Len()

	org := organizer.NewOrganizer(organizer.Options{
		TargetDir:  cfg.Paths.TargetDir,
		LinkBase:   cfg.Links.Base,
		SubFolders: cfg.Layout.SubFolders,
		Bucket: bucket.Options{
			Factor:       cfg.Layout.BucketFactor,
			MinBuckets:   cfg.Layout.MinBuckets,
			MaxPrefixLen: cfg.Layout.MaxPrefixLen,
			Marker:       cfg.Layout.IdentityMarker,
		},
	}, store, cat, logger)
	organized, err := org.Organize(ctx)
	switch {
	case organizer.IsNoIdentities(err):
		result.Empty = true
		logging.WarnWithContext(logger, "no identities found", "empty_run",
			logging.String(logging.FieldErrorHint, fmt.Sprintf("check that units start with a %q comment", cfg.Split.Marker)),
			logging.String(logging.FieldImpact, "catalog and registry saved without new entries"),
		)
	case err != nil:
		return err
	default:
		result.Buckets = organized.Buckets
		result.Placements = organized.Placements
	}

	if err := os.MkdirAll(cfg.MiscDir(), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := catalogs.Save(cat); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("save versions: %w", err)
	}
	if _, err := WriteArchiveConfig(cfg.Paths.TopLevelDir, cfg.Links.ArchiveBaseURL); err != nil {
		return err
	}

	if cfg.Catalog.Join {
		joined, err := catalog.Join(cfg.MiscDir(), logger)
		if err != nil {
			return fmt.Errorf("join catalogs: %w", err)
		}
		result.Joined = &joined
	}
	return nil
}

func (r *Runner) readInputs(sourcePath string) (inputs, error) {
	var in inputs
	info, err := os.Stat(sourcePath)
	if err != nil {
		return in, fmt.Errorf("%w: %w", ErrInput, err)
	}
	in.name = filepath.Base(sourcePath)
	if !info.Mode().IsRegular() || !strings.HasSuffix(in.name, ".xml") {
		return in, fmt.Errorf("%w: %s is not a file or not XML", ErrInput, in.name)
	}

	file, err := os.Open(sourcePath)
	if err != nil {
		return in, fmt.Errorf("%w: %w", ErrInput, err)
	}
	defer file.Close()
	doc, err := markup.Parse(file)
	if err != nil {
		return in, fmt.Errorf("%w: parse %s: %w", ErrInput, in.name, err)
	}
	in.root = doc.Root

	if in.aliases, err = naming.LoadAliases(r.cfg.Paths.AliasesFile); err != nil {
		return in, fmt.Errorf("%w: %w", ErrInput, err)
	}
	if in.works, err = naming.LoadWorks(r.cfg.Paths.WorksFile); err != nil {
		return in, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return in, nil
}
