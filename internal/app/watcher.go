package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/internal/ports"
)

// inputExtensions are the file extensions picked up in watch mode.
var inputExtensions = []string{".h5ad", ".h5"}

// JobRunner converts a single job. *Converter satisfies it.
type JobRunner interface {
	Convert(ctx context.Context, job Job) (Result, error)
}

// WatcherConfig holds the settings of watch mode.
type WatcherConfig struct {
	// Dir is the directory scanned and watched for input files.
	Dir string

	// OutDir receives one output file per input, named after the input.
	OutDir string

	Delimiter domain.Delimiter
	Orient    domain.Orient

	// Workers bounds the number of concurrent conversions.
	// Default: 1
	Workers int

	// Debounce is how long a file must stay quiet after its last write
	// event before it is converted.
	// Default: 500 milliseconds
	Debounce time.Duration

	// Once converts the files present at startup and returns.
	Once bool
}

// Watcher converts every AnnData file that appears in a directory.
type Watcher struct {
	cfg    WatcherConfig
	runner JobRunner
	repo   ports.LedgerRepository
	logger ports.Logger

	mu       sync.Mutex
	ledger   domain.Ledger
	timers   map[string]*time.Timer
	inflight map[string]bool
	dirty    map[string]bool // changed while converting
	failures []error

	// pending counts debounce callbacks that were scheduled and not stopped.
	pending sync.WaitGroup
}

// NewWatcher creates a Watcher.
func NewWatcher(cfg WatcherConfig, runner JobRunner, repo ports.LedgerRepository, logger ports.Logger) *Watcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if cfg.OutDir == "" {
		cfg.OutDir = cfg.Dir
	}
	return &Watcher{
		cfg:      cfg,
		runner:   runner,
		repo:     repo,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		inflight: make(map[string]bool),
		dirty:    make(map[string]bool),
	}
}

// OutputPath returns where the table for input is written.
func OutputPath(outDir, input string, delim domain.Delimiter) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+delim.Extension())
}

// IsInput reports whether path has an AnnData file extension.
func IsInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range inputExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Run scans the directory, then keeps converting new or changed files until
// ctx is canceled. With Once set it returns after the initial scan, joining
// the errors of every failed conversion.
func (w *Watcher) Run(ctx context.Context) error {
	ledger, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	w.mu.Lock()
	w.ledger = ledger
	w.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Workers)

	if w.cfg.Once {
		if err := w.scan(gctx, g); err != nil {
			return err
		}
		_ = g.Wait()
		return w.joinedFailures()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	w.logger.Info("watching for AnnData files", ports.String("dir", w.cfg.Dir), ports.String("out_dir", w.cfg.OutDir))

	if err := w.scan(gctx, g); err != nil {
		return err
	}

	ready := make(chan string)
	done := make(chan struct{})
	defer func() {
		close(done)
		w.stopTimers()
		w.pending.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			_ = g.Wait()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				_ = g.Wait()
				return nil
			}
			if !IsInput(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounce(event.Name, ready, done)

		case path := <-ready:
			w.submit(gctx, g, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				_ = g.Wait()
				return nil
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) scan(ctx context.Context, g *errgroup.Group) error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.cfg.Dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !IsInput(e.Name()) {
			continue
		}
		w.submit(ctx, g, filepath.Join(w.cfg.Dir, e.Name()))
	}
	return nil
}

// debounce restarts the quiet-period timer of path. When it fires, path is
// handed back to the event loop through ready, unless done is closed first.
func (w *Watcher) debounce(path string, ready chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok && t.Stop() {
		w.pending.Done()
	}

	var t *time.Timer
	w.pending.Add(1)
	t = time.AfterFunc(w.cfg.Debounce, func() {
		defer w.pending.Done()

		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-done:
		}
	})
	w.timers[path] = t
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		if t.Stop() {
			w.pending.Done()
		}
		delete(w.timers, path)
	}
}

// submit schedules a conversion of path unless the ledger shows it was
// converted in its current state. A path that is already converting is
// marked dirty and converted again by the same worker once it finishes.
func (w *Watcher) submit(ctx context.Context, g *errgroup.Group, path string) {
	info, err := os.Stat(path)
	if err != nil {
		w.logger.Warn("skipping input", ports.String("path", path), ports.Err(err))
		return
	}

	w.mu.Lock()
	if w.inflight[path] {
		w.dirty[path] = true
		w.mu.Unlock()
		w.logger.Debug("input changed during conversion", ports.String("path", path))
		return
	}
	if w.ledger.IsCurrent(path, info.Size(), info.ModTime()) {
		w.mu.Unlock()
		w.logger.Debug("input up to date", ports.String("path", path))
		return
	}
	w.inflight[path] = true
	w.mu.Unlock()

	g.Go(func() error {
		for {
			// A failed conversion is recorded, never returned, so that the
			// group context stays alive for the other files.
			if err := w.convert(ctx, path, info); err != nil {
				w.logger.Error("conversion failed", ports.String("path", path), ports.Err(err))
				w.mu.Lock()
				w.failures = append(w.failures, err)
				w.mu.Unlock()
			}

			changed, again := w.next(ctx, path)
			if !again {
				return nil
			}
			info = changed
		}
	})
}

// next reports whether path was rewritten while it was converting and still
// differs from the ledger, returning its new state. Otherwise path is
// released for later submits.
func (w *Watcher) next(ctx context.Context, path string) (os.FileInfo, bool) {
	for {
		w.mu.Lock()
		if !w.dirty[path] || ctx.Err() != nil {
			delete(w.dirty, path)
			delete(w.inflight, path)
			w.mu.Unlock()
			return nil, false
		}
		delete(w.dirty, path)
		w.mu.Unlock()

		info, err := os.Stat(path)
		if err != nil {
			w.logger.Warn("skipping input", ports.String("path", path), ports.Err(err))
			continue
		}

		w.mu.Lock()
		current := w.ledger.IsCurrent(path, info.Size(), info.ModTime())
		w.mu.Unlock()
		if !current {
			w.logger.Debug("reconverting rewritten input", ports.String("path", path))
			return info, true
		}
	}
}

func (w *Watcher) convert(ctx context.Context, path string, info os.FileInfo) error {
	res, err := w.runner.Convert(ctx, Job{
		Input:     path,
		Output:    OutputPath(w.cfg.OutDir, path, w.cfg.Delimiter),
		Delimiter: w.cfg.Delimiter,
		Orient:    w.cfg.Orient,
	})
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.ledger.Record(path, domain.LedgerEntry{
		Output:      res.Output,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Rows:        res.Rows,
		Cols:        res.Cols,
		ConvertedAt: time.Now().UTC(),
	})
	if err := w.repo.Save(ctx, w.ledger); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (w *Watcher) joinedFailures() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.failures...)
}
