package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"mocheck/internal/driver"
	"mocheck/internal/source"
)

const defaultDebounce = 250 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [flags] <directory>",
		Short: "Check a directory, then re-check files as they change",
		Long: `Watch runs a full check of the directory and then re-checks every
matching file that is created or written, until interrupted.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindCommandFlags(a.cfg, cmd.Flags(), []flagBinding{
				{"suffix", suffixKey},
				{"exclude", excludeKey},
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args[0], debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before changed files are re-checked")
	cmd.Flags().String("suffix", defaultSuffix, "file name suffix to select")
	cmd.Flags().StringArrayP("exclude", "x", nil, "exclude paths matching regex, relative to the root (can be repeated)")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, root string, debounce time.Duration) error {
	if !isDir(root) {
		return &driver.IOError{Op: "watch", Path: root, Err: errors.New("not a directory")}
	}
	enc, err := source.LookupEncoding(a.cfg.GetString(encodingKey))
	if err != nil {
		return err
	}
	sel, err := driver.NewSelector(a.cfg.GetString(suffixKey), a.cfg.GetStringSlice(excludeKey))
	if err != nil {
		return err
	}

	opts := driver.DefaultOptions(driver.NewModelicaEngine(a.cfg.GetInt(maxDiagnosticsKey), nil))
	opts.Selector = sel
	opts.Encoding = enc
	opts.HaltOnFirstIOError = false
	opts.Reporter = driver.NewLineReporter(cmd.ErrOrStderr())
	opts.Logger = a.log

	session := &watchSession{
		root:  root,
		opts:  opts,
		out:   cmd.OutOrStdout(),
		quiet: a.quiet,
		log:   a.log,
	}
	if err := session.checkAll(cmd.Context()); err != nil {
		return err
	}
	if !a.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", root)
	}
	return watchWithFSNotify(cmd.Context(), root, debounce, sel, func(changed []string) {
		session.recheck(cmd.Context(), changed)
	})
}

// watchSession re-validates files below root. Each check uses a fresh
// Validator because validators are single-shot.
type watchSession struct {
	root  string
	opts  driver.Options
	out   io.Writer
	quiet bool
	log   *slog.Logger
}

func (s *watchSession) checkAll(ctx context.Context) error {
	result, err := driver.NewValidator(s.opts).Run(ctx, s.root)
	if err != nil {
		return err
	}
	if !s.quiet {
		writeSummary(s.out, result)
	}
	return nil
}

// recheck validates the changed paths that still exist and match the selector.
// Like a full check, it skips symlinks and other non-regular files.
func (s *watchSession) recheck(ctx context.Context, changed []string) {
	for _, path := range changed {
		if ctx.Err() != nil {
			return
		}
		if !s.selected(path) {
			continue
		}
		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("watch: file removed", "path", path)
			continue
		}
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		result, err := driver.NewValidator(s.opts).Run(ctx, path)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(s.out, "%s: %v\n", path, err)
			}
			s.log.Error("watch: check failed", "path", path, "err", err)
			continue
		}
		if !s.quiet && result.ExitCode() == 0 {
			fmt.Fprintf(s.out, "%s: ok\n", path)
		}
	}
}

func (s *watchSession) selected(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return s.opts.Selector.Match(rel)
}

func watchWithFSNotify(ctx context.Context, root string, debounce time.Duration, sel *driver.Selector, onChange func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	root = filepath.Clean(root)
	if err := addWatchRecursive(watcher, root, root, sel); err != nil {
		return err
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	pending := false
	pendingPaths := map[string]bool{}

	resetDebounce := func(path string) {
		pendingPaths[path] = true
		if pending {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		timer.Reset(debounce)
		pending = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			eventPath := filepath.Clean(event.Name)
			if shouldIgnoreWatchPath(eventPath) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Lstat(eventPath); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, root, eventPath, sel)
					// files written before the watch was added raise no event
					for _, path := range selectedFilesBelow(root, eventPath, sel) {
						resetDebounce(path)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			resetDebounce(eventPath)
		case <-timer.C:
			if pending {
				pending = false
				changed := make([]string, 0, len(pendingPaths))
				for path := range pendingPaths {
					changed = append(changed, path)
				}
				slices.Sort(changed)
				pendingPaths = map[string]bool{}
				onChange(changed)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

// addWatchRecursive watches dir and every directory below it that the
// selector does not exclude. Exclusion is relative to root. Symlinked
// directories are not followed.
func addWatchRecursive(watcher *fsnotify.Watcher, root, dir string, sel *driver.Selector) error {
	dir = filepath.Clean(dir)
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root {
			if rel, err := filepath.Rel(root, path); err == nil && sel.Excluded(rel) {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
}

// selectedFilesBelow lists the regular files below dir that the selector
// picks, with exclusion relative to root.
func selectedFilesBelow(root, dir string, sel *driver.Selector) []string {
	var paths []string
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if path != root && sel.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() && sel.Match(rel) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}

func shouldIgnoreWatchPath(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, "~") ||
		strings.HasPrefix(base, ".#")
}
