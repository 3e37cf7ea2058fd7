package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"ember/interpreter-go/pkg/driver"
)

const watchDebounce = 200 * time.Millisecond

// watchEntry runs entry, then reruns it whenever a source file under its
// directory tree changes. Blocks until the watcher shuts down or the
// process is interrupted.
func watchEntry(entry string) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
		return 1
	}
	defer watcher.Close()

	root, err := filepath.Abs(filepath.Dir(entry))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve watch root: %v\n", err)
		return 1
	}
	if err := watchTree(watcher, root); err != nil {
		fmt.Fprintf(os.Stderr, "failed to watch %s: %v\n", root, err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", root)
	executeScript(entry)

	// Trailing-edge debounce: the rerun fires once events go quiet.
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if !watchRelevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
				}
			}
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			fmt.Fprintf(os.Stderr, "restarting %s\n", entry)
			executeScript(entry)
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// watchTree registers root and every non-hidden directory beneath it.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func watchRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Base(event.Name) {
	case driver.ManifestName, driver.LockName:
		return true
	}
	return filepath.Ext(event.Name) == ".ember"
}
