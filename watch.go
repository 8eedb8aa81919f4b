package killplot

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watch calls onChange each time the file at fName is written or
// replaced, until ctx is cancelled. A failing onChange is logged and the
// watch carries on.
func Watch(ctx context.Context, fName string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// A watch on the file itself dies with its inode when an editor saves
	// by rename, so watch the directory and pick out the file's events.
	target := filepath.Clean(fName)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	log.Infof("Watching %s for changes", fName)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// A rename onto the file shows up as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if err := onChange(); err != nil {
				log.Errorf("Reprocessing %s failed, keeping previous plots: %v", fName, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(err)
		}
	}
}
