package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/service"
)

// The page-layout settings source is a JSON file:
//
//	{"top": 15, "right": 15, "bottom": 20, "left": 15, "unit": "mm"}
//
// The watcher applies it on attach, then re-applies on every write with
// a short debounce. Margin broadcasting downstream is synchronous and
// unbatched, so this is the one place edits are coalesced.

const settingsDebounce = 500 * time.Millisecond

type settingsWatcher struct {
	path    string
	session *service.Session
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// watchPageSetup reads and applies the page-setup file, then watches its
// parent directory for changes. Editors that replace-on-save emit Create
// rather than Write, so both are handled.
func watchPageSetup(path string, session *service.Session) (*settingsWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve page setup path: %w", err)
	}

	if spec, err := readPageSetup(absPath); err != nil {
		log.Printf("page setup: initial read of %q: %v", absPath, err)
	} else if err := session.UpdateMargins(spec); err != nil {
		log.Printf("page setup: apply initial margins: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch settings dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &settingsWatcher{path: absPath, session: session, watcher: watcher, cancel: cancel}
	go w.loop(ctx)

	log.Printf("page setup: watching %q", absPath)
	return w, nil
}

func (w *settingsWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)
			if absPath != w.path {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(settingsDebounce, w.apply)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("page setup watcher: %v", err)
		}
	}
}

func (w *settingsWatcher) apply() {
	spec, err := readPageSetup(w.path)
	if err != nil {
		log.Printf("page setup: re-read %q: %v", w.path, err)
		return
	}
	if err := w.session.UpdateMargins(spec); err != nil {
		log.Printf("page setup: apply margins: %v", err)
		return
	}
	log.Printf("page setup: applied margins from %q", w.path)
}

// Stop tears down the watcher. Safe to call once only per watcher.
func (w *settingsWatcher) Stop() {
	w.cancel()
	w.watcher.Close()
}

func readPageSetup(path string) (domain.MarginSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.MarginSpec{}, fmt.Errorf("read page setup: %w", err)
	}
	var spec domain.MarginSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return domain.MarginSpec{}, fmt.Errorf("parse page setup: %w", err)
	}
	if spec.Unit == "" {
		spec.Unit = domain.UnitPX
	}
	if spec.Top < 0 || spec.Right < 0 || spec.Bottom < 0 || spec.Left < 0 {
		return domain.MarginSpec{}, fmt.Errorf("parse page setup: negative margin offsets")
	}
	return spec, nil
}
