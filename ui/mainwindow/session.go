package mainwindow

import (
	"errors"
	"fmt"
	"log"
	"sync"

	appkg "sweepview/internal/app"
	"sweepview/internal/config"
	"sweepview/internal/dataset"
	"sweepview/internal/sweep"

	"fyne.io/fyne/v2"
)

// Session owns the viewers opened in one run. Each window is independent;
// the application quits when the last one closes.
type Session struct {
	app fyne.App
	cfg *config.Config

	mu       sync.Mutex
	viewers  []*Viewer
	watchers map[*Viewer]*appkg.FileWatcher
	closing  bool
}

// NewSession creates an empty session.
func NewSession(a fyne.App, cfg *config.Config) *Session {
	return &Session{
		app:      a,
		cfg:      cfg,
		watchers: make(map[*Viewer]*appkg.FileWatcher),
	}
}

func (s *Session) datasetOptions() dataset.Options {
	return dataset.Options{
		Columns: dataset.Columns{
			Phase: s.cfg.Columns.Phase,
			S1:    s.cfg.Columns.S1,
			S2:    s.cfg.Columns.S2,
			Value: s.cfg.Columns.Value,
		},
		Encoding: s.cfg.Input.Encoding,
	}
}

func (s *Session) sweepOptions() sweep.Options {
	return sweep.Options{
		BoundaryMarker: s.cfg.Input.BoundaryMarker,
		AllowPartial:   s.cfg.Input.AllowPartial,
	}
}

func (s *Session) load(path string) (*sweep.Result, error) {
	return dataset.LoadResult(path, s.datasetOptions(), s.sweepOptions())
}

// Open loads path and creates a viewer for it. The window is not shown.
func (s *Session) Open(path string) (*Viewer, error) {
	res, err := s.load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if res.Dropped > 0 {
		log.Printf("load: %s: dropped %d samples of a partial cycle", path, res.Dropped)
	}

	v, err := NewViewer(s.app, path, res, s.cfg.View)
	if err != nil {
		return nil, err
	}
	v.onOpen = s.openAndShow
	v.Window().SetOnClosed(func() { s.release(v) })

	s.mu.Lock()
	s.viewers = append(s.viewers, v)
	s.mu.Unlock()

	if s.cfg.Watch.Enabled {
		if err := s.watch(v); err != nil {
			log.Printf("watch: %v", err)
		}
	}

	log.Printf("load: %s: %s scan, %d x %d grid", path, res.Mode, len(res.Y), len(res.X))
	return v, nil
}

// OpenAll opens every path. Failures are logged and collected; the
// remaining files are still opened.
func (s *Session) OpenAll(paths []string) error {
	var errs []error
	for _, p := range paths {
		if _, err := s.Open(p); err != nil {
			log.Printf("load: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) openAndShow(path string) {
	v, err := s.Open(path)
	if err != nil {
		log.Printf("load: %v", err)
		return
	}
	v.Window().Show()
}

// watch reloads v whenever its file changes. A file that no longer
// reconstructs leaves the previous data on screen.
func (s *Session) watch(v *Viewer) error {
	fw, err := appkg.NewFileWatcher(v.Path(), s.cfg.Watch.Debounce())
	if err != nil {
		return err
	}
	fw.OnChange(func() {
		res, err := s.load(v.Path())
		if err != nil {
			log.Printf("reload: %v", err)
			return
		}
		v.Replace(res)
		log.Printf("reload: %s: %d x %d grid", v.Path(), len(res.Y), len(res.X))
	})

	s.mu.Lock()
	s.watchers[v] = fw
	s.mu.Unlock()
	fw.Start()
	return nil
}

// Viewers returns the open viewers in opening order.
func (s *Session) Viewers() []*Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Viewer(nil), s.viewers...)
}

// Len returns the number of open viewers.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// ShowAll shows every viewer window.
func (s *Session) ShowAll() {
	for _, v := range s.Viewers() {
		v.Window().Show()
	}
}

// Close stops all watchers and closes the windows.
func (s *Session) Close() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	for _, v := range s.Viewers() {
		v.Window().Close()
	}
}

// release forgets a closed viewer and quits once none are left.
func (s *Session) release(v *Viewer) {
	s.mu.Lock()
	for i, other := range s.viewers {
		if other == v {
			s.viewers = append(s.viewers[:i], s.viewers[i+1:]...)
			break
		}
	}
	fw := s.watchers[v]
	delete(s.watchers, v)
	empty := len(s.viewers) == 0
	closing := s.closing
	s.mu.Unlock()

	if fw != nil {
		fw.Stop()
	}
	if empty && !closing {
		s.app.Quit()
	}
}
