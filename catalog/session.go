package catalog

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"lutpreview/applier"
	"lutpreview/lut"
	"lutpreview/parallel"
)

const AlertTitle = "Invalid files"

// Alert is shown once per batch action that rejected at least one file.
type Alert struct {
	Title   string
	Message string
	Files   Rejections
}

// Session drives a Catalog from user actions, one at a time. It is not safe
// for concurrent use.
type Session struct {
	loader  Loader
	logger  *slog.Logger
	catalog Catalog
	alert   *Alert

	Interpolation lut.Interpolation
	Workers       parallel.Size
	// OnAlert, if set, is called with every alert as it is raised.
	OnAlert func(Alert)
}

func NewSession(ld Loader, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{loader: ld, logger: logger, Workers: 1}
}

func (s *Session) Catalog() Catalog { return s.catalog }

// Alert returns the alert raised by the last action, if any.
func (s *Session) Alert() (Alert, bool) {
	if s.alert == nil {
		return Alert{}, false
	}
	return *s.alert, true
}

func (s *Session) AddLUTFiles(paths ...string) {
	var rejected Rejections
	s.catalog, rejected = s.catalog.AddLUTFiles(s.loader, paths...)
	s.logger.Info("added LUTs", "requested", len(paths), "entries", s.catalog.Len(), "rejected", len(rejected))
	s.raise(rejected)
}

func (s *Session) SetPhoto(path string) {
	var rejected Rejections
	s.catalog, rejected = s.catalog.SetPhoto(s.loader, path)
	if len(rejected) == 0 {
		s.logger.Info("photo set", "file", path)
	}
	s.raise(rejected)
}

func (s *Session) Select(ref Reference) {
	s.catalog = s.catalog.Select(ref)
	s.raise(nil)
}

func (s *Session) RemoveSelected() {
	s.catalog = s.catalog.RemoveSelected()
	s.raise(nil)
}

func (s *Session) ClearAll() {
	s.catalog = s.catalog.ClearAll()
	s.raise(nil)
}

func (s *Session) raise(rejected Rejections) {
	s.alert = nil
	if len(rejected) == 0 {
		return
	}

	s.alert = &Alert{Title: AlertTitle, Message: rejected.Message(), Files: rejected}
	s.logger.Warn(AlertTitle, "files", s.alert.Message)
	if s.OnAlert != nil {
		s.OnAlert(*s.alert)
	}
}

type View int

const (
	// NoView: nothing is selected.
	NoView View = iota
	MetadataView
	ComparisonView
)

func (v View) String() string {
	switch v {
	case NoView:
		return "none"
	case MetadataView:
		return "metadata"
	case ComparisonView:
		return "comparison"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// Detail is what the detail pane shows for the current selection.
type Detail struct {
	View  View
	Entry Reference
	Info  lut.Info
	// Before and After are set for ComparisonView only.
	Before image.Image
	After  image.Image
	// Err explains why a comparison could not be shown, or why the entry
	// could not be read at all.
	Err error
}

// Detail renders the selected entry: a before/after pair when a photo is
// set, its metadata otherwise or when the preview fails.
func (s *Session) Detail() Detail {
	ref, ok := s.catalog.Selection()
	if !ok {
		return Detail{View: NoView}
	}
	logger := s.logger.With("lut", string(ref))

	l, err := s.loader.LoadLUT(string(ref))
	if err != nil {
		logger.Error("could not load selected LUT", "error", err)
		return Detail{View: NoView, Entry: ref, Err: err}
	}
	detail := Detail{View: MetadataView, Entry: ref, Info: l.Info(string(ref))}

	photo, ok := s.catalog.Photo()
	if !ok {
		return detail
	}

	before, err := s.loader.DecodeImage(string(photo))
	if err != nil {
		var decodeErr *applier.DecodeError
		if !errors.As(err, &decodeErr) {
			err = &applier.DecodeError{Path: string(photo), Err: err}
		}
		logger.Warn("cannot preview, showing metadata", "photo", string(photo), "error", err)
		detail.Err = err
		return detail
	}

	after, err := applier.Apply(before, l,
		applier.WithInterpolation(s.Interpolation), applier.WithWorkers(s.Workers))
	if err != nil {
		logger.Warn("cannot preview, showing metadata", "photo", string(photo), "error", err)
		detail.Err = err
		return detail
	}

	detail.View = ComparisonView
	detail.Before = before
	detail.After = after
	return detail
}
