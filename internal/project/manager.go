package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/handiism/outfiles/internal/errors"
	ioutils "github.com/handiism/outfiles/internal/io"
	"github.com/handiism/outfiles/internal/output"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a batch progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// FailureMode decides whether a batch stops at the first failing descriptor.
type FailureMode int

const (
	// StopOnFirstError returns the first error and leaves later descriptors
	// unprocessed.
	StopOnFirstError FailureMode = iota
	// ContinueOnError processes every descriptor and returns all errors
	// joined.
	ContinueOnError
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithFailureMode sets the batch failure mode.
func WithFailureMode(mode FailureMode) Option {
	return func(m *Manager) {
		m.failureMode = mode
	}
}

// WithProgress sets a callback receiving one event per processed descriptor.
func WithProgress(onProgress func(ProgressEvent)) Option {
	return func(m *Manager) {
		m.onProgress = onProgress
	}
}

// Manager coordinates initialization of a project's output files.
//
// A Manager is immutable once created. It does not own the descriptors it is
// given; each batch call borrows them for its duration.
type Manager struct {
	root        string
	extension   string
	policy      Policy
	archiver    *Archiver
	failureMode FailureMode
	logger      *slog.Logger
	onProgress  func(ProgressEvent)
}

// NewManager creates a Manager for the project rooted at root. extension is
// the default applied to descriptors that do not set their own.
func NewManager(root, extension string, policy Policy, opts ...Option) *Manager {
	m := &Manager{
		root:      root,
		extension: extension,
		policy:    policy,
		archiver:  NewArchiver(root),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the project root.
func (m *Manager) Root() string { return m.root }

// Extension returns the default extension.
func (m *Manager) Extension() string { return m.extension }

// Policy returns the collision policy.
func (m *Manager) Policy() Policy { return m.policy }

// ApplyDefaults injects the project root and default extension into every
// descriptor. Values a descriptor already set are kept.
func (m *Manager) ApplyDefaults(files ...*output.File) {
	for _, f := range files {
		f.SetProjectPath(m.root).SetExtension(m.extension)
	}
}

// InitializeOutputFiles applies the shared defaults, then resolves and
// materializes each descriptor in order under the collision policy.
//
// With StopOnFirstError (the default) the first error is returned and
// processing stops; a Panic-policy collision yields a recoverable
// errors.KindCollision error. With ContinueOnError all errors are joined.
func (m *Manager) InitializeOutputFiles(files ...*output.File) error {
	_, err := m.Run(files...)
	return err
}

// Run is InitializeOutputFiles that also reports what happened to each
// processed descriptor.
func (m *Manager) Run(files ...*output.File) (*Report, error) {
	m.ApplyDefaults(files...)

	report := &Report{Root: m.root, Policy: m.policy}
	var errs []error

	for _, f := range files {
		outcome, err := m.initialize(f)
		if err != nil {
			outcome.Action = failureAction(err)
			outcome.Error = err.Error()
		}
		report.Outcomes = append(report.Outcomes, outcome)
		m.reportProgress(outcome)

		if err == nil {
			continue
		}
		m.logger.Error("output initialization failed", "path", outcome.Path, "policy", m.policy.String(), "error", err)
		if m.failureMode == StopOnFirstError {
			return report, err
		}
		errs = append(errs, err)
	}

	return report, errors.Join(errs...)
}

// Plan resolves every descriptor and reports what Run would do, without
// touching the filesystem.
func (m *Manager) Plan(files ...*output.File) *Report {
	m.ApplyDefaults(files...)

	report := &Report{Root: m.root, Policy: m.policy}
	for _, f := range files {
		path, ok := f.Resolve()
		if !ok {
			report.Outcomes = append(report.Outcomes, Outcome{
				Action: ActionFailed,
				Error:  errors.New(errors.KindNotInitialized, "plan", "", errors.ErrNotInitialized).Error(),
			})
			continue
		}

		if s, ok := f.Series(); ok && s.Count == 0 {
			report.Outcomes = append(report.Outcomes, Outcome{
				Path:   path,
				Action: ActionFailed,
				Error:  errors.New(errors.KindInvalidConfig, "plan", path, errors.ErrEmptySeries).Error(),
			})
			continue
		}

		members, _ := f.Members()
		existing := existingMembers(members)
		outcome := Outcome{Path: path, Members: members, Collision: len(existing) > 0}
		outcome.Action = m.plannedAction(outcome.Collision)
		if outcome.Action == ActionArchived {
			for _, p := range existing {
				dst, err := ArchivePath(m.root, p)
				if err != nil {
					outcome.Action = ActionFailed
					outcome.Error = err.Error()
					break
				}
				outcome.Archived = append(outcome.Archived, dst)
			}
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

func (m *Manager) plannedAction(collision bool) Action {
	if !collision {
		return ActionCreated
	}
	switch m.policy {
	case PolicyPanic:
		return ActionDenied
	case PolicyArchive:
		return ActionArchived
	case PolicyOverwrite:
		return ActionOverwritten
	default:
		return ActionIgnored
	}
}

// initialize resolves one descriptor and applies the collision policy.
func (m *Manager) initialize(f *output.File) (Outcome, error) {
	path, ok := f.Resolve()
	if !ok {
		return Outcome{}, errors.New(errors.KindNotInitialized, "initialize", "", errors.ErrNotInitialized)
	}
	m.progress(LevelVerbose, "Resolved %s", path)

	members, err := f.Members()
	if err != nil {
		return Outcome{Path: path}, err
	}
	existing := existingMembers(members)
	outcome := Outcome{Path: path, Members: members, Collision: len(existing) > 0}

	if !outcome.Collision {
		outcome.Action = ActionCreated
		return m.materialize(f, outcome)
	}

	m.logger.Debug("output collision", "path", path, "existing", len(existing), "policy", m.policy.String())
	m.progress(LevelInfo, "%d existing file(s) for %s, policy %s", len(existing), path, m.policy)

	switch m.policy {
	case PolicyPanic:
		return outcome, errors.Collision(existing[0])

	case PolicyArchive:
		for _, p := range existing {
			dst, err := m.archiver.Archive(context.Background(), p)
			if err != nil {
				return outcome, err
			}
			m.logger.Info("archived output file", "path", p, "archive", dst)
			m.progress(LevelVerbose, "Archived %s to %s", p, dst)
			outcome.Archived = append(outcome.Archived, dst)
		}
		outcome.Action = ActionArchived
		return m.materialize(f, outcome)

	case PolicyOverwrite:
		outcome.Action = ActionOverwritten
		return m.materialize(f, outcome)

	case PolicyIgnore:
		if err := f.MarkReadOnly(); err != nil {
			return outcome, err
		}
		outcome.Action = ActionIgnored
		outcome.Path = f.MustPath()
		return outcome, nil

	default:
		return outcome, errors.New(errors.KindInvalidConfig, "initialize", path, fmt.Errorf("unknown policy %d", int(m.policy)))
	}
}

func (m *Manager) materialize(f *output.File, outcome Outcome) (Outcome, error) {
	if err := f.InitializeOutput(); err != nil {
		return outcome, err
	}
	outcome.Path = f.MustPath()
	outcome.Members, _ = f.Members()
	outcome.Writable = f.Writable()

	if _, ok := f.Series(); ok {
		for _, p := range outcome.Members {
			m.progress(LevelVerbose, "Created series member %s", p)
		}
	}
	return outcome, nil
}

func existingMembers(members []string) []string {
	var existing []string
	for _, p := range members {
		if ioutils.Exists(p) {
			existing = append(existing, p)
		}
	}
	return existing
}

func failureAction(err error) Action {
	if errors.KindOf(err) == errors.KindCollision {
		return ActionDenied
	}
	return ActionFailed
}

// progress sends one event for a step inside a descriptor.
func (m *Manager) progress(level ProgressLevel, format string, args ...any) {
	if m.onProgress == nil {
		return
	}
	m.onProgress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
}

// reportProgress sends the event summarizing one descriptor's outcome.
func (m *Manager) reportProgress(o Outcome) {
	if m.onProgress == nil {
		return
	}

	event := ProgressEvent{Level: LevelSuccess}
	switch o.Action {
	case ActionCreated:
		event.Message = fmt.Sprintf("Created %s", o.Path)
	case ActionArchived:
		event.Message = fmt.Sprintf("Archived %d file(s) and recreated %s", len(o.Archived), o.Path)
	case ActionOverwritten:
		event.Message = fmt.Sprintf("Overwrote %s", o.Path)
	case ActionIgnored:
		event.Message = fmt.Sprintf("Kept existing %s (read-only)", o.Path)
		event.Level = LevelWarning
	case ActionDenied:
		event.Message = fmt.Sprintf("Refused to overwrite %s", o.Path)
		event.Level = LevelError
	default:
		event.Message = fmt.Sprintf("Failed %s: %s", o.Path, o.Error)
		event.Level = LevelError
	}
	m.onProgress(event)
}
