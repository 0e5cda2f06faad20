package jsondb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
)

// collection names, as persisted
const (
	Users       = "users"
	Instructors = "instructors"
	Admins      = "admins"
	Courses     = "courses"
	Lessons     = "lessons"
	Payments    = "payments"
)

var (
	readFile = os.ReadFile // mockable

	errUnreadable = errors.New("backing file could not be read, refusing to overwrite it")
)

// DB keeps every collection in memory and persists them all, as one JSON document, to a single file.
type DB struct {
	path           string
	logger         core.Logger
	persistOnWrite bool

	mu          sync.RWMutex
	users       []*account.User
	instructors []*account.Instructor
	admins      []*account.Admin
	courses     []*course.Course
	lessons     []*lesson.Lesson
	payments    []*course.Payment
	degraded    bool
	unreadable  bool

	// serializes file writes
	persistMu sync.Mutex
}

type Option func(*DB)

// WithPersistOnWrite makes every successful mutation persist the whole DB before returning.
func WithPersistOnWrite(enabled bool) Option {
	return func(db *DB) { db.persistOnWrite = enabled }
}

// Open returns an empty DB backed by the file at path. Call Load to read the file.
func Open(path string, logger core.Logger, opts ...Option) *DB {
	db := &DB{
		path:   path,
		logger: logger,
	}
	for _, opt := range opts {
		opt(db)
	}
	db.reset()
	return db
}

func (db *DB) Path() string { return db.path }

// Degraded reports whether the last Load failed and the DB started empty.
func (db *DB) Degraded() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.degraded
}

func (db *DB) reset() {
	db.users = make([]*account.User, 0)
	db.instructors = make([]*account.Instructor, 0)
	db.admins = make([]*account.Admin, 0)
	db.courses = make([]*course.Course, 0)
	db.lessons = make([]*lesson.Lesson, 0)
	db.payments = make([]*course.Payment, 0)
}

// Load replaces the in-memory collections with the content of the backing file.
// On failure the DB is left empty and degraded, and a *core.PersistenceError is returned.
// A malformed file is moved aside to <path>.corrupt so that the next Persist does not overwrite it.
// A file that exists but cannot be read blocks every Persist until a later Load succeeds.
func (db *DB) Load() error {
	data, err := readFile(db.path)
	if err != nil {
		db.degrade()
		if !errors.Is(err, os.ErrNotExist) {
			db.mu.Lock()
			db.unreadable = true
			db.mu.Unlock()
			db.logger.Error(fmt.Sprintf("could not read database %q, persisting is disabled", db.path), err)
		}
		return core.NewPersistenceError("load", db.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		db.degrade()
		corruptPath := db.path + ".corrupt"
		if rErr := os.Rename(db.path, corruptPath); rErr != nil {
			db.logger.Error(fmt.Sprintf("could not move malformed database to %q", corruptPath), rErr)
		} else {
			db.logger.Warn(fmt.Sprintf("malformed database moved to %q", corruptPath))
		}
		return core.NewPersistenceError("load", db.path, err)
	}

	db.mu.Lock()
	db.fromDocument(doc)
	db.degraded = false
	db.unreadable = false
	db.mu.Unlock()

	db.logger.Info(fmt.Sprintf("database loaded from %q", db.path))
	return nil
}

func (db *DB) degrade() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()
	db.degraded = true
}

// Persist writes every collection to the backing file.
// The document is written to a temporary file which then replaces the backing file,
// so a failed write never leaves a truncated database behind. In-memory state is never touched.
func (db *DB) Persist() error {
	db.persistMu.Lock()
	defer db.persistMu.Unlock()

	db.mu.RLock()
	if db.unreadable {
		db.mu.RUnlock()
		return core.NewPersistenceError("persist", db.path, errUnreadable)
	}
	data, err := json.MarshalIndent(db.toDocument(), "", "  ")
	db.mu.RUnlock()
	if err != nil {
		return core.NewPersistenceError("encode", db.path, err)
	}

	dir, base := filepath.Split(db.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return core.NewPersistenceError("persist", db.path, err)
	}
	tmpPath := tmp.Name()
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cErr := tmp.Close(); err == nil {
		err = cErr
	}
	if err == nil {
		err = os.Rename(tmpPath, db.path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return core.NewPersistenceError("persist", db.path, err)
	}

	db.logger.Debug(fmt.Sprintf("database saved to %q", db.path))
	return nil
}

// written is called by the repositories after each successful mutation, without holding the lock.
func (db *DB) written() error {
	if !db.persistOnWrite {
		return nil
	}
	return db.Persist()
}

// Snapshot is a deep copy of every collection.
type Snapshot struct {
	Users       []account.User
	Instructors []account.Instructor
	Admins      []account.Admin
	Courses     []course.Course
	Lessons     []lesson.Lesson
	Payments    []course.Payment
}

func (db *DB) Snapshot() Snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()

	snap := Snapshot{
		Users:       make([]account.User, 0, len(db.users)),
		Instructors: make([]account.Instructor, 0, len(db.instructors)),
		Admins:      make([]account.Admin, 0, len(db.admins)),
		Courses:     make([]course.Course, 0, len(db.courses)),
		Lessons:     make([]lesson.Lesson, 0, len(db.lessons)),
		Payments:    make([]course.Payment, 0, len(db.payments)),
	}
	for _, u := range db.users {
		snap.Users = append(snap.Users, copyUser(u))
	}
	for _, i := range db.instructors {
		snap.Instructors = append(snap.Instructors, copyInstructor(i))
	}
	for _, a := range db.admins {
		snap.Admins = append(snap.Admins, copyAdmin(a))
	}
	for _, c := range db.courses {
		snap.Courses = append(snap.Courses, copyCourse(c))
	}
	for _, l := range db.lessons {
		snap.Lessons = append(snap.Lessons, *l)
	}
	for _, p := range db.payments {
		snap.Payments = append(snap.Payments, *p)
	}
	return snap
}

var errUnknownCollection = core.NewNotFoundError("unknown collection")

// Collection returns a copy of the collection persisted under name.
func (db *DB) Collection(name string) (interface{}, error) {
	snap := db.Snapshot()
	switch name {
	case Users:
		return snap.Users, nil
	case Instructors:
		return snap.Instructors, nil
	case Admins:
		return snap.Admins, nil
	case Courses:
		return snap.Courses, nil
	case Lessons:
		return snap.Lessons, nil
	case Payments:
		return snap.Payments, nil
	}
	return nil, errors.Wrap(errUnknownCollection, name)
}
