package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrStoreNotFound means the store file does not exist at all.
	ErrStoreNotFound = errors.New("message store not found")

	// ErrAccessDenied means the store exists but could not be read,
	// usually because the terminal lacks Full Disk Access.
	ErrAccessDenied = errors.New("message store access denied")

	// ErrNoStores means every configured store failed.
	ErrNoStores = errors.New("no message store could be read")
)

// StoreError classifies a failure to open or read one store. It matches
// ErrStoreNotFound or ErrAccessDenied with errors.Is.
type StoreError struct {
	Source string
	Path   string
	Kind   error
	Err    error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s store %s: %v", e.Source, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s store %s: %v: %v", e.Source, e.Path, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Source reads one vendor message store and produces canonical records.
type Source interface {
	Name() string
	Path() string
	// Load returns every message with a unix timestamp strictly after since.
	Load(ctx context.Context, since int64) (*Dataset, error)
	Close() error
}

// Opener describes a configured store without opening it.
type Opener struct {
	Source string
	Path   string
	Open   func() (Source, error)
}

// openReadOnly opens a vendor SQLite file read-only and probes probeTable,
// classifying failures into ErrStoreNotFound or ErrAccessDenied.
func openReadOnly(source, path, probeTable string) (*sql.DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &StoreError{Source: source, Path: path, Kind: ErrStoreNotFound, Err: err}
		}
		return nil, &StoreError{Source: source, Path: path, Kind: ErrAccessDenied, Err: err}
	}
	if info.IsDir() {
		return nil, &StoreError{Source: source, Path: path, Kind: ErrStoreNotFound, Err: fmt.Errorf("%s is a directory", path)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &StoreError{Source: source, Path: path, Kind: ErrAccessDenied, Err: err}
	}
	f.Close()

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &StoreError{Source: source, Path: path, Kind: ErrAccessDenied, Err: err}
	}

	var one int
	err = db.QueryRow("SELECT 1 FROM " + probeTable + " LIMIT 1").Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		db.Close()
		return nil, &StoreError{Source: source, Path: path, Kind: ErrAccessDenied, Err: err}
	}

	return db, nil
}

// LoadAll opens and loads every configured store concurrently. A store that
// fails is recorded in its StoreStatus and skipped; only when every store
// fails does LoadAll return an error wrapping ErrNoStores. Statuses and the
// merged dataset follow the order of openers.
func LoadAll(ctx context.Context, openers []Opener, since int64) (*Dataset, []StoreStatus, error) {
	statuses := make([]StoreStatus, len(openers))
	parts := make([]*Dataset, len(openers))

	var g errgroup.Group
	for i, op := range openers {
		g.Go(func() error {
			statuses[i] = StoreStatus{Source: op.Source, Path: op.Path}
			ds, err := loadOne(ctx, op, since)
			if err != nil {
				statuses[i].Err = err
				return nil
			}
			parts[i] = ds
			statuses[i].Messages = len(ds.Messages)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, statuses, err
	}

	merged := &Dataset{}
	var errs []error
	for i, st := range statuses {
		if st.Err != nil {
			errs = append(errs, st.Err)
			continue
		}
		merged.Merge(parts[i])
	}
	if len(openers) == 0 || len(errs) == len(openers) {
		return nil, statuses, errors.Join(append([]error{ErrNoStores}, errs...)...)
	}

	return merged, statuses, nil
}

func loadOne(ctx context.Context, op Opener, since int64) (*Dataset, error) {
	src, err := op.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ds, err := src.Load(ctx, since)
	if err != nil {
		return nil, &StoreError{Source: op.Source, Path: op.Path, Kind: ErrAccessDenied, Err: err}
	}
	return ds, nil
}
