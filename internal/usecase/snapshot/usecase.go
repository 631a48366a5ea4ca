package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "backlog-snapshot-api/internal/domain/snapshot"
	"backlog-snapshot-api/internal/domain/uow"
	"backlog-snapshot-api/internal/infrastructure/metrics"
	"backlog-snapshot-api/internal/ingest"

	"github.com/sirupsen/logrus"
)

type Usecase struct {
	uow     uow.UnitOfWork
	schemas *ingest.Registry
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewUsecase(u uow.UnitOfWork, schemas *ingest.Registry, log logrus.FieldLogger) *Usecase {
	if schemas == nil {
		schemas = ingest.NewRegistry(ingest.DefaultFiscalYear)
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Usecase{
		uow:     u,
		schemas: schemas,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type decodedFile struct {
	schema ingest.Schema
	sheet  *ingest.Sheet
}

// decode parses every supplied, non-empty file in ingestion order. An empty
// file counts as absent.
func (u *Usecase) decode(files Files) ([]decodedFile, error) {
	for t := range files {
		if _, ok := u.schemas.Get(t); !ok {
			return nil, fmt.Errorf("%w: unknown table %q", domain.ErrInvalidInput, t)
		}
	}
	out := make([]decodedFile, 0, len(files))
	for _, s := range u.schemas.All() {
		data := files[s.Table]
		if len(data) == 0 {
			continue
		}
		sheet, err := ingest.Decode(data)
		if err != nil {
			return nil, &ingest.Error{Table: s.Table, Field: s.Field, Op: ingest.OpDecode, Err: err}
		}
		u.log.WithFields(logrus.Fields{
			"table":    s.Table,
			"rows":     sheet.Len(),
			"encoding": sheet.Encoding,
		}).Debug("file decoded")
		out = append(out, decodedFile{schema: s, sheet: sheet})
	}
	return out, nil
}

func write(ctx context.Context, r uow.Repos, f decodedFile, snapshotID int64) (int, error) {
	records := ingest.Transform(f.schema, f.sheet, snapshotID)
	n, err := r.Rows.InsertRows(ctx, f.schema.Table, records)
	if err != nil {
		return 0, &ingest.Error{Table: f.schema.Table, Field: f.schema.Field, Op: ingest.OpStore, Err: err}
	}
	return n, nil
}

// Create stores a new snapshot and every supplied table in one transaction.
// Any failure leaves neither the snapshot nor any of its rows behind.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (res *CreateResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation("create", err, time.Since(start)) }()

	files, err := u.decode(in.Files)
	if err != nil {
		return nil, err
	}

	var createdBy *string
	if in.CreatedBy != "" {
		createdBy = &in.CreatedBy
	}

	out := &CreateResult{}
	perTable := make(map[domain.Table]int, len(files))
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s := &domain.Snapshot{Description: in.Description, CreatedBy: createdBy, CreatedAt: u.now()}
		if err := r.Snapshots.Create(ctx, s); err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		out.SnapshotID = s.ID
		for _, f := range files {
			n, err := write(ctx, r, f, s.ID)
			if err != nil {
				return err
			}
			perTable[f.schema.Table] = n
			out.RowsSaved += n
		}
		return nil
	})
	if err != nil {
		u.log.WithError(err).Warn("snapshot create rolled back")
		return nil, err
	}

	for t, n := range perTable {
		metrics.AddRows(string(t), n)
	}
	u.log.WithFields(logrus.Fields{
		"snapshot_id": out.SnapshotID,
		"rows_saved":  out.RowsSaved,
		"tables":      len(files),
	}).Info("snapshot created")
	return out, nil
}

// Update replaces the rows of each supplied table for an existing snapshot.
// Tables without a file are left alone; the whole call is one transaction.
// Files are decoded before the transaction opens, but a missing snapshot is
// reported ahead of any decode error.
func (u *Usecase) Update(ctx context.Context, id int64, files Files) (res *UpdateResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation("update", err, time.Since(start)) }()

	if id <= 0 {
		return nil, fmt.Errorf("%w: snapshot id must be positive", domain.ErrInvalidInput)
	}
	supplied := 0
	for _, data := range files {
		if len(data) > 0 {
			supplied++
		}
	}
	if supplied == 0 {
		return nil, fmt.Errorf("%w: no files supplied", domain.ErrInvalidInput)
	}

	decoded, decodeErr := u.decode(files)

	out := &UpdateResult{SnapshotID: id, UpdatedTables: []domain.Table{}}
	perTable := map[domain.Table]int{}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Snapshots.GetByID(ctx, id); err != nil {
			return err
		}
		if decodeErr != nil {
			return decodeErr
		}
		for _, f := range decoded {
			if _, err := r.Rows.DeleteRows(ctx, f.schema.Table, id); err != nil {
				return &ingest.Error{Table: f.schema.Table, Field: f.schema.Field, Op: ingest.OpStore, Err: fmt.Errorf("clear rows: %w", err)}
			}
			n, err := write(ctx, r, f, id)
			if err != nil {
				return err
			}
			perTable[f.schema.Table] = n
			out.UpdatedTables = append(out.UpdatedTables, f.schema.Table)
			out.RowsUpdated += n
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.log.WithError(err).WithField("snapshot_id", id).Warn("snapshot update rolled back")
		}
		return nil, err
	}

	for t, n := range perTable {
		metrics.AddRows(string(t), n)
	}
	u.log.WithFields(logrus.Fields{
		"snapshot_id":  id,
		"tables":       out.UpdatedTables,
		"rows_updated": out.RowsUpdated,
	}).Info("snapshot updated")
	return out, nil
}

// Delete removes a snapshot and all of its child rows.
func (u *Usecase) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation("delete", err, time.Since(start)) }()

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Snapshots.GetByID(ctx, id); err != nil {
			return err
		}
		for _, t := range domain.ChildTables {
			if _, err := r.Rows.DeleteRows(ctx, t, id); err != nil {
				return fmt.Errorf("delete %s rows: %w", t, err)
			}
		}
		return r.Snapshots.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	u.log.WithField("snapshot_id", id).Info("snapshot deleted")
	return nil
}

// UpdateDescription edits the only mutable snapshot attribute.
func (u *Usecase) UpdateDescription(ctx context.Context, id int64, description string) (out *domain.Snapshot, err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation("describe", err, time.Since(start)) }()

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Snapshots.UpdateDescription(ctx, id, description); err != nil {
			return err
		}
		s, err := r.Snapshots.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns snapshot metadata, newest first.
func (u *Usecase) List(ctx context.Context) ([]domain.Snapshot, error) {
	var out []domain.Snapshot
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Snapshots.List(ctx)
		out = list
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Snapshot{}
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (*Bundle, error) {
	var out *Bundle
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Snapshots.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out, err = loadBundle(ctx, r, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the snapshot with the highest id. An empty store yields a
// bundle with a nil snapshot and empty tables, not an error.
func (u *Usecase) Latest(ctx context.Context) (*Bundle, error) {
	var out *Bundle
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Snapshots.GetLatest(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			out = newBundle(nil)
			return nil
		}
		if err != nil {
			return err
		}
		out, err = loadBundle(ctx, r, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadBundle(ctx context.Context, r uow.Repos, s *domain.Snapshot) (*Bundle, error) {
	b := newBundle(s)
	for t, dest := range b.targets() {
		if err := r.Rows.ListRows(ctx, t, s.ID, dest); err != nil {
			return nil, fmt.Errorf("load %s: %w", t, err)
		}
	}
	b.normalize()
	return b, nil
}
