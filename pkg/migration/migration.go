// Package migration applies versioned schema changes (collections and
// indexes) to MongoDB and records them in the schema_migrations collection.
//
//	func init() {
//	    migration.Register("20260101000000_create_orders_indexes", &CreateOrdersIndexes{})
//	}
//
// Run from the CLI with `unistore migrate`, `migrate:rollback`, `migrate:status`.
package migration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/unistore/pkg/logger"
)

// Collection is where applied migrations are recorded.
const Collection = "schema_migrations"

// Migration is one reversible schema change.
type Migration interface {
	Up(ctx context.Context, db *mongo.Database) error
	Down(ctx context.Context, db *mongo.Database) error
}

type entry struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []entry
)

// Register adds a migration. Names sort chronologically, so prefix them
// with a timestamp.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, entry{name: name, m: m})
}

func registered() []entry {
	mu.Lock()
	defer mu.Unlock()
	out := append([]entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Record is a row of the tracking collection.
type Record struct {
	Name  string    `bson:"_id"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"runAt"`
}

// tracker persists Records.
type tracker interface {
	List(ctx context.Context) ([]Record, error)
	Insert(ctx context.Context, r Record) error
	Delete(ctx context.Context, name string) error
}

// Runner applies registered migrations.
type Runner struct {
	db      *mongo.Database
	tracker tracker
	out     io.Writer
}

// New returns a Runner that reports progress to out.
func New(db *mongo.Database, out io.Writer) *Runner {
	return &Runner{db: db, tracker: mongoTracker{col: db.Collection(Collection)}, out: out}
}

// Run applies every pending migration as one batch.
func (r *Runner) Run(ctx context.Context) error {
	ran, err := r.tracker.List(ctx)
	if err != nil {
		return fmt.Errorf("migration: list: %w", err)
	}
	done := make(map[string]bool, len(ran))
	batch := 0
	for _, rec := range ran {
		done[rec.Name] = true
		if rec.Batch > batch {
			batch = rec.Batch
		}
	}
	batch++

	applied := 0
	for _, e := range registered() {
		if done[e.name] {
			continue
		}
		fmt.Fprintf(r.out, "  migrating: %s\n", e.name)
		if err := e.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		if err := r.tracker.Insert(ctx, Record{Name: e.name, Batch: batch, RunAt: time.Now().UTC()}); err != nil {
			return fmt.Errorf("migration: record %s: %w", e.name, err)
		}
		applied++
	}

	if applied == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: done", "applied", applied, "batch", batch)
	return nil
}

// Rollback reverts the most recent batch in reverse order.
func (r *Runner) Rollback(ctx context.Context) error {
	ran, err := r.tracker.List(ctx)
	if err != nil {
		return fmt.Errorf("migration: list: %w", err)
	}
	last := 0
	for _, rec := range ran {
		if rec.Batch > last {
			last = rec.Batch
		}
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	byName := map[string]Migration{}
	for _, e := range registered() {
		byName[e.name] = e.m
	}

	var batch []Record
	for _, rec := range ran {
		if rec.Batch == last {
			batch = append(batch, rec)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Name > batch[j].Name })

	for _, rec := range batch {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}
		fmt.Fprintf(r.out, "  rolling back: %s\n", rec.Name)
		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.tracker.Delete(ctx, rec.Name); err != nil {
			return fmt.Errorf("migration: unrecord %s: %w", rec.Name, err)
		}
	}
	return nil
}

// Status prints every registered migration with its batch.
func (r *Runner) Status(ctx context.Context) error {
	ran, err := r.tracker.List(ctx)
	if err != nil {
		return fmt.Errorf("migration: list: %w", err)
	}
	batches := make(map[string]int, len(ran))
	for _, rec := range ran {
		batches[rec.Name] = rec.Batch
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH")
	for _, e := range registered() {
		if b, ok := batches[e.name]; ok {
			fmt.Fprintf(w, "%s\tRan\t%d\n", e.name, b)
		} else {
			fmt.Fprintf(w, "%s\tPending\t-\n", e.name)
		}
	}
	return w.Flush()
}

type mongoTracker struct {
	col *mongo.Collection
}

func (t mongoTracker) List(ctx context.Context) ([]Record, error) {
	cur, err := t.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t mongoTracker) Insert(ctx context.Context, r Record) error {
	_, err := t.col.InsertOne(ctx, r)
	return err
}

func (t mongoTracker) Delete(ctx context.Context, name string) error {
	_, err := t.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: name}})
	return err
}
