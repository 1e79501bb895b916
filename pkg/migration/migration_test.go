package migration

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type memTracker struct{ recs map[string]Record }

func (m *memTracker) List(context.Context) ([]Record, error) {
	var out []Record
	for _, r := range m.recs {
		out = append(out, r)
	}
	return out, nil
}

func (m *memTracker) Insert(_ context.Context, r Record) error {
	m.recs[r.Name] = r
	return nil
}

func (m *memTracker) Delete(_ context.Context, name string) error {
	delete(m.recs, name)
	return nil
}

type step struct {
	log  *[]string
	name string
	fail bool
}

func (s step) Up(context.Context, *mongo.Database) error {
	if s.fail {
		return errors.New("index build failed")
	}
	*s.log = append(*s.log, "up:"+s.name)
	return nil
}

func (s step) Down(context.Context, *mongo.Database) error {
	*s.log = append(*s.log, "down:"+s.name)
	return nil
}

func withRegistry(t *testing.T, entries ...entry) {
	t.Helper()
	mu.Lock()
	saved := registry
	registry = entries
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})
}

func TestRunAppliesPendingInNameOrderAndRollsBackLastBatch(t *testing.T) {
	var log []string
	withRegistry(t,
		entry{"002_orders", step{log: &log, name: "002"}},
		entry{"001_products", step{log: &log, name: "001"}},
	)
	tr := &memTracker{recs: map[string]Record{}}
	var out bytes.Buffer
	r := &Runner{tracker: tr, out: &out}
	ctx := context.Background()

	require.NoError(t, r.Run(ctx))
	assert.Equal(t, []string{"up:001", "up:002"}, log)
	assert.Equal(t, 1, tr.recs["002_orders"].Batch)

	require.NoError(t, r.Run(ctx))
	assert.Contains(t, out.String(), "Nothing to migrate.")

	withRegistry(t,
		entry{"001_products", step{log: &log, name: "001"}},
		entry{"002_orders", step{log: &log, name: "002"}},
		entry{"003_carts", step{log: &log, name: "003"}},
	)
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, 2, tr.recs["003_carts"].Batch)

	require.NoError(t, r.Rollback(ctx))
	assert.Equal(t, "down:003", log[len(log)-1])
	assert.NotContains(t, tr.recs, "003_carts")
	assert.Contains(t, tr.recs, "002_orders")

	out.Reset()
	require.NoError(t, r.Status(ctx))
	assert.Regexp(t, `003_carts\s+Pending`, out.String())
	assert.Regexp(t, `001_products\s+Ran\s+1`, out.String())
}

func TestRunStopsOnFailure(t *testing.T) {
	var log []string
	withRegistry(t,
		entry{"001_ok", step{log: &log, name: "001"}},
		entry{"002_bad", step{log: &log, name: "002", fail: true}},
	)
	tr := &memTracker{recs: map[string]Record{}}
	r := &Runner{tracker: tr, out: &bytes.Buffer{}}

	err := r.Run(context.Background())
	assert.ErrorContains(t, err, "002_bad up")
	assert.Contains(t, tr.recs, "001_ok")
	assert.NotContains(t, tr.recs, "002_bad")
}

func TestRollbackWithNothingApplied(t *testing.T) {
	withRegistry(t)
	var out bytes.Buffer
	r := &Runner{tracker: &memTracker{recs: map[string]Record{}}, out: &out}

	require.NoError(t, r.Rollback(context.Background()))
	assert.Contains(t, out.String(), "Nothing to roll back.")
}
