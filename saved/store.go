// Package saved keeps named snapshots of query builder state and replays
// them against new row sets.
package saved

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"github.com/vegasq/repostat/query"
)

// ErrNotFound is returned when no snapshot exists under the requested name.
var ErrNotFound = errors.New("saved query not found")

// Snapshot is an immutable copy of a query's builder state.
type Snapshot struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	SavedAt time.Time   `json:"saved_at"`
	State   query.State `json:"state"`
}

// Store holds snapshots by name. Entries live until overwritten or deleted.
type Store struct {
	snapshots map[string]*Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{snapshots: make(map[string]*Snapshot)}
}

// Save snapshots q under name, replacing any earlier entry.
func (s *Store) Save(name string, q *query.Query) (*Snapshot, error) {
	if name == "" {
		return nil, &query.InvalidOperationError{Op: "save", Reason: "empty query name"}
	}
	if q == nil {
		return nil, &query.InvalidOperationError{Op: "save", Reason: "nil query"}
	}
	if err := q.Err(); err != nil {
		return nil, &query.InvalidOperationError{Op: "save", Reason: err.Error()}
	}

	snap := &Snapshot{
		ID:      uuid.New(),
		Name:    name,
		SavedAt: time.Now().UTC(),
		State:   q.State(),
	}
	s.snapshots[name] = snap
	slog.Debug("query saved", "name", name, "id", snap.ID)
	return snap.clone(), nil
}

// Get returns a copy of the snapshot stored under name.
func (s *Store) Get(name string) (*Snapshot, error) {
	snap, ok := s.snapshots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return snap.clone(), nil
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.snapshots))
	for name := range s.snapshots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(name string) error {
	if _, ok := s.snapshots[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(s.snapshots, name)
	return nil
}

// Run replays the snapshot stored under name against rows.
//
// Select, group and sort fields are resolved again against rows; predicates
// are appended as stored, keyed by the columns they were built against.
// Replaying on a dataset with different column names may therefore filter
// out every row.
func (s *Store) Run(name string, rows []query.Row) (*query.Result, error) {
	snap, ok := s.snapshots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	st := snap.State
	q := query.New(rows)
	if len(st.Select) > 0 {
		q.Select(st.Select...)
	}
	if st.Group != "" {
		q.GroupBy(st.Group)
	}
	for _, k := range st.Sort {
		q.SortBy(k.Field, k.Desc)
	}
	for _, p := range st.Predicates {
		q.AddPredicate(p)
	}

	res, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to run saved query %s: %w", name, err)
	}
	return res, nil
}

// Export writes every snapshot as a JSON document.
func (s *Store) Export(w io.Writer) error {
	list := make([]*Snapshot, 0, len(s.snapshots))
	for _, name := range s.Names() {
		list = append(list, s.snapshots[name])
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("failed to encode saved queries: %w", err)
	}
	return nil
}

// Import reads snapshots written by Export, replacing entries with the same
// name. Snapshots with invalid predicates are rejected.
func (s *Store) Import(r io.Reader) error {
	var list []*Snapshot
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return fmt.Errorf("failed to decode saved queries: %w", err)
	}

	for _, snap := range list {
		if snap == nil || snap.Name == "" {
			return &query.InvalidOperationError{Op: "import", Reason: "snapshot without name"}
		}
		for _, p := range snap.State.Predicates {
			if err := p.Validate(); err != nil {
				return fmt.Errorf("saved query %s: %w", snap.Name, err)
			}
		}
	}
	for _, snap := range list {
		s.snapshots[snap.Name] = snap.clone()
	}
	return nil
}

func (snap *Snapshot) clone() *Snapshot {
	c := *snap
	c.State = snap.State.Clone()
	return &c
}
