package query

// Query is a fluent builder for a filter → select → sort → group pipeline
// over a fixed row set.
//
// Every builder method resolves its field arguments immediately. A failed
// resolution leaves the query unchanged and is recorded: Err reports it
// straight away and Execute refuses to run while it is set.
//
//	res, err := query.New(rows).
//	    WhereEqual("Language", "Go").
//	    SortBy("stars", true).
//	    Select("repo name", "stars").
//	    Execute()
type Query struct {
	rows     []Row
	resolver *Resolver

	predicates []Predicate
	selectList []string
	sortKeys   []SortKey
	groupField string

	err error
}

// New creates a query over rows. Column names are taken from the first
// SampleSize rows.
func New(rows []Row) *Query {
	copied := make([]Row, len(rows))
	copy(copied, rows)
	return &Query{
		rows:     copied,
		resolver: NewResolverFromRows(copied),
	}
}

// Resolver returns the resolver the query uses for field references.
func (q *Query) Resolver() *Resolver {
	return q.resolver
}

// Err returns the first field resolution or builder error, if any.
func (q *Query) Err() error {
	return q.err
}

// Select sets the output projection, replacing any earlier one. An empty
// list disables projection.
func (q *Query) Select(fields ...string) *Query {
	resolved := make([]string, 0, len(fields))
	for _, f := range fields {
		key, ok := q.resolve(f)
		if !ok {
			return q
		}
		resolved = append(resolved, key)
	}
	q.selectList = resolved
	return q
}

// WhereEqual keeps rows whose field equals value.
func (q *Query) WhereEqual(field, value string) *Query {
	key, ok := q.resolve(field)
	if !ok {
		return q
	}
	q.predicates = append(q.predicates, Equal(key, value))
	return q
}

// WhereIn keeps rows whose field is one of values.
func (q *Query) WhereIn(field string, values ...string) *Query {
	key, ok := q.resolve(field)
	if !ok {
		return q
	}
	q.predicates = append(q.predicates, In(key, values...))
	return q
}

// SortBy appends a sort key.
func (q *Query) SortBy(field string, desc bool) *Query {
	key, ok := q.resolve(field)
	if !ok {
		return q
	}
	q.sortKeys = append(q.sortKeys, SortKey{Field: key, Desc: desc})
	return q
}

// GroupBy sets the group-by field, replacing any earlier one.
func (q *Query) GroupBy(field string) *Query {
	key, ok := q.resolve(field)
	if !ok {
		return q
	}
	q.groupField = key
	return q
}

// AddPredicate appends an already resolved predicate without consulting the
// resolver.
func (q *Query) AddPredicate(p Predicate) *Query {
	if err := p.Validate(); err != nil {
		q.record(err)
		return q
	}
	if p.Op == OpIn {
		p.Values = append([]string(nil), p.Values...)
	}
	q.predicates = append(q.predicates, p)
	return q
}

// State returns a deep copy of the builder state.
func (q *Query) State() State {
	return State{
		Select:     q.selectList,
		Predicates: q.predicates,
		Sort:       q.sortKeys,
		Group:      q.groupField,
	}.Clone()
}

func (q *Query) resolve(field string) (string, bool) {
	key, err := q.resolver.Resolve(field)
	if err != nil {
		q.record(err)
		return "", false
	}
	return key, true
}

func (q *Query) record(err error) {
	if q.err == nil {
		q.err = err
	}
}
