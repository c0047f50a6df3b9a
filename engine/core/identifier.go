package core

import "github.com/cockroachdb/errors"

// Identifiers hands out monotonic integer ids and remembers their owners.
// Released ids are never reused within the lifetime of the allocator.
type Identifiers struct {
	next   int
	owners map[int]interface{}
}

// NewIdentifiers creates an allocator whose first id is first.
func NewIdentifiers(first int) *Identifiers {
	return &Identifiers{
		next:   first,
		owners: make(map[int]interface{}),
	}
}

func (ids *Identifiers) Acquire(owner interface{}) int {
	id := ids.next
	ids.next++
	ids.owners[id] = owner
	return id
}

func (ids *Identifiers) Release(id int) error {
	if _, ok := ids.owners[id]; !ok {
		return errors.Newf("identifier %d is not acquired, nothing was done", id)
	}
	delete(ids.owners, id)
	return nil
}

func (ids *Identifiers) Owner(id int) (interface{}, bool) {
	owner, ok := ids.owners[id]
	return owner, ok
}

// Live returns the number of acquired and not yet released ids.
func (ids *Identifiers) Live() int {
	return len(ids.owners)
}

// Next returns the id the next Acquire call will return.
func (ids *Identifiers) Next() int {
	return ids.next
}
