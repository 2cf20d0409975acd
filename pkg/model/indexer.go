package model

// Indexer gives a unique, 1-based index to every (session, timeslot, room) combination and vice versa
type Indexer interface {
	// Returns a unique index to a combination of a placement's attributes
	Index(session, timeslot, room uint64) uint64
	// Returns a combination of a placement's attributes from a unique index
	Attributes(index uint64) (session, timeslot, room uint64)
	// Returns the amount of distinct indexes
	Size() uint64
}

func NewIndexer(sessions, timeslots, rooms uint64) Indexer {
	return &indexerImplementation{
		sessions:  sessions,
		timeslots: timeslots,
		rooms:     rooms,
	}
}
