package model

type indexerImplementation struct {
	sessions  uint64
	timeslots uint64
	rooms     uint64
}

func (indexer *indexerImplementation) Index(session, timeslot, room uint64) uint64 {
	return room + indexer.rooms*timeslot + indexer.rooms*indexer.timeslots*session + 1
}

func (indexer *indexerImplementation) Attributes(index uint64) (session, timeslot, room uint64) {
	index = index - 1
	room = index % indexer.rooms
	index = index / indexer.rooms

	timeslot = index % indexer.timeslots
	index = index / indexer.timeslots

	session = index % indexer.sessions

	return session, timeslot, room
}

func (indexer *indexerImplementation) Size() uint64 {
	return indexer.sessions * indexer.timeslots * indexer.rooms
}
