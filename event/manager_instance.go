package event

// Global event managers shared across a rover's components. A peer pool
// fires PeerVerified/PeerDropped as sessions come up and go down; the sync
// tracker fires ResyncDone once every batch of a resync session has completed.
// Components that only need to react to these, rather than drive them,
// register listeners here instead of taking a direct dependency on the
// firing component.
var (
	PeerVerifiedEventManager = NewManager()
	PeerDroppedEventManager  = NewManager()
	ResyncDoneEventManager   = NewManager()
)
