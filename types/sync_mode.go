package types

// SyncMode controls how a source reads a stream
type SyncMode string

const (
	FULLREFRESH SyncMode = "full_refresh"
	INCREMENTAL SyncMode = "incremental"
)

// DestinationSyncMode controls how a destination applies incoming records
type DestinationSyncMode string

const (
	APPEND      DestinationSyncMode = "append"
	OVERWRITE   DestinationSyncMode = "overwrite"
	APPENDDEDUP DestinationSyncMode = "append_dedup"
)
