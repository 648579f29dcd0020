package model

//go:generate go run github.com/dmarkham/enumer -type SyncKind -trimprefix SyncKind -transform lower -json -sql -output sync_kind.gen.go
//go:generate go run github.com/dmarkham/enumer -type SyncStatus -trimprefix SyncStatus -transform kebab -json -sql -output sync_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type SyncAction -trimprefix SyncAction -transform lower -json -sql -output sync_action.gen.go

// SyncKind identifies an external directory system.
type SyncKind int

const (
	SyncKindCardDAV SyncKind = iota
	SyncKindMDM
)

// SyncStatus is the lifecycle state of a sync run.
type SyncStatus int

const (
	SyncStatusPending SyncStatus = iota
	SyncStatusInProgress
	SyncStatusCompleted
	SyncStatusFailed
)

// SyncAction is the operation requested against the remote directory for a
// single record.
type SyncAction int

const (
	SyncActionCreate SyncAction = iota
	SyncActionUpdate
	SyncActionDelete
)

// Record sync states, stored as plain strings on contacts and devices.
const (
	RecordSyncPending = "pending"
	RecordSyncSynced  = "synced"
	RecordSyncFailed  = "failed"
)
