package types

// SyncState is the lifecycle of one repository's mirror as seen by
// the engine.  The filesystem remains the source of truth; this is
// only what the last attempt left behind.
type SyncState int

const (
	// Absent means there is no local directory.
	Absent SyncState = iota

	// Present means the directory holds a mirror that was synced
	// or that passed inspection.
	Present

	// Failed means the last attempt found a mirror it could not
	// use.  The directory may or may not still exist.
	Failed
)

func (s SyncState) String() string {
	switch s {
	case Absent:
		return "Absent"
	case Present:
		return "Present"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// DiskState is what inspection of a mirror path found.
type DiskState int

// The three things an inspection can find.
const (
	DiskAbsent DiskState = iota
	DiskValid
	DiskCorrupt
)

func (d DiskState) String() string {
	switch d {
	case DiskAbsent:
		return "absent"
	case DiskValid:
		return "valid"
	case DiskCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}
