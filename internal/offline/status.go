package offline

// Label returns the display label for a sync status.
func Label(s SyncStatus) string {
	switch s {
	case StatusPending:
		return "Pending Sync"
	case StatusSynced:
		return "Synced"
	case StatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// Icon returns the icon category for a sync status.
func Icon(s SyncStatus) string {
	switch s {
	case StatusPending:
		return "clock"
	case StatusSynced:
		return "check-circle"
	case StatusFailed:
		return "alert-circle"
	}
	return "help-circle"
}

// Color returns the color class for a sync status.
func Color(s SyncStatus) string {
	switch s {
	case StatusPending:
		return "warning"
	case StatusSynced:
		return "success"
	case StatusFailed:
		return "danger"
	}
	return "muted"
}
