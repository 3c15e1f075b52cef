package offline

import "testing"

func TestStatusDisplayMapping(t *testing.T) {
	tests := []struct {
		status SyncStatus
		label  string
		icon   string
		color  string
	}{
		{StatusPending, "Pending Sync", "clock", "warning"},
		{StatusSynced, "Synced", "check-circle", "success"},
		{StatusFailed, "Failed", "alert-circle", "danger"},
		{SyncStatus("garbage"), "Unknown", "help-circle", "muted"},
	}

	for _, tt := range tests {
		if got := Label(tt.status); got != tt.label {
			t.Errorf("Label(%q) = %q, want %q", tt.status, got, tt.label)
		}
		if got := Icon(tt.status); got != tt.icon {
			t.Errorf("Icon(%q) = %q, want %q", tt.status, got, tt.icon)
		}
		if got := Color(tt.status); got != tt.color {
			t.Errorf("Color(%q) = %q, want %q", tt.status, got, tt.color)
		}
	}
}

func TestSyncStatusValid(t *testing.T) {
	for _, s := range []SyncStatus{StatusPending, StatusSynced, StatusFailed} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if SyncStatus("done").Valid() {
		t.Error("unknown status should be invalid")
	}
}
