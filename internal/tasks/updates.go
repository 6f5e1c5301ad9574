package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ListRecords Phase = iota
	FetchRecords
	WriteFiles
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ListRecords:
		return "list_records"
	case FetchRecords:
		return "fetch_records"
	case WriteFiles:
		return "write_files"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func listingUpdate(phrase string) ProgressUpdate {
	msg := "Listing funeral services..."
	if phrase != "" {
		msg = fmt.Sprintf("Searching funeral services for %q...", phrase)
	}
	return ProgressUpdate{Phase: ListRecords, Step: 1, Total: 1, Message: msg}
}

func fetchedUpdate(step, total, orderNumber int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched order %d (%d/%d)", orderNumber, step, total),
		Data:    orderNumber,
	}
}

func wroteFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Wrote %s", path),
		Data:    path,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteManifest, Step: 1, Total: 1, Message: fmt.Sprintf("Wrote manifest %s", path), Data: path}
}
