package status

import "strings"

//Status represents job processing status
type Status int

const (
	//Pending - job is accepted but not finished
	Pending Status = iota + 1
	//Completed - job finished with a result
	Completed
	//Failed - job finished with an error
	Failed
)

var statusName = map[Status]string{Pending: "pending", Completed: "completed", Failed: "failed"}

// several backend versions emit synonym pairs for the terminal states
var nameStatus = map[string]Status{
	"pending":   Pending,
	"completed": Completed,
	"success":   Completed,
	"failed":    Failed,
	"error":     Failed,
}

//Name returns the canonical wire name of a status
func Name(st Status) string {
	return statusName[st]
}

//From parses a wire status value, case-insensitively.
//Unknown or empty values map to Pending
func From(st string) Status {
	res, found := nameStatus[strings.ToLower(strings.TrimSpace(st))]
	if !found {
		return Pending
	}
	return res
}

//IsTerminal returns true for statuses with no further transitions
func IsTerminal(st Status) bool {
	return st == Completed || st == Failed
}
