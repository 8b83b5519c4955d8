package handlers

import (
	"p9e.in/handoff/intake"
	"p9e.in/handoff/store"
)

// Shared handler dependencies, wired once at startup.
var (
	Records  *store.Store
	Pipeline *intake.Submitter
)

func Setup(records *store.Store, pipeline *intake.Submitter) {
	Records = records
	Pipeline = pipeline
}
