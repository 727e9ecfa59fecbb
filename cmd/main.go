// gasometer-backfill prices local session transcripts and posts one cost
// event per session to the gasometer ingest API.
//
// Usage:
//
//	gasometer-backfill [flags]          backfill ~/.claude/projects
//	gasometer-backfill replay FILE      re-send a cost-event JSONL file
//	gasometer-backfill price MODEL...   show the pricing a model resolves to
package main

import "os"

func main() {
	os.Exit(Execute())
}
