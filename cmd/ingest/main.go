package main

import (
	"egzamin-backend/cmd/ingest/commands"
	"egzamin-backend/lib/osutil"
	"egzamin-backend/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()
	telemetry.InitSlog(true)
	telemetry.SetupFromEnv(ctx, "cmd/ingest")
	commands.ExecuteContext(ctx)
}
