package main

import (
	"os"

	"github.com/romariotrain/transcription-platform/internal/app"
)

func main() {
	logger := app.NewLogger()
	os.Exit(app.Run("publisher", logger, run(logger)))
}
