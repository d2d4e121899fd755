package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd(&rootOptions{}).Execute(); err != nil {
		log.Error().Err(err).Msg("postboard exited with error")
		os.Exit(1)
	}
}
