package main

import (
	"io"

	"github.com/charmbracelet/log"
)

var logger = log.New(io.Discard)

func setupLogger(w io.Writer) {
	logger = log.New(w)
	logger.SetReportTimestamp(false)

	switch {
	case verbose:
		logger.SetLevel(log.DebugLevel)
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	}
}

// decoderLogger returns the logger handed to the decoder, which only
// emits debug messages.
func decoderLogger() *log.Logger {
	if !verbose {
		return nil
	}
	return logger.WithPrefix("aac")
}
