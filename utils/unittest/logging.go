package unittest

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var verbose = flag.Bool("vv", false, "print debugging logs")

// Logger returns a zerolog logger for tests.
// use -vv flag to print dispatch logs
func Logger() zerolog.Logger {
	var writer io.Writer = io.Discard

	if *verbose {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMicro}
	}
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(writer).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return log
}
