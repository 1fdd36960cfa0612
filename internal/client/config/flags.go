package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/voices/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only -a, -i,
// -f and -r are looked at; everything else in os.Args is ignored.
func parseFlags(cfg *Config) {
	var checkSeconds, timeoutSeconds int

	err := flagx.Parse("main", []string{"-a", "-i", "-f", "-r"}, func(fs *flag.FlagSet) {
		fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
		fs.IntVar(&checkSeconds, "i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
		fs.StringVar(&cfg.DatabaseFile, "f", cfg.DatabaseFile, "session database file")
		fs.IntVar(&timeoutSeconds, "r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	})
	if err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(checkSeconds) * time.Second
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second
}
