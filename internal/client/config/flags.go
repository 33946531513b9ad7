package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/safesend/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the ledger server
//	-i int      online check interval in seconds
//	-k string   keystore file
//	-d string   local database file
//	-x bool     list history through the server-side index
//	-w int      receipt wait timeout in seconds
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-k", "-d", "-x", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.KeystorePath, "k", cfg.KeystorePath, "keystore file")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "local database file")
	fs.BoolVar(&cfg.IndexedHistory, "x", cfg.IndexedHistory, "use the server-side deposit index")
	receiptTimeout := fs.Int("w", int(cfg.ReceiptTimeout.Seconds()), "receipt wait timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		case "w":
			cfg.ReceiptTimeout = time.Duration(*receiptTimeout) * time.Second
		}
	})
}
