package main

import (
	"flag"
	"os"

	"github.com/rfjakob/gcmsiv/internal/configfile"
	"github.com/rfjakob/gcmsiv/internal/exitcodes"
	"github.com/rfjakob/gcmsiv/internal/tlog"
)

// argContainer stores the parsed CLI options and arguments
type argContainer struct {
	debug, quiet, version, speed,
	init, passwd, encrypt, decrypt bool
	keyfile, extpass, passfile string
	scryptn                    int
}

var flagSet *flag.FlagSet

// parseCliOpts - parse command line options (i.e. arguments that start with "-")
func parseCliOpts() (args argContainer) {
	flagSet = flag.NewFlagSet(tlog.ProgramName, flag.ContinueOnError)
	flagSet.Usage = usageText

	flagSet.BoolVar(&args.debug, "d", false, "")
	flagSet.BoolVar(&args.debug, "debug", false, "Enable debug output")
	flagSet.BoolVar(&args.quiet, "q", false, "")
	flagSet.BoolVar(&args.quiet, "quiet", false, "Quiet - silence informational messages")
	flagSet.BoolVar(&args.version, "version", false, "Print version and exit")
	flagSet.BoolVar(&args.speed, "speed", false, "Run crypto speed test")
	flagSet.BoolVar(&args.init, "init", false, "Initialize a new key file")
	flagSet.BoolVar(&args.passwd, "passwd", false, "Change the key file password")
	flagSet.BoolVar(&args.encrypt, "encrypt", false, "Encrypt IN to OUT")
	flagSet.BoolVar(&args.decrypt, "decrypt", false, "Decrypt IN to OUT")
	flagSet.StringVar(&args.keyfile, "keyfile", "", "Key file location")
	flagSet.StringVar(&args.extpass, "extpass", "", "Use external program for the password prompt")
	flagSet.StringVar(&args.passfile, "passfile", "", "Read password from file")
	flagSet.IntVar(&args.scryptn, "scryptn", configfile.ScryptDefaultLogN,
		"scrypt cost parameter logN. Possible values: 10-28. "+
			"A lower value speeds up key file operations and reduces their memory needs, "+
			"but makes the password susceptible to brute-force attacks")

	err := flagSet.Parse(os.Args[1:])
	if err != nil {
		os.Exit(exitcodes.Usage)
	}

	// Only one mode of operation makes sense per invocation.
	n := 0
	for _, v := range []bool{args.version, args.speed, args.init, args.passwd, args.encrypt, args.decrypt} {
		if v {
			n++
		}
	}
	if n > 1 {
		tlog.Fatal.Printf("Only one of -version, -speed, -init, -passwd, -encrypt, -decrypt may be set")
		os.Exit(exitcodes.Usage)
	}
	if args.extpass != "" && args.passfile != "" {
		tlog.Fatal.Printf("The options -extpass and -passfile cannot be used at the same time")
		os.Exit(exitcodes.Usage)
	}
	if args.init || args.passwd || args.encrypt || args.decrypt {
		if args.keyfile == "" {
			tlog.Fatal.Printf("Missing -keyfile")
			os.Exit(exitcodes.Usage)
		}
	}
	configfile.ValidateScryptN(args.scryptn)

	return args
}
