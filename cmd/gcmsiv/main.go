// gcmsiv is a small file encryption tool built on the gcmsiv
// AES-GCM-SIV library. It keeps a password-protected master key in a
// key file and encrypts files block by block.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rfjakob/gcmsiv"
	"github.com/rfjakob/gcmsiv/internal/configfile"
	"github.com/rfjakob/gcmsiv/internal/exitcodes"
	"github.com/rfjakob/gcmsiv/internal/readpassword"
	"github.com/rfjakob/gcmsiv/internal/speed"
	"github.com/rfjakob/gcmsiv/internal/tlog"
)

// GitVersion is the gcmsiv version according to git, set by build.bash
var GitVersion = "[GitVersion not set - please compile using ./build.bash]"

// BuildDate is a date string like "2017-09-06", set by build.bash
var BuildDate = "0000-00-00"

func usageText() {
	printVersion()
	fmt.Printf(`
Usage: %s -init|-passwd -keyfile KEYFILE
  or   %s -encrypt|-decrypt -keyfile KEYFILE [OPTIONS] IN OUT
  or   %s -speed|-version

Options:
`, tlog.ProgramName, tlog.ProgramName, tlog.ProgramName)
	flagSet.PrintDefaults()
}

// printVersion prints a version string like this:
// gcmsiv v1.0; 2017-09-06 go1.9 linux/amd64
func printVersion() {
	built := fmt.Sprintf("%s %s", BuildDate, runtime.Version())
	fmt.Printf("%s %s; %s %s/%s\n",
		tlog.ProgramName, GitVersion, built, runtime.GOOS, runtime.GOARCH)
}

// loadMasterKey prompts for the password and decrypts the master key
// from the key file.
func loadMasterKey(args *argContainer) []byte {
	// Check if the file exists at all before prompting for a password
	if _, err := os.Stat(args.keyfile); err != nil {
		tlog.Fatal.Printf("Key file not found: %v", err)
		os.Exit(exitcodes.LoadConf)
	}
	pw := readpassword.Once(args.extpass, args.passfile, "")
	tlog.Info.Println("Decrypting master key")
	key, _, err := configfile.LoadAndDecrypt(args.keyfile, pw)
	for i := range pw {
		pw[i] = 0
	}
	if err == gcmsiv.ErrAuth {
		tlog.Fatal.Println("Password incorrect.")
		os.Exit(exitcodes.PasswordIncorrect)
	}
	if err != nil {
		tlog.Fatal.Println(err)
		os.Exit(exitcodes.LoadConf)
	}
	return key
}

// initKeyFile creates a new key file with a fresh random master key.
func initKeyFile(args *argContainer) {
	if _, err := os.Stat(args.keyfile); err == nil {
		tlog.Fatal.Printf("Key file %q already exists", args.keyfile)
		os.Exit(exitcodes.Init)
	}
	tlog.Info.Printf("Choose a password for protecting the master key.")
	pw := readpassword.Twice(args.extpass, args.passfile)
	readpassword.CheckTrailingGarbage()
	key, err := configfile.Create(args.keyfile, pw, args.scryptn, GitVersion)
	for i := range pw {
		pw[i] = 0
	}
	if err != nil {
		tlog.Fatal.Println(err)
		os.Exit(exitcodes.WriteConf)
	}
	for i := range key {
		key[i] = 0
	}
	tlog.Info.Printf("Key file %q created.", args.keyfile)
}

// changePassword - change the password of the key file
func changePassword(args *argContainer) {
	key := loadMasterKey(args)
	cf, err := configfile.Load(args.keyfile)
	if err != nil {
		tlog.Fatal.Println(err)
		os.Exit(exitcodes.LoadConf)
	}
	tlog.Info.Println("Please enter your new password.")
	newPw := readpassword.Twice(args.extpass, args.passfile)
	logN := cf.ScryptObject.LogN()
	if args.scryptn != configfile.ScryptDefaultLogN {
		logN = args.scryptn
	}
	cf.EncryptKey(key, newPw, logN)
	for i := range key {
		key[i] = 0
	}
	for i := range newPw {
		newPw[i] = 0
	}
	// Remove the old file. WriteFile creates it with 0400.
	if err = os.Remove(args.keyfile); err != nil {
		tlog.Fatal.Println(err)
		os.Exit(exitcodes.WriteConf)
	}
	if err = cf.WriteFile(); err != nil {
		tlog.Fatal.Println(err)
		os.Exit(exitcodes.WriteConf)
	}
	tlog.Info.Printf("Password changed.")
}

func main() {
	args := parseCliOpts()

	if args.debug {
		tlog.Debug.Enabled = true
	}
	if args.quiet {
		tlog.Info.Enabled = false
	}

	switch {
	case args.version:
		printVersion()
	case args.speed:
		printVersion()
		speed.Run()
	case args.init:
		initKeyFile(&args)
	case args.passwd:
		changePassword(&args)
	case args.encrypt, args.decrypt:
		if flagSet.NArg() != 2 {
			tlog.Fatal.Printf("Wrong number of arguments (have %d, want 2). Try '%s -help'.",
				flagSet.NArg(), tlog.ProgramName)
			os.Exit(exitcodes.Usage)
		}
		key := loadMasterKey(&args)
		var err error
		if args.encrypt {
			err = encryptFile(key, flagSet.Arg(0), flagSet.Arg(1))
		} else {
			err = decryptFile(key, flagSet.Arg(0), flagSet.Arg(1))
		}
		for i := range key {
			key[i] = 0
		}
		if err != nil {
			tlog.Fatal.Println(err)
			os.Exit(exitcodes.CryptFile)
		}
	default:
		usageText()
		os.Exit(exitcodes.Usage)
	}
}
