// klingwallet-cli adds a wallet from the terminal: import a recovery phrase
// or watch an address.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/Klingon-tech/klingwallet/config"
	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/internal/network"
	"github.com/Klingon-tech/klingwallet/internal/onboard"
	"github.com/Klingon-tech/klingwallet/internal/prefs"
	"github.com/Klingon-tech/klingwallet/internal/storage"
	"github.com/Klingon-tech/klingwallet/internal/wallet"
	"golang.org/x/term"
)

// errUsage marks a command line that could not be understood.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, flags, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		usage(os.Stderr)
		return 2
	}
	if flags.Help {
		usage(os.Stdout)
		return 0
	}
	if flags.Version {
		fmt.Printf("klingwallet-cli version %s\n", config.Version)
		return 0
	}
	if len(flags.Args) == 0 {
		usage(os.Stderr)
		return 2
	}

	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logging: %v\n", err)
		return 1
	}

	db, err := storage.NewBadger(cfg.PrefsDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer db.Close()

	c, err := newCLI(cfg, db, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	c.readSecret = readTerminal

	if err := c.dispatch(flags.Args[0], flags.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			usage(os.Stderr)
			return 2
		}
		code, msg := onboard.Describe(err)
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", code, msg)
		klog.App.Debug().Err(err).Str("command", flags.Args[0]).Msg("Command failed")
		return 1
	}
	return 0
}

// cli holds what the commands need. readSecret is swapped out in tests.
type cli struct {
	cfg        *config.Config
	svc        *onboard.Service
	registry   *network.Registry
	prefs      *prefs.Store
	out        io.Writer
	readSecret func(prompt string) ([]byte, error)
}

func newCLI(cfg *config.Config, db storage.DB, out io.Writer) (*cli, error) {
	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		return nil, err
	}
	store := prefs.New(storage.NewPrefixDB(db, []byte("prefs/")))
	registry := network.NewRegistry(cfg.RPC.BaseURLs(), cfg.RPC.APIKey, cfg.RPC.Timeout)
	return &cli{
		cfg:      cfg,
		svc:      onboard.NewService(ks, store, registry, wallet.DefaultParams()),
		registry: registry,
		prefs:    store,
		out:      out,
	}, nil
}

func (c *cli) dispatch(cmd string, args []string) error {
	switch cmd {
	case "validate-address":
		return c.cmdValidateAddress(args)
	case "validate-mnemonic":
		return c.cmdValidateMnemonic(args)
	case "create":
		return c.cmdCreate(args)
	case "import":
		return c.cmdImport(args)
	case "watch":
		return c.cmdWatch(args)
	case "status":
		return c.cmdStatus(args)
	case "wallets":
		return c.cmdWallets(args)
	case "networks":
		return c.cmdNetworks(args)
	case "reset":
		return c.cmdReset(args)
	case "help":
		usage(c.out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: klingwallet-cli [global options] <command> [flags]

Commands:
  validate-address <addr>         Check an address and print its checksummed form
  validate-mnemonic               Check a recovery phrase (read without echo)
  create --name <n> [--words N]   Generate a new recovery phrase and store it
  import --name <n>               Import a recovery phrase (read without echo)
  watch <addr>                    Watch an address without keys
  status                          Show the current wallet
  wallets                         List encrypted wallets
  networks [--check]              List networks, optionally testing connectivity
  reset [--keystore | --all]      Forget the current wallet (--keystore: delete wallet
                                  files too; --all: also forget network selection)

`)
	config.PrintGlobalOptions(w)
}

// ── validation ─────────────────────────────────────────────────────────

func (c *cli) cmdValidateAddress(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: validate-address <addr>", errUsage)
	}
	addr, err := wallet.ValidateAddress(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Valid address: %s\n", addr.Hex())
	return nil
}

func (c *cli) cmdValidateMnemonic(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: validate-mnemonic takes no arguments", errUsage)
	}
	phrase, err := c.readSecret("Recovery phrase: ")
	if err != nil {
		return fmt.Errorf("read phrase: %w", err)
	}
	defer clear(phrase)

	m, err := wallet.ValidateMnemonic(string(phrase))
	if err != nil {
		return err
	}
	addr, err := wallet.DeriveAddressFromMnemonic(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Valid recovery phrase (%d words)\n", m.WordCount())
	fmt.Fprintf(c.out, "First address: %s\n", addr.Hex())
	return nil
}

// ── onboarding ─────────────────────────────────────────────────────────

func (c *cli) cmdCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "Wallet name")
	words := fs.Int("words", c.cfg.Wallet.Words, "Number of words (12, 15, 18, 21, 24)")
	if err := fs.Parse(args); err != nil || *name == "" {
		return fmt.Errorf("%w: create --name <name> [--words N]", errUsage)
	}

	m, err := wallet.GenerateMnemonic(*words)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Recovery phrase (write this down!):")
	fmt.Fprintf(c.out, "  %s\n\n", m.Phrase())

	password, err := c.newPassword()
	if err != nil {
		return err
	}
	defer clear(password)

	res, err := c.svc.ImportPhrase(*name, m.Phrase(), password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\nWallet created: %s\n", res.Name)
	fmt.Fprintf(c.out, "Address: %s\n", res.Address.Hex())
	return nil
}

func (c *cli) cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "Wallet name")
	if err := fs.Parse(args); err != nil || *name == "" {
		return fmt.Errorf("%w: import --name <name>", errUsage)
	}

	phrase, err := c.readSecret("Recovery phrase: ")
	if err != nil {
		return fmt.Errorf("read phrase: %w", err)
	}
	defer clear(phrase)

	// Reject a bad phrase before asking for a password.
	if _, err := wallet.ValidateMnemonic(string(phrase)); err != nil {
		return err
	}

	password, err := c.newPassword()
	if err != nil {
		return err
	}
	defer clear(password)

	res, err := c.svc.ImportPhrase(*name, string(phrase), password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Wallet imported: %s\n", res.Name)
	fmt.Fprintf(c.out, "Address: %s\n", res.Address.Hex())
	return nil
}

func (c *cli) cmdWatch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: watch <addr>", errUsage)
	}
	addr, err := c.svc.WatchAddress(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Watching %s\n", addr.Hex())
	return nil
}

func (c *cli) cmdStatus(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: status takes no arguments", errUsage)
	}
	st := c.svc.Status()
	if !st.HasWallet() {
		fmt.Fprintln(c.out, "No wallet. Run 'klingwallet-cli import' or 'klingwallet-cli watch'.")
		return nil
	}
	fmt.Fprintf(c.out, "Address: %s (%s)\n", st.Address.Hex(), wallet.FormatAddress(st.Address.Hex(), 6, 4))
	fmt.Fprintf(c.out, "Type:    %s\n", st.Type)
	return nil
}

func (c *cli) cmdWallets(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: wallets takes no arguments", errUsage)
	}
	names, err := c.svc.Wallets()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(c.out, "No wallets found.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(c.out, name)
	}
	return nil
}

func (c *cli) cmdReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	keystore := fs.Bool("keystore", false, "Also delete encrypted wallet files")
	all := fs.Bool("all", false, "Delete wallet files and every preference, network selection included")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: reset [--keystore | --all]", errUsage)
	}
	if *all {
		if err := c.svc.FactoryReset(); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "All wallet data and preferences deleted.")
		return nil
	}
	if err := c.svc.Reset(*keystore); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Wallet data cleared.")
	return nil
}

// ── networks ───────────────────────────────────────────────────────────

func (c *cli) cmdNetworks(args []string) error {
	fs := flag.NewFlagSet("networks", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	check := fs.Bool("check", false, "Test connectivity")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: networks [--check]", errUsage)
	}

	selected, err := c.prefs.SelectedNetworks(network.IDs())
	if err != nil {
		return err
	}
	isSelected := make(map[string]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
	}

	var status map[string]bool
	if *check {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RPC.Timeout+time.Second)
		defer cancel()
		status, err = c.svc.NetworkStatus(ctx)
		if err != nil {
			return err
		}
	}

	for _, n := range network.Supported() {
		line := fmt.Sprintf("%-9s %-13s chain %-6d %s", n.ID, n.Name, n.ChainID, n.NativeCurrency.Symbol)
		if !isSelected[n.ID] {
			line += "  (hidden)"
		}
		switch {
		case !c.registry.Configured(n.ID):
			line += "  rpc: not configured"
		case status == nil:
			line += "  rpc: configured"
		case status[n.ID]:
			line += "  rpc: online"
		default:
			line += "  rpc: unreachable"
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}

// ── input helpers ──────────────────────────────────────────────────────

func (c *cli) newPassword() ([]byte, error) {
	password, err := c.readSecret("Enter password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	confirm, err := c.readSecret("Confirm password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	defer clear(confirm)
	if string(password) != string(confirm) {
		clear(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// readTerminal reads a line without echo when stdin is a terminal, and a
// plain line otherwise so input can be piped.
func readTerminal(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	if !term.IsTerminal(int(syscall.Stdin)) {
		line, err := stdin.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return secret, nil
}

var stdin = bufio.NewReader(os.Stdin)
