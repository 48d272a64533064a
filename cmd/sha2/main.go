package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sha2-go/internal/app"
	"sha2-go/internal/config"
	apperrors "sha2-go/internal/errors"
	"sha2-go/internal/hexcodec"
	"sha2-go/internal/sha2"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(apperrors.ExitCode(err))
	}
}

// loadConfig reads the config file named by the application defaults.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a LedgerApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Record", "Verify").
func newApp(operation string) (*app.LedgerApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewLedgerApp(cfg, operation, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// args wraps a cobra positional-argument validator so violations map to
// the usage exit code.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrUsage, err)
		}
		return nil
	}
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// openInput returns the reader named by path. An empty path or "-" means
// stdin, which must not be an interactive terminal.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		if stdinIsTerminal() {
			return nil, fmt.Errorf("%w: no input given and stdin is a terminal", apperrors.ErrUsage)
		}
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

// textOrStdin returns the joined arguments, or all of stdin when there are none.
func textOrStdin(a []string) ([]byte, error) {
	if len(a) > 0 {
		return []byte(strings.Join(a, " ")), nil
	}
	in, err := openInput("")
	if err != nil {
		return nil, err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

// digestInput hashes data with a plain or tagged context. When asHex is set
// data is decoded from hex first.
func digestInput(data []byte, asHex bool, tag string) (sha2.Digest, error) {
	if asHex {
		decoded, err := hexcodec.Decode(strings.TrimSpace(string(data)))
		if err != nil {
			return sha2.Digest{}, fmt.Errorf("decoding input: %w", err)
		}
		data = decoded
	}

	c := sha2.New()
	if tag != "" {
		c = sha2.NewTagged(tag)
	}
	if err := c.Update(data); err != nil {
		return sha2.Digest{}, err
	}
	return c.Done()
}

var rootCmd = &cobra.Command{
	Use:          "sha2",
	Short:        "SHA-256 hashing and digest ledger",
	SilenceUsage: true,
}

// hash command
var hashCmd = &cobra.Command{
	Use:   "hash [TEXT...]",
	Short: "Print the SHA-256 digest of TEXT or stdin",
	RunE: func(cmd *cobra.Command, a []string) error {
		asHex, _ := cmd.Flags().GetBool("hex")
		tag, _ := cmd.Flags().GetString("tag")

		data, err := textOrStdin(a)
		if err != nil {
			return err
		}
		d, err := digestInput(data, asHex, tag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), d)
		return nil
	},
}

// hex command
var hexCmd = &cobra.Command{
	Use:   "hex",
	Short: "Convert between bytes and hex",
}

var hexEncodeCmd = &cobra.Command{
	Use:   "encode [TEXT...]",
	Short: "Hex-encode TEXT or stdin",
	RunE: func(cmd *cobra.Command, a []string) error {
		data, err := textOrStdin(a)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hexcodec.Encode(data))
		return nil
	},
}

var hexDecodeCmd = &cobra.Command{
	Use:   "decode [HEX]",
	Short: "Decode HEX or stdin and write the raw bytes",
	Args:  args(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, a []string) error {
		data, err := textOrStdin(a)
		if err != nil {
			return err
		}
		b, err := hexcodec.Decode(strings.TrimSpace(string(data)))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

// selftest command
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the built-in SHA-256 known-answer tests",
	Args:  args(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, a []string) error {
		if err := sha2.SelfTest(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and the digest ledger",
	RunE: func(cmd *cobra.Command, a []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		if err := app.MigrateLedger(cfg); err != nil {
			return err
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, a []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:    %s\n", cfg.HostID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Chunk Size: %d\n", cfg.Hash.ReadChunkSize)
		if cfg.Hash.Tag != "" {
			fmt.Printf("Hash Tag:   %s\n", cfg.Hash.Tag)
		}
		return nil
	},
}

// ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Record and verify labelled digests",
}

var ledgerMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the ledger schema up to date",
	Args:  args(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, a []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.MigrateLedger(cfg); err != nil {
			return err
		}
		fmt.Println("Ledger is up to date.")
		return nil
	},
}

var ledgerRecordCmd = &cobra.Command{
	Use:   "record LABEL [FILE]",
	Short: "Hash FILE (or stdin) and record it under LABEL",
	Args:  args(cobra.RangeArgs(1, 2)),
	RunE: func(cmd *cobra.Command, a []string) error {
		in, err := openInput(optionalArg(a, 1))
		if err != nil {
			return err
		}
		defer in.Close()

		l, err := newApp("Record")
		if err != nil {
			return err
		}
		defer l.Close()

		entry, err := l.Record(a[0], in)
		if err != nil {
			return fmt.Errorf("recording: %w", err)
		}
		fmt.Printf("%s  %s  %d\n", entry.Digest, entry.Label, entry.Size)
		return nil
	},
}

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify LABEL [FILE]",
	Short: "Check FILE (or stdin) against the latest digest recorded under LABEL",
	Args:  args(cobra.RangeArgs(1, 2)),
	RunE: func(cmd *cobra.Command, a []string) error {
		in, err := openInput(optionalArg(a, 1))
		if err != nil {
			return err
		}
		defer in.Close()

		l, err := newApp("Verify")
		if err != nil {
			return err
		}
		defer l.Close()

		res, err := l.Verify(a[0], in)
		if err != nil {
			return err
		}
		if !res.Match {
			return fmt.Errorf("%s: digest mismatch: recorded %s, computed %s", res.Entry.Label, res.Entry.Digest, res.Computed)
		}
		fmt.Printf("%s: OK\n", res.Entry.Label)
		return nil
	},
}

var ledgerLookupCmd = &cobra.Command{
	Use:   "lookup DIGEST",
	Short: "Show entries recorded with DIGEST",
	Args:  args(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, a []string) error {
		l, err := newApp("Lookup")
		if err != nil {
			return err
		}
		defer l.Close()

		entries, err := l.Lookup(a[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %s\n", e.Label, e.CreatedAt.Format("2006-01-02 15:04:05"), e.ID)
		}
		return nil
	},
}

var ledgerListCmd = &cobra.Command{
	Use:   "list [LABEL]",
	Short: "List recorded digests",
	Args:  args(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, a []string) error {
		l, err := newApp("List")
		if err != nil {
			return err
		}
		defer l.Close()

		entries, err := l.List(optionalArg(a, 0))
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries.")
			return nil
		}
		for _, e := range entries {
			tag := ""
			if e.Tag != "" {
				tag = "  tag:" + e.Tag
			}
			fmt.Printf("%s  %-20s  %s  %d%s\n",
				e.Digest[:12],
				e.Label,
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.Size,
				tag,
			)
		}
		return nil
	},
}

var ledgerHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "View ledger operation history",
	Args:  args(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, a []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		l, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer l.Close()

		ops, err := l.GetHistory(limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No ledger operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-10s  %s  %-8s  %s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				op.Parameters,
			)
		}
		return nil
	},
}

var ledgerBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Write a copy of the ledger database to DEST",
	Args:  args(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, a []string) error {
		l, err := newApp("Backup")
		if err != nil {
			return err
		}
		defer l.Close()

		if err := l.Backup(a[0]); err != nil {
			return err
		}
		fmt.Printf("Ledger backed up to %s\n", a[0])
		return nil
	},
}

func optionalArg(a []string, i int) string {
	if i < len(a) {
		return a[i]
	}
	return ""
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", apperrors.ErrUsage, err)
	})

	// hash
	rootCmd.AddCommand(hashCmd)
	hashCmd.Flags().Bool("hex", false, "Treat input as hex and hash the decoded bytes")
	hashCmd.Flags().StringP("tag", "t", "", "Compute a tagged hash in this domain")

	// hex subcommands
	hexCmd.AddCommand(hexEncodeCmd)
	hexCmd.AddCommand(hexDecodeCmd)
	rootCmd.AddCommand(hexCmd)

	rootCmd.AddCommand(selftestCmd)

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)

	// ledger subcommands
	ledgerCmd.AddCommand(ledgerMigrateCmd)
	ledgerCmd.AddCommand(ledgerRecordCmd)
	ledgerCmd.AddCommand(ledgerVerifyCmd)
	ledgerCmd.AddCommand(ledgerLookupCmd)
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerHistoryCmd)
	ledgerHistoryCmd.Flags().IntP("limit", "n", 20, "Maximum number of operations to show")
	ledgerCmd.AddCommand(ledgerBackupCmd)
	rootCmd.AddCommand(ledgerCmd)
}
