package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rcregistry/config"
	"rcregistry/internal/client"
	"rcregistry/internal/db"
	"rcregistry/internal/logs"
	"rcregistry/internal/models"
	"rcregistry/internal/repo"
)

var (
	cfg       *config.Config
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "rcctl",
	Short:         "Operator and agent tool for the rc connection registry",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if debugFlag {
			c.Logging.Level = "debug"
		}
		logs.Init(logs.Options{Level: c.Logging.Level, Format: c.Logging.Format})
		cfg = c
		return nil
	},
}

func openDB() (*gorm.DB, error) {
	d, err := db.OpenConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errors.New("database.driver is not configured")
	}
	return d, nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q: %w", s, err)
	}
	return uint(id), nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade rc_connection and version tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDB()
		if err != nil {
			return err
		}
		if err := db.Migrate(d); err != nil {
			return err
		}
		logs.Logger.Info("migrated")
		return nil
	},
}

var addName string

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an empty (unavailable) registry record and print its id",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDB()
		if err != nil {
			return err
		}
		c := models.Connection{Name: addName}
		if err := repo.NewConnectionStore(d).Create(cmd.Context(), &c); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print available records as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDB()
		if err != nil {
			return err
		}
		rows, err := repo.NewConnectionStore(d).ListAvailable(cmd.Context())
		if err != nil {
			return err
		}
		out := make([]models.AvailableConnection, 0, len(rows))
		for _, c := range rows {
			out = append(out, c.AsAvailable())
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var issueKeyCmd = &cobra.Command{
	Use:   "issue-key [id]",
	Short: "Arm a new single-use auth key for a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		d, err := openDB()
		if err != nil {
			return err
		}
		key, err := repo.NewConnectionStore(d).IssueAuthKey(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

var setVersionCmd = &cobra.Command{
	Use:   "set-version [version]",
	Short: "Overwrite the global version marker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDB()
		if err != nil {
			return err
		}
		return repo.NewVersionStore(d).SetVersion(cmd.Context(), args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the global version marker",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDB()
		if err != nil {
			return err
		}
		v, err := repo.NewVersionStore(d).GetVersion(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var (
	annServer   string
	annParams   client.UpdateParams
	annInterval time.Duration
)

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Register this agent and keep it available until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if annServer == "" || annParams.ID == 0 || annParams.IP == "" {
			return errors.New("--server, --id and --ip are required")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return client.Announce(ctx, client.New(annServer, 5*time.Second), annParams, annInterval)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "debug logging")

	addCmd.Flags().StringVar(&addName, "name", "", "display name")

	announceCmd.Flags().StringVar(&annServer, "server", "", "registry base URL, e.g. https://host/rc_car")
	announceCmd.Flags().UintVar(&annParams.ID, "id", 0, "registry record id")
	announceCmd.Flags().StringVar(&annParams.Name, "name", "", "display name")
	announceCmd.Flags().StringVar(&annParams.IP, "ip", "", "IPv4 address the agent listens on")
	announceCmd.Flags().IntVar(&annParams.Port, "port", 0, "TCP port the agent listens on")
	announceCmd.Flags().StringVar(&annParams.SSID, "ssid", "", "network SSID")
	announceCmd.Flags().DurationVar(&annInterval, "interval", 30*time.Second, "heartbeat interval")

	rootCmd.AddCommand(migrateCmd, addCmd, listCmd, issueKeyCmd, setVersionCmd, versionCmd, announceCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logs.Logger.Error(err)
		os.Exit(1)
	}
}
