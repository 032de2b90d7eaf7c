package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	appsecurity "github.com/labcore/backend/internal/application/security"
	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/infrastructure/auth"
	"github.com/labcore/backend/internal/infrastructure/cache"
	"github.com/labcore/backend/internal/infrastructure/config"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// environment is what every subcommand runs against
type environment struct {
	cfg       *config.Config
	db        *persistence.Database
	log       *zap.Logger
	hashCache cache.HashCache
}

// newEnvironment attaches the approval hash cache the servers read. A
// configured but unreachable Redis is an error: rotating the secret without
// it would leave the servers on the old hash.
func newEnvironment(cfg *config.Config, db *persistence.Database, log *zap.Logger) (*environment, error) {
	hashCache, err := cache.NewHashCacheFactory(
		cache.WithLogger(log),
		cache.WithPassThroughFallback(false),
	).Create(cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to approval hash cache: %w", err)
	}
	return &environment{cfg: cfg, db: db, log: log, hashCache: hashCache}, nil
}

func (e *environment) Close() error {
	_ = e.log.Sync()
	if closer, ok := e.hashCache.(io.Closer); ok {
		_ = closer.Close()
	}
	return e.db.Close()
}

func (e *environment) approvalService() *appsecurity.ApprovalService {
	return appsecurity.NewApprovalService(
		cache.NewCachedApprovalSecretStore(persistence.NewGormApprovalSecretStore(e.db.DB), e.hashCache, e.log),
		auth.NewBcryptHasher(e.cfg.Lab.BcryptCost),
		e.cfg.Lab.ApprovalSecretMinLength,
		e.log,
	)
}

type opener func(cmd *cobra.Command) (*environment, error)

func openFromConfig(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level, _ := cmd.Flags().GetString("log-level")
	log, err := logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormlogger.Warn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return newEnvironment(cfg, db, log)
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "labctl",
		Short:         "Lab order service administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(migrateCmd(open), approvalSecretCmd(open), stockCmd(open))
	return root
}

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := persistence.AutoMigrate(env.db.DB); err != nil {
				return fmt.Errorf("migrate schema: %w", err)
			}
			env.log.Info("Schema migrated", zap.String("driver", env.db.Driver))
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func approvalSecretCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approval-secret",
		Short: "Manage the cancellation approval secret",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set or replace the approval secret",
		Long:  "Set or replace the approval secret. Without --secret the first line of stdin is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := secretInput(cmd)
			if err != nil {
				return err
			}
			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.approvalService().ConfigureApprovalSecret(cmd.Context(), secret); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "approval secret updated")
			return nil
		},
	}
	setCmd.Flags().String("secret", "", "New approval secret")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a credential against the approval secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			credential, err := secretInput(cmd)
			if err != nil {
				return err
			}
			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.approvalService().VerifyCredential(cmd.Context(), credential); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "credential accepted")
			return nil
		},
	}
	verifyCmd.Flags().String("secret", "", "Credential to check")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether an approval secret is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			ok, err := env.approvalService().IsConfigured(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "configured")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not configured")
			}
			return nil
		},
	}

	cmd.AddCommand(setCmd, verifyCmd, statusCmd)
	return cmd
}

func stockCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Manage consumable stock",
	}

	receiveCmd := &cobra.Command{
		Use:   "receive <item-id>",
		Short: "Book a delivery of a consumable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q: %w", args[0], err)
			}
			rawQty, _ := cmd.Flags().GetString("quantity")
			quantity, err := decimal.NewFromString(rawQty)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", rawQty, err)
			}
			rawCost, _ := cmd.Flags().GetString("unit-cost")
			unitCost, err := decimal.NewFromString(rawCost)
			if err != nil {
				return fmt.Errorf("invalid unit cost %q: %w", rawCost, err)
			}

			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			repo := persistence.NewGormInventoryItemRepository(env.db.DB)
			item, err := repo.FindByID(cmd.Context(), id)
			if err != nil {
				return describe(err)
			}
			if err := item.Receive(quantity, unitCost); err != nil {
				return describe(err)
			}
			if err := repo.UpdateStock(cmd.Context(), item); err != nil {
				return describe(err)
			}

			env.log.Info("Stock received",
				zap.String("item_id", item.ID.String()),
				zap.String("quantity", quantity.String()),
				zap.String("stock", item.Available().String()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s in stock, average cost %s\n",
				item.Name, item.Available().String(), item.Unit, item.AverageCost.StringFixed(2))
			return nil
		},
	}
	receiveCmd.Flags().String("quantity", "", "Quantity received")
	receiveCmd.Flags().String("unit-cost", "0", "Purchase cost per unit")
	_ = receiveCmd.MarkFlagRequired("quantity")

	cmd.AddCommand(receiveCmd)
	return cmd
}

func secretInput(cmd *cobra.Command) (string, error) {
	if secret, _ := cmd.Flags().GetString("secret"); secret != "" {
		return secret, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read secret: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no secret given: pass --secret or pipe it on stdin")
	}
	return line, nil
}

// describe turns domain errors into operator-facing messages
func describe(err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return fmt.Errorf("%s: %s", de.Code, de.Message)
	}
	return err
}
