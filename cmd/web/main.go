package main

import (
	"context"
	"fmt"
	"os"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/de-tools/cloud-atlas/pkg/server"
	"github.com/de-tools/cloud-atlas/pkg/services/billing"
	billingaws "github.com/de-tools/cloud-atlas/pkg/services/billing/aws"
	"github.com/de-tools/cloud-atlas/pkg/services/config"
	"github.com/de-tools/cloud-atlas/pkg/services/inventory"
	inventoryaws "github.com/de-tools/cloud-atlas/pkg/services/inventory/aws"
	"github.com/de-tools/cloud-atlas/pkg/services/metrics"
	metricsaws "github.com/de-tools/cloud-atlas/pkg/services/metrics/aws"
	"github.com/de-tools/cloud-atlas/pkg/services/org"
	orgaws "github.com/de-tools/cloud-atlas/pkg/services/org/aws"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Cloud Atlas web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "cloud-atlas.yaml",
		"Path to the server config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadServerConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	managementCfg, memberCfg, err := loadCredentialRoles(ctx, cfg)
	if err != nil {
		return err
	}

	inventoryExplorer := inventory.NewExplorer(inventoryaws.NewGateway(*managementCfg))
	metricsExplorer := metrics.NewExplorer(metricsaws.NewGateway(*managementCfg))
	billingReporter := billing.NewReporter(billingaws.NewGateway(*managementCfg))
	orgWorkflow := org.NewWorkflow(
		orgaws.NewGateway(*managementCfg),
		orgaws.NewGateway(*memberCfg),
	)

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Inventory: inventoryExplorer,
			Metrics:   metricsExplorer,
			Billing:   billingReporter,
			Org:       orgWorkflow,
		},
	})

	return webAPI.Start()
}

// loadCredentialRoles resolves the two credential contexts the system
// runs under: the organization-management identity and the invited
// member identity. Without a credentials file both roles fall back to
// the SDK's default chain under their profile names.
func loadCredentialRoles(ctx context.Context, cfg *config.ServerConfig) (*awssdk.Config, *awssdk.Config, error) {
	logger := zerolog.Ctx(ctx)

	management := config.Profile{Name: cfg.ManagementProfile}
	member := config.Profile{Name: cfg.MemberProfile}

	if cfg.CredentialsFile != "" {
		registry, err := config.NewRegistry(cfg.CredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load credentials file: %w", err)
		}

		profiles, _ := registry.GetProfiles(ctx)
		logger.Info().Strs("profiles", profiles).
			Msgf("Credentials found at `%s` successfully loaded.", cfg.CredentialsFile)

		if p, err := registry.GetProfile(ctx, cfg.ManagementProfile); err == nil {
			management = *p
		}
		if p, err := registry.GetProfile(ctx, cfg.MemberProfile); err == nil {
			member = *p
		}
	}

	managementCfg, err := config.LoadAWSConfig(ctx, management)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load management role: %w", err)
	}
	memberCfg, err := config.LoadAWSConfig(ctx, member)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load member role: %w", err)
	}
	return managementCfg, memberCfg, nil
}
