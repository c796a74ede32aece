// Command seed creates demo participants on a development platform API so
// the onboarding workflow has records to work against. It creates a mix of
// ready and not-ready participants and verifies them by listing.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/auth"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/config"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/logging"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/ndis"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// templates cycle through the seeded records: two ready for scheduling, one
// prospective, one missing its support category.
var templates = []models.Participant{
	{
		FirstName:       "Jordan",
		LastName:        "Nguyen",
		DisabilityType:  "autism",
		SupportCategory: "core",
		RiskLevel:       models.RiskLevelMedium,
		Status:          models.ParticipantStatusOnboarded,
		StreetAddress:   "12 Banksia St",
		City:            "Footscray",
		State:           "VIC",
		Postcode:        "3011",
		PreferredDays:   []string{"Monday", "Thursday"},
	},
	{
		FirstName:       "Mia",
		LastName:        "Carter",
		DisabilityType:  "physical",
		SupportCategory: "capacity building",
		RiskLevel:       models.RiskLevelLow,
		Status:          models.ParticipantStatusActive,
		City:            "Parramatta",
		State:           "NSW",
		Postcode:        "2150",
	},
	{
		FirstName:      "Sam",
		LastName:       "Doherty",
		DisabilityType: "psychosocial",
		Status:         models.ParticipantStatusProspective,
	},
	{
		FirstName:      "Alex",
		LastName:       "Riley",
		DisabilityType: "intellectual",
		Status:         models.ParticipantStatusOnboarded,
		// support category deliberately missing: not ready
	},
}

func main() {
	var count int

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo participants into the platform API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), count)
		},
	}
	rootCmd.Flags().IntVar(&count, "count", len(templates), "number of participants to create")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, count int) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	client := ndis.NewClient(
		cfg.Platform.BaseURL,
		time.Duration(cfg.Platform.TimeoutSeconds)*time.Second,
		auth.PlatformAuthorizer(cfg.Platform.BearerToken),
		auth.APIKeyAuthorizer{Key: cfg.Platform.AdminKey},
		logger,
	)

	logger.Info("seeding participants",
		zap.String("base_url", cfg.Platform.BaseURL),
		zap.Int("count", count))

	for i := 0; i < count; i++ {
		p := templates[i%len(templates)]
		p.LastName = fmt.Sprintf("%s-%d", p.LastName, i+1)

		created, err := client.CreateParticipant(ctx, &p)
		if err != nil {
			return fmt.Errorf("failed to create participant %q: %w", p.FullName(), err)
		}
		logger.Info("created participant",
			zap.Int("id", created.ID),
			zap.String("name", created.FullName()),
			zap.String("status", string(created.Status)),
			zap.Bool("ready", created.IsWorkflowReady()))
	}

	// Verify by listing
	participants, err := client.ListParticipants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}

	ready := 0
	for i := range participants {
		if participants[i].IsWorkflowReady() {
			ready++
		}
	}
	logger.Info("seed complete",
		zap.Int("total", len(participants)),
		zap.Int("ready_for_scheduling", ready))
	return nil
}
