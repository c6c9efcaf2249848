package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/zirave-ai/internal/model"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			resp, err := c.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newDiagnoseCmd() *cobra.Command {
	var req model.DiagnosisRequest
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Request a symptom-based diagnosis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			resp, err := c.Diagnose(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("diagnosis failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&req.PlantType, "plant-type", "", "Plant name, e.g. domates")
	cmd.Flags().StringArrayVar(&req.Symptoms, "symptom", nil, "Observed symptom (repeatable)")
	cmd.Flags().StringVar(&req.Location, "location", "", "Region the plant grows in")
	cmd.Flags().StringVar(&req.Season, "season", "", "Current season")
	return cmd
}

func newImageCmd() *cobra.Command {
	var plantType string
	cmd := &cobra.Command{
		Use:   "image <path>",
		Short: "Diagnose a plant from a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			c, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			resp, err := c.DiagnoseImage(cmd.Context(), filepath.Base(args[0]), data, plantType)
			if err != nil {
				return fmt.Errorf("image diagnosis failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&plantType, "plant-type", "", "Plant name; derived from the prediction when empty")
	return cmd
}

func newDiseasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diseases",
		Short: "List the known plant diseases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			resp, err := c.PlantDiseases(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list diseases: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the recommendation categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			resp, err := c.RecommendationTypes(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list recommendation types: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}
