package main

import (
	"fmt"
	"strings"

	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/spf13/cobra"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the accepted values of every campaign field",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			platforms := make([]string, len(cfg.Platforms))
			for i, p := range cfg.Platforms {
				platforms[i] = p.String()
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "age:       %s\n", strings.Join(models.AgeGroups, ", "))
			fmt.Fprintf(w, "gender:    %s\n", strings.Join(models.Genders, ", "))
			fmt.Fprintf(w, "goal:      %s\n", strings.Join(models.Goals, ", "))
			fmt.Fprintf(w, "tone:      %s\n", strings.Join(models.Tones, ", "))
			fmt.Fprintf(w, "platforms: %s\n", strings.Join(platforms, ", "))
			return nil
		},
	}
}
