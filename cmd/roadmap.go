/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// roadmapCmd represents the roadmap command
var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Print the research roadmap of a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		if topic == "" {
			return fmt.Errorf("--topic is required")
		}

		cfg, log, ai, cleanup, err := loadRuntime()
		if err != nil {
			return err
		}
		defer cleanup()

		roadmap, err := newResearchService(cfg, ai, log).GenerateRoadmap(cmd.Context(), topic)
		if err != nil {
			return err
		}
		return printJSON(roadmap)
	},
}

func init() {
	rootCmd.AddCommand(roadmapCmd)

	roadmapCmd.Flags().StringP("topic", "t", "", "Research topic, e.g. \"attention mechanisms\"")
}
