package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var pidFile string

var rootCmd = &cobra.Command{
	Use:     "rscheck <config-file>",
	Short:   "RSCheck - local health probing daemon",
	Long:    "RSCheck runs a declarative set of host health checks and exposes the aggregated verdict over HTTP for a load balancer",
	Version: Version,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		up.Run(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
