/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"

	"addressbook/version"
	"github.com/spf13/cobra"
)

var (
	isDevEnv  bool
	isTestEnv bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "addressbook",
	Short: `addressbook is a REST service for keeping track of your contacts -
each with their phone numbers, addresses & tags.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.Version = fmt.Sprintf("v%s", version.Version)

	rootCmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")
	rootCmd.PersistentFlags().BoolVarP(&isTestEnv, "test", "", false, "run in test mode")
}
