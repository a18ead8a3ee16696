/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for cabinet.
package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/cabinet/cmd/detect"
	"bennypowers.dev/cabinet/cmd/extensions"
	"bennypowers.dev/cabinet/cmd/mcp"
	"bennypowers.dev/cabinet/cmd/project"
	"bennypowers.dev/cabinet/cmd/resolve"
	"bennypowers.dev/cabinet/cmd/validate"
	"bennypowers.dev/cabinet/cmd/version"
	"bennypowers.dev/cabinet/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cabinet",
	Short: "Resolve module specifiers to file paths",
	Long: `cabinet maps a module specifier found in a source file, such as "./bar" or
"lodash", to the file it refers to. JavaScript (AMD, CommonJS, ES modules),
TypeScript, Sass, and Stylus lookups are built in.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is the common case.
		_ = godotenv.Load()
		logger.SetVerbose(viper.GetBool(project.KeyVerbose))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP(project.KeyConfig, "c", "", "Config file (default: <directory>/.config/cabinet.{yaml,json,toml})")
	flags.StringP(project.KeyDirectory, "d", ".", "Project root that lookups are performed against")
	flags.StringP(project.KeyModuleSystem, "m", "", "Force the JavaScript module system (amd, commonjs, es6)")
	flags.BoolP(project.KeyVerbose, "v", false, "Log resolver decisions to stderr")

	for _, key := range []string{project.KeyConfig, project.KeyDirectory, project.KeyModuleSystem, project.KeyVerbose} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
	viper.SetEnvPrefix("CABINET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(detect.Cmd)
	rootCmd.AddCommand(extensions.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
