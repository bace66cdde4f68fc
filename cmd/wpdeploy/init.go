package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/artpar/wpdeploy/internal/shell/report"
)

const starterConfigFile = "wpdeploy.yml"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter wpdeploy.yml in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// starterConfig mirrors the file layout LoadConfig reads back.
type starterConfig struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`
	Environments map[string]map[string]string `yaml:"environments"`
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(starterConfigFile); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", starterConfigFile)
	}

	var starter starterConfig
	starter.Log.Level = "info"
	starter.Log.Format = "text"
	starter.Journal.Enabled = true
	starter.Journal.Path = ".wpdeploy/history.db"
	starter.Environments = map[string]map[string]string{
		"local": {
			"path":        "/var/www/site",
			"db_name":     "wordpress",
			"db_user":     "wordpress",
			"db_password": "change-me",
		},
		"production": {
			"host":          "example.com",
			"ssh_user":      "deploy",
			"path":          "/var/www/site",
			"writable_path": "/tmp",
			"exclude":       ".deployignore",
			"post_hook":     "%%remote_shell%% 'wp cache flush --path=%%path%%'",
		},
	}

	data, err := yaml.Marshal(&starter)
	if err != nil {
		return fmt.Errorf("failed to render starter config: %w", err)
	}
	if err := os.WriteFile(starterConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", starterConfigFile, err)
	}

	fmt.Fprintf(os.Stdout, "%s wrote %s, edit the environments before deploying\n",
		report.Success.Render("✓"), starterConfigFile)
	return nil
}
