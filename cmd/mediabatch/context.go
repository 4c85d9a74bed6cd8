package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediabatch/internal/config"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	dryRun     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, verbose, dryRun *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		dryRun:     dryRun,
	}
}

// ensureConfig loads the configuration once. Directory checks are left to
// the commands because flags may still override paths.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Verbose = true
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) isDryRun() bool {
	return c.dryRun != nil && *c.dryRun
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
