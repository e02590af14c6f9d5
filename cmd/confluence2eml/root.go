/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config  string
	Verbose bool

	PageURL    string
	OutputPath string

	AuthUser  string
	AuthToken string

	FromAddr string
	ToAddr   string

	WithVCR bool

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "confluence2eml",
	Short: "Convert a Confluence page to a self-contained .eml file",
	Long: `
Export one Confluence wiki page to an email file (.EML) that renders properly in
Outlook and friends: Markdown is converted to HTML, sanitized, styled with
inlined CSS, and the page's images are downloaded and embedded as inline
attachments.  The intermediate Markdown is written next to the .eml.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// You can bind cobra and viper in a few locations, but PersistentPreRunE on the root command works well
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("confluence2eml: failed to initialise config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context())
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/confluence2eml.yaml, respects CONFLUENCE2EML_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "display debug output")

	rootCmd.Flags().StringVar(&PageURL, "url", "", "full Confluence page URL to export")
	rootCmd.Flags().StringVar(&OutputPath, "output", "", "filepath for the final .eml file")
	rootCmd.Flags().StringVar(&AuthUser, "user", "", "Confluence email address (or set CONFLUENCE_USER)")
	rootCmd.Flags().StringVar(&AuthToken, "token", "", "Confluence API token (or set CONFLUENCE_TOKEN)")
	rootCmd.Flags().StringVar(&FromAddr, "from", "", "From address for the generated message")
	rootCmd.Flags().StringVar(&ToAddr, "to", "", "To address for the generated message")
	rootCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")

	cobra.CheckErr(rootCmd.MarkFlagRequired("url"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("output"))
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := Config != ""
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("CONFLUENCE2EML_CONFIG")
		if envConfig != "" {
			Config = envConfig
			explicit = true
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/confluence2eml.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("confluence2eml: unable to expand homedir: %w", err)
	}
	Config = config

	if _, err := os.Stat(Config); errors.Is(err, os.ErrNotExist) {
		if explicit {
			return fmt.Errorf("confluence2eml: specified config file does not exist: %w", err)
		}
		// No config file is fine; flags and env vars cover everything.
		return nil
	}

	yamlFile, err := os.ReadFile(Config)
	if err != nil {
		return fmt.Errorf("confluence2eml: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("confluence2eml: issue parsing config file: %w", err)
	}

	// Bind the current command's flags to the parsed YAML
	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("confluence2eml: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	WithVCR *bool `yaml:"with-vcr"`
	Verbose *bool `yaml:"verbose"`

	AuthUser  string `yaml:"user"`
	AuthToken string `yaml:"token"`
	FromAddr  string `yaml:"from"`
	ToAddr    string `yaml:"to"`
}

// Bind each cobra flag to its associated config file entry
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("confluence2eml: could not retrieve struct tag 'yaml'")
		}
		flag := cmd.Flags().Lookup(key)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(key)
		}
		if flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if
			// you're running e.g. `version` which defines none of these.
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				// err, this is crappy, but i know YamlConfig only uses pointers for bools.....
				b, ok := field.Value().(*bool)
				if !ok {
					return fmt.Errorf("confluence2eml: found unrecognised field: %+v", field)
				}
				if b != nil {
					flag.Value.Set(fmt.Sprintf("%v", *b))
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("confluence2eml: found unrecognised field: %+v", field)
				}
				if s != "" {
					flag.Value.Set(s)
				}

			default:
				return fmt.Errorf("confluence2eml: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Interruption (Ctrl-C, SIGTERM) cancels the context; in-flight stages
	// return an error and the process exits non-zero.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("confluence2eml: execution error: %w", err)
	}

	return nil
}
