// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/temirov/treesnap/internal/commands"
	"github.com/temirov/treesnap/internal/config"
	"github.com/temirov/treesnap/internal/filter"
	"github.com/temirov/treesnap/internal/output"
	"github.com/temirov/treesnap/internal/services/clipboard"
	"github.com/temirov/treesnap/internal/services/scheduler"
	"github.com/temirov/treesnap/internal/tokenizer"
	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

const (
	exclusionFlagName   = "e"
	noGitignoreFlagName = "no-gitignore"
	noIgnoreFlagName    = "no-ignore"
	includeGitFlagName  = "git"
	formatFlagName      = "format"
	summaryFlagName     = "summary"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	copyFlagName        = "copy"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"
	versionTemplate     = "treesnap version: %s\n"
	defaultPath         = "."

	rootUse              = "treesnap"
	rootShortDescription = "treesnap command line interface"
	rootLongDescription  = `treesnap builds immutable directory-tree snapshots.
It walks one or more roots in the background, filters ignored paths, and
renders the resulting trees. Use --format to select raw, json, or xml output
and --version to print the application version.`

	snapUse              = types.CommandSnap + " [paths...]"
	snapAlias            = "s"
	snapShortDescription = "build directory snapshots (" + snapAlias + ")"
	snapLongDescription  = `Build a snapshot of each provided path and render the trees.
Use --format to select raw, json, or xml output.`
	snapUsageExample = `  # Render a snapshot of the working directory
  treesnap snap

  # Exclude the vendor directory and render as raw text
  treesnap snap --format raw -e vendor/ .

  # Snapshot two roots concurrently with token counts
  treesnap snap --tokens ./cmd ./internal`

	configUse                  = "config"
	configShortDescription     = "manage treesnap configuration"
	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"

	versionFlagDescription          = "display application version"
	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription       = "include git directory"
	formatFlagDescription           = "output format"
	summaryFlagDescription          = "include aggregate summaries on directories"
	tokensFlagDescription           = "include token counts"
	modelFlagDescription            = "tokenizer model to use for token counting"
	copyFlagDescription             = "copy rendered output to the clipboard"
	globalFlagDescription           = "initialize the global configuration"
	forceFlagDescription            = "overwrite an existing configuration file"

	defaultTokenizerModelName = "gpt-4o"
	invalidFormatMessage      = "invalid format value '%s'"
	warningSkipPathFormat     = "Warning: skipping %s: %v\n"
	warningBuildFormat        = "Warning: %s\n"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
	// errorUnknownRootFormat reports a snapshot request for an unprepared root.
	errorUnknownRootFormat = "no prepared builder for root %s"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the treesnap application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createSnapCommand(),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	command.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	command.Flags().BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	command.Flags().BoolVar(&options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
}

// createSnapCommand returns the snap subcommand.
func createSnapCommand() *cobra.Command {
	var pathConfiguration pathOptions
	var outputFormat string
	var includeSummary bool
	var tokensEnabled bool
	var tokenModel string
	var copyToClipboard bool

	snapCommand := &cobra.Command{
		Use:     snapUse,
		Aliases: []string{snapAlias},
		Short:   snapShortDescription,
		Long:    snapLongDescription,
		Example: snapUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf("unable to determine working directory: %w", workingDirectoryError)
			}

			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
			})
			if configurationError != nil {
				return configurationError
			}
			snapConfiguration := applicationConfiguration.Snap

			if !command.Flags().Changed(formatFlagName) && snapConfiguration.Format != "" {
				outputFormat = snapConfiguration.Format
			}
			if !isSupportedFormat(outputFormat) {
				return fmt.Errorf(invalidFormatMessage, outputFormat)
			}
			if !command.Flags().Changed(summaryFlagName) && snapConfiguration.Summary != nil {
				includeSummary = *snapConfiguration.Summary
			}
			if !command.Flags().Changed(tokensFlagName) && snapConfiguration.Tokens.Enabled != nil {
				tokensEnabled = *snapConfiguration.Tokens.Enabled
			}
			if !command.Flags().Changed(modelFlagName) && snapConfiguration.Tokens.Model != "" {
				tokenModel = snapConfiguration.Tokens.Model
			}
			if !command.Flags().Changed(copyFlagName) && snapConfiguration.Clipboard != nil {
				copyToClipboard = *snapConfiguration.Clipboard
			}
			if !command.Flags().Changed(noGitignoreFlagName) && snapConfiguration.Paths.UseGitignore != nil {
				pathConfiguration.disableGitignore = !*snapConfiguration.Paths.UseGitignore
			}
			if !command.Flags().Changed(noIgnoreFlagName) && snapConfiguration.Paths.UseIgnoreFile != nil {
				pathConfiguration.disableIgnoreFile = !*snapConfiguration.Paths.UseIgnoreFile
			}
			if !command.Flags().Changed(includeGitFlagName) && snapConfiguration.Paths.IncludeGit != nil {
				pathConfiguration.includeGit = *snapConfiguration.Paths.IncludeGit
			}
			pathConfiguration.exclusionPatterns = append(pathConfiguration.exclusionPatterns, snapConfiguration.Paths.Exclude...)

			var tokenCounter tokenizer.Counter
			if tokensEnabled {
				counter, effectiveModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: tokenModel})
				if counterError != nil {
					return counterError
				}
				tokenCounter = counter
				tokenModel = effectiveModel
			}

			snapshots, runError := runSnapshots(arguments, pathConfiguration, tokenCounter, tokenModel, includeSummary)
			if runError != nil {
				return runError
			}

			rendered, renderError := renderSnapshots(snapshots, outputFormat, includeSummary, tokenModel)
			if renderError != nil {
				return renderError
			}
			fmt.Println(rendered)

			if copyToClipboard {
				if copyError := clipboard.NewService().Copy(rendered); copyError != nil {
					fmt.Fprintf(os.Stderr, warningBuildFormat, "clipboard copy failed: "+copyError.Error())
				}
			}
			return nil
		},
	}

	addPathFlags(snapCommand, &pathConfiguration)
	snapCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatJSON, formatFlagDescription)
	snapCommand.Flags().BoolVar(&includeSummary, summaryFlagName, true, summaryFlagDescription)
	snapCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	snapCommand.Flags().StringVar(&tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	snapCommand.Flags().BoolVar(&copyToClipboard, copyFlagName, false, copyFlagDescription)
	return snapCommand
}

// preparedBuilders routes snapshot requests to the builder prepared for each root.
type preparedBuilders map[string]*commands.TreeBuilder

// Snapshot delegates to the builder prepared for rootPath.
func (builders preparedBuilders) Snapshot(rootPath string) (*types.Snapshot, error) {
	treeBuilder, known := builders[rootPath]
	if !known {
		return nil, fmt.Errorf(errorUnknownRootFormat, rootPath)
	}
	return treeBuilder.Snapshot(rootPath)
}

// runSnapshots validates the requested paths, prepares one builder per root,
// and collects one snapshot per valid root through the scheduler. Results are
// returned in request order regardless of build completion order.
func runSnapshots(
	arguments []string,
	pathConfiguration pathOptions,
	tokenCounter tokenizer.Counter,
	tokenModel string,
	includeSummary bool,
) ([]*types.Snapshot, error) {
	requestedPaths := arguments
	if len(requestedPaths) == 0 {
		requestedPaths = []string{defaultPath}
	}

	warn := func(message string) {
		fmt.Fprintf(os.Stderr, warningBuildFormat, message)
	}

	builders := preparedBuilders{}
	var validRoots []string
	for _, requestedPath := range requestedPaths {
		absolutePath, absoluteError := filepath.Abs(requestedPath)
		if absoluteError != nil {
			fmt.Fprintf(os.Stderr, warningSkipPathFormat, requestedPath, absoluteError)
			continue
		}
		if _, statError := os.Stat(absolutePath); statError != nil {
			fmt.Fprintf(os.Stderr, warningSkipPathFormat, requestedPath, fmt.Errorf(errorPathMissingFormat, requestedPath))
			continue
		}
		if _, alreadyRequested := builders[absolutePath]; alreadyRequested {
			continue
		}

		ignorePatterns, patternsError := config.LoadCombinedIgnorePatterns(
			absolutePath,
			pathConfiguration.exclusionPatterns,
			!pathConfiguration.disableGitignore,
			!pathConfiguration.disableIgnoreFile,
			pathConfiguration.includeGit,
		)
		if patternsError != nil {
			return nil, patternsError
		}
		patternFilter, filterError := filter.NewPatternFilter(ignorePatterns)
		if filterError != nil {
			return nil, filterError
		}

		builders[absolutePath] = &commands.TreeBuilder{
			Filter:         patternFilter,
			IncludeSummary: includeSummary,
			TokenCounter:   tokenCounter,
			TokenModel:     tokenModel,
			Warn:           warn,
		}
		validRoots = append(validRoots, absolutePath)
	}
	if len(validRoots) == 0 {
		return nil, errors.New(errorNoValidPaths)
	}

	collected := make(map[string]*types.Snapshot, len(validRoots))
	collectingSink := scheduler.SinkFunc(func(snapshot *types.Snapshot) {
		collected[snapshot.Root] = snapshot
	})

	snapshotScheduler := scheduler.NewScheduler(builders, scheduler.Options{
		MaxConcurrentBuilds: runtime.NumCPU(),
		Warn:                warn,
	})
	for _, rootPath := range validRoots {
		if requestError := snapshotScheduler.RequestSnapshot(rootPath, collectingSink); requestError != nil {
			fmt.Fprintf(os.Stderr, warningSkipPathFormat, rootPath, requestError)
		}
	}
	snapshotScheduler.Close()

	snapshots := make([]*types.Snapshot, 0, len(validRoots))
	for _, rootPath := range validRoots {
		if snapshot, delivered := collected[rootPath]; delivered {
			snapshots = append(snapshots, snapshot)
		}
	}
	return snapshots, nil
}

// renderSnapshots renders the snapshots in the requested format.
func renderSnapshots(snapshots []*types.Snapshot, outputFormat string, includeSummary bool, tokenModel string) (string, error) {
	switch outputFormat {
	case types.FormatJSON:
		return output.RenderSnapshotsJSON(snapshots)
	case types.FormatXML:
		return output.RenderSnapshotsXML(snapshots)
	default:
		rendered := output.RenderSnapshotsRaw(snapshots, includeSummary)
		if includeSummary {
			summaryLine := output.FormatSummaryLine(output.ComputeSummary(snapshots, tokenModel))
			rendered = summaryLine + "\n" + rendered
		}
		return rendered, nil
	}
}

// createConfigCommand returns the config subcommand tree.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}

	var initializeGlobal bool
	var forceOverwrite bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if initializeGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf("wrote configuration to %s\n", writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&initializeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)

	configCommand.AddCommand(initCommand)
	return configCommand
}
