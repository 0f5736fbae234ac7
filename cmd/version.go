package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/config"
)

// releaseRepository is where release binaries are published
const releaseRepository = "s0up4200/marquee"

var (
	version   = "dev"
	buildTime = "unknown"

	checkLatest bool
)

// ErrDevelopmentBuild is returned when a development build is asked to update itself
var ErrDevelopmentBuild = errors.New("development builds cannot be updated, install a release instead")

// SetVersion sets the version information reported by the version command
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version and optionally check for a newer release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeLogging,
	RunE:              runVersion,
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update marquee to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeLogging,
	RunE:              runUpdate,
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeLogging replaces initializeApp for commands that do not talk to TMDB
func initializeLogging(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{
		Level:  "info",
		Format: "console",
		Color:  isatty.IsTerminal(os.Stderr.Fd()),
	}, false)
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("marquee %s (built %s)\n", version, buildTime)

	if !checkLatest {
		return nil
	}

	current, err := semver.ParseTolerant(version)
	if err != nil {
		fmt.Println("Development build, skipping update check")
		return nil
	}

	latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		fmt.Println("No release found for this platform")
		return nil
	}

	latestVersion, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("invalid release version %q: %w", latest.Version(), err)
	}

	if !current.LT(latestVersion) {
		fmt.Println("You are running the latest version")
		return nil
	}

	fmt.Printf("A newer version is available: %s (released %s)\n", latest.Version(), latest.PublishedAt.Format("2006-01-02"))
	fmt.Printf("Run 'marquee update' or download it from %s\n", latest.URL)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if _, err := semver.ParseTolerant(version); err != nil {
		return ErrDevelopmentBuild
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	logger.Debug().Str("path", exe).Str("current", version).Msg("Checking for update")

	release, err := selfupdate.UpdateSelf(cmd.Context(), version, selfupdate.ParseSlug(releaseRepository))
	if err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	if release.LessOrEqual(version) {
		fmt.Printf("marquee %s is already the latest version\n", version)
		return nil
	}

	logger.Info().Str("version", release.Version()).Msg("Updated marquee")
	fmt.Printf("Updated to %s\n", release.Version())
	return nil
}
