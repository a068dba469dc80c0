package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gammascope/pkg/auth"
	"gammascope/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the optional API key",
	Long: `Manage the API key sent as the Authorization header by fetch and download.

The public screenshot endpoint works without a key. Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - ` + auth.APIKeyEnv + ` overrides both`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [profile]",
	Short: "Store an API key securely",
	Example: `  # Interactive login for the default profile
  gammascope auth login

  # Store a second key
  gammascope auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [profile]",
	Short: "Remove a stored API key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored API keys",
	Long:  `List every stored profile with its masked key.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func profileArg(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	return auth.DefaultProfile
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	profile := profileArg(args)
	reader := bufio.NewReader(os.Stdin)

	auth.ShowAPIKeyGuide(os.Stdout)
	fmt.Println()

	if existing, _ := manager.Retrieve(profile); existing != nil {
		fmt.Printf("⚠️  Profile '%s' already has a key. Replace it? (y/N): ", profile)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Print("API key (hidden): ")
	key, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key == "" {
		return errors.New("API key is required")
	}

	if err := manager.Store(&auth.Credential{Profile: profile, APIKey: key}); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("API key saved for profile %s: %s", profile, auth.MaskKey(key)))
	if profile != auth.DefaultProfile {
		fmt.Println("\nUse it with:")
		fmt.Printf("  GAMMASCOPE_PROFILE=%s gammascope fetch\n", profile)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	profile := profileArg(args)

	if err := manager.Delete(profile); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No stored key for profile", profile)
			return nil
		}
		return fmt.Errorf("failed to remove API key: %w", err)
	}
	ui.PrintSuccess("API key removed for profile " + profile)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if key := os.Getenv(auth.APIKeyEnv); key != "" {
		ui.PrintInfo(auth.APIKeyEnv, auth.MaskKey(key))
	}

	creds, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list API keys: %w", err)
	}
	if len(creds) == 0 {
		ui.PrintInfo("No stored keys", "Use 'gammascope auth login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored API Keys")
	fmt.Println()
	for _, c := range creds {
		fmt.Printf("  %s: %s (updated %s)\n", c.Profile, auth.MaskKey(c.APIKey), c.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// readSecret reads a line from stdin without echoing when it is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
